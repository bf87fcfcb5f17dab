package cart

import (
	"context"
	"sync"
)

// Store persists cart ledgers keyed by profile. LastIdentity returns the
// identity that last wrote the slot, or empty when the slot is fresh.
type Store interface {
	Load(ctx context.Context, profileID string) ([]LineItem, error)
	Save(ctx context.Context, profileID string, items []LineItem) error
	LastIdentity(ctx context.Context, profileID string) (string, error)
	SetIdentity(ctx context.Context, profileID, identity string) error
}

// MemoryStore keeps cart slots in process memory. It backs tests and local
// runs without Redis; carts evaporate on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	slots      map[string][]LineItem
	identities map[string]string
}

// NewMemoryStore builds an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots:      make(map[string][]LineItem),
		identities: make(map[string]string),
	}
}

func (s *MemoryStore) Load(ctx context.Context, profileID string) ([]LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.slots[profileID]
	out := make([]LineItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, profileID string, items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]LineItem, len(items))
	copy(stored, items)
	s.slots[profileID] = stored
	return nil
}

func (s *MemoryStore) LastIdentity(ctx context.Context, profileID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identities[profileID], nil
}

func (s *MemoryStore) SetIdentity(ctx context.Context, profileID, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[profileID] = identity
	return nil
}

package cart

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

// ManagerParams groups dependencies for the ledger manager.
type ManagerParams struct {
	Store  Store
	Logger *logger.Logger
}

// Manager hands out one Ledger per profile and enforces the identity rule:
// when a profile opens its cart under a different identity than the one that
// last wrote it, the cart resets to empty before any reads.
type Manager struct {
	store Store
	logg  *logger.Logger

	mu        sync.Mutex
	ledgers   map[string]*Ledger
	listeners []Listener
}

// NewManager builds a ledger manager backed by the provided store.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Manager{
		store:   params.Store,
		logg:    params.Logger,
		ledgers: make(map[string]*Ledger),
	}, nil
}

// Subscribe registers a listener applied to every ledger the manager opens.
// Existing ledgers pick it up too.
func (m *Manager) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
	for _, ledger := range m.ledgers {
		ledger.Subscribe(fn)
	}
}

// Open returns the ledger for the profile, loading persisted lines on first
// access. The identity is the signed-in user ID, or empty for guests; a
// change in either direction wipes the cart.
func (m *Manager) Open(ctx context.Context, profileID, identity string) (*Ledger, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}

	last, err := m.store.LastIdentity(ctx, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart identity")
	}

	m.mu.Lock()
	ledger, cached := m.ledgers[profileID]
	if !cached {
		ledger = &Ledger{
			profileID: profileID,
			store:     m.store,
			logg:      m.logg,
			listeners: append([]Listener(nil), m.listeners...),
		}
		m.ledgers[profileID] = ledger
	}
	m.mu.Unlock()

	if last != identity {
		ledger.reset(ctx)
		if err := m.store.SetIdentity(ctx, profileID, identity); err != nil {
			m.logg.Error(m.logg.WithProfileID(ctx, profileID), "recording cart identity", err)
		}
		return ledger, nil
	}

	if !cached {
		items, err := m.store.Load(ctx, profileID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart ledger")
		}
		ledger.mu.Lock()
		ledger.items = items
		ledger.mu.Unlock()
	}
	return ledger, nil
}

// reset wipes the ledger and announces it as a reset rather than a clear.
func (l *Ledger) reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.persist(ctx)
	l.notify(OpReset, "")
}

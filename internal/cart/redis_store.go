package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
)

type slotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type slotKeyer interface {
	CartKey(profileID string) string
	CartIdentityKey(profileID string) string
}

// RedisStore persists cart slots as JSON blobs under the namespaced cart keys.
// Each write refreshes the slot TTL so active carts never expire mid-session.
type RedisStore struct {
	store slotStore
	keyer slotKeyer
	ttl   time.Duration
}

// RedisStoreParams groups dependencies for the Redis-backed cart store.
type RedisStoreParams struct {
	Client interface {
		slotStore
		slotKeyer
	}
	SlotTTL time.Duration
}

// NewRedisStore builds a cart store on the shared Redis client.
func NewRedisStore(params RedisStoreParams) (*RedisStore, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	if params.SlotTTL <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart slot ttl must be positive")
	}
	return &RedisStore{
		store: params.Client,
		keyer: params.Client,
		ttl:   params.SlotTTL,
	}, nil
}

func (s *RedisStore) Load(ctx context.Context, profileID string) ([]LineItem, error) {
	raw, err := s.store.Get(ctx, s.keyer.CartKey(profileID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding cart slot")
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, profileID string, items []LineItem) error {
	if len(items) == 0 {
		return s.store.Del(ctx, s.keyer.CartKey(profileID))
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart slot")
	}
	return s.store.Set(ctx, s.keyer.CartKey(profileID), string(raw), s.ttl)
}

func (s *RedisStore) LastIdentity(ctx context.Context, profileID string) (string, error) {
	identity, err := s.store.Get(ctx, s.keyer.CartIdentityKey(profileID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", nil
		}
		return "", err
	}
	return identity, nil
}

func (s *RedisStore) SetIdentity(ctx context.Context, profileID, identity string) error {
	return s.store.Set(ctx, s.keyer.CartIdentityKey(profileID), identity, s.ttl)
}

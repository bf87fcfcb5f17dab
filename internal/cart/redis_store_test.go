package cart

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRedis struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockRedis() *mockRedis {
	return &mockRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *mockRedis) Get(ctx context.Context, key string) (string, error) {
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockRedis) CartKey(profileID string) string { return "luma:cart:" + profileID }
func (m *mockRedis) CartIdentityKey(profileID string) string {
	return "luma:cart_identity:" + profileID
}

func newTestRedisStore(t *testing.T, client *mockRedis) *RedisStore {
	t.Helper()
	store, err := NewRedisStore(RedisStoreParams{Client: client, SlotTTL: 30 * 24 * time.Hour})
	require.NoError(t, err)
	return store
}

func TestRedisStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	client := newMockRedis()
	store := newTestRedisStore(t, client)

	items := []LineItem{
		{ID: "p-1", Slug: "kopi-gayo", Name: "Kopi Gayo 250g", UnitPrice: 85_000, Quantity: 2},
		{ID: "p-2", Slug: "teh-melati", Name: "Teh Melati", UnitPrice: 40_000, Quantity: 1},
	}
	require.NoError(t, store.Save(ctx, "profile-1", items))
	assert.Equal(t, 30*24*time.Hour, client.ttls["luma:cart:profile-1"])

	loaded, err := store.Load(ctx, "profile-1")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestRedisStoreEmptySaveDeletesSlot(t *testing.T) {
	ctx := context.Background()
	client := newMockRedis()
	store := newTestRedisStore(t, client)

	require.NoError(t, store.Save(ctx, "profile-1", []LineItem{{ID: "p-1", Quantity: 1}}))
	require.NoError(t, store.Save(ctx, "profile-1", nil))

	_, exists := client.data["luma:cart:profile-1"]
	assert.False(t, exists)

	loaded, err := store.Load(ctx, "profile-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRedisStoreLoadMissingSlotIsEmpty(t *testing.T) {
	store := newTestRedisStore(t, newMockRedis())
	loaded, err := store.Load(context.Background(), "profile-404")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRedisStoreLoadRejectsCorruptSlot(t *testing.T) {
	client := newMockRedis()
	client.data["luma:cart:profile-1"] = "{not json"
	store := newTestRedisStore(t, client)

	_, err := store.Load(context.Background(), "profile-1")
	assert.Error(t, err)
}

func TestRedisStoreIdentityRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t, newMockRedis())

	identity, err := store.LastIdentity(ctx, "profile-1")
	require.NoError(t, err)
	assert.Empty(t, identity)

	require.NoError(t, store.SetIdentity(ctx, "profile-1", "user-7"))

	identity, err = store.LastIdentity(ctx, "profile-1")
	require.NoError(t, err)
	assert.Equal(t, "user-7", identity)
}

func TestNewRedisStoreValidatesParams(t *testing.T) {
	_, err := NewRedisStore(RedisStoreParams{Client: newMockRedis(), SlotTTL: 0})
	assert.Error(t, err)
}

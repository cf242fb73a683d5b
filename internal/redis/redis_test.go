package redis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billiard/internal/domain"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestLockStore_TryAcquire(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewLockStore(client)

	token, ok, err := store.TryAcquire(ctx, "lock:test", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = store.TryAcquire(ctx, "lock:test", time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while held")

	mr.FastForward(2 * time.Second)

	_, ok, err = store.TryAcquire(ctx, "lock:test", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "lock expires after ttl")
}

func TestLockStore_ReleaseRequiresOwnerToken(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	store := NewLockStore(client)

	token, ok, err := store.TryAcquire(ctx, "lock:test", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, store.Release(ctx, "lock:test", "someone-else"), ErrLockNotHeld)
	require.NoError(t, store.Release(ctx, "lock:test", token))

	_, ok, err = store.TryAcquire(ctx, "lock:test", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockStore_AcquireHonorsContext(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewLockStore(client)

	_, ok, err := store.TryAcquire(context.Background(), "lock:test", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err = store.Acquire(ctx, "lock:test", time.Minute, 10*time.Millisecond)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDocumentLock_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	lock := NewDocumentLock(client, 0)

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(DocumentLockKey))

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(DocumentLockKey))
}

func TestCacheStore_Orders(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	cache := NewCacheStore(client, time.Minute)

	got, err := cache.GetOrder(ctx, "ord_1")
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil")

	order := &domain.Order{
		ID:        "ord_1",
		TableNo:   3,
		SessionID: "sess_1",
		CreatedAt: time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC),
		Lines: []domain.OrderLine{
			{Kind: domain.LineKindTime, Name: "Table time (45 min)", Qty: 1, UnitPrice: 37500, Amount: 37500},
		},
		Subtotal: 37500,
		Total:    37500,
		Payment:  domain.Payment{Method: domain.PaymentMethodCard},
	}
	require.NoError(t, cache.SetOrder(ctx, order))

	got, err = cache.GetOrder(ctx, "ord_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.Total, got.Total)
	assert.Equal(t, order.Lines, got.Lines)
	assert.True(t, order.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, cache.SetOrdersBatch(ctx, []*domain.Order{{ID: "ord_2"}, {ID: "ord_3"}}))
	assert.True(t, mr.Exists(orderCachePrefix+"ord_2"))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(orderCachePrefix+"ord_3"))
}

func TestCacheStore_SetOrdersBatchRejectsUnencodableOrder(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	cache := NewCacheStore(client, time.Minute)

	err := cache.SetOrdersBatch(ctx, []*domain.Order{{ID: "ord_1"}, {ID: "ord_2", TaxRatePct: math.NaN()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ord_2")
	assert.False(t, mr.Exists(orderCachePrefix+"ord_1"))

	require.NoError(t, cache.SetOrdersBatch(ctx, nil))
}

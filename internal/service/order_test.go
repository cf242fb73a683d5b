package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billiard/internal/domain"
	"billiard/internal/engine"
)

type mapCache struct {
	orders   map[string]*domain.Order
	gets     int
	batches  int
	getErr   error
	batchErr error
}

func (c *mapCache) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.orders[orderID], nil
}

func (c *mapCache) SetOrder(ctx context.Context, order *domain.Order) error {
	c.orders[order.ID] = order
	return nil
}

func (c *mapCache) SetOrdersBatch(ctx context.Context, orders []*domain.Order) error {
	c.batches++
	if c.batchErr != nil {
		return c.batchErr
	}
	for _, o := range orders {
		c.orders[o.ID] = o
	}
	return nil
}

func checkedOutOrder(t *testing.T, f *fixture) *domain.Order {
	t.Helper()
	ctx := context.Background()

	session, _, err := f.sessions.Start(ctx, 5)
	require.NoError(t, err)
	f.clock.Advance(40 * time.Minute)
	_, err = f.sessions.AddExtra(ctx, session.ID, engine.ExtraInput{Name: "Tea", Price: 10000, Qty: 2})
	require.NoError(t, err)

	result, err := f.sessions.Checkout(ctx, engine.CheckoutInput{SessionID: session.ID, CashGiven: 100000})
	require.NoError(t, err)
	return result.Order
}

func TestOrderService_GetUsesCache(t *testing.T) {
	f := newFixture(t)
	order := checkedOutOrder(t, f)

	cache := &mapCache{orders: map[string]*domain.Order{}}
	svc := NewOrderService(f.tx, cache, nil, quietLogger())

	detail, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, detail.Order.Total)
	assert.Contains(t, cache.orders, order.ID, "miss fills the cache")

	cache.orders[order.ID] = &domain.Order{ID: order.ID, Total: 1}
	detail, err = svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Order.Total, "hit is served from cache")
	assert.Equal(t, 2, cache.gets)
}

func TestOrderService_CacheErrorFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	order := checkedOutOrder(t, f)

	cache := &mapCache{orders: map[string]*domain.Order{}, getErr: errors.New("redis down")}
	svc := NewOrderService(f.tx, cache, nil, quietLogger())

	detail, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, detail.Order.ID)
}

func TestOrderService_NotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.tx, nil, nil, quietLogger())

	_, err := svc.Get(context.Background(), "ord_missing")
	assert.ErrorIs(t, err, engine.ErrOrderNotFound)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestOrderService_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	first := checkedOutOrder(t, f)
	second := checkedOutOrder(t, f)

	orders, err := NewOrderService(f.tx, nil, nil, quietLogger()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestReceiptService_FormatReceipt(t *testing.T) {
	f := newFixture(t)
	_, err := f.settings.Update(context.Background(), map[string]any{
		"shop_address": "12 Le Loi",
		"tax_rate_pct": 10.0,
	})
	require.NoError(t, err)
	order := checkedOutOrder(t, f)

	receipts := NewReceiptService().WithLocation(time.UTC)
	svc := NewOrderService(f.tx, nil, receipts, quietLogger())

	text, err := svc.Receipt(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Contains(t, text, "Crown Billiard")
	assert.Contains(t, text, "12 Le Loi")
	assert.Contains(t, text, "Table: 5")
	assert.Contains(t, text, "01/03/2025 18:40")
	assert.Contains(t, text, "Table time (45 min)")
	assert.Contains(t, text, "Tea x2")
	assert.Contains(t, text, "Tax (10%)")
	assert.Contains(t, text, "63.250 ₫")
	assert.Contains(t, text, "Payment: CASH")
	assert.Contains(t, text, "36.750 ₫")
	assert.Equal(t, 1, strings.Count(text, "Tax (10%)"))
}

func TestReceiptService_Money(t *testing.T) {
	r := NewReceiptService()

	assert.Equal(t, "0 ₫", r.Money(0))
	assert.Equal(t, "1.250.000 ₫", r.Money(1250000))
}

func TestOrderService_ListWarmsCache(t *testing.T) {
	f := newFixture(t)
	order := checkedOutOrder(t, f)

	cache := &mapCache{orders: map[string]*domain.Order{}}
	svc := NewOrderService(f.tx, cache, nil, quietLogger())

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 1, cache.batches)
	assert.Contains(t, cache.orders, order.ID)

	detail, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Same(t, cache.orders[order.ID], detail.Order, "served from the warmed cache")
}

func TestOrderService_ListIgnoresCacheFailure(t *testing.T) {
	f := newFixture(t)
	checkedOutOrder(t, f)

	cache := &mapCache{orders: map[string]*domain.Order{}, batchErr: errors.New("redis down")}
	svc := NewOrderService(f.tx, cache, nil, quietLogger())

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_ListEmptySkipsCache(t *testing.T) {
	f := newFixture(t)
	cache := &mapCache{orders: map[string]*domain.Order{}}
	svc := NewOrderService(f.tx, cache, nil, quietLogger())

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 0, cache.batches)
}

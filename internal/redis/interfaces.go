package redis

import (
	"context"

	"billiard/internal/domain"
)

// DocumentLocker defines the interface for the cross-process document lock.
type DocumentLocker interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

// OrderCacheInterface defines the interface for order caching.
type OrderCacheInterface interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	SetOrder(ctx context.Context, order *domain.Order) error
	SetOrdersBatch(ctx context.Context, orders []*domain.Order) error
}

// Ensure concrete types implement interfaces.
var (
	_ DocumentLocker      = (*DocumentLock)(nil)
	_ OrderCacheInterface = (*CacheStore)(nil)
)

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"billiard/internal/domain"
)

// DefaultOrderCacheTTL applies when no TTL is configured.
// Orders are immutable once written, so entries only expire to bound memory.
const DefaultOrderCacheTTL = 10 * time.Minute

const orderCachePrefix = "cache:order:"

// CacheStore handles order caching in Redis.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultOrderCacheTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetOrder retrieves an order from cache. A miss returns nil, nil.
func (s *CacheStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	data, err := s.client.Get(ctx, orderCachePrefix+orderID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SetOrder stores an order in cache.
func (s *CacheStore) SetOrder(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, orderCachePrefix+order.ID, data, s.ttl).Err()
}

// SetOrdersBatch stores multiple orders using a pipeline.
func (s *CacheStore) SetOrdersBatch(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, order := range orders {
		data, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("marshal order %s: %w", order.ID, err)
		}
		pipe.Set(ctx, orderCachePrefix+order.ID, data, s.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DocumentLockKey guards the shop document across server instances.
const DocumentLockKey = "lock:pos:document"

// Lock defaults.
const (
	DefaultLockTTL   = 5 * time.Second
	DefaultLockRetry = 25 * time.Millisecond
)

// ErrLockNotHeld is returned when releasing a lock owned by someone else.
var ErrLockNotHeld = errors.New("lock not held")

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// TryAcquire attempts to take key once.
// Returns the owner token and true if the lock was acquired, false if already held.
func (s *LockStore) TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}

	return token, ok, nil
}

// Acquire polls until key is taken or ctx is done.
func (s *LockStore) Acquire(ctx context.Context, key string, ttl, retry time.Duration) (string, error) {
	if retry <= 0 {
		retry = DefaultLockRetry
	}

	for {
		token, ok, err := s.TryAcquire(ctx, key, ttl)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("acquire %s: %w", key, ctx.Err())
		case <-time.After(retry):
		}
	}
}

// Release drops key if token still owns it.
func (s *LockStore) Release(ctx context.Context, key, token string) error {
	n, err := releaseScript.Run(ctx, s.client, []string{key}, token).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// DocumentLock serializes document mutations between processes.
type DocumentLock struct {
	store *LockStore
	key   string
	ttl   time.Duration
	retry time.Duration
}

// NewDocumentLock creates a DocumentLock on DocumentLockKey.
func NewDocumentLock(client *redis.Client, ttl time.Duration) *DocumentLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &DocumentLock{
		store: NewLockStore(client),
		key:   DocumentLockKey,
		ttl:   ttl,
		retry: DefaultLockRetry,
	}
}

// Acquire blocks until the document lock is held and returns its release func.
func (l *DocumentLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token, err := l.store.Acquire(ctx, l.key, l.ttl, l.retry)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		return l.store.Release(ctx, l.key, token)
	}, nil
}

package work

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/contalink/erp-sync-service/common/redis"
)

const (
	batchLockKeyPrefix = "sync:batch:"
	runningState       = "running"
	// batchLockTTL bounds how long a batch is considered running. Batches
	// that died without releasing the lock stop blocking new runs after it.
	batchLockTTL = 1 * time.Hour
)

// ErrBatchAlreadyRunning is returned when a batch is requested for a company
// that already has one in flight.
var ErrBatchAlreadyRunning = errors.New("a batch for this company is already running")

// RunLocker guards against overlapping batch passes for the same company.
type RunLocker interface {
	// Acquire takes the per-company batch lock
	Acquire(ctx context.Context, companyCode int) error

	// Release frees the per-company batch lock
	Release(ctx context.Context, companyCode int) error

	// IsRunning checks whether a batch currently holds the lock
	IsRunning(ctx context.Context, companyCode int) (bool, error)
}

// RedisRunLocker implements RunLocker on Redis SetNX.
type RedisRunLocker struct {
	redis *redis.RedisClient
}

// NewRedisRunLocker creates a new RedisRunLocker
func NewRedisRunLocker(client *redis.RedisClient) *RedisRunLocker {
	return &RedisRunLocker{
		redis: client,
	}
}

func batchLockKey(companyCode int) string {
	return fmt.Sprintf("%s%d", batchLockKeyPrefix, companyCode)
}

// Acquire takes the lock for one company, failing when it is already held
func (l *RedisRunLocker) Acquire(ctx context.Context, companyCode int) error {
	ok, err := l.redis.SetNX(ctx, batchLockKey(companyCode), runningState, batchLockTTL)
	if err != nil {
		return fmt.Errorf("acquiring batch lock for company %d: %w", companyCode, err)
	}
	if !ok {
		return ErrBatchAlreadyRunning
	}
	return nil
}

// Release frees the lock for one company
func (l *RedisRunLocker) Release(ctx context.Context, companyCode int) error {
	if err := l.redis.Delete(ctx, batchLockKey(companyCode)); err != nil {
		return fmt.Errorf("releasing batch lock for company %d: %w", companyCode, err)
	}
	return nil
}

// IsRunning checks whether a batch currently holds the company's lock
func (l *RedisRunLocker) IsRunning(ctx context.Context, companyCode int) (bool, error) {
	state, err := l.redis.Get(ctx, batchLockKey(companyCode))
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("reading batch lock for company %d: %w", companyCode, err)
	}
	return state == runningState, nil
}

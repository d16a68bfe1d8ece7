package redis

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/iho/goaccount/internal/usecase"
)

const (
	breakerFailureThreshold = 3
	breakerOpenTimeout      = 30 * time.Second
)

// BreakerCache guards a usecase.Cache with a circuit breaker. While the
// breaker is open, calls fail fast with gobreaker.ErrOpenState instead of
// waiting on an unreachable Redis. Cache misses do not count as failures.
type BreakerCache struct {
	next usecase.Cache
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerCache wraps next with a breaker that opens after consecutive failures.
func NewBreakerCache(next usecase.Cache, logger zerolog.Logger) *BreakerCache {
	st := gobreaker.Settings{
		Name:    "statement-cache",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, usecase.ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
	return &BreakerCache{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

// State returns the current breaker state.
func (c *BreakerCache) State() gobreaker.State {
	return c.cb.State()
}

// Get retrieves a value by key through the breaker.
func (c *BreakerCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.cb.Execute(func() (any, error) {
		return c.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

// Set stores a value with TTL through the breaker.
func (c *BreakerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.next.Set(ctx, key, value, ttl)
	})
	return err
}

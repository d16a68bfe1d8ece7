package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/goaccount/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// OutboxRepository defines storage for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ErrIdempotencyInProgress is returned when another request holds the key.
var ErrIdempotencyInProgress = errors.New("idempotent request in progress")

// StoredResponse is a completed response kept for replay.
type StoredResponse struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// Reserve claims key for a new request. It returns (nil, nil) when the
	// claim succeeded, the stored response when the key already completed, or
	// ErrIdempotencyInProgress while another request holds it.
	Reserve(ctx context.Context, key string, ttl time.Duration) (*StoredResponse, error)
	// Complete stores the final response for key.
	Complete(ctx context.Context, key string, response StoredResponse, ttl time.Duration) error
	// Release drops the claim so the request can be retried.
	Release(ctx context.Context, key string) error
}

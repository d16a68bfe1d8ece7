package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/goaccount/internal/usecase"
)

const processingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "goaccount:idempotency:",
	}
}

// Reserve claims key with a placeholder. A key holding a completed response
// returns that response.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (*usecase.StoredResponse, error) {
	fullKey := s.prefix + key

	set, err := s.client.SetNX(ctx, fullKey, processingMarker, ttl).Result()
	if err != nil {
		return nil, err
	}
	if set {
		return nil, nil
	}

	// Another request got there first
	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Released or expired between SetNX and Get; try once more.
		set, err = s.client.SetNX(ctx, fullKey, processingMarker, ttl).Result()
		if err != nil {
			return nil, err
		}
		if set {
			return nil, nil
		}
		return nil, usecase.ErrIdempotencyInProgress
	}
	if err != nil {
		return nil, err
	}

	if string(existing) == processingMarker {
		return nil, usecase.ErrIdempotencyInProgress
	}

	var stored usecase.StoredResponse
	if err := json.Unmarshal(existing, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

// Complete replaces the placeholder with the final response.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, response usecase.StoredResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

// Release removes the key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iho/goaccount/internal/domain"
)

// ErrEventNotFound is returned when marking an unknown event.
var ErrEventNotFound = errors.New("outbox event not found")

// OutboxRepository implements usecase.OutboxRepository in process memory.
// Events are lost on restart.
type OutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

// Create appends an event.
func (r *OutboxRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *event
	stored.Payload = clonePayload(event.Payload)
	r.events = append(r.events, &stored)

	return nil
}

// GetUnpublished returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]*domain.OutboxEvent, 0, limit)
	for _, event := range r.events {
		if len(events) == limit {
			break
		}
		if !event.Published {
			copied := *event
			copied.Payload = clonePayload(event.Payload)
			events = append(events, &copied)
		}
	}

	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.events {
		if event.ID == id {
			at := publishedAt
			event.Published = true
			event.PublishedAt = &at
			return nil
		}
	}

	return ErrEventNotFound
}

// DeletePublished deletes published events older than the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	for _, event := range r.events {
		if event.Published && event.PublishedAt != nil && event.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, event)
	}
	for i := len(kept); i < len(r.events); i++ {
		r.events[i] = nil
	}
	r.events = kept

	return nil
}

// Len returns the number of stored events, published or not.
func (r *OutboxRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	cloned := make(map[string]any, len(payload))
	for k, v := range payload {
		cloned[k] = v
	}
	return cloned
}

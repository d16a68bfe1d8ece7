package domain

import "time"

// Event types
const (
	EventTypeAccountOpened    = "account.opened"
	EventTypeAccountDeposited = "account.deposited"
	EventTypeAccountWithdrawn = "account.withdrawn"
)

// AggregateTypeAccount is the aggregate every account event belongs to.
const AggregateTypeAccount = "account"

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryRecordedEvent payload
type EntryRecordedEvent struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Balance   int64  `json:"balance"`
	Date      string `json:"date"`
}

// Payload returns the event as an outbox payload map.
func (e EntryRecordedEvent) Payload() map[string]any {
	return map[string]any{
		"reference": e.Reference,
		"amount":    e.Amount,
		"balance":   e.Balance,
		"date":      e.Date,
	}
}

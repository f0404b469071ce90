// Package events publishes ledger change notifications to a message broker.
// Publishing is best-effort: a broker outage must never fail the request
// that triggered the event.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// TransactionEvent describes a ledger change. Consumers fetch the full
// record themselves; the event carries only identifiers.
type TransactionEvent struct {
	Action        string    `json:"action"` // created, updated, or deleted
	TransactionID uint      `json:"transaction_id"`
	UserID        uint      `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event stamped with the current time.
func NewTransactionEvent(action string, transactionID, userID uint) TransactionEvent {
	return TransactionEvent{
		Action:        action,
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher emits transaction events.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, event TransactionEvent) error
	Close() error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

// PublishTransactionEvent discards the event.
func (NoopPublisher) PublishTransactionEvent(ctx context.Context, event TransactionEvent) error {
	return nil
}

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }

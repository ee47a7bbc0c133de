// Package events publishes ledger change notifications so that connected
// clients can refresh balances.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Kind identifies what changed in the ledger.
type Kind string

const (
	UserCreated          Kind = "user.created"
	ExpenseCreated       Kind = "expense.created"
	ExpenseStatusChanged Kind = "expense.status_changed"
)

// Event is a lightweight change notification. Consumers fetch the full record
// (or recompute balances) themselves.
type Event struct {
	Kind      Kind      `json:"kind"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(kind Kind, id string) Event {
	return Event{Kind: kind, ID: id, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers ledger events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

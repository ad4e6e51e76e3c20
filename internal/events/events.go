// Package events publishes ledger changes for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionPosted     = "transaction.posted"
	TransactionVoided     = "transaction.voided"
	SuggestionImplemented = "suggestion.implemented"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "ledger_events"

// Event is one ledger change.
type Event struct {
	EventType         string          `json:"event_type"`
	CompanyID         string          `json:"company_id"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	TransactionNumber int64           `json:"transaction_number,omitempty"`
	SuggestionID      string          `json:"suggestion_id,omitempty"`
	Status            string          `json:"status,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	UserID            string          `json:"user_id,omitempty"`
	Timestamp         time.Time       `json:"timestamp"`
}

// Publisher delivers events. Callers publish after commit and treat failures
// as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

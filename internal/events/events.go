// Package events fans ledger and membership events out to delivery sinks
// after the database transaction that produced them has committed.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/cointrack/internal/metrics"
	"github.com/dukerupert/cointrack/internal/money"
	"github.com/google/uuid"
)

const (
	TypeExpenseCreated = "expense.created"
	TypeIncomeCreated  = "income.created"
	TypeMemberJoined   = "member.joined"
)

type Event struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	FamilyID     string        `json:"familyId,omitempty"`
	MemberID     string        `json:"memberId"`
	EntityID     string        `json:"entityId"`
	Title        string        `json:"title,omitempty"`
	Amount       *money.Amount `json:"amount,omitempty"`
	BalanceAfter *money.Amount `json:"balanceAfter,omitempty"`
	OccurredAt   time.Time     `json:"occurredAt"`
}

// New stamps an event with an id and the current time.
func New(eventType, familyID, memberID, entityID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		FamilyID:   familyID,
		MemberID:   memberID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithAmounts attaches the entry amount and the resulting member balance.
func (e Event) WithAmounts(title string, amount, balanceAfter money.Amount) Event {
	e.Title = title
	e.Amount = &amount
	e.BalanceAfter = &balanceAfter
	return e
}

// Publisher accepts events. Publishing never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Sink delivers events to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

// Dispatcher delivers each event to every sink, logging and counting
// failures without returning them.
type Dispatcher struct {
	sinks   []Sink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewDispatcher(logger *slog.Logger, m *metrics.Metrics, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, metrics: m, logger: logger}
}

func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	for _, s := range d.sinks {
		if err := s.Deliver(ctx, e); err != nil {
			d.metrics.EventDeliveryFailed(s.Name())
			d.logger.WarnContext(ctx, "event delivery failed",
				"sink", s.Name(),
				"event_type", e.Type,
				"event_id", e.ID,
				"error", err,
			)
		}
	}
}

package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/cointrack/internal/money"
)

type recordingSink struct {
	name   string
	err    error
	events []Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, e Event) error {
	s.events = append(s.events, e)
	return s.err
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	failing := &recordingSink{name: "broken", err: errors.New("down")}
	ok := &recordingSink{name: "ok"}
	d := NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, failing, ok)

	e := New(TypeExpenseCreated, "fam", "mem", "exp").WithAmounts("Milk", money.MustParse("2"), money.MustParse("98"))
	d.Publish(context.Background(), e)

	if len(failing.events) != 1 {
		t.Errorf("failing sink got %d events, want 1", len(failing.events))
	}
	if len(ok.events) != 1 {
		t.Fatalf("ok sink got %d events, want 1 even after an earlier failure", len(ok.events))
	}
	got := ok.events[0]
	if got.ID == "" || got.OccurredAt.IsZero() {
		t.Error("expected id and timestamp to be stamped")
	}
	if got.Amount == nil || got.Amount.String() != "2.00" {
		t.Errorf("amount = %v, want 2.00", got.Amount)
	}
	if got.BalanceAfter == nil || got.BalanceAfter.String() != "98.00" {
		t.Errorf("balanceAfter = %v, want 98.00", got.BalanceAfter)
	}
}

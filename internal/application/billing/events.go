package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind names a committed ledger mutation
type EventKind string

const (
	EventBillCreated  EventKind = "bill_created"
	EventItemReturned EventKind = "item_returned"
	EventItemReplaced EventKind = "item_replaced"
)

// LedgerEvent is published after a ledger transaction commits
type LedgerEvent struct {
	Kind        EventKind
	BillID      uuid.UUID
	ItemID      uuid.UUID
	TotalAmount decimal.Decimal
	ItemCount   int
}

// Listener reacts to committed ledger mutations.
// Listeners run synchronously after commit and cannot fail the operation.
type Listener interface {
	OnLedgerEvent(ctx context.Context, event LedgerEvent)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ctx context.Context, event LedgerEvent)

// OnLedgerEvent calls f(ctx, event)
func (f ListenerFunc) OnLedgerEvent(ctx context.Context, event LedgerEvent) {
	f(ctx, event)
}

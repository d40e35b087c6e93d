package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/shared"
)

// ListFilter narrows ListBills
type ListFilter struct {
	shared.Filter
	From *time.Time
	To   *time.Time
}

// BillRepository defines persistence for bill headers
type BillRepository interface {
	// Create inserts the header. A taken bill number yields shared.ErrDuplicateBillNumber.
	Create(ctx context.Context, bill *Bill) error

	// FindByID loads the header without items
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByIDForUpdate loads the header and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindWithItems loads the header and its items enriched with product, brand and category names
	FindWithItems(ctx context.Context, id uuid.UUID) (*Bill, error)

	// List returns headers newest first
	List(ctx context.Context, filter ListFilter) ([]Bill, int64, error)

	// UpdateTotals persists the four recomputed aggregates
	UpdateTotals(ctx context.Context, id uuid.UUID, totals Totals) error
}

// BillItemRepository defines persistence for bill line items
type BillItemRepository interface {
	Create(ctx context.Context, item *BillItem) error

	// FindByID returns the item or shared.ErrItemNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*BillItem, error)

	// FindByBill returns every item of the bill, returned ones included, oldest first
	FindByBill(ctx context.Context, billID uuid.UUID) ([]BillItem, error)

	// MarkReturned flips sold -> returned. It reports false when the item was not sold.
	MarkReturned(ctx context.Context, id uuid.UUID) (bool, error)
}

package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
)

// ItemStatus is the lifecycle state of a bill line item
type ItemStatus string

const (
	ItemStatusSold     ItemStatus = "sold"
	ItemStatusReturned ItemStatus = "returned"
)

// IsValid checks if the status is a known value
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusSold, ItemStatusReturned:
		return true
	}
	return false
}

// String returns the string representation
func (s ItemStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	return s == ItemStatusSold && target == ItemStatusReturned
}

// BillItem is one product/size/quantity line of a bill
type BillItem struct {
	shared.BaseEntity
	BillID    uuid.UUID
	ProductID *uuid.UUID // nil once the product has been deleted
	Size      string
	Quantity  int
	Price     decimal.Decimal
	MRP       decimal.Decimal
	// PurchasePrice is the unit cost captured at sale time for profit reporting.
	PurchasePrice decimal.Decimal
	// GSTPercent is the product's rate frozen at sale time. Nil means "use the bill rate".
	GSTPercent *decimal.Decimal
	Total      decimal.Decimal
	Status     ItemStatus

	// Read-side enrichment, empty when the product no longer exists.
	ProductName  string
	BrandName    string
	CategoryName string
}

// LineInput describes a line to sell
type LineInput struct {
	ProductID     uuid.UUID
	Size          string
	Quantity      int
	Price         decimal.Decimal
	MRP           decimal.Decimal
	PurchasePrice decimal.Decimal
	// Total is optional; when set it must equal Price x Quantity.
	Total decimal.Decimal
}

// NewBillItem creates a sold line for billID. gstPercent is the rate to freeze on the line.
func NewBillItem(billID uuid.UUID, in LineInput, gstPercent *decimal.Decimal) (*BillItem, error) {
	if in.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	size, err := catalog.NormalizeSize(in.Size)
	if err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.Price.IsNegative() || in.MRP.IsNegative() || in.PurchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	total := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
	if !in.Total.IsZero() && !in.Total.Equal(total) {
		return nil, shared.NewDomainError("INVALID_LINE_TOTAL", "Line total must equal price times quantity")
	}

	productID := in.ProductID
	var rate *decimal.Decimal
	if gstPercent != nil {
		r := *gstPercent
		rate = &r
	}
	return &BillItem{
		BaseEntity:    shared.NewBaseEntity(),
		BillID:        billID,
		ProductID:     &productID,
		Size:          size,
		Quantity:      in.Quantity,
		Price:         in.Price,
		MRP:           in.MRP,
		PurchasePrice: in.PurchasePrice,
		GSTPercent:    rate,
		Total:         total,
		Status:        ItemStatusSold,
	}, nil
}

// IsReturned reports whether the item has reached its terminal state
func (i *BillItem) IsReturned() bool {
	return i.Status == ItemStatusReturned
}

// MarkReturned moves the item to returned
func (i *BillItem) MarkReturned() error {
	if !i.Status.CanTransitionTo(ItemStatusReturned) {
		return shared.ErrAlreadyReturned
	}
	i.Status = ItemStatusReturned
	i.Touch()
	return nil
}

// Profit is total minus cost for this line
func (i *BillItem) Profit() decimal.Decimal {
	return i.Total.Sub(i.PurchasePrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

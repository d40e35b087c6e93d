package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/shared"
)

// DefaultPaymentMethod is used when the header leaves it blank.
const DefaultPaymentMethod = "Cash"

var hundred = decimal.NewFromInt(100)

// Bill is one completed sale with its aggregate totals
type Bill struct {
	shared.BaseEntity
	BillNumber      string
	BillDate        time.Time
	Subtotal        decimal.Decimal
	GSTPercent      decimal.Decimal
	GSTAmount       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentMethod   string
	CustomerName    string
	CreatedBy       *uuid.UUID
	Items           []BillItem
}

// Header is the caller-computed bill header. Its aggregates are stored as given.
type Header struct {
	BillNumber      string
	BillDate        time.Time
	Subtotal        decimal.Decimal
	GSTPercent      decimal.Decimal
	GSTAmount       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentMethod   string
	CustomerName    string
	CreatedBy       *uuid.UUID
}

// NewBill creates a bill from a header
func NewBill(h Header) (*Bill, error) {
	number := strings.TrimSpace(h.BillNumber)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot exceed 50 characters")
	}
	if !isPercent(h.GSTPercent) || !isPercent(h.DiscountPercent) {
		return nil, shared.NewDomainError("INVALID_PERCENT", "Percentages must be between 0 and 100")
	}
	for _, amount := range []decimal.Decimal{h.Subtotal, h.GSTAmount, h.DiscountAmount, h.TotalAmount} {
		if amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
		}
	}

	method := strings.TrimSpace(h.PaymentMethod)
	if method == "" {
		method = DefaultPaymentMethod
	}
	billDate := h.BillDate
	if billDate.IsZero() {
		billDate = time.Now()
	}

	return &Bill{
		BaseEntity:      shared.NewBaseEntity(),
		BillNumber:      number,
		BillDate:        billDate,
		Subtotal:        h.Subtotal,
		GSTPercent:      h.GSTPercent,
		GSTAmount:       h.GSTAmount,
		DiscountPercent: h.DiscountPercent,
		DiscountAmount:  h.DiscountAmount,
		TotalAmount:     h.TotalAmount,
		PaymentMethod:   method,
		CustomerName:    strings.TrimSpace(h.CustomerName),
		CreatedBy:       h.CreatedBy,
	}, nil
}

// Totals returns the bill's current aggregates
func (b *Bill) Totals() Totals {
	return Totals{
		Subtotal:       b.Subtotal,
		GSTAmount:      b.GSTAmount,
		DiscountAmount: b.DiscountAmount,
		TotalAmount:    b.TotalAmount,
	}
}

// ApplyTotals overwrites the four aggregate fields
func (b *Bill) ApplyTotals(t Totals) {
	b.Subtotal = t.Subtotal
	b.GSTAmount = t.GSTAmount
	b.DiscountAmount = t.DiscountAmount
	b.TotalAmount = t.TotalAmount
	b.Touch()
}

// Recompute derives fresh totals from the bill's loaded items
func (b *Bill) Recompute() Totals {
	return Recompute(b.Items, b.GSTPercent, b.DiscountPercent)
}

// ActiveItems returns the items that are still sold
func (b *Bill) ActiveItems() []BillItem {
	active := make([]BillItem, 0, len(b.Items))
	for _, item := range b.Items {
		if !item.IsReturned() {
			active = append(active, item)
		}
	}
	return active
}

func isPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

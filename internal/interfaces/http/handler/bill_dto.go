package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/application/billing"
)

// BillItemBody is one line of a bill as posted by the counter. Price is a
// pointer so a missing value fails `required` instead of binding as zero.
type BillItemBody struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	Size          string           `json:"size" binding:"required,shoe_size"`
	Quantity      int              `json:"quantity" binding:"required,min=1"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	MRP           decimal.Decimal  `json:"mrp"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	Total         decimal.Decimal  `json:"total"`
}

func (b BillItemBody) toRequest() billing.BillItemRequest {
	return billing.BillItemRequest{
		ProductID:     b.ProductID,
		Size:          b.Size,
		Quantity:      b.Quantity,
		Price:         decimalOrZero(b.Price),
		MRP:           b.MRP,
		PurchasePrice: b.PurchasePrice,
		Total:         b.Total,
	}
}

// CreateBillBody is the POST /bills payload. The aggregates are computed by
// the client; total_amount must be present, though zero is allowed.
type CreateBillBody struct {
	BillNumber      string           `json:"bill_number" binding:"required,max=50"`
	BillDate        *time.Time       `json:"bill_date"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	GSTPercent      decimal.Decimal  `json:"gst_percent"`
	GSTAmount       decimal.Decimal  `json:"gst_amount"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	TotalAmount     *decimal.Decimal `json:"total_amount" binding:"required"`
	PaymentMethod   string           `json:"payment_method" binding:"omitempty,max=30"`
	CustomerName    string           `json:"customer_name" binding:"omitempty,max=200"`
	Items           []BillItemBody   `json:"items" binding:"required,min=1,dive"`
}

func (b CreateBillBody) toRequest() billing.CreateBillRequest {
	items := make([]billing.BillItemRequest, len(b.Items))
	for i, item := range b.Items {
		items[i] = item.toRequest()
	}
	return billing.CreateBillRequest{
		BillNumber:      b.BillNumber,
		BillDate:        b.BillDate,
		Subtotal:        b.Subtotal,
		GSTPercent:      b.GSTPercent,
		GSTAmount:       b.GSTAmount,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		TotalAmount:     decimalOrZero(b.TotalAmount),
		PaymentMethod:   b.PaymentMethod,
		CustomerName:    b.CustomerName,
		Items:           items,
	}
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

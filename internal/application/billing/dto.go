package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/billing"
)

// BillItemRequest is one line of a new bill, or the replacement line of a replace
type BillItemRequest struct {
	ProductID     uuid.UUID
	Size          string
	Quantity      int
	Price         decimal.Decimal
	MRP           decimal.Decimal
	PurchasePrice decimal.Decimal
	Total         decimal.Decimal
}

func (r BillItemRequest) toLine() billing.LineInput {
	return billing.LineInput{
		ProductID:     r.ProductID,
		Size:          r.Size,
		Quantity:      r.Quantity,
		Price:         r.Price,
		MRP:           r.MRP,
		PurchasePrice: r.PurchasePrice,
		Total:         r.Total,
	}
}

// CreateBillRequest carries a cart whose aggregates the client already computed
type CreateBillRequest struct {
	BillNumber      string
	BillDate        *time.Time
	Subtotal        decimal.Decimal
	GSTPercent      decimal.Decimal
	GSTAmount       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentMethod   string
	CustomerName    string
	Items           []BillItemRequest
	CreatedBy       *uuid.UUID
}

func (r CreateBillRequest) header() billing.Header {
	h := billing.Header{
		BillNumber:      r.BillNumber,
		Subtotal:        r.Subtotal,
		GSTPercent:      r.GSTPercent,
		GSTAmount:       r.GSTAmount,
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		TotalAmount:     r.TotalAmount,
		PaymentMethod:   r.PaymentMethod,
		CustomerName:    r.CustomerName,
		CreatedBy:       r.CreatedBy,
	}
	if r.BillDate != nil {
		h.BillDate = *r.BillDate
	}
	return h
}

// BillListFilter represents filter options for the bill list
type BillListFilter struct {
	Search   string `form:"search"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BillItemResponse represents a line item in API responses
type BillItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	BillID        uuid.UUID        `json:"bill_id"`
	ProductID     *uuid.UUID       `json:"product_id"`
	ProductName   string           `json:"product_name"`
	BrandName     string           `json:"brand_name"`
	CategoryName  string           `json:"category_name"`
	Size          string           `json:"size"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	MRP           decimal.Decimal  `json:"mrp"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	GSTPercent    *decimal.Decimal `json:"gst_percent"`
	Total         decimal.Decimal  `json:"total"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID              uuid.UUID          `json:"id"`
	BillNumber      string             `json:"bill_number"`
	BillDate        time.Time          `json:"bill_date"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	GSTPercent      decimal.Decimal    `json:"gst_percent"`
	GSTAmount       decimal.Decimal    `json:"gst_amount"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	PaymentMethod   string             `json:"payment_method"`
	CustomerName    string             `json:"customer_name"`
	CreatedBy       *uuid.UUID         `json:"created_by,omitempty"`
	Items           []BillItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToBillItemResponse converts a domain BillItem to a response
func ToBillItemResponse(i *billing.BillItem) BillItemResponse {
	return BillItemResponse{
		ID:            i.ID,
		BillID:        i.BillID,
		ProductID:     i.ProductID,
		ProductName:   i.ProductName,
		BrandName:     i.BrandName,
		CategoryName:  i.CategoryName,
		Size:          i.Size,
		Quantity:      i.Quantity,
		Price:         i.Price,
		MRP:           i.MRP,
		PurchasePrice: i.PurchasePrice,
		GSTPercent:    i.GSTPercent,
		Total:         i.Total,
		Status:        i.Status.String(),
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ToBillResponse converts a domain Bill to a response, items included when loaded
func ToBillResponse(b *billing.Bill) BillResponse {
	resp := BillResponse{
		ID:              b.ID,
		BillNumber:      b.BillNumber,
		BillDate:        b.BillDate,
		Subtotal:        b.Subtotal,
		GSTPercent:      b.GSTPercent,
		GSTAmount:       b.GSTAmount,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		TotalAmount:     b.TotalAmount,
		PaymentMethod:   b.PaymentMethod,
		CustomerName:    b.CustomerName,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if len(b.Items) > 0 {
		resp.Items = make([]BillItemResponse, len(b.Items))
		for i := range b.Items {
			resp.Items[i] = ToBillItemResponse(&b.Items[i])
		}
	}
	return resp
}

// ToBillResponses converts bill headers to responses
func ToBillResponses(bills []billing.Bill) []BillResponse {
	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}
	return responses
}

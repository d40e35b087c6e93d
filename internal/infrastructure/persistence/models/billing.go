package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/billing"
)

// BillModel is the persistence model for the Bill header.
type BillModel struct {
	BaseModel
	BillNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	BillDate        time.Time       `gorm:"not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GSTPercent      decimal.Decimal `gorm:"column:gst_percent;type:decimal(5,2);not null"`
	GSTAmount       decimal.Decimal `gorm:"column:gst_amount;type:decimal(12,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(30);not null;default:'Cash'"`
	CustomerName    string          `gorm:"type:varchar(200);index"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill without items.
func (m *BillModel) ToDomain() *billing.Bill {
	return &billing.Bill{
		BaseEntity:      m.Entity(),
		BillNumber:      m.BillNumber,
		BillDate:        m.BillDate,
		Subtotal:        m.Subtotal,
		GSTPercent:      m.GSTPercent,
		GSTAmount:       m.GSTAmount,
		DiscountPercent: m.DiscountPercent,
		DiscountAmount:  m.DiscountAmount,
		TotalAmount:     m.TotalAmount,
		PaymentMethod:   m.PaymentMethod,
		CustomerName:    m.CustomerName,
		CreatedBy:       m.CreatedBy,
	}
}

// BillModelFromDomain creates a new persistence model from a domain Bill.
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{
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
	}
	m.BaseModel = baseModelOf(b.BaseEntity)
	return m
}

// BillItemModel is the persistence model for a bill line item.
type BillItemModel struct {
	BaseModel
	BillID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	ProductID     *uuid.UUID         `gorm:"type:uuid;index"`
	Size          string             `gorm:"type:varchar(20);not null"`
	Quantity      int                `gorm:"not null;check:chk_bill_items_quantity_positive,quantity > 0"`
	Price         decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	MRP           decimal.Decimal    `gorm:"column:mrp;type:decimal(12,2);not null"`
	PurchasePrice decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	GSTPercent    *decimal.Decimal   `gorm:"column:gst_percent;type:decimal(5,2)"`
	Total         decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	Status        billing.ItemStatus `gorm:"type:varchar(20);not null;default:'sold';index"`
}

// TableName returns the table name for GORM
func (BillItemModel) TableName() string {
	return "bill_items"
}

// ToDomain converts the persistence model to a domain BillItem.
func (m *BillItemModel) ToDomain() *billing.BillItem {
	return &billing.BillItem{
		BaseEntity:    m.Entity(),
		BillID:        m.BillID,
		ProductID:     m.ProductID,
		Size:          m.Size,
		Quantity:      m.Quantity,
		Price:         m.Price,
		MRP:           m.MRP,
		PurchasePrice: m.PurchasePrice,
		GSTPercent:    m.GSTPercent,
		Total:         m.Total,
		Status:        m.Status,
	}
}

// BillItemModelFromDomain creates a new persistence model from a domain BillItem.
func BillItemModelFromDomain(i *billing.BillItem) *BillItemModel {
	m := &BillItemModel{
		BillID:        i.BillID,
		ProductID:     i.ProductID,
		Size:          i.Size,
		Quantity:      i.Quantity,
		Price:         i.Price,
		MRP:           i.MRP,
		PurchasePrice: i.PurchasePrice,
		GSTPercent:    i.GSTPercent,
		Total:         i.Total,
		Status:        i.Status,
	}
	m.BaseModel = baseModelOf(i.BaseEntity)
	return m
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/catalog"
)

// BrandModel is the persistence model for the Brand domain entity.
type BrandModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand entity.
func (m *BrandModel) ToDomain() *catalog.Brand {
	return &catalog.Brand{BaseEntity: m.Entity(), Name: m.Name}
}

// BrandModelFromDomain creates a new persistence model from a domain Brand entity.
func BrandModelFromDomain(b *catalog.Brand) *BrandModel {
	m := &BrandModel{Name: b.Name}
	m.BaseModel = baseModelOf(b.BaseEntity)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{BaseEntity: m.Entity(), Name: m.Name}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name}
	m.BaseModel = baseModelOf(c.BaseEntity)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	BrandID        *uuid.UUID      `gorm:"type:uuid;index"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	SubBrand       string          `gorm:"type:varchar(100)"`
	Article        string          `gorm:"type:varchar(100);index"`
	Type           string          `gorm:"type:varchar(50)"`
	Color          string          `gorm:"type:varchar(50)"`
	Gender         string          `gorm:"type:varchar(20)"`
	Section        string          `gorm:"type:varchar(50)"`
	Rack           string          `gorm:"type:varchar(50)"`
	Shelf          string          `gorm:"type:varchar(50)"`
	PurchasePrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GSTPercent     decimal.Decimal `gorm:"column:gst_percent;type:decimal(5,2);not null"`
	MfgDate        *time.Time      `gorm:"type:date"`
	ExpiryDate     *time.Time      `gorm:"type:date"`
	IsReadyForSale bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:     m.Entity(),
		BrandID:        m.BrandID,
		CategoryID:     m.CategoryID,
		Name:           m.Name,
		SubBrand:       m.SubBrand,
		Article:        m.Article,
		Type:           m.Type,
		Color:          m.Color,
		Gender:         m.Gender,
		Section:        m.Section,
		Rack:           m.Rack,
		Shelf:          m.Shelf,
		PurchasePrice:  m.PurchasePrice,
		SellingPrice:   m.SellingPrice,
		GSTPercent:     m.GSTPercent,
		MfgDate:        m.MfgDate,
		ExpiryDate:     m.ExpiryDate,
		IsReadyForSale: m.IsReadyForSale,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.BaseModel = baseModelOf(p.BaseEntity)
	m.BrandID = p.BrandID
	m.CategoryID = p.CategoryID
	m.Name = p.Name
	m.SubBrand = p.SubBrand
	m.Article = p.Article
	m.Type = p.Type
	m.Color = p.Color
	m.Gender = p.Gender
	m.Section = p.Section
	m.Rack = p.Rack
	m.Shelf = p.Shelf
	m.PurchasePrice = p.PurchasePrice
	m.SellingPrice = p.SellingPrice
	m.GSTPercent = p.GSTPercent
	m.MfgDate = p.MfgDate
	m.ExpiryDate = p.ExpiryDate
	m.IsReadyForSale = p.IsReadyForSale
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// StockModel is the persistence model for a (product, size) stock counter.
type StockModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_size,priority:1"`
	Size      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_product_size,priority:2"`
	Quantity  int       `gorm:"not null;default:0;check:chk_stock_quantity_non_negative,quantity >= 0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockModel) TableName() string {
	return "stock"
}

// ToDomain converts the persistence model to a domain Stock value.
func (m *StockModel) ToDomain() catalog.Stock {
	return catalog.Stock{
		ID:        m.ID,
		ProductID: m.ProductID,
		Size:      m.Size,
		Quantity:  m.Quantity,
		UpdatedAt: m.UpdatedAt,
	}
}

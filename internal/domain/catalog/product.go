package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// Product represents a footwear article in the catalog
type Product struct {
	shared.BaseEntity
	BrandID        *uuid.UUID
	CategoryID     *uuid.UUID
	Name           string
	SubBrand       string
	Article        string
	Type           string
	Color          string
	Gender         string
	Section        string
	Rack           string
	Shelf          string
	PurchasePrice  decimal.Decimal
	SellingPrice   decimal.Decimal
	GSTPercent     decimal.Decimal
	MfgDate        *time.Time
	ExpiryDate     *time.Time
	IsReadyForSale bool
}

// ProductAttributes holds the editable product fields
type ProductAttributes struct {
	BrandID        uuid.UUID
	CategoryID     uuid.UUID
	Name           string
	SubBrand       string
	Article        string
	Type           string
	Color          string
	Gender         string
	Section        string
	Rack           string
	Shelf          string
	PurchasePrice  decimal.Decimal
	SellingPrice   decimal.Decimal
	GSTPercent     decimal.Decimal
	MfgDate        *time.Time
	ExpiryDate     *time.Time
	IsReadyForSale bool
}

// NewProduct creates a new product
func NewProduct(attrs ProductAttributes) (*Product, error) {
	p := &Product{BaseEntity: shared.NewBaseEntity()}
	if err := p.apply(attrs); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the product's editable fields
func (p *Product) Update(attrs ProductAttributes) error {
	if err := p.apply(attrs); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *Product) apply(attrs ProductAttributes) error {
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if attrs.BrandID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRAND", "Brand is required")
	}
	if attrs.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if attrs.PurchasePrice.IsNegative() || attrs.SellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if attrs.GSTPercent.IsNegative() || attrs.GSTPercent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_GST", "GST percent must be between 0 and 100")
	}
	if attrs.MfgDate != nil && attrs.ExpiryDate != nil && attrs.ExpiryDate.Before(*attrs.MfgDate) {
		return shared.NewDomainError("INVALID_DATE", "Expiry date cannot be before manufacturing date")
	}

	brandID, categoryID := attrs.BrandID, attrs.CategoryID
	p.BrandID = &brandID
	p.CategoryID = &categoryID
	p.Name = name
	p.SubBrand = strings.TrimSpace(attrs.SubBrand)
	p.Article = strings.TrimSpace(attrs.Article)
	p.Type = attrs.Type
	p.Color = attrs.Color
	p.Gender = attrs.Gender
	p.Section = attrs.Section
	p.Rack = attrs.Rack
	p.Shelf = attrs.Shelf
	p.PurchasePrice = attrs.PurchasePrice
	p.SellingPrice = attrs.SellingPrice
	p.GSTPercent = attrs.GSTPercent
	p.MfgDate = attrs.MfgDate
	p.ExpiryDate = attrs.ExpiryDate
	p.IsReadyForSale = attrs.IsReadyForSale
	return nil
}

// ProductDetails is a product joined with its brand, category and stock rows
type ProductDetails struct {
	Product
	BrandName    string
	CategoryName string
	Stock        []Stock
}

// TotalStock sums quantities across sizes
func (d *ProductDetails) TotalStock() int {
	total := 0
	for _, s := range d.Stock {
		total += s.Quantity
	}
	return total
}

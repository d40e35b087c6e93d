package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/catalog"
)

// BrandRequest creates or renames a brand
type BrandRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBrandResponse converts a domain Brand to a response
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CategoryRequest creates a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// SizeQuantityRequest is one opening stock entry of a new product
type SizeQuantityRequest struct {
	Size     string `json:"size" binding:"required,shoe_size"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// ProductRequest creates or updates a product
type ProductRequest struct {
	BrandID        uuid.UUID       `json:"brand_id" binding:"required"`
	CategoryID     uuid.UUID       `json:"category_id" binding:"required"`
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	SubBrand       string          `json:"sub_brand" binding:"max=100"`
	Article        string          `json:"article" binding:"max=100"`
	Type           string          `json:"type" binding:"max=50"`
	Color          string          `json:"color" binding:"max=50"`
	Gender         string          `json:"gender" binding:"max=20"`
	Section        string          `json:"section" binding:"max=50"`
	Rack           string          `json:"rack" binding:"max=50"`
	Shelf          string          `json:"shelf" binding:"max=50"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	GSTPercent     decimal.Decimal `json:"gst_percent"`
	MfgDate        *time.Time      `json:"mfg_date"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
	IsReadyForSale bool            `json:"is_ready_for_sale"`
	// Sizes seeds stock on create and is ignored on update
	Sizes []SizeQuantityRequest `json:"sizes" binding:"omitempty,dive"`
}

func (r ProductRequest) attributes() catalog.ProductAttributes {
	return catalog.ProductAttributes{
		BrandID:        r.BrandID,
		CategoryID:     r.CategoryID,
		Name:           r.Name,
		SubBrand:       r.SubBrand,
		Article:        r.Article,
		Type:           r.Type,
		Color:          r.Color,
		Gender:         r.Gender,
		Section:        r.Section,
		Rack:           r.Rack,
		Shelf:          r.Shelf,
		PurchasePrice:  r.PurchasePrice,
		SellingPrice:   r.SellingPrice,
		GSTPercent:     r.GSTPercent,
		MfgDate:        r.MfgDate,
		ExpiryDate:     r.ExpiryDate,
		IsReadyForSale: r.IsReadyForSale,
	}
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search       string `form:"search"`
	BrandID      string `form:"brand_id" binding:"omitempty,uuid"`
	CategoryID   string `form:"category_id" binding:"omitempty,uuid"`
	ReadyForSale *bool  `form:"ready_for_sale"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockResponse is the quantity on hand for one size
type StockResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStockResponse converts a domain Stock to a response
func ToStockResponse(s *catalog.Stock) StockResponse {
	return StockResponse{
		ProductID: s.ProductID,
		Size:      s.Size,
		Quantity:  s.Quantity,
		UpdatedAt: s.UpdatedAt,
	}
}

// ProductResponse represents a product with its names and stock in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	BrandID        *uuid.UUID      `json:"brand_id"`
	BrandName      string          `json:"brand_name"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	Name           string          `json:"name"`
	SubBrand       string          `json:"sub_brand"`
	Article        string          `json:"article"`
	Type           string          `json:"type"`
	Color          string          `json:"color"`
	Gender         string          `json:"gender"`
	Section        string          `json:"section"`
	Rack           string          `json:"rack"`
	Shelf          string          `json:"shelf"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	GSTPercent     decimal.Decimal `json:"gst_percent"`
	MfgDate        *time.Time      `json:"mfg_date"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
	IsReadyForSale bool            `json:"is_ready_for_sale"`
	Stock          []StockResponse `json:"stock"`
	TotalStock     int             `json:"total_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToProductResponse converts product details to a response
func ToProductResponse(d *catalog.ProductDetails) ProductResponse {
	p := &d.Product
	stock := make([]StockResponse, len(d.Stock))
	for i := range d.Stock {
		stock[i] = ToStockResponse(&d.Stock[i])
	}
	return ProductResponse{
		ID:             p.ID,
		BrandID:        p.BrandID,
		BrandName:      d.BrandName,
		CategoryID:     p.CategoryID,
		CategoryName:   d.CategoryName,
		Name:           p.Name,
		SubBrand:       p.SubBrand,
		Article:        p.Article,
		Type:           p.Type,
		Color:          p.Color,
		Gender:         p.Gender,
		Section:        p.Section,
		Rack:           p.Rack,
		Shelf:          p.Shelf,
		PurchasePrice:  p.PurchasePrice,
		SellingPrice:   p.SellingPrice,
		GSTPercent:     p.GSTPercent,
		MfgDate:        p.MfgDate,
		ExpiryDate:     p.ExpiryDate,
		IsReadyForSale: p.IsReadyForSale,
		Stock:          stock,
		TotalStock:     d.TotalStock(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// SetStockRequest sets the absolute quantity of one size
type SetStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required,shoe_size"`
	Quantity  int       `json:"quantity" binding:"min=0"`
}

// AdjustStockRequest adds delta (which may be negative) to one size
type AdjustStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required,shoe_size"`
	Delta     int       `json:"delta" binding:"required"`
}

// LowStockResponse is one size at or below the threshold
type LowStockResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	BrandName   string    `json:"brand_name"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/shared"
)

// BrandRepository defines persistence for brands
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindAll(ctx context.Context) ([]Brand, error)
	// Save creates or updates a brand. A taken name yields shared.ErrAlreadyExists.
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindDetails loads a product with brand and category names and its stock rows
	FindDetails(ctx context.Context, id uuid.UUID) (*ProductDetails, error)

	// FindAllDetails lists products with names and stock, newest first
	FindAllDetails(ctx context.Context, filter shared.Filter) ([]ProductDetails, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product; its stock rows go with it
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockRepository defines persistence for per-size stock counters
type StockRepository interface {
	// Get returns the stock row for (productID, size) or shared.ErrNotFound
	Get(ctx context.Context, productID uuid.UUID, size string) (*Stock, error)

	// GetForUpdate is Get with a row lock held until the transaction ends
	GetForUpdate(ctx context.Context, productID uuid.UUID, size string) (*Stock, error)

	// FindByProduct lists stock rows for one product ordered by size
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Stock, error)

	// Set upserts the row to an absolute quantity
	Set(ctx context.Context, productID uuid.UUID, size string, quantity int) (*Stock, error)

	// Adjust applies delta and returns the new quantity.
	// A negative delta is a conditional decrement failing with shared.ErrInsufficientStock;
	// a positive delta upserts.
	Adjust(ctx context.Context, productID uuid.UUID, size string, delta int) (int, error)

	// FindLow lists rows with quantity at or below threshold
	FindLow(ctx context.Context, threshold int) ([]LowStockItem, error)
}

package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/shared"
)

// DefaultLowStockThreshold is used when the caller does not supply one.
const DefaultLowStockThreshold = 5

// Stock is the available quantity of one product in one size
type Stock struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Size      string
	Quantity  int
	UpdatedAt time.Time
}

// SizeQuantity is a (size, quantity) pair used when seeding or setting stock
type SizeQuantity struct {
	Size     string
	Quantity int
}

// LowStockItem is a stock row at or below the low-stock threshold
type LowStockItem struct {
	ProductID   uuid.UUID
	ProductName string
	BrandName   string
	Size        string
	Quantity    int
}

// NormalizeSize trims and validates a shoe size label
func NormalizeSize(size string) (string, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return "", shared.NewDomainError("INVALID_SIZE", "Size cannot be empty")
	}
	if len(size) > 20 {
		return "", shared.NewDomainError("INVALID_SIZE", "Size cannot exceed 20 characters")
	}
	return size, nil
}

// ValidateQuantity rejects negative stock levels
func ValidateQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	return nil
}

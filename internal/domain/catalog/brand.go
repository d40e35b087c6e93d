package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/solepos/backend/internal/domain/shared"
)

// Brand is a footwear brand (Nike, Bata, ...)
type Brand struct {
	shared.BaseEntity
	Name string
}

// NewBrand creates a new brand
func NewBrand(name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if err := validateBrandName(name); err != nil {
		return nil, err
	}
	return &Brand{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the brand name
func (b *Brand) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateBrandName(name); err != nil {
		return err
	}
	b.Name = name
	b.Touch()
	return nil
}

func validateBrandName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return shared.NewDomainError("INVALID_NAME", "Brand name must be at least 2 characters")
	}
	if n > 100 {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 100 characters")
	}
	return nil
}

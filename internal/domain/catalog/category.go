package catalog

import (
	"strings"

	"github.com/solepos/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups products by wearer (Men, Women, Kids, ...)
type Category struct {
	shared.BaseEntity
	Name string
}

// DefaultCategories are created at startup and by the seeder.
var DefaultCategories = []string{"Men", "Women", "Kids"}

// NewCategory creates a new category with a normalized name
func NewCategory(name string) (*Category, error) {
	normalized := NormalizeCategoryName(name)
	if normalized == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(normalized) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       normalized,
	}, nil
}

// NormalizeCategoryName trims, collapses inner whitespace and title-cases the name,
// so "  women " and "WOMEN" map onto the same unique row.
func NormalizeCategoryName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(fields, " "))
}

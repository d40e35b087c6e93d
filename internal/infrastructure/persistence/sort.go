package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list query may be ordered by
type sortColumns struct {
	table    string
	fallback string
	columns  map[string]bool
}

var billSort = sortColumns{
	table:    "bills",
	fallback: "bill_date",
	columns: map[string]bool{
		"bill_number":   true,
		"bill_date":     true,
		"customer_name": true,
		"subtotal":      true,
		"total_amount":  true,
		"created_at":    true,
	},
}

var productSort = sortColumns{
	table:    "products",
	fallback: "created_at",
	columns: map[string]bool{
		"name":           true,
		"article":        true,
		"sub_brand":      true,
		"selling_price":  true,
		"purchase_price": true,
		"created_at":     true,
		"updated_at":     true,
	},
}

// orderBy resolves a requested field and direction. Fields outside the
// whitelist fall back to the default column and anything but "asc" sorts
// descending, so user input never reaches the SQL text.
func (s sortColumns) orderBy(field, dir string) clause.OrderByColumn {
	name := strings.TrimSpace(field)
	if !s.columns[name] {
		name = s.fallback
	}
	return clause.OrderByColumn{
		Column: clause.Column{Table: s.table, Name: name},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}

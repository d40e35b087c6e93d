package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumns_OrderBy(t *testing.T) {
	tests := []struct {
		name     string
		sort     sortColumns
		field    string
		dir      string
		wantCol  string
		wantDesc bool
	}{
		{"defaults", billSort, "", "", "bill_date", true},
		{"whitelisted ascending", billSort, "total_amount", "asc", "total_amount", false},
		{"direction is case insensitive", billSort, "bill_number", "  ASC ", "bill_number", false},
		{"unknown direction sorts descending", billSort, "bill_number", "sideways", "bill_number", true},
		{"unknown column falls back", billSort, "password", "asc", "bill_date", false},
		{"injection attempt falls back", billSort, "id; DROP TABLE bills;--", "desc", "bill_date", true},
		{"column names are case sensitive", productSort, "NAME", "asc", "created_at", false},
		{"whitespace is trimmed", productSort, "  selling_price ", "asc", "selling_price", false},
		{"bill columns are not product columns", productSort, "bill_date", "", "created_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sort.orderBy(tt.field, tt.dir)
			assert.Equal(t, tt.sort.table, got.Column.Table)
			assert.Equal(t, tt.wantCol, got.Column.Name)
			assert.Equal(t, tt.wantDesc, got.Desc)
		})
	}
}

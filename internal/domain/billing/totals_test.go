package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(total string, rate *decimal.Decimal, status ItemStatus) BillItem {
	return BillItem{Quantity: 1, Price: dec(total), Total: dec(total), GSTPercent: rate, Status: status}
}

func ratePtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertTotals(t *testing.T, got Totals, subtotal, gst, discount, total string) {
	t.Helper()
	assert.True(t, got.Subtotal.Equal(dec(subtotal)), "subtotal %s != %s", got.Subtotal, subtotal)
	assert.True(t, got.GSTAmount.Equal(dec(gst)), "gst %s != %s", got.GSTAmount, gst)
	assert.True(t, got.DiscountAmount.Equal(dec(discount)), "discount %s != %s", got.DiscountAmount, discount)
	assert.True(t, got.TotalAmount.Equal(dec(total)), "total %s != %s", got.TotalAmount, total)
	assert.True(t, got.Consistent())
}

func TestRecompute(t *testing.T) {
	t.Run("single line with frozen rate", func(t *testing.T) {
		got := Recompute([]BillItem{line("1000", ratePtr("5"), ItemStatusSold)}, dec("5"), decimal.Zero)
		assertTotals(t, got, "1000", "50", "0", "1050")
	})

	t.Run("all returned drives everything to zero", func(t *testing.T) {
		got := Recompute([]BillItem{
			line("1000", ratePtr("5"), ItemStatusReturned),
			line("250", nil, ItemStatusReturned),
		}, dec("5"), dec("10"))
		assertTotals(t, got, "0", "0", "0", "0")
		assert.True(t, got.IsZero())
	})

	t.Run("excludes returned lines", func(t *testing.T) {
		got := Recompute([]BillItem{
			line("500", nil, ItemStatusReturned),
			line("300", nil, ItemStatusSold),
			line("400", nil, ItemStatusSold),
		}, decimal.Zero, decimal.Zero)
		assertTotals(t, got, "700", "0", "0", "700")
	})

	t.Run("falls back to bill rate per line", func(t *testing.T) {
		got := Recompute([]BillItem{
			line("1000", ratePtr("12"), ItemStatusSold),
			line("1000", nil, ItemStatusSold),
		}, dec("5"), decimal.Zero)
		assertTotals(t, got, "2000", "170", "0", "2170")
	})

	t.Run("frozen zero rate is not replaced by bill rate", func(t *testing.T) {
		got := Recompute([]BillItem{line("1000", ratePtr("0"), ItemStatusSold)}, dec("5"), decimal.Zero)
		assertTotals(t, got, "1000", "0", "0", "1000")
	})

	t.Run("discount on subtotal", func(t *testing.T) {
		got := Recompute([]BillItem{line("1000", ratePtr("5"), ItemStatusSold)}, dec("5"), dec("10"))
		assertTotals(t, got, "1000", "50", "100", "950")
	})

	t.Run("rounds half away from zero to two places", func(t *testing.T) {
		got := Recompute([]BillItem{line("333.33", ratePtr("5"), ItemStatusSold)}, decimal.Zero, dec("10"))
		assertTotals(t, got, "333.33", "16.67", "33.33", "316.67")
	})

	t.Run("no items", func(t *testing.T) {
		got := Recompute(nil, dec("18"), dec("50"))
		assert.True(t, got.IsZero())
	})
}

func TestTotals_Consistent(t *testing.T) {
	assert.True(t, Totals{Subtotal: dec("100"), GSTAmount: dec("5"), DiscountAmount: dec("10"), TotalAmount: dec("95")}.Consistent())
	assert.False(t, Totals{Subtotal: dec("100"), TotalAmount: dec("90")}.Consistent())
	assert.True(t, Totals{Subtotal: dec("10"), DiscountAmount: dec("20"), TotalAmount: decimal.Zero}.Consistent())
}

package billing

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale aggregates are rounded to.
const MoneyPlaces = 2

// Totals are the four recomputable bill aggregates
type Totals struct {
	Subtotal       decimal.Decimal
	GSTAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// IsZero reports whether every aggregate is zero
func (t Totals) IsZero() bool {
	return t.Subtotal.IsZero() && t.GSTAmount.IsZero() && t.DiscountAmount.IsZero() && t.TotalAmount.IsZero()
}

// Consistent reports whether TotalAmount == max(0, Subtotal + GSTAmount - DiscountAmount)
func (t Totals) Consistent() bool {
	return t.TotalAmount.Equal(clamp(t.Subtotal.Add(t.GSTAmount).Sub(t.DiscountAmount)))
}

// Recompute derives bill aggregates from scratch over the non-returned items.
//
// Each line contributes total x rate / 100 of GST, where rate is the line's
// frozen rate or billGSTPercent when the line has none. The discount is taken
// on the subtotal. Components are clamped at zero and rounded half away from
// zero to MoneyPlaces before the total is derived, so the result always
// satisfies Consistent.
func Recompute(items []BillItem, billGSTPercent, discountPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	gst := decimal.Zero
	for i := range items {
		item := &items[i]
		if item.IsReturned() {
			continue
		}
		rate := billGSTPercent
		if item.GSTPercent != nil {
			rate = *item.GSTPercent
		}
		subtotal = subtotal.Add(item.Total)
		gst = gst.Add(item.Total.Mul(rate).Div(hundred))
	}

	subtotal = round(clamp(subtotal))
	gst = round(clamp(gst))
	discount := round(clamp(subtotal.Mul(discountPercent).Div(hundred)))

	return Totals{
		Subtotal:       subtotal,
		GSTAmount:      gst,
		DiscountAmount: discount,
		TotalAmount:    clamp(subtotal.Add(gst).Sub(discount)),
	}
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

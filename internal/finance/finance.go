// Package finance computes invoice and quote totals. Everything here is
// pure: the same input always yields the same Totals, and callers may
// invoke it both before persisting and for live previews.
package finance

// Item is one billable line reduced to the two fields the computation
// needs. Quantity and rate are assumed validated (non-negative numbers)
// before they get here.
type Item struct {
	Quantity float64
	Rate     float64
}

// Modifiers adjust the raw line-item subtotal.
type Modifiers struct {
	TaxRatePercent float64
	Discount       float64 // flat amount, may exceed the subtotal
	Shipping       float64 // flat amount
}

// Totals holds the derived amounts. Values are not rounded; rounding to
// currency precision is a presentation concern.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Compute derives subtotal, tax and total from the items and modifiers.
//
//	subtotal = Σ quantity×rate
//	tax      = (subtotal − discount) × taxRatePercent / 100
//	total    = subtotal − discount + tax + shipping
//
// The discount is deliberately not clamped: a discount larger than the
// subtotal produces a negative taxable base and possibly a negative total.
// An empty item list is valid and yields subtotal 0.
func Compute(items []Item, m Modifiers) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Quantity * it.Rate
	}
	afterDiscount := subtotal - m.Discount
	tax := afterDiscount * m.TaxRatePercent / 100
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    afterDiscount + tax + m.Shipping,
	}
}

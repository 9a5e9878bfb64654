package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSimpleTax(t *testing.T) {
	got := Compute([]Item{{Quantity: 10, Rate: 100}}, Modifiers{TaxRatePercent: 10})
	assert.Equal(t, 1000.0, got.Subtotal)
	assert.Equal(t, 100.0, got.Tax)
	assert.Equal(t, 1100.0, got.Total)
}

func TestComputeDiscountAndShipping(t *testing.T) {
	items := []Item{{Quantity: 2, Rate: 50}, {Quantity: 1, Rate: 25}}
	got := Compute(items, Modifiers{TaxRatePercent: 0, Discount: 10, Shipping: 5})
	assert.Equal(t, 125.0, got.Subtotal)
	assert.Equal(t, 0.0, got.Tax)
	assert.Equal(t, 120.0, got.Total)
}

func TestComputeEmptyItems(t *testing.T) {
	// tax applies to the (negative) after-discount base; total may go negative
	got := Compute(nil, Modifiers{TaxRatePercent: 0, Discount: 3, Shipping: 10})
	assert.Equal(t, 0.0, got.Subtotal)
	assert.Equal(t, 7.0, got.Total)
}

func TestComputeDiscountNotClamped(t *testing.T) {
	got := Compute([]Item{{Quantity: 1, Rate: 100}}, Modifiers{TaxRatePercent: 10, Discount: 200})
	assert.Equal(t, 100.0, got.Subtotal)
	assert.Equal(t, -10.0, got.Tax) // (100-200) * 10%
	assert.Equal(t, -105.0, got.Total)
}

func TestComputeIdempotent(t *testing.T) {
	items := []Item{{Quantity: 3, Rate: 19.99}, {Quantity: 0.5, Rate: 40}}
	m := Modifiers{TaxRatePercent: 15, Discount: 5, Shipping: 12.5}
	first := Compute(items, m)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(items, m))
	}
}

func TestComputeSubtotalAdditive(t *testing.T) {
	a := Item{Quantity: 4, Rate: 12.25}
	b := Item{Quantity: 7, Rate: 3.6}
	both := Compute([]Item{a, b}, Modifiers{})
	onlyA := Compute([]Item{a}, Modifiers{})
	onlyB := Compute([]Item{b}, Modifiers{})
	assert.InDelta(t, onlyA.Subtotal+onlyB.Subtotal, both.Subtotal, 1e-9)
}

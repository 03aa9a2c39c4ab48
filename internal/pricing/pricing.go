package pricing

import (
	"math"
	"strconv"
)

// Line pricing uses a fixed cascade: the discount is applied to the gross
// subtotal first, then tax is computed on the discounted amount. The
// intermediate amounts in the breakdown depend on this order.

// Breakdown holds every intermediate amount of the cascade for one line.
type Breakdown struct {
	Subtotal float64
	Discount float64
	Taxable  float64
	Tax      float64
	Total    float64
}

// Compute applies the cascade and returns the full breakdown.
// Inputs are taken as-is; positivity is the lifecycle layer's concern.
func Compute(quantity, unitPrice, discountPercent, taxPercent float64) Breakdown {
	b := Breakdown{}
	b.Subtotal = quantity * unitPrice
	b.Discount = b.Subtotal * (discountPercent / 100)
	b.Taxable = b.Subtotal - b.Discount
	b.Tax = b.Taxable * (taxPercent / 100)
	b.Total = b.Taxable + b.Tax
	return b
}

// LineTotal is the cascade reduced to its final amount.
func LineTotal(quantity, unitPrice, discountPercent, taxPercent float64) float64 {
	return Compute(quantity, unitPrice, discountPercent, taxPercent).Total
}

// Amount coerces free-form numeric input to a float. Unparsable values and
// non-finite results coerce to zero instead of erroring, so a half-typed
// field never poisons a total.
func Amount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Count coerces free-form quantity input to an int, zero on failure.
func Count(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

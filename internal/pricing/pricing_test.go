package pricing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeCascadeOrder(t *testing.T) {
	// discount before tax: 200 -> -50% = 100 -> +20% = 120. Asserting the
	// whole breakdown pins the ordering: the discount must be taken on the
	// gross 200 and the tax on the discounted 100, not on the gross.
	b := Compute(1, 200, 50, 20)
	if !almostEqual(b.Subtotal, 200) {
		t.Fatalf("subtotal: got %v want 200", b.Subtotal)
	}
	if !almostEqual(b.Discount, 100) {
		t.Fatalf("discount: got %v want 100", b.Discount)
	}
	if !almostEqual(b.Taxable, 100) {
		t.Fatalf("taxable: got %v want 100", b.Taxable)
	}
	if !almostEqual(b.Tax, 20) {
		t.Fatalf("tax: got %v want 20", b.Tax)
	}
	if !almostEqual(b.Total, 120) {
		t.Fatalf("total: got %v want 120", b.Total)
	}
}

func TestLineTotalKnownValues(t *testing.T) {
	cases := []struct {
		name                      string
		qty, price, discount, tax float64
		want                      float64
	}{
		{"no rates", 2, 1000, 0, 0, 2000},
		{"discount then tax", 1, 100, 10, 10, 99},
		{"discount only", 4, 25, 50, 0, 50},
		{"tax only", 1, 100, 0, 20, 120},
		{"zero quantity", 0, 100, 10, 10, 0},
		{"zero price", 5, 0, 10, 10, 0},
		{"full discount", 1, 100, 100, 20, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := LineTotal(c.qty, c.price, c.discount, c.tax)
			if !almostEqual(got, c.want) {
				t.Fatalf("LineTotal(%v,%v,%v,%v) = %v, want %v", c.qty, c.price, c.discount, c.tax, got, c.want)
			}
		})
	}
}

func TestLineTotalMonotonic(t *testing.T) {
	base := LineTotal(2, 100, 10, 10)
	if more := LineTotal(3, 100, 10, 10); more < base {
		t.Fatalf("total decreased when quantity grew: %v -> %v", base, more)
	}
	if more := LineTotal(2, 150, 10, 10); more < base {
		t.Fatalf("total decreased when price grew: %v -> %v", base, more)
	}
	if less := LineTotal(2, 100, 20, 10); less > base {
		t.Fatalf("total increased when discount grew: %v -> %v", base, less)
	}
}

func TestLineTotalIdempotent(t *testing.T) {
	first := LineTotal(3, 19.99, 12.5, 5.5)
	second := LineTotal(3, 19.99, 12.5, 5.5)
	if first != second {
		t.Fatalf("recomputation on unchanged inputs diverged: %v vs %v", first, second)
	}
}

func TestAmountCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{"-3", -3},
		{"", 0},
		{"abc", 0},
		{"12,5", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, c := range cases {
		if got := Amount(c.in); got != c.want {
			t.Fatalf("Amount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCountCoercion(t *testing.T) {
	if got := Count("7"); got != 7 {
		t.Fatalf("Count(7) = %d", got)
	}
	if got := Count("x"); got != 0 {
		t.Fatalf("Count(x) = %d, want 0", got)
	}
	if got := Count("3.5"); got != 0 {
		t.Fatalf("Count(3.5) = %d, want 0", got)
	}
}

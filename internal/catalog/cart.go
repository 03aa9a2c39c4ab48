package catalog

// Product is one immutable catalog entry as seen by the cart. It mirrors the
// fields the catalog source exposes and is never mutated here.
type Product struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
}

// Line is one product selection with its quantity. At most one line per
// product id exists in a cart.
type Line struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the in-progress selection edited before a document is generated.
// It is a plain value scoped to one editing session; the caller owns the
// mutable reference and nothing here persists.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add inserts the product with quantity 1, or bumps the quantity of the
// existing line for the same product id.
func (c *Cart) Add(p Product) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: 1})
}

// Remove decrements the quantity for the product id, dropping the line when
// it reaches zero. Unknown ids are a no-op.
func (c *Cart) Remove(id uint) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID != id {
			continue
		}
		if c.Lines[i].Quantity > 1 {
			c.Lines[i].Quantity--
			return
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return
	}
}

// SetQuantity replaces the quantity for the product id. Zero or negative
// removes the line entirely.
func (c *Cart) SetQuantity(id uint, qty int) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID != id {
			continue
		}
		if qty <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
		c.Lines[i].Quantity = qty
		return
	}
}

// Quantity returns the current quantity for the product id, 0 when absent.
func (c *Cart) Quantity(id uint) int {
	for _, l := range c.Lines {
		if l.Product.ID == id {
			return l.Quantity
		}
	}
	return 0
}

// TotalItems sums all quantities. Display-only, never derived into a document.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether no products are selected.
func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

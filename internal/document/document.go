package document

import (
	"time"

	"github.com/diewo77/crm-billing/internal/pricing"
)

// Status of a document within its lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusValidated Status = "validated"
)

// Client identifies the recipient of a quote or invoice.
type Client struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
}

// Line is one priced row of a document. Total is always derived from the
// other four numeric fields and is never settable on its own; every setter
// below re-derives it before returning.
type Line struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxPercent      float64 `json:"tax_percent"`
	Total           float64 `json:"total"`
}

func (l *Line) recompute() {
	l.Total = pricing.LineTotal(float64(l.Quantity), l.UnitPrice, l.DiscountPercent, l.TaxPercent)
}

// Document is a quote or invoice under edition. It is a plain value scoped to
// one editing session; the session owns the mutable reference.
type Document struct {
	ID            int64         `json:"id,omitempty"`
	Kind          Kind          `json:"kind"`
	Status        Status        `json:"status"`
	Client        Client        `json:"client"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	SendLater     bool          `json:"send_later"`
	Terms         Terms         `json:"terms"`
	CreationDate  time.Time     `json:"creation_date"`
	DueDate       time.Time     `json:"due_date"`
	Lines         []Line        `json:"lines"`
	TotalAmount   float64       `json:"total_amount"`
}

// AddLine appends a line with a freshly minted id (max existing + 1, ids are
// never reused after removal) and a derived total. Catalog adds, free-text
// search adds, and blank lines all come through here.
func (d *Document) AddLine(name string, quantity int, unitPrice float64) *Line {
	maxID := 0
	for _, l := range d.Lines {
		if l.ID > maxID {
			maxID = l.ID
		}
	}
	line := Line{ID: maxID + 1, Name: name, Quantity: quantity, UnitPrice: unitPrice}
	line.recompute()
	d.Lines = append(d.Lines, line)
	return &d.Lines[len(d.Lines)-1]
}

// RemoveLine drops the line with the given id. The last remaining line is
// kept: a document under edition never has zero lines, so removing it is a
// silent no-op. Returns whether a line was removed.
func (d *Document) RemoveLine(id int) bool {
	if len(d.Lines) <= 1 {
		return false
	}
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// ClearLines resets the line set to a single blank line with id 1. This is a
// destructive reset, not a line-by-line removal.
func (d *Document) ClearLines() {
	d.Lines = []Line{{ID: 1}}
}

// Total sums the live line totals. The document never caches an aggregate
// computed from different inputs than its lines.
func (d *Document) Total() float64 {
	sum := 0.0
	for _, l := range d.Lines {
		sum += l.Total
	}
	return sum
}

// Recompute re-derives every line total from its current fields.
func (d *Document) Recompute() {
	for i := range d.Lines {
		d.Lines[i].recompute()
	}
}

func (d *Document) line(id int) *Line {
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			return &d.Lines[i]
		}
	}
	return nil
}

// RenameLine sets the line's display name. Unknown ids are a no-op.
func (d *Document) RenameLine(id int, name string) {
	if l := d.line(id); l != nil {
		l.Name = name
	}
}

// SetQuantity updates the quantity and re-derives the line total.
func (d *Document) SetQuantity(id, quantity int) {
	if l := d.line(id); l != nil {
		l.Quantity = quantity
		l.recompute()
	}
}

// SetUnitPrice updates the unit price and re-derives the line total.
func (d *Document) SetUnitPrice(id int, price float64) {
	if l := d.line(id); l != nil {
		l.UnitPrice = price
		l.recompute()
	}
}

// SetDiscount updates the discount percentage and re-derives the line total.
func (d *Document) SetDiscount(id int, percent float64) {
	if l := d.line(id); l != nil {
		l.DiscountPercent = percent
		l.recompute()
	}
}

// SetTax updates the tax percentage and re-derives the line total.
func (d *Document) SetTax(id int, percent float64) {
	if l := d.line(id); l != nil {
		l.TaxPercent = percent
		l.recompute()
	}
}

// snapshot returns a deep copy so finalization never aliases the lines still
// owned by the editing session.
func (d *Document) snapshot() *Document {
	cp := *d
	cp.Lines = make([]Line, len(d.Lines))
	copy(cp.Lines, d.Lines)
	return &cp
}

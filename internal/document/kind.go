package document

import (
	"fmt"

	"github.com/diewo77/crm-billing/validation"
)

// Kind distinguishes the two document pipelines. They share every component;
// only the validation policy applied before saving differs.
type Kind string

const (
	KindQuote   Kind = "quote"
	KindInvoice Kind = "invoice"
)

func (k Kind) Valid() bool { return k == KindQuote || k == KindInvoice }

// PaymentMethod of a document.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentBankTransfer, PaymentCash:
		return true
	}
	return false
}

// Terms is a net-payment preset used to derive the due date.
type Terms string

const (
	TermsNone  Terms = "none"
	TermsNet15 Terms = "net15"
	TermsNet30 Terms = "net30"
	TermsNet45 Terms = "net45"
	TermsNet60 Terms = "net60"
)

// Days returns the net-payment delay, 0 for TermsNone.
func (t Terms) Days() int {
	switch t {
	case TermsNet15:
		return 15
	case TermsNet30:
		return 30
	case TermsNet45:
		return 45
	case TermsNet60:
		return 60
	}
	return 0
}

func (t Terms) Valid() bool {
	switch t {
	case TermsNone, TermsNet15, TermsNet30, TermsNet45, TermsNet60:
		return true
	}
	return false
}

// ApplyTerms records the preset and, for a real preset, moves the due date to
// creation date + N days. TermsNone leaves the user-set due date alone.
func (d *Document) ApplyTerms(t Terms) {
	d.Terms = t
	if days := t.Days(); days > 0 {
		d.DueDate = d.CreationDate.AddDate(0, 0, days)
	}
}

// policy returns the pre-save validation for a kind. Quotes save without any
// field checks while invoices require complete client and line data.
type policy func(d *Document) validation.Violations

func policyFor(k Kind) policy {
	if k == KindInvoice {
		return invoicePolicy
	}
	return quotePolicy
}

func quotePolicy(_ *Document) validation.Violations {
	return validation.Violations{}
}

func invoicePolicy(d *Document) validation.Violations {
	v := validation.Violations{}
	validation.Required("client_name", d.Client.Name, v)
	validation.Required("client_address", d.Client.Address, v)
	validation.DateRequired("creation_date", d.CreationDate, v)
	validation.DateRequired("due_date", d.DueDate, v)
	for _, l := range d.Lines {
		v.Merge(lineViolations(l))
	}
	return v
}

func lineViolations(l Line) validation.Violations {
	v := validation.Violations{}
	prefix := fmt.Sprintf("lines.%d.", l.ID)
	validation.Required(prefix+"name", l.Name, v)
	validation.PositiveInt(prefix+"quantity", l.Quantity, v)
	validation.PositiveFloat(prefix+"unit_price", l.UnitPrice, v)
	validation.RangeFloat(prefix+"discount_percent", l.DiscountPercent, 0, 100, v)
	validation.RangeFloat(prefix+"tax_percent", l.TaxPercent, 0, 100, v)
	return v
}

package document

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/crm-billing/internal/catalog"
	"github.com/diewo77/crm-billing/validation"
)

// State of an editing session.
type State string

const (
	StateEditing   State = "editing"
	StateGenerated State = "generated"
	StateValidated State = "validated"
)

var (
	// ErrNotEditing is returned when Generate is called outside StateEditing.
	ErrNotEditing = errors.New("session_not_editing")
	// ErrNotGenerated is returned when Finalize is called before Generate.
	ErrNotGenerated = errors.New("session_not_generated")
)

// ValidationError carries the complete field -> message map of a rejected
// transition. The session is left untouched so the caller can correct the
// inputs and resubmit.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Session drives one document through editing, generation and save. It owns
// the cart during editing and the draft document after generation; both are
// plain values discarded on Reset.
type Session struct {
	Kind  Kind
	State State
	Cart  catalog.Cart
	Doc   *Document
}

func NewSession(kind Kind) *Session {
	return &Session{Kind: kind, State: StateEditing}
}

// day strips the time component; documents carry calendar dates only.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Generate freezes the cart into a draft document. The cart must hold at
// least one product; otherwise a ValidationError is returned and the session
// stays in StateEditing. Lines derive 1:1 from cart lines with discount and
// tax at zero, creation date today and due date today + 30 days.
func (s *Session) Generate(now time.Time) error {
	if s.State != StateEditing {
		return ErrNotEditing
	}
	if s.Cart.Empty() {
		return &ValidationError{Violations: validation.Violations{"cart": "select_at_least_one_product"}}
	}
	today := day(now)
	doc := &Document{
		Kind:          s.Kind,
		Status:        StatusDraft,
		PaymentMethod: PaymentCard,
		Terms:         TermsNone,
		CreationDate:  today,
		DueDate:       today.AddDate(0, 0, 30),
	}
	for _, cl := range s.Cart.Lines {
		doc.AddLine(cl.Product.Name, cl.Quantity, cl.Product.UnitPrice)
	}
	s.Doc = doc
	s.State = StateGenerated
	return nil
}

// Reset discards the cart and the draft and returns to StateEditing.
func (s *Session) Reset() {
	s.Cart = catalog.Cart{}
	s.Doc = nil
	s.State = StateEditing
}

// Finalize validates the draft against the kind's policy and returns a
// validated snapshot ready for persistence: every line total and the document
// total are recomputed from scratch (totals computed earlier in the session
// are never trusted), the id is minted from the timestamp and the status set
// to validated. The session itself stays in StateGenerated until Complete, so
// a failed persistence call can simply be retried.
func (s *Session) Finalize(now time.Time) (*Document, error) {
	if s.State != StateGenerated || s.Doc == nil {
		return nil, ErrNotGenerated
	}
	// a document under edition always has at least one line, whatever the kind
	if len(s.Doc.Lines) == 0 {
		return nil, &ValidationError{Violations: validation.Violations{"lines": "required"}}
	}
	if v := policyFor(s.Kind)(s.Doc); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	snap := s.Doc.snapshot()
	snap.Recompute()
	snap.TotalAmount = snap.Total()
	snap.ID = now.UnixMilli()
	snap.Status = StatusValidated
	return snap, nil
}

// Complete marks the session validated once the snapshot has been persisted.
func (s *Session) Complete() {
	s.State = StateValidated
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/crm-billing/internal/document"
	"github.com/diewo77/crm-billing/internal/notify"
	"github.com/diewo77/crm-billing/internal/store"
)

// PersistenceError wraps a failure of the persistence collaborator. The
// session is left in its generated state so the save can be retried without
// re-entering any data.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persistence failed: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// DocumentService drives the Generated -> Validated transition: finalize the
// session, hand the snapshot to the persistence collaborator as one unit, and
// emit a notification either way.
type DocumentService struct {
	Store    store.Saver
	Notifier notify.Notifier
	Now      func() time.Time
}

func NewDocumentService(st store.Saver, n notify.Notifier) *DocumentService {
	return &DocumentService{Store: st, Notifier: n, Now: time.Now}
}

// Save validates and persists the session's document. sendNow signals the
// "save and send" action: identical validation and persistence, but the
// snapshot is sent immediately instead of honoring its SendLater flag.
// On validation failure the error carries every violated field; on
// persistence failure the session remains generated for a manual retry.
func (s *DocumentService) Save(ctx context.Context, sess *document.Session, userID uint, sendNow bool) (*document.Document, error) {
	snap, err := sess.Finalize(s.Now())
	if err != nil {
		return nil, err
	}
	action := "save"
	if sendNow {
		snap.SendLater = false
		action = "send"
	}
	label := "quote"
	if snap.Kind == document.KindInvoice {
		label = "invoice"
	}
	if err := s.Store.Save(ctx, snap, userID, action); err != nil {
		s.Notifier.Error(fmt.Sprintf("could not save %s: %v", label, err))
		return nil, &PersistenceError{Err: err}
	}
	sess.Complete()
	if sendNow {
		s.Notifier.Success(fmt.Sprintf("%s %d saved and sent", label, snap.ID))
	} else {
		s.Notifier.Success(fmt.Sprintf("%s %d saved", label, snap.ID))
	}
	return snap, nil
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/crm-billing/internal/catalog"
	"github.com/diewo77/crm-billing/internal/document"
)

type fakeSaver struct {
	err    error
	saved  *document.Document
	action string
}

func (f *fakeSaver) Save(_ context.Context, doc *document.Document, _ uint, action string) error {
	if f.err != nil {
		return f.err
	}
	f.saved = doc
	f.action = action
	return nil
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

var testNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func generatedInvoiceSession(t *testing.T) *document.Session {
	t.Helper()
	s := document.NewSession(document.KindInvoice)
	s.Cart.Add(catalog.Product{ID: 1, Name: "Site vitrine", UnitPrice: 1500})
	if err := s.Generate(testNow); err != nil {
		t.Fatalf("generate: %v", err)
	}
	s.Doc.Client = document.Client{Name: "ClientCo", Address: "1 rue de Paris"}
	return s
}

func newTestService(saver *fakeSaver, n *recordingNotifier) *DocumentService {
	svc := NewDocumentService(saver, n)
	svc.Now = func() time.Time { return testNow }
	return svc
}

func TestSaveSuccessCompletesSession(t *testing.T) {
	saver := &fakeSaver{}
	notifier := &recordingNotifier{}
	svc := newTestService(saver, notifier)
	sess := generatedInvoiceSession(t)

	snap, err := svc.Save(context.Background(), sess, 1, false)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if snap.ID != testNow.UnixMilli() || snap.Status != document.StatusValidated {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if saver.saved != snap || saver.action != "save" {
		t.Fatalf("saver got %+v action=%q", saver.saved, saver.action)
	}
	if sess.State != document.StateValidated {
		t.Fatalf("expected validated session, got %s", sess.State)
	}
	if len(notifier.successes) != 1 || len(notifier.errors) != 0 {
		t.Fatalf("unexpected notifications: %+v / %+v", notifier.successes, notifier.errors)
	}
}

func TestSaveAndSendOverridesSendLater(t *testing.T) {
	saver := &fakeSaver{}
	svc := newTestService(saver, &recordingNotifier{})
	sess := generatedInvoiceSession(t)
	sess.Doc.SendLater = true

	snap, err := svc.Save(context.Background(), sess, 1, true)
	if err != nil {
		t.Fatalf("save and send: %v", err)
	}
	if snap.SendLater {
		t.Fatalf("send-now snapshot still flagged SendLater")
	}
	if saver.action != "send" {
		t.Fatalf("expected send action, got %q", saver.action)
	}
	// the draft keeps its own flag; only the snapshot was overridden
	if !sess.Doc.SendLater {
		t.Fatalf("draft SendLater flag was mutated")
	}
}

func TestSaveValidationFailureSkipsPersistence(t *testing.T) {
	saver := &fakeSaver{}
	notifier := &recordingNotifier{}
	svc := newTestService(saver, notifier)
	sess := generatedInvoiceSession(t)
	sess.Doc.Client.Name = ""

	_, err := svc.Save(context.Background(), sess, 1, false)
	var verr *document.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if saver.saved != nil {
		t.Fatalf("persistence called despite validation failure")
	}
	if sess.State != document.StateGenerated {
		t.Fatalf("session left %s", sess.State)
	}
}

func TestSavePersistenceFailureKeepsSessionRetryable(t *testing.T) {
	saver := &fakeSaver{err: errors.New("connection reset")}
	notifier := &recordingNotifier{}
	svc := newTestService(saver, notifier)
	sess := generatedInvoiceSession(t)

	_, err := svc.Save(context.Background(), sess, 1, false)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if sess.State != document.StateGenerated {
		t.Fatalf("expected generated state for retry, got %s", sess.State)
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected one error notification, got %+v", notifier.errors)
	}

	// manual retry after the collaborator recovers
	saver.err = nil
	if _, err := svc.Save(context.Background(), sess, 1, false); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if sess.State != document.StateValidated {
		t.Fatalf("retry did not complete the session: %s", sess.State)
	}
}

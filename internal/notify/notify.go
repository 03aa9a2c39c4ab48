package notify

import "log"

// Notifier is the notification collaborator: a success or error signal plus a
// short human-readable message emitted at lifecycle transition boundaries.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Printf("notify: %s", msg) }
func (LogNotifier) Error(msg string)   { log.Printf("notify error: %s", msg) }

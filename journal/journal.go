/*
Package journal keeps a local record of every submitted action and its
outcome. The chain is the only source of truth for savings objects, the
journal only answers "what did I do and when".
*/
package journal

import (
	"time"
)

// Outcome statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Entry is a single recorded action.
type Entry struct {
	ID     int64     `json:"id"`
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	BankID string    `json:"bank_id,omitempty"`
	Digest string    `json:"digest,omitempty"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// Recorder persists entries.
type Recorder interface {
	Record(e *Entry) error
	// History returns up to limit most recent entries, newest first.
	// Non positive limit returns all entries.
	History(limit int) ([]Entry, error)
	Close() error
}

// NoopRecorder is used when no journal file is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ *Entry) error          { return nil }
func (n *NoopRecorder) History(_ int) ([]Entry, error) { return nil, nil }
func (n *NoopRecorder) Close() error                   { return nil }

package common

import (
	"context"
	"time"

	"github.com/andrescamacho/antbot-go/internal/domain/reservation"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
)

// JournalEntry is the record of one processed turn
type JournalEntry struct {
	SessionID    string                        `json:"session_id"`
	Turn         int                           `json:"turn"`
	RecordedAt   time.Time                     `json:"recorded_at"`
	Duration     time.Duration                 `json:"duration_ns"`
	Degraded     bool                          `json:"degraded"`
	Commands     []task.Command                `json:"commands"`
	Skipped      []string                      `json:"skipped,omitempty"`
	Dropped      []string                      `json:"dropped,omitempty"`
	Reservations []reservation.ReservationView `json:"reservations"`
	Tasks        []task.View                   `json:"tasks"`
}

// TurnJournal persists the record of every processed turn.
// Implementations must not block the turn for long; failures are logged, not fatal.
type TurnJournal interface {
	Record(ctx context.Context, entry *JournalEntry) error
	Close() error
}

// MultiJournal fans an entry out to several journals, returning the first error
type MultiJournal []TurnJournal

func (m MultiJournal) Record(ctx context.Context, entry *JournalEntry) error {
	var firstErr error
	for _, j := range m {
		if err := j.Record(ctx, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m MultiJournal) Close() error {
	var firstErr error
	for _, j := range m {
		if err := j.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

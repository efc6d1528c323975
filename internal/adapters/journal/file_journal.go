package journal

import (
	"context"
	"errors"
	"io"

	"github.com/andrescamacho/antbot-go/internal/application/common"
)

// FileJournal writes turn records to a compressed JSONL file
type FileJournal struct {
	w *JSONLZstdWriter
}

// NewFileJournal opens or appends to the journal at path
func NewFileJournal(path, level string) (*FileJournal, error) {
	w, err := NewJSONLZstdWriter(path, level)
	if err != nil {
		return nil, err
	}
	return &FileJournal{w: w}, nil
}

// Record implements common.TurnJournal
func (j *FileJournal) Record(ctx context.Context, entry *common.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return j.w.Write(entry)
}

// Close implements common.TurnJournal
func (j *FileJournal) Close() error {
	return j.w.Close()
}

// ReadEntries loads every turn record of a journal file, optionally filtered to
// one session
func ReadEntries(path, sessionID string) ([]*common.JournalEntry, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var entries []*common.JournalEntry
	for {
		entry := &common.JournalEntry{}
		err := r.Next(entry)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		if sessionID == "" || entry.SessionID == sessionID {
			entries = append(entries, entry)
		}
	}
}

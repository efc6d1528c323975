package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// maxLineBytes bounds a single JSON record; snapshots of large arenas are the
// biggest records written
const maxLineBytes = 16 * 1024 * 1024

// Reader decodes the records of a JSONL zstd file in order. Concatenated
// frames, as produced by reopening a file for append, are read through.
type Reader struct {
	f       *os.File
	dec     *zstd.Decoder
	scanner *bufio.Scanner
	line    int
}

// OpenReader opens a journal file for reading
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{f: f, dec: dec, scanner: scanner}, nil
}

// Next decodes the next record into v. It returns io.EOF after the last record.
func (r *Reader) Next(v any) error {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, v); err != nil {
			return fmt.Errorf("journal line %d: %w", r.line, err)
		}
		return nil
	}
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	return io.EOF
}

// Close releases the decoder and the file
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}

package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// JSONLZstdWriter appends one JSON document per line to a zstd-compressed
// file. Every Write is flushed through to the file as a zstd block.
type JSONLZstdWriter struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewJSONLZstdWriter opens path for appending. level is one of fastest,
// default, better, best; empty means default.
func NewJSONLZstdWriter(path, level string) (*JSONLZstdWriter, error) {
	encLevel := zstd.SpeedDefault
	if level != "" {
		ok, parsed := zstd.EncoderLevelFromString(level)
		if !ok {
			return nil, fmt.Errorf("unknown zstd compression level %q", level)
		}
		encLevel = parsed
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(encLevel))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	return &JSONLZstdWriter{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Path returns the file being written
func (w *JSONLZstdWriter) Path() string {
	return w.path
}

// Write appends v as one JSON line
func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return fmt.Errorf("journal %s is closed", w.path)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal journal record: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close finishes the zstd frame and closes the file
func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return nil
	}

	flushErr := w.w.Flush()
	encErr := w.enc.Close()
	fileErr := w.f.Close()
	w.w, w.enc, w.f = nil, nil, nil

	switch {
	case flushErr != nil:
		return flushErr
	case encErr != nil:
		return encErr
	default:
		return fileErr
	}
}

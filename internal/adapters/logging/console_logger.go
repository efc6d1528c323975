// Package logging provides the TurnLogger the binaries put on the context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
)

const decisionTag = "[Scheduler]"

// ConsoleLogger writes engine log lines through log/slog, as text or JSON
type ConsoleLogger struct {
	logger    *slog.Logger
	decisions bool

	mu     sync.Mutex
	closer io.Closer
}

// NewConsoleLogger builds a logger from the logging section of the config.
// Close releases the log file when output is "file".
func NewConsoleLogger(cfg config.LoggingConfig) (*ConsoleLogger, error) {
	var (
		w      io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("logging output is file but no file_path is set")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		return nil, fmt.Errorf("unknown logging output %q", cfg.Output)
	}

	logger, err := NewWriterLogger(w, cfg.Level, cfg.Format, cfg.LogDecisions)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	logger.closer = closer
	return logger, nil
}

// NewWriterLogger logs to any writer
func NewWriterLogger(w io.Writer, level, format string, decisions bool) (*ConsoleLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown logging format %q", format)
	}

	return &ConsoleLogger{logger: slog.New(handler), decisions: decisions}, nil
}

// ParseLevel maps a config level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown logging level %q", level)
	}
}

// toSlogLevel maps the TurnLogger level strings
func toSlogLevel(level string) slog.Level {
	switch level {
	case common.LevelDebug:
		return slog.LevelDebug
	case common.LevelWarn:
		return slog.LevelWarn
	case common.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log implements common.TurnLogger. Metadata keys are written in sorted order.
func (l *ConsoleLogger) Log(level, message string, metadata map[string]interface{}) {
	if !l.decisions && level == common.LevelDebug && strings.HasPrefix(message, decisionTag) {
		return
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}
	l.logger.LogAttrs(context.Background(), toSlogLevel(level), message, attrs...)
}

// Close releases the log file, if any
func (l *ConsoleLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

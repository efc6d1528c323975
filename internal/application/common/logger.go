package common

import "context"

// Log levels understood by TurnLogger implementations
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARNING"
	LevelError = "ERROR"
)

// TurnLogger records engine activity with structured metadata
type TurnLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger TurnLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) TurnLogger {
	if logger, ok := ctx.Value(loggerKey).(TurnLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// RecordingLogger keeps every entry in memory. Used by tests and the replay tool.
type RecordingLogger struct {
	Entries []LogEntry
}

// LogEntry is one recorded log call
type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

func (l *RecordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// Count returns how many entries were logged at level
func (l *RecordingLogger) Count(level string) int {
	n := 0
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

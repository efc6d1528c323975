package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/adapters/logging"
	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
)

func TestConsoleLogger_FiltersByLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger, err := logging.NewWriterLogger(&buf, "warn", "text", true)
	require.NoError(t, err)

	// Act
	logger.Log(common.LevelInfo, "[TurnEngine] Turn 1: 3 commands, 3 units", nil)
	logger.Log(common.LevelWarn, "[TurnEngine] Turn budget at risk, shedding patrols", map[string]interface{}{"turn": 4})

	// Assert
	out := buf.String()
	assert.NotContains(t, out, "Turn 1")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "turn=4")
}

func TestConsoleLogger_JSONFormat(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger, err := logging.NewWriterLogger(&buf, "info", "json", true)
	require.NoError(t, err)

	// Act
	logger.Log(common.LevelError, "[TurnEngine] Failed to journal turn 3", map[string]interface{}{"turn": 3})

	// Assert
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "[TurnEngine] Failed to journal turn 3", line["msg"])
	assert.Equal(t, float64(3), line["turn"])
}

func TestConsoleLogger_DecisionLinesOptional(t *testing.T) {
	// Arrange
	var quiet, verbose bytes.Buffer
	q, err := logging.NewWriterLogger(&quiet, "debug", "text", false)
	require.NoError(t, err)
	v, err := logging.NewWriterLogger(&verbose, "debug", "text", true)
	require.NoError(t, err)

	// Act
	for _, l := range []*logging.ConsoleLogger{q, v} {
		l.Log(common.LevelDebug, "[Scheduler] w1 -> COLLECT", nil)
		l.Log(common.LevelDebug, "[TurnEngine] other debug", nil)
	}

	// Assert
	assert.NotContains(t, quiet.String(), "[Scheduler]")
	assert.Contains(t, quiet.String(), "other debug")
	assert.Contains(t, verbose.String(), "[Scheduler]")
}

func TestConsoleLogger_FileOutput(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "logs", "antbot.log")
	logger, err := logging.NewConsoleLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "text",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)

	// Act
	logger.Log(common.LevelInfo, "[TurnEngine] State reset", nil)
	require.NoError(t, logger.Close())

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "State reset"))
	assert.NoError(t, logger.Close(), "second close is a no-op")
}

func TestConsoleLogger_RejectsUnknownSettings(t *testing.T) {
	_, err := logging.NewWriterLogger(&bytes.Buffer{}, "loud", "text", false)
	assert.Error(t, err)

	_, err = logging.NewWriterLogger(&bytes.Buffer{}, "info", "xml", false)
	assert.Error(t, err)

	_, err = logging.NewConsoleLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file"})
	assert.Error(t, err)
}

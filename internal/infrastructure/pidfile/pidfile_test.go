package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_WritesCurrentPID(t *testing.T) {
	// Arrange
	pf := New(filepath.Join(t.TempDir(), "run", "antbot.pid"))

	// Act
	require.NoError(t, pf.Acquire())

	// Assert
	pid, ok := pf.ReadPID()
	require.True(t, ok)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, pf.Release())
	_, err := os.Stat(pf.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_ReplacesGarbledFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "antbot.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid\n"), 0o644))
	pf := New(path)

	// Act & Assert
	require.NoError(t, pf.Acquire())
	pid, _ := pf.ReadPID()
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquire_RefusesLiveHolder(t *testing.T) {
	// Arrange: the parent of the test process is alive and is not us
	path := filepath.Join(t.TempDir(), "antbot.pid")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getppid())), 0o644))
	pf := New(path)

	// Act
	err := pf.Acquire()

	// Assert
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.NoError(t, pf.Release(), "release leaves a foreign file alone")
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestRunning_NoFile(t *testing.T) {
	pf := New(filepath.Join(t.TempDir(), "missing.pid"))

	_, running := pf.Running()

	assert.False(t, running)
}

func TestKillExisting_NoHolderIsNoop(t *testing.T) {
	pf := New(filepath.Join(t.TempDir(), "antbot.pid"))

	assert.NoError(t, pf.KillExisting(time.Second))
}

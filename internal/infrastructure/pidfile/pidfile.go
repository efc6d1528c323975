// Package pidfile keeps a single soak daemon per host.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is returned by Acquire when a live process holds the file
var ErrAlreadyRunning = errors.New("daemon is already running")

// PIDFile manages a process ID file
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// ReadPID returns the recorded PID; ok=false when there is no usable file
func (p *PIDFile) ReadPID() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Running reports the PID of a live holder, if any
func (p *PIDFile) Running() (int, bool) {
	pid, ok := p.ReadPID()
	if !ok || !isProcessRunning(pid) {
		return 0, false
	}
	return pid, true
}

// Acquire records the current process. A stale or garbled file left by a
// dead process is replaced; a live holder yields ErrAlreadyRunning.
func (p *PIDFile) Acquire() error {
	if pid, running := p.Running(); running && pid != os.Getpid() {
		return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale PID file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create PID file directory: %w", err)
	}
	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the file if this process owns it
func (p *PIDFile) Release() error {
	if pid, ok := p.ReadPID(); ok && pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// KillExisting sends SIGTERM to a live holder and waits up to timeout for it
// to exit. No live holder is not an error.
func (p *PIDFile) KillExisting(timeout time.Duration) error {
	pid, running := p.Running()
	if !running || pid == os.Getpid() {
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("process %d still running after %s", pid, timeout)
}

// isProcessRunning probes with signal 0; EPERM still means the process exists
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

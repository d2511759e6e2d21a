package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned by Acquire when a live process holds the file
type ErrAlreadyRunning struct {
	Path string
	PID  int
}

func (e *ErrAlreadyRunning) Error() string {
	return fmt.Sprintf("plan server is already running (PID %d, %s)", e.PID, e.Path)
}

// PIDFile guards a long-running command against a second instance
type PIDFile struct {
	path string
	pid  int
}

// New creates a PID file guard for the current process
func New(path string) *PIDFile {
	return &PIDFile{path: path, pid: os.Getpid()}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID. A stale or unreadable file is replaced;
// a file naming a live process other than this one is an error.
func (p *PIDFile) Acquire() error {
	if holder, ok := p.holder(); ok && holder != p.pid && isProcessRunning(holder) {
		return &ErrAlreadyRunning{Path: p.path, PID: holder}
	}

	if err := os.WriteFile(p.path, []byte(strconv.Itoa(p.pid)+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the file if it still names this process
func (p *PIDFile) Release() error {
	if holder, ok := p.holder(); ok && holder != p.pid {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

func (p *PIDFile) holder() (int, bool) {
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

// isProcessRunning sends signal 0 to the process
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true
	default:
		return false
	}
}

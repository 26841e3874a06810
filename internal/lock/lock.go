// Package lock provides an advisory, process-wide lock on a workspace
// directory. Schema migrations and bulk imports run under it.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// FileName is the lock file created inside the workspace directory.
const FileName = "LOCK"

// HeldError is returned when another process holds the workspace lock.
type HeldError struct {
	PID     int
	Purpose string
	Path    string
}

func (e *HeldError) Error() string {
	if e.Purpose != "" {
		return fmt.Sprintf("workspace busy: PID %d is running %s (%s)", e.PID, e.Purpose, e.Path)
	}
	return fmt.Sprintf("workspace busy: lock held by PID %d (%s)", e.PID, e.Path)
}

// Lock is an acquired workspace lock.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes the lock in dir without blocking. purpose is recorded in the
// lock file and reported to competing processes.
func Acquire(dir, purpose string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		data, _ := os.ReadFile(path)
		pid, held := parse(string(data))
		_ = f.Close()
		return nil, &HeldError{PID: pid, Purpose: held, Path: path}
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	content := fmt.Sprintf("pid=%d\npurpose=%s\ntime=%s\n", os.Getpid(), purpose, time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Lock{file: f, path: path}, nil
}

// With runs fn while holding the lock in dir.
func With(dir, purpose string, fn func() error) error {
	l, err := Acquire(dir, purpose)
	if err != nil {
		return err
	}
	defer func() { _ = l.Release() }()
	return fn()
}

// Release drops the lock. Safe on a nil receiver and when called twice.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

func parse(content string) (pid int, purpose string) {
	for _, line := range strings.Split(content, "\n") {
		if after, ok := strings.CutPrefix(line, "pid="); ok {
			pid, _ = strconv.Atoi(after)
		}
		if after, ok := strings.CutPrefix(line, "purpose="); ok {
			purpose = after
		}
	}
	return pid, purpose
}

/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package rlog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Logger is something that can print, using Logf, a format string
type Logger interface {
	Logf(format string, v ...any)
}

// subsystemLogger is a logger that handles only one file out of all that are opened by its parent
type subsystemLogger struct {
	name   string
	parent *RelayLogger
}

// Logf for a subsystem logger is just a wrap for the parent's logf, giving its only subsystem name
func (s *subsystemLogger) Logf(format string, v ...any) {
	s.parent.logf(s.name, format, v...)
}

// logEntry is an helper struct carrying a couple (subsystem, formatted string) onto the log channel
type logEntry struct {
	subsystem string
	formatted string
}

// RelayLogger can write to multiple log files, one per subsystem, from one single struct.
// It's safe to share amongst goroutines: lines are formatted at the call site and funneled
// through a channel that a single Run goroutine drains.
type RelayLogger struct {
	dir string // Directory holding every subsystem's log file

	fileMapper map[string]*os.File    // Maps a subsystem to an OS file (used only to be able to deallocate it later)
	logMapper  map[string]*log.Logger // Maps a subsystem to the corresponding logger

	lock    sync.RWMutex
	seq     atomic.Uint64 // Monotonic line counter, used for the line prefix
	enabled atomic.Bool

	inbox chan logEntry // Log channel, formatted strings are sent here instead of directly writing to files
}

// NewRelayLogger creates a RelayLogger writing under dir.
// When successful, error is nil
func NewRelayLogger(dir string, enabled bool) (*RelayLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	r := &RelayLogger{
		dir:        dir,
		fileMapper: make(map[string]*os.File),
		logMapper:  make(map[string]*log.Logger),
		inbox:      make(chan logEntry, 600),
	}
	r.enabled.Store(enabled)
	return r, nil
}

// RegisterSubsystem registers a new subsystem, returning a Logger that writes to its own file.
// If successful, error is nil
func (r *RelayLogger) RegisterSubsystem(name string) (Logger, error) {
	file, err := os.OpenFile(filepath.Join(r.dir, name+".log"), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	r.logMapper[name] = log.New(file, fmt.Sprintf("[%s]: ", name), log.Ldate|log.Ltime)
	r.fileMapper[name] = file
	return &subsystemLogger{name, r}, nil
}

// GetSubsystemLogger retrieves a subsystem logger, if previously registered.
// If successful, error is nil
func (r *RelayLogger) GetSubsystemLogger(name string) (Logger, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if _, ok := r.logMapper[name]; !ok {
		return nil, fmt.Errorf("The subsystem was not registered {%s}", name)
	}
	return &subsystemLogger{name, r}, nil
}

// EnableLogging enables the logging done by this logger
func (r *RelayLogger) EnableLogging() {
	r.enabled.Store(true)
}

// DisableLogging disables the logging done by this logger
func (r *RelayLogger) DisableLogging() {
	r.enabled.Store(false)
}

// logf formats a string using format and v, and appends it to the log channel alongside
// the subsystem it will be written for. A full inbox drops the line rather than stalling the relay.
func (r *RelayLogger) logf(subsystem, format string, v ...any) {
	if !r.enabled.Load() {
		return
	}
	entry := logEntry{subsystem, fmt.Sprintf(fmt.Sprintf("{%d}. %s", r.seq.Add(1), format), v...)}
	select {
	case r.inbox <- entry:
	default:
	}
}

// Run waits either on the log channel or ctx.Done()
// When ctx.Done(), the caller has shut down and we deallocate resources
// When a message arrives on the log channel, we write it accordingly
func (r *RelayLogger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case msg := <-r.inbox:
			r.write(msg.subsystem, msg.formatted)
		}
	}
}

// write is the function that appends the formatted string to the subsystem's file.
// When successful, error is nil
func (r *RelayLogger) write(subsystem, formatted string) error {
	r.lock.RLock()
	logger, ok := r.logMapper[subsystem]
	r.lock.RUnlock()

	if !ok {
		return fmt.Errorf("Logger is not setup for this subsystem {%s}", subsystem)
	}
	logger.Print(formatted)
	return nil
}

// CloseAll closes all the open files that the subsystem loggers are using
func (r *RelayLogger) CloseAll() {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, file := range r.fileMapper {
		file.Sync()
		file.Close()
	}
	clear(r.fileMapper)
	clear(r.logMapper)
}

package log

import (
	"fmt"
	"os"
	"sync"
)

// FileLogger appends each event to a file as one CBOR item. A failed write
// is counted and remembered rather than returned, since tracing must not
// fail the traced call. Safe for concurrent use.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	closed  bool
	dropped int
	err     error
}

// NewFileLogger opens path for appending, creating it if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &FileLogger{file: f}, nil
}

// Log appends event. Events logged after Close are dropped.
func (l *FileLogger) Log(event Event) {
	data, err := EncodeEvent(event)

	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.closed:
		err = os.ErrClosed
	case err == nil:
		_, err = l.file.Write(data)
	}
	if err != nil {
		l.dropped++
		if l.err == nil {
			l.err = err
		}
	}
}

// Dropped returns the number of events that could not be written, and the
// first error seen.
func (l *FileLogger) Dropped() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped, l.err
}

// Close closes the file. It is safe to call more than once.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)

package logger

import (
	"io"
	"sync"
)

// fanoutWriter serializes complete log lines to every sink.
type fanoutWriter struct {
	mu      sync.Mutex
	writers []io.Writer
	closers []io.Closer
	err     error
	closed  bool
}

func newFanoutWriter(writers []io.Writer, closers []io.Closer) *fanoutWriter {
	ws := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			ws = append(ws, w)
		}
	}
	return &fanoutWriter{writers: ws, closers: closers}
}

// Write copies one line to all sinks and remembers the first failure.
func (w *fanoutWriter) Write(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return io.ErrClosedPipe
	}
	if w.err != nil {
		return w.err
	}
	for _, out := range w.writers {
		if _, err := out.Write(line); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Close releases file sinks. Further writes fail.
func (w *fanoutWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	var errs []error
	for _, c := range w.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrs(errs)
}

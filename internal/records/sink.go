package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink is a shared output handle. Rows passed to one Append call are
// written contiguously; concurrent callers never interleave.
type Sink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	format Format
	buf    []byte
	rows   int64
}

// NewSink wraps w. Call Flush when done.
func NewSink(w io.Writer, format Format) *Sink {
	return &Sink{w: bufio.NewWriterSize(w, 64<<10), format: format}
}

// Append writes rows under the sink's lock.
func (s *Sink) Append(rows ...Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		s.buf = s.format.AppendRow(s.buf[:0], row)
		if _, err := s.w.Write(s.buf); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}

		s.rows++
	}

	return nil
}

// Rows returns the number of rows written so far.
func (s *Sink) Rows() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rows
}

// Flush writes buffered data to the underlying writer.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Flush()
}

// WithAppendSink creates (or truncates) path, hands a Sink to body and
// flushes and closes the file on every exit path. Rows already flushed stay
// on disk when body fails.
func WithAppendSink(path string, format Format, body func(*Sink) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	sink := NewSink(f, format)

	defer func() {
		if cerr := errors.Join(sink.Flush(), f.Close()); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", path, cerr))
		}
	}()

	return body(sink)
}

// WriteLines writes one single-field record per line.
func WriteLines(path string, format Format, lines []string) error {
	return WithAppendSink(path, format, func(s *Sink) error {
		rows := make([]Row, len(lines))
		for i, l := range lines {
			rows[i] = Row{l}
		}

		return s.Append(rows...)
	})
}

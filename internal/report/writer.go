package report

import (
	"io"
)

// Writer writes entries in one output format.
type Writer interface {
	// Write outputs the entries to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(entries []Entry) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the entries to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(entries []Entry) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(entries)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

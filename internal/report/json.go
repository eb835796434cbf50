package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs entries as a JSON document.
type JSONWriter struct {
	baseWriter
	indent       bool
	indentPrefix string
	indentString string
	version      string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the generating program version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonDocument is the top-level JSON object.
type jsonDocument struct {
	Version string      `json:"version,omitempty"`
	Summary Summary     `json:"summary"`
	Pages   []entryView `json:"pages"`
}

// Write implements Writer.
func (w *JSONWriter) Write(entries []Entry) (int, error) {
	doc := jsonDocument{
		Version: w.version,
		Summary: Summarize(entries),
		Pages:   make([]entryView, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Pages = append(doc.Pages, newEntryView(e))
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

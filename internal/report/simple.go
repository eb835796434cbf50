package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// showLinks prints every extracted link instead of a count.
	showLinks bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowLinks prints every link under its page.
func WithShowLinks(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showLinks = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *SimpleWriter) Write(entries []Entry) (int, error) {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		w.writeEntry(&sb, newEntryView(e))
	}
	if len(entries) > 1 {
		s := Summarize(entries)
		fmt.Fprintf(&sb, "\n%d page(s): %d downloaded, %d refused, %d failed, %d link(s)\n",
			s.Total, s.Downloaded, s.Refused, s.Failed, s.Links)
	}
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeEntry(sb *strings.Builder, v entryView) {
	fmt.Fprintf(sb, "%s\n", v.URL)
	if v.FinalURL != "" {
		fmt.Fprintf(sb, "  final url:  %s\n", v.FinalURL)
	}
	if v.Error != "" {
		fmt.Fprintf(sb, "  error:      %s\n", v.Error)
		fmt.Fprintf(sb, "  elapsed:    %s\n", formatDuration(v.ElapsedMs))
		return
	}
	fmt.Fprintf(sb, "  status:     %s\n", v.Status)
	if v.ContentType != "" {
		fmt.Fprintf(sb, "  type:       %s\n", v.ContentType)
	}
	fmt.Fprintf(sb, "  elapsed:    %s\n", formatDuration(v.ElapsedMs))
	if v.Outcome == OutcomeRefused {
		fmt.Fprintf(sb, "  refused:    %s\n", v.DecisionReason)
		return
	}
	charset := v.Charset
	if charset == "" {
		charset = "(not declared)"
	}
	fmt.Fprintf(sb, "  charset:    %s -> %s\n", charset, v.Encoding)
	fmt.Fprintf(sb, "  size:       %d bytes\n", v.Bytes)
	if v.Backend == "" {
		return
	}
	fmt.Fprintf(sb, "  links:      %d (%s)\n", len(v.Links), v.Backend)
	if w.showLinks {
		for _, l := range v.Links {
			fmt.Fprintf(sb, "    - %s\n", l)
		}
	}
}

package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs entries as GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(entries []Entry) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(entries)

	md.H1("pagescout Report")
	md.PlainText("")
	w.writeSummary(md, summary)

	for _, e := range entries {
		w.writeEntry(md, newEntryView(e))
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [pagescout](https://github.com/nao1215/pagescout)*")

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"✅ Downloaded", strconv.Itoa(s.Downloaded)},
			{"⏭️ Refused", strconv.Itoa(s.Refused)},
			{"❌ Failed", strconv.Itoa(s.Failed)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
			{"🔗 Links", strconv.Itoa(s.Links)},
		},
	})
	md.PlainText("")

	if s.Total > 1 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Fetch Outcomes"),
			piechart.WithShowData(true),
		)
		if s.Downloaded > 0 {
			chart.LabelAndIntValue("Downloaded", uint64(s.Downloaded))
		}
		if s.Refused > 0 {
			chart.LabelAndIntValue("Refused", uint64(s.Refused))
		}
		if s.Failed > 0 {
			chart.LabelAndIntValue("Failed", uint64(s.Failed))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case s.Failed > 0:
		md.Warningf("%d of %d page(s) could not be fetched.", s.Failed, s.Total)
	case s.Refused > 0:
		md.Note("Some bodies were not downloaded because the download policy refused them.")
	default:
		md.Tip("All pages were fetched and parsed.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeEntry(md *markdown.Markdown, v entryView) {
	md.H2(v.URL)
	md.PlainText("")

	rows := [][]string{{"Outcome", string(v.Outcome)}}
	if v.FinalURL != "" {
		rows = append(rows, []string{"Final URL", "`" + v.FinalURL + "`"})
	}
	if v.Error != "" {
		rows = append(rows, []string{"Error", v.Error})
	} else {
		rows = append(rows,
			[]string{"Status", v.Status},
			[]string{"Content-Type", v.ContentType},
		)
	}
	rows = append(rows, []string{"Elapsed", formatDuration(v.ElapsedMs)})
	if v.DecisionReason != "" {
		rows = append(rows, []string{"Refusal reason", v.DecisionReason})
	}
	if v.Outcome == OutcomeDownloaded {
		rows = append(rows,
			[]string{"Charset", v.Charset},
			[]string{"Encoding", v.Encoding},
			[]string{"Size", strconv.Itoa(v.Bytes) + " bytes"},
		)
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	if v.Backend == "" || v.Outcome != OutcomeDownloaded {
		return
	}
	md.H3("Links (" + strconv.Itoa(len(v.Links)) + ", " + v.Backend + ")")
	md.PlainText("")
	if len(v.Links) == 0 {
		md.PlainText("No followable links found.")
		md.PlainText("")
		return
	}
	items := make([]string, len(v.Links))
	for i, l := range v.Links {
		items[i] = "`" + l + "`"
	}
	md.BulletList(items...)
	md.PlainText("")
}

// Package report renders fetch results and their extracted links.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text output for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown built with nao1215/markdown
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report

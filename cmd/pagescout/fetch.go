package main

import (
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [url]...",
		Short: "Fetch pages and report their responses and encodings",
		Long: `Fetch requests each URL with the configured HTTP policy and reports the
response status, timings, resolved charset and body size.

Bodies are downloaded only for the media types listed in
downloadable_content_types unless --all-types is given.

Examples:
  # Fetch a single page
  pagescout fetch https://example.com/

  # Fetch several pages, two at a time, as JSON
  pagescout fetch -n 2 --json https://example.com/ https://example.org/

  # Write a Markdown report to a file
  pagescout fetch -m -o report.md https://example.com/`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}
	addFetchFlags(cmd)
	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseFetchOptions(cmd, args)
	if err != nil {
		return err
	}
	return runFetch(cmd, opts)
}

package main

import (
	"strings"

	"github.com/nao1215/pagescout/internal/linkparser"
	"github.com/spf13/cobra"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links [url]...",
		Short: "Fetch pages and extract the links a crawler may follow",
		Long: `Links fetches each URL and extracts the absolute hyperlinks found in
<a>, <area> and canonical <link> elements, resolved against <base>.

The respect_* settings decide whether nofollow directives from the robots
meta tag, the X-Robots-Tag header and rel="nofollow" are honored.

Examples:
  # Extract links with the default backend
  pagescout links https://example.com/

  # Use the XPath backend and list every link
  pagescout links -b xpath --show-links https://example.com/`,
		Args: cobra.ArbitraryArgs,
		RunE: runLinksCmd,
	}
	addFetchFlags(cmd)
	cmd.Flags().StringP("backend", "b", "",
		"Hyperlink parser backend: "+strings.Join(linkparser.BackendNames(), ", ")+" (default: parser_backend from config)")
	cmd.Flags().BoolP("show-links", "l", false,
		"List every link in the text report")
	return cmd
}

// runLinksCmd executes the links command.
func runLinksCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseFetchOptions(cmd, args)
	if err != nil {
		return err
	}
	opts.extractLinks = true
	if opts.backend, err = cmd.Flags().GetString("backend"); err != nil {
		return err
	}
	if opts.showLinks, err = cmd.Flags().GetBool("show-links"); err != nil {
		return err
	}
	return runFetch(cmd, opts)
}

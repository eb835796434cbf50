package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/nao1215/pagescout/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show fetches saved with --save",
		Long: `History reads the fetch history database.

Without arguments it lists every saved URL with its number of fetches.
With a URL it lists the saved fetches of that URL, newest first, and the
links extracted by the latest one.

Examples:
  # List saved URLs
  pagescout history

  # Show the last five fetches of a page
  pagescout history -n 5 https://example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}
	cmd.Flags().String("db-dir", "",
		"Fetch history database directory (default: XDG data directory)")
	cmd.Flags().IntP("limit", "n", 10, "Maximum number of fetches to show (0 for all)")
	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := openHistory(dbDir)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		urls, err := db.ListURLs(cmd.Context())
		if err != nil {
			return err
		}
		return writeURLList(out, urls)
	}

	uris, err := parseTargets(args)
	if err != nil {
		return err
	}
	target := uris[0].Redacted()

	records, err := db.FetchHistory(cmd.Context(), target, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "No saved fetches for %s\n", target)
		return nil
	}

	latest, err := db.LatestFetch(cmd.Context(), target)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}
	return writeFetchHistory(out, target, records, latest)
}

func writeURLList(out io.Writer, urls []database.URLSummary) error {
	if len(urls) == 0 {
		_, err := fmt.Fprintln(out, "No saved fetches.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tFETCHES\tLAST FETCH")
	for _, u := range urls {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", u.URL, u.Fetches, u.LastFetch.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func writeFetchHistory(out io.Writer, target string, records []database.FetchRecord, latest *database.FetchRecord) error {
	fmt.Fprintf(out, "%s\n\n", target)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFETCHED\tSTATUS\tENCODING\tBYTES\tELAPSED\tRESULT")
	for _, r := range records {
		status := "-"
		if r.StatusCode != 0 {
			status = strconv.Itoa(r.StatusCode)
		}
		result := "downloaded"
		switch {
		case r.Error != "":
			result = "error: " + r.Error
		case r.DecisionReason != "":
			result = "refused: " + r.DecisionReason
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.FetchedAt.Local().Format(time.DateTime), status, r.Encoding, r.Bytes, r.Elapsed, result)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if latest == nil || latest.Backend == "" {
		return nil
	}
	fmt.Fprintf(out, "\nLinks from fetch %d (%s): %d\n", latest.ID, latest.Backend, len(latest.Links))
	for _, l := range latest.Links {
		fmt.Fprintf(out, "  - %s\n", l)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/pagescout/internal/config"
	"github.com/nao1215/pagescout/internal/database"
	"github.com/nao1215/pagescout/internal/linkparser"
	"github.com/nao1215/pagescout/internal/memory"
	"github.com/nao1215/pagescout/internal/model"
	"github.com/nao1215/pagescout/internal/report"
	"github.com/nao1215/pagescout/internal/requester"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency is the number of pages fetched at the same time.
const defaultConcurrency = 4

// errNoTargets is returned when a fetching command gets no URLs.
var errNoTargets = errors.New("no targets provided (specify one or more URLs as arguments)")

// fetchOptions holds the flags shared by the fetch and links commands.
type fetchOptions struct {
	targets      []string
	concurrency  int
	jsonReport   bool
	markdown     bool
	reportFile   string
	allTypes     bool
	successOnly  bool
	extractLinks bool
	backend      string
	showLinks    bool
	save         bool
	dbDir        string
}

// addFetchFlags registers the flags shared by fetching commands.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("concurrency", "n", defaultConcurrency,
		"Number of pages fetched concurrently")
	cmd.Flags().Bool("all-types", false,
		"Download bodies of every content type, not only downloadable_content_types")
	cmd.Flags().Bool("success-only", false,
		"Download bodies of 2xx responses only")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("save", false,
		"Save results to the fetch history database")
	cmd.Flags().String("db-dir", "",
		"Fetch history database directory (default: XDG data directory)")
}

// parseFetchOptions reads the shared fetch flags.
func parseFetchOptions(cmd *cobra.Command, args []string) (*fetchOptions, error) {
	opts := &fetchOptions{targets: args}

	var err error
	if opts.concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if opts.allTypes, err = cmd.Flags().GetBool("all-types"); err != nil {
		return nil, err
	}
	if opts.successOnly, err = cmd.Flags().GetBool("success-only"); err != nil {
		return nil, err
	}
	if opts.jsonReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if opts.reportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if opts.save, err = cmd.Flags().GetBool("save"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}

	if opts.jsonReport && opts.markdown {
		return nil, errors.New("--json and --markdown are mutually exclusive")
	}
	if opts.concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", opts.concurrency)
	}
	if len(opts.targets) == 0 {
		return nil, errNoTargets
	}
	return opts, nil
}

// runFetch loads the configuration and fetches every target.
func runFetch(cmd *cobra.Command, opts *fetchOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.FetchDB
	if opts.save {
		db, err = openHistory(opts.dbDir)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	entries, err := fetchAll(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}
	if db != nil {
		if err := saveEntries(ctx, db, entries, logger); err != nil {
			return err
		}
	}
	return outputReport(cmd.OutOrStdout(), opts, entries)
}

// openHistory opens the fetch history database in dir, or in the XDG
// data directory when dir is empty.
func openHistory(dir string) (*database.FetchDB, error) {
	if dir == "" {
		dir = config.XDGDataDir()
	}
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// saveEntries stores every entry in the history database.
func saveEntries(ctx context.Context, db *database.FetchDB, entries []report.Entry, logger *slog.Logger) error {
	for _, e := range entries {
		id, err := db.SaveFetch(ctx, e.Result, e.Backend, e.Links)
		if err != nil {
			return fmt.Errorf("failed to save fetch: %w", err)
		}
		logger.Debug("fetch saved", "url", e.Result.URI, "id", id)
	}
	return nil
}

// parseTargets turns command line arguments into absolute URLs. A missing
// scheme defaults to http.
func parseTargets(targets []string) ([]*url.URL, error) {
	uris := make([]*url.URL, 0, len(targets))
	for _, t := range targets {
		raw := strings.TrimSpace(t)
		if !strings.Contains(raw, "://") {
			raw = "http://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", t, err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("invalid URL %q: missing host", t)
		}
		uris = append(uris, u)
	}
	return uris, nil
}

// downloadDecision builds the download policy selected by cfg and opts.
func downloadDecision(cfg *config.Config, opts *fetchOptions) model.DecisionFunc {
	var policies []model.DecisionFunc
	if opts.successOnly {
		policies = append(policies, requester.SuccessStatusDecision)
	}
	if !opts.allTypes {
		policies = append(policies, requester.ContentTypeDecision(cfg.DownloadableContentTypes))
	}
	return requester.ChainDecisions(policies...)
}

// fetchAll fetches every target with at most opts.concurrency requests in
// flight. Entries keep the order of opts.targets.
func fetchAll(ctx context.Context, cfg *config.Config, opts *fetchOptions, logger *slog.Logger) ([]report.Entry, error) {
	uris, err := parseTargets(opts.targets)
	if err != nil {
		return nil, err
	}

	var parser *linkparser.Parser
	if opts.extractLinks {
		name := opts.backend
		if name == "" {
			name = cfg.ParserBackend
		}
		backend, err := linkparser.NewBackend(name)
		if err != nil {
			return nil, err
		}
		parser = linkparser.NewParser(backend, linkparser.OptionsFromConfig(cfg), linkparser.WithLogger(logger))
	}

	req, err := requester.New(cfg, requester.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create requester: %w", err)
	}
	defer req.Close()

	monitor, err := memory.NewCachedMonitor(
		memory.NewRuntimeMonitor(logger),
		cfg.MaxMemoryUsageCacheTime,
		memory.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	defer monitor.Close()

	logger.Info("starting fetch",
		"targets", len(uris),
		"concurrency", opts.concurrency,
		"extractLinks", opts.extractLinks,
	)

	decide := downloadDecision(cfg, opts)
	entries := make([]report.Entry, len(uris))
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, uri := range uris {
		g.Go(func() error {
			result := req.Fetch(gctx, uri, decide)
			entry := report.Entry{Result: result}
			if parser != nil {
				entry.Backend = parser.Backend().Name()
				entry.Links = parser.GetLinks(result)
			}
			entries[i] = entry

			if result.Err != nil {
				logger.Warn("fetch failed", "url", uri, "error", result.Err)
			} else {
				logger.Debug("fetched", "url", uri, "elapsed", result.Elapsed(), "memoryMb", monitor.CurrentUsageInMb())
			}
			// One failed page must not cancel the others.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("fetch completed",
		"targets", len(uris),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"memoryMb", monitor.CurrentUsageInMb(),
	)
	return entries, nil
}

// outputReport writes the entries in the requested format to stdout or
// to opts.reportFile.
func outputReport(stdout io.Writer, opts *fetchOptions, entries []report.Entry) error {
	output := stdout
	if opts.reportFile != "" {
		dir := filepath.Dir(opts.reportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain URLs with tokens, so only the owner may read them.
		f, err := os.OpenFile(opts.reportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := newReportWriter(output, opts).Write(entries)
	return err
}

// newReportWriter selects the writer for the requested format.
func newReportWriter(output io.Writer, opts *fetchOptions) report.Writer {
	switch {
	case opts.jsonReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case opts.markdown:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithShowLinks(opts.showLinks))
	}
}

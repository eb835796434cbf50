package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/pagescout/internal/config"
	pslog "github.com/nao1215/pagescout/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pagescout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagescout",
		Short: "Fetch web pages and extract followable links",
		Long: `pagescout fetches web pages with crawler semantics.

Each page is requested with the configured HTTP policy (timeouts, redirects,
decompression, cookies, credentials, proxy), its text encoding is resolved
from the Content-Type header or the document's <meta> tags, and the links a
polite crawler may follow are extracted from the HTML.

Settings are read from .pagescout.yaml in the current directory, the XDG
config directory, or the home directory. Run "pagescout init" to create one.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current, XDG config or home directory)")

	// Add subcommands
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewMemoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a boolean flag from the command or the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getStringFlag retrieves a string flag from the command or the root's
// persistent flags.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// setupLogger creates the masking logger selected by the global flags.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return pslog.NewLogger(cmd.ErrOrStderr(), getBoolFlag(cmd, "verbose"), getBoolFlag(cmd, "json-log"))
}

// loadConfig loads the configuration file selected by --config, or the
// first one found in the default locations. Without any file the
// defaults are used. An explicit path that does not exist is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := getStringFlag(cmd, "config")
	path := config.FindConfigFile(explicit)

	var cfg *config.Config
	switch {
	case path != "":
		var err error
		cfg, err = config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	case explicit != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicit)
	default:
		cfg = config.NewConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

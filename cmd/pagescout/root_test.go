package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/pagescout/internal/config"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "pagescout" {
			t.Errorf("expected use 'pagescout', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has persistent flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
			def       string
		}{
			{name: "verbose", shorthand: "v", def: "false"},
			{name: "json-log", shorthand: "", def: "false"},
			{name: "config", shorthand: "c", def: ""},
		}
		for _, tt := range tests {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.def {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.def, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{
			"fetch [url]...": false,
			"links [url]...": false,
			"memory":         false,
			"history [url]":  false,
			"init":           false,
			"version":        false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Use]; ok {
				want[sub.Use] = true
			}
		}
		for use, found := range want {
			if !found {
				t.Errorf("expected %q subcommand", use)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("explicit file is loaded", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("parser_backend: xpath\nclean_urls: true\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		root := NewRootCmd()
		if err := root.PersistentFlags().Set("config", path); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ParserBackend != "xpath" || !cfg.CleanURLs {
			t.Errorf("config not applied: backend=%q clean=%v", cfg.ParserBackend, cfg.CleanURLs)
		}
		if cfg.UserAgent != config.DefaultUserAgent {
			t.Errorf("missing keys should keep defaults, got user agent %q", cfg.UserAgent)
		}
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		if err := root.PersistentFlags().Set("config", filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
			t.Fatal(err)
		}
		_, err := loadConfig(root)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid file is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("always_login: true\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		root := NewRootCmd()
		if err := root.PersistentFlags().Set("config", path); err != nil {
			t.Fatal(err)
		}
		_, err := loadConfig(root)
		if !errors.Is(err, config.ErrMissingLoginUser) {
			t.Errorf("expected ErrMissingLoginUser, got %v", err)
		}
	})
}

package main

import (
	"strings"
	"testing"
)

func TestSaveAndHistory(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t)
	cfgPath := writeConfig(t, "")
	dbDir := t.TempDir()

	if _, _, err := executeRoot(t, "links", "--config", cfgPath, "--save", "--db-dir", dbDir, "-b", "xpath", srv.URL+"/"); err != nil {
		t.Fatalf("links --save: %v", err)
	}
	if _, _, err := executeRoot(t, "fetch", "--config", cfgPath, "--save", "--db-dir", dbDir, srv.URL+"/logo.png"); err != nil {
		t.Fatalf("fetch --save: %v", err)
	}

	t.Run("lists saved urls", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		for _, want := range []string{"URL", srv.URL + "/", srv.URL + "/logo.png"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("shows fetches and links of a url", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, srv.URL+"/")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		for _, want := range []string{"200", "utf-8", "downloaded", "(xpath)", "- " + srv.URL + "/about"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("shows refusals", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, srv.URL+"/logo.png")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if !strings.Contains(stdout, "refused:") {
			t.Errorf("expected refusal, got:\n%s", stdout)
		}
	})

	t.Run("unknown url", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, "http://never.example/")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if !strings.Contains(stdout, "No saved fetches") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})
}

func TestHistoryEmptyDatabase(t *testing.T) {
	t.Parallel()

	stdout, _, err := executeRoot(t, "history", "--db-dir", t.TempDir())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(stdout, "No saved fetches.") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/pagescout/internal/config"
	"github.com/nao1215/pagescout/internal/model"
	"github.com/nao1215/pagescout/internal/report"
)

// newSiteServer serves a small site: an HTML page with links, a page
// asking robots not to follow its links, and an image.
func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>home</title></head><body>
<a href="/about">About</a>
<a href="docs/guide?b=2&a=1">Guide</a>
<a href="/about">About again</a>
<a href="mailto:someone@example.com">Mail</a>
<a href="/private" rel="nofollow">Private</a>
</body></html>`)
	})
	mux.HandleFunc("/robots-nofollow", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><meta name="robots" content="noindex, nofollow"></head>
<body><a href="/hidden">Hidden</a></body></html>`)
	})
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a configuration file for one test run.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagescout.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// jsonReport mirrors the parts of the JSON report the tests inspect.
type jsonReport struct {
	Summary report.Summary `json:"summary"`
	Pages   []struct {
		URL            string   `json:"url"`
		Outcome        string   `json:"outcome"`
		StatusCode     int      `json:"status_code"`
		DecisionReason string   `json:"decision_reason"`
		Error          string   `json:"error"`
		Encoding       string   `json:"encoding"`
		Backend        string   `json:"backend"`
		Links          []string `json:"links"`
	} `json:"pages"`
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLinksCommand(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t)

	t.Run("extracts links with every backend", func(t *testing.T) {
		t.Parallel()

		for _, backend := range []string{"goquery", "html", "xpath"} {
			t.Run(backend, func(t *testing.T) {
				t.Parallel()

				cfgPath := writeConfig(t, "respect_anchor_rel_no_follow: true\n")
				stdout, _, err := executeRoot(t, "links", "--config", cfgPath, "--json", "-b", backend, srv.URL+"/")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				var got jsonReport
				if err := json.Unmarshal([]byte(stdout), &got); err != nil {
					t.Fatalf("invalid JSON: %v\n%s", err, stdout)
				}
				if len(got.Pages) != 1 {
					t.Fatalf("expected 1 page, got %d", len(got.Pages))
				}
				want := []string{srv.URL + "/about", srv.URL + "/docs/guide?b=2&a=1"}
				if diff := cmp.Diff(want, got.Pages[0].Links); diff != "" {
					t.Errorf("links mismatch (-want +got):\n%s", diff)
				}
				if got.Pages[0].Backend != backend {
					t.Errorf("backend = %q, want %q", got.Pages[0].Backend, backend)
				}
				if got.Pages[0].Encoding != "utf-8" {
					t.Errorf("encoding = %q, want utf-8", got.Pages[0].Encoding)
				}
			})
		}
	})

	t.Run("clean_urls normalizes links", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "clean_urls: true\nrespect_anchor_rel_no_follow: true\n")
		stdout, _, err := executeRoot(t, "links", "--config", cfgPath, "--json", srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "/docs/guide?a=1\\u0026b=2") {
			t.Errorf("expected sorted query in output, got:\n%s", stdout)
		}
	})

	t.Run("meta robots nofollow is honored", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "respect_meta_robots_no_follow: true\n")
		stdout, _, err := executeRoot(t, "links", "--config", cfgPath, "--json", srv.URL+"/robots-nofollow")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got jsonReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got.Pages[0].Links) != 0 {
			t.Errorf("expected no links, got %v", got.Pages[0].Links)
		}
	})

	t.Run("text report lists links", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "parser_backend: html\n")
		stdout, _, err := executeRoot(t, "links", "--config", cfgPath, "-l", srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "(html)") {
			t.Errorf("expected configured backend in output, got:\n%s", stdout)
		}
		if !strings.Contains(stdout, "- "+srv.URL+"/private") {
			t.Errorf("nofollow links are kept unless configured, got:\n%s", stdout)
		}
	})

	t.Run("unknown backend is an error", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "")
		_, _, err := executeRoot(t, "links", "--config", cfgPath, "-b", "regex", srv.URL+"/")
		if err == nil || !strings.Contains(err.Error(), "regex") {
			t.Errorf("expected unknown backend error, got %v", err)
		}
	})
}

func TestFetchCommand(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t)

	t.Run("refuses non-downloadable types", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "")
		stdout, _, err := executeRoot(t, "fetch", "--config", cfgPath, "--json", "-n", "2",
			srv.URL+"/", srv.URL+"/logo.png", srv.URL+"/missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got jsonReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if len(got.Pages) != 3 {
			t.Fatalf("expected 3 pages, got %d", len(got.Pages))
		}
		if got.Pages[0].Outcome != string(report.OutcomeDownloaded) {
			t.Errorf("page 0 outcome = %q", got.Pages[0].Outcome)
		}
		if got.Pages[1].Outcome != string(report.OutcomeRefused) || got.Pages[1].DecisionReason == "" {
			t.Errorf("image should be refused with a reason, got %+v", got.Pages[1])
		}
		if got.Pages[2].StatusCode != http.StatusNotFound {
			t.Errorf("page 2 status = %d, want 404", got.Pages[2].StatusCode)
		}
		if got.Pages[0].Links != nil && len(got.Pages[0].Links) != 0 {
			t.Errorf("fetch should not extract links, got %v", got.Pages[0].Links)
		}
	})

	t.Run("all types downloads everything", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "")
		stdout, _, err := executeRoot(t, "fetch", "--config", cfgPath, "--json", "--all-types", srv.URL+"/logo.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got jsonReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Pages[0].Outcome != string(report.OutcomeDownloaded) {
			t.Errorf("outcome = %q, want downloaded", got.Pages[0].Outcome)
		}
	})

	t.Run("strict status records errors", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "strict_status: true\n")
		stdout, _, err := executeRoot(t, "fetch", "--config", cfgPath, "--json", srv.URL+"/missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got jsonReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Summary.Failed != 1 || !strings.Contains(got.Pages[0].Error, "404") {
			t.Errorf("expected a failed 404 page, got %+v", got)
		}
	})

	t.Run("writes markdown report to file", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "")
		reportPath := filepath.Join(t.TempDir(), "out", "report.md")
		stdout, _, err := executeRoot(t, "fetch", "--config", cfgPath, "-m", "-o", reportPath, srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# pagescout Report") {
			t.Errorf("expected markdown report, got:\n%s", content)
		}
	})

	t.Run("verbose logs to stderr without credentials", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "")
		target := strings.Replace(srv.URL, "http://", "http://user:hunter2@", 1) + "/"
		_, stderr, err := executeRoot(t, "fetch", "-v", "--config", cfgPath, target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "fetch completed") {
			t.Errorf("expected completion log, got:\n%s", stderr)
		}
		if strings.Contains(stderr, "hunter2") {
			t.Errorf("password leaked into logs:\n%s", stderr)
		}
	})
}

func TestParseFetchOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no targets", args: nil, wantErr: errNoTargets.Error()},
		{name: "json and markdown", args: []string{"--json", "--markdown", "example.com"}, wantErr: "mutually exclusive"},
		{name: "zero concurrency", args: []string{"-n", "0", "example.com"}, wantErr: "--concurrency"},
		{name: "valid", args: []string{"-n", "3", "example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewFetchCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			opts, err := parseFetchOptions(cmd, cmd.Flags().Args())
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts.concurrency != 3 {
				t.Errorf("concurrency = %d, want 3", opts.concurrency)
			}
		})
	}
}

func TestParseTargets(t *testing.T) {
	t.Parallel()

	uris, err := parseTargets([]string{"example.com/path", "https://example.org"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{uris[0].String(), uris[1].String()}
	want := []string{"http://example.com/path", "https://example.org"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseTargets() mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"http://", "http://exa mple.com/%zz"} {
		if _, err := parseTargets([]string{bad}); err == nil {
			t.Errorf("parseTargets(%q) expected error", bad)
		}
	}
}

func TestDownloadDecision(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	result := func(status int, contentType string) *model.FetchResult {
		return &model.FetchResult{Response: &model.ResponseInfo{
			StatusCode: status,
			Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
			Header:     http.Header{"Content-Type": []string{contentType}},
		}}
	}

	tests := []struct {
		name   string
		opts   fetchOptions
		result *model.FetchResult
		allow  bool
	}{
		{name: "html allowed", result: result(200, "text/html"), allow: true},
		{name: "image refused", result: result(200, "image/png"), allow: false},
		{name: "image with all types", opts: fetchOptions{allTypes: true}, result: result(200, "image/png"), allow: true},
		{name: "404 html allowed by default", result: result(404, "text/html"), allow: true},
		{name: "404 refused with success only", opts: fetchOptions{successOnly: true}, result: result(404, "text/html"), allow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := downloadDecision(cfg, &tt.opts)(tt.result)
			if d.Allow != tt.allow {
				t.Errorf("Allow = %v, want %v (reason %q)", d.Allow, tt.allow, d.Reason)
			}
		})
	}
}

func TestOutputReportFileError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}
	opts := &fetchOptions{reportFile: filepath.Join(blocker, "report.txt")}
	err := outputReport(&bytes.Buffer{}, opts, nil)
	if err == nil || !strings.Contains(err.Error(), "output directory") {
		t.Fatalf("expected output directory error, got %v", err)
	}
}

package requester

import (
	"net/http"
	"testing"

	"github.com/nao1215/pagescout/internal/model"
)

func resultWith(status int, contentType string) *model.FetchResult {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &model.FetchResult{
		Response: &model.ResponseInfo{StatusCode: status, Status: http.StatusText(status), Header: h},
	}
}

func TestContentTypeDecision(t *testing.T) {
	t.Parallel()

	decide := ContentTypeDecision([]string{"text/html", " TEXT/PLAIN "})

	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"html with charset", "text/html; charset=utf-8", true},
		{"plain upper case", "Text/Plain", true},
		{"image", "image/png", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := decide(resultWith(200, tt.contentType))
			if d.Allow != tt.want {
				t.Errorf("expected allow=%v, got %+v", tt.want, d)
			}
			if !d.Allow && d.Reason == "" {
				t.Error("expected a reason for refusal")
			}
		})
	}

	t.Run("empty list allows everything", func(t *testing.T) {
		t.Parallel()
		if d := ContentTypeDecision(nil)(resultWith(200, "image/png")); !d.Allow {
			t.Error("expected allow")
		}
	})
}

func TestSuccessStatusDecision(t *testing.T) {
	t.Parallel()

	if d := SuccessStatusDecision(resultWith(200, "")); !d.Allow {
		t.Error("expected 200 to be allowed")
	}
	if d := SuccessStatusDecision(resultWith(500, "")); d.Allow {
		t.Error("expected 500 to be refused")
	}
	if d := SuccessStatusDecision(&model.FetchResult{}); d.Allow {
		t.Error("expected missing response to be refused")
	}
}

func TestChainDecisions(t *testing.T) {
	t.Parallel()

	chain := ChainDecisions(nil, SuccessStatusDecision, ContentTypeDecision([]string{"text/html"}))

	if d := chain(resultWith(200, "text/html")); !d.Allow {
		t.Error("expected allow")
	}
	d := chain(resultWith(404, "text/html"))
	if d.Allow || d.Reason == "" {
		t.Errorf("expected status refusal, got %+v", d)
	}
	if d := chain(resultWith(200, "image/gif")); d.Allow {
		t.Error("expected content type refusal")
	}
}

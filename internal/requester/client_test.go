package requester

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:9050", true},
		{"localhost:1080", true},
		{"[::1]:9050", true},
		{"127.0.0.1", false},
		{":9050", false},
		{"127.0.0.1:0", false},
		{"127.0.0.1:65536", false},
		{"127.0.0.1:abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			t.Parallel()
			if got := isValidProxyAddress(tt.addr); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRedirectPolicy(t *testing.T) {
	t.Parallel()

	via := func(n int) []*http.Request { return make([]*http.Request, n) }

	t.Run("disabled stops immediately", func(t *testing.T) {
		t.Parallel()
		if err := redirectPolicy(false, 7)(nil, via(1)); err != http.ErrUseLastResponse {
			t.Errorf("expected ErrUseLastResponse, got %v", err)
		}
	})

	t.Run("within limit continues", func(t *testing.T) {
		t.Parallel()
		if err := redirectPolicy(true, 2)(nil, via(2)); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("over limit stops", func(t *testing.T) {
		t.Parallel()
		if err := redirectPolicy(true, 2)(nil, via(3)); err != http.ErrUseLastResponse {
			t.Errorf("expected ErrUseLastResponse, got %v", err)
		}
	})
}

func TestHeaderInjectingTransport(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		got = req.Header.Clone()
	}))
	defer srv.Close()

	transport := &headerInjectingTransport{
		base:    http.DefaultTransport,
		auth:    &credentials{user: "bob", password: "pw"},
		headers: map[string]string{"X-Custom-Header": "custom-value"},
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()

	if got.Get("X-Custom-Header") != "custom-value" {
		t.Error("expected custom header to be injected")
	}
	if got.Get("Authorization") != "Basic Ym9iOnB3" {
		t.Errorf("expected basic auth header, got %q", got.Get("Authorization"))
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("expected original request to stay untouched")
	}
}

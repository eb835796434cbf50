package requester

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"

	"github.com/nao1215/pagescout/internal/config"
	"golang.org/x/net/proxy"
)

// newHTTPClient builds the client used by a Requester from cfg.
// jar may be nil, in which case a fresh jar is created when cookies are enabled.
func newHTTPClient(cfg *config.Config, jar http.CookieJar) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{}
	}
	transport := base.Clone()
	transport.MaxConnsPerHost = cfg.HTTPServicePointConnectionLimit
	if cfg.HTTPServicePointConnectionLimit > transport.MaxIdleConnsPerHost {
		transport.MaxIdleConnsPerHost = cfg.HTTPServicePointConnectionLimit
	}
	// Bodies are decoded by the requester itself so that br is handled
	// alongside gzip and deflate.
	transport.DisableCompression = true
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !cfg.SSLCertificateValidation, //nolint:gosec // Opt-in via ssl_certificate_validation: false
	}

	if cfg.ProxyAddress != "" {
		dial, err := socks5DialContext(cfg.ProxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		transport.DialContext = dial
	}

	if jar == nil && cfg.SendingCookies {
		// cookiejar.New only fails with invalid options
		jar, _ = cookiejar.New(nil) //nolint:errcheck
	}

	var rt http.RoundTripper = transport
	if auth := basicAuth(cfg); auth != nil || len(cfg.Headers) > 0 {
		rt = &headerInjectingTransport{
			base:    transport,
			auth:    auth,
			headers: cfg.Headers,
		}
	}

	return &http.Client{
		Transport:     rt,
		Timeout:       cfg.HTTPRequestTimeout,
		Jar:           jar,
		CheckRedirect: redirectPolicy(cfg.HTTPRequestAutoRedirects, cfg.HTTPRequestMaxAutoRedirects),
	}, nil
}

// redirectPolicy returns a CheckRedirect function. When redirects are
// disabled, or once max hops have been followed, the last response is
// returned to the caller unchanged.
func redirectPolicy(follow bool, maxHops int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if !follow || len(via) > maxHops {
			return http.ErrUseLastResponse
		}
		return nil
	}
}

func socks5DialContext(address string) (func(context.Context, string, string) (net.Conn, error), error) {
	if !isValidProxyAddress(address) {
		return nil, ErrInvalidProxyAddress
	}
	dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}, nil
}

// isValidProxyAddress checks that address is "host:port" with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

type credentials struct {
	user     string
	password string
}

func basicAuth(cfg *config.Config) *credentials {
	if !cfg.AlwaysLogin {
		return nil
	}
	return &credentials{user: cfg.LoginUser, password: cfg.LoginPassword}
}

// headerInjectingTransport adds basic credentials and configured headers
// to every request, redirects included.
type headerInjectingTransport struct {
	base    http.RoundTripper
	auth    *credentials
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	if t.auth != nil {
		clone.SetBasicAuth(t.auth.user, t.auth.password)
	}
	return t.base.RoundTrip(clone)
}

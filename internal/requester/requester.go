package requester

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/nao1215/pagescout/internal/config"
	"github.com/nao1215/pagescout/internal/extractor"
	"github.com/nao1215/pagescout/internal/model"
)

// ContentExtractor turns a response body into page content.
// *extractor.Extractor is the production implementation.
type ContentExtractor interface {
	GetContent(resp *http.Response) *model.PageContent
	Close() error
}

// Requester fetches pages. It is safe for concurrent use.
type Requester struct {
	mu        sync.RWMutex
	cfg       *config.Config
	client    *http.Client
	extractor ContentExtractor
	logger    *slog.Logger
	closed    bool

	// options collected before the client is built
	httpClient *http.Client
	jar        http.CookieJar
}

// Option configures a Requester.
type Option func(*Requester)

// WithExtractor replaces the default content extractor.
func WithExtractor(e ContentExtractor) Option {
	return func(r *Requester) {
		r.extractor = e
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Requester) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHTTPClient makes the requester use client as-is. Transport,
// redirect and cookie settings from the configuration are then ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Requester) {
		r.httpClient = client
	}
}

// WithCookieJar sets the cookie jar, so that several requesters can share
// one session. A jar given here is used even when sending_cookies is off.
func WithCookieJar(jar http.CookieJar) Option {
	return func(r *Requester) {
		r.jar = jar
	}
}

// New creates a Requester from cfg. The configuration is read once;
// later changes to cfg do not affect the requester.
func New(cfg *config.Config, opts ...Option) (*Requester, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	r := &Requester{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.extractor == nil {
		r.extractor = extractor.New(
			extractor.WithCharsetAliases(cfg.CharsetAliases),
			extractor.WithMaxBytes(cfg.MaxPageSizeInBytes),
			extractor.WithLogger(r.logger),
		)
	}

	if r.httpClient != nil {
		r.client = r.httpClient
	} else {
		client, err := newHTTPClient(cfg, r.jar)
		if err != nil {
			return nil, err
		}
		r.client = client
	}
	r.httpClient = nil
	return r, nil
}

// MakeRequest fetches uri and downloads every body.
func (r *Requester) MakeRequest(uri *url.URL) *model.FetchResult {
	return r.Fetch(context.Background(), uri, nil)
}

// MakeRequestWithDecision fetches uri and downloads the body only when
// decide allows it. A nil decide allows every body.
func (r *Requester) MakeRequestWithDecision(uri *url.URL, decide model.DecisionFunc) *model.FetchResult {
	return r.Fetch(context.Background(), uri, decide)
}

// Fetch is MakeRequestWithDecision with a context controlling cancellation.
// It panics with ErrNilURI when uri is nil.
func (r *Requester) Fetch(ctx context.Context, uri *url.URL, decide model.DecisionFunc) *model.FetchResult {
	if uri == nil {
		panic(ErrNilURI)
	}
	if decide == nil {
		decide = model.AllowAll
	}

	result := model.NewFetchResult(uri)

	r.mu.RLock()
	closed, cfg, client, ext, logger := r.closed, r.cfg, r.client, r.extractor, r.logger
	r.mu.RUnlock()
	if closed {
		result.Err = ErrClosed
		return result
	}

	req, err := r.newRequest(ctx, cfg, uri)
	if err != nil {
		result.Err = err
		return result
	}
	result.Request = &model.RequestInfo{
		Method:   req.Method,
		Header:   req.Header.Clone(),
		FinalURL: req.URL,
	}

	result.RequestStarted = model.Stamp()
	resp, err := client.Do(req)
	result.RequestCompleted = model.Stamp()
	if err != nil {
		logger.Debug("request failed", "url", uri.String(), "error", err)
		result.Err = fmt.Errorf("failed to fetch %s: %w", uri.Redacted(), err)
		return result
	}

	body := &onceCloser{rc: resp.Body}
	resp.Body = body
	defer func() {
		if err := body.Close(); err != nil {
			logger.Debug("failed to close response body", "url", uri.String(), "error", err)
		}
	}()

	if resp.Request != nil && resp.Request.URL != nil {
		result.Request.FinalURL = resp.Request.URL
	}

	if cfg.StrictStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		result.Err = &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        uri.Redacted(),
		}
		logger.Debug("rejected non-success status", "url", uri.String(), "status", resp.StatusCode)
		return result
	}

	// Recorded as sent by the server; decompress rewrites resp.Header later.
	result.Response = &model.ResponseInfo{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Proto:         resp.Proto,
		Header:        resp.Header.Clone(),
		ContentLength: resp.ContentLength,
	}

	decision := decide(result)
	if !decision.Allow {
		result.DecisionReason = decision.Reason
		logger.Debug("download refused", "url", uri.String(), "reason", decision.Reason)
		return result
	}

	result.DownloadStarted = model.Stamp()
	if cfg.HTTPRequestAutomaticDecompression {
		if err := decompress(resp); err != nil {
			logger.Warn("failed to decompress response body",
				"url", uri.String(),
				"content_encoding", resp.Header.Get("Content-Encoding"),
				"error", err)
		}
	}
	result.Content = ext.GetContent(resp)
	result.DownloadCompleted = model.Stamp()
	return result
}

func (r *Requester) newRequest(ctx context.Context, cfg *config.Config, uri *url.URL) (*http.Request, error) {
	if uri.Scheme != "http" && uri.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, uri.Scheme)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "*/*")
	if cfg.HTTPRequestAutomaticDecompression {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	return req, nil
}

// Close releases the extractor, idle connections and the cookie jar. It is safe to call
// more than once. Requests made afterwards fail with ErrClosed.
func (r *Requester) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.extractor != nil {
		err = r.extractor.Close()
	}
	if r.client != nil {
		r.client.CloseIdleConnections()
		r.client = nil
	}
	r.extractor = nil
	r.cfg = nil
	return err
}

// onceCloser closes the wrapped body only once, whoever calls Close first.
type onceCloser struct {
	rc   io.ReadCloser
	once sync.Once
	err  error
}

func (c *onceCloser) Read(p []byte) (int, error) {
	return c.rc.Read(p)
}

func (c *onceCloser) Close() error {
	c.once.Do(func() {
		c.err = c.rc.Close()
	})
	return c.err
}

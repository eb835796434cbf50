package model

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RequestInfo describes the request that produced a FetchResult.
type RequestInfo struct {
	// Method is the HTTP method (always GET for page fetches).
	Method string `json:"method"`

	// Header holds the headers set by the requester. Headers added by the
	// transport layer (authorization, custom headers) are not included.
	Header http.Header `json:"header,omitempty"`

	// FinalURL is the URL of the last request after redirects were followed.
	FinalURL *url.URL `json:"-"`
}

// ResponseInfo is the part of an HTTP response kept after the body has
// been consumed.
type ResponseInfo struct {
	StatusCode    int         `json:"status_code"`
	Status        string      `json:"status"`
	Proto         string      `json:"proto"`
	Header        http.Header `json:"header,omitempty"`
	ContentLength int64       `json:"content_length"`
}

// FetchResult is the outcome of one page request.
//
// Response and Err are mutually exclusive: a transport failure (or a
// status rejected in strict mode) sets Err and leaves Response nil.
// Timestamps are nil until the corresponding phase is reached.
type FetchResult struct {
	URI      *url.URL      `json:"-"`
	Request  *RequestInfo  `json:"request,omitempty"`
	Response *ResponseInfo `json:"response,omitempty"`
	Err      error         `json:"-"`

	RequestStarted    *time.Time `json:"request_started,omitempty"`
	RequestCompleted  *time.Time `json:"request_completed,omitempty"`
	DownloadStarted   *time.Time `json:"download_started,omitempty"`
	DownloadCompleted *time.Time `json:"download_completed,omitempty"`

	// Content is set only when the download was allowed and performed.
	Content *PageContent `json:"content,omitempty"`

	// DecisionReason is the reason given when the download was refused.
	DecisionReason string `json:"decision_reason,omitempty"`
}

// NewFetchResult returns an empty result for uri.
func NewFetchResult(uri *url.URL) *FetchResult {
	return &FetchResult{URI: uri}
}

// Stamp returns a pointer to the current time, for filling timestamp fields.
func Stamp() *time.Time {
	now := time.Now()
	return &now
}

// Elapsed returns the time between RequestStarted and RequestCompleted.
// It returns zero if either is missing.
func (r *FetchResult) Elapsed() time.Duration {
	return between(r.RequestStarted, r.RequestCompleted)
}

// DownloadElapsed returns the time spent reading and decoding the body.
func (r *FetchResult) DownloadElapsed() time.Duration {
	return between(r.DownloadStarted, r.DownloadCompleted)
}

func between(start, end *time.Time) time.Duration {
	if start == nil || end == nil {
		return 0
	}
	return end.Sub(*start)
}

// IsSuccess reports whether a response was received with a 2xx status.
func (r *FetchResult) IsSuccess() bool {
	return r.Err == nil && r.Response != nil &&
		r.Response.StatusCode >= 200 && r.Response.StatusCode < 300
}

// Header returns the first value of the named response header.
// Returns empty string if there is no response or the header is absent.
func (r *FetchResult) Header(name string) string {
	if r.Response == nil {
		return ""
	}
	return r.Response.Header.Get(name)
}

// HeaderValues returns every value of the named response header.
func (r *FetchResult) HeaderValues(name string) []string {
	if r.Response == nil {
		return nil
	}
	return r.Response.Header.Values(name)
}

// ContentType returns the lower-cased media type of the response,
// without parameters. Returns empty string when unknown.
func (r *FetchResult) ContentType() string {
	raw := r.Header("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		mediaType, _, _ = strings.Cut(raw, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// URIString returns the requested URI as a string, or empty string if unset.
func (r *FetchResult) URIString() string {
	if r.URI == nil {
		return ""
	}
	return r.URI.String()
}

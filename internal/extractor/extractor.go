package extractor

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nao1215/pagescout/internal/config"
	"github.com/nao1215/pagescout/internal/model"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const utf8Name = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor turns response bodies into PageContent.
// It holds no per-request state and is safe for concurrent use.
type Extractor struct {
	aliases  map[string]string
	maxBytes int64
	logger   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCharsetAliases adds charset aliases on top of the built-in ones.
func WithCharsetAliases(aliases map[string]string) Option {
	return func(e *Extractor) {
		for k, v := range aliases {
			e.aliases[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
}

// WithLogger sets the logger used for degradation messages.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxBytes limits how many body bytes are read. Zero or less means unlimited.
func WithMaxBytes(n int64) Option {
	return func(e *Extractor) {
		e.maxBytes = n
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		aliases: make(map[string]string),
		logger:  slog.Default(),
	}
	for k, v := range config.DefaultCharsetAliases() {
		e.aliases[k] = v
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetContent reads the body of resp and decodes it. The body is read but
// not closed; closing stays with the caller that owns the response.
func (e *Extractor) GetContent(resp *http.Response) *model.PageContent {
	content := &model.PageContent{
		Encoding:     unicode.UTF8,
		EncodingName: utf8Name,
	}
	if resp == nil || resp.Body == nil {
		return content
	}

	raw := e.readBody(resp)
	content.Bytes = raw

	charset := headerCharset(resp.Header.Get("Content-Type"))
	if charset == "" {
		charset = metaCharset(raw)
	}
	charset = cleanCharset(charset, e.aliases)
	content.Charset = charset

	enc, name := e.lookup(charset)
	content.Encoding = enc
	content.EncodingName = name
	content.Text = e.decode(raw, enc, name)
	return content
}

func (e *Extractor) readBody(resp *http.Response) []byte {
	var r io.Reader = resp.Body
	if e.maxBytes > 0 {
		r = io.LimitReader(resp.Body, e.maxBytes)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		e.logger.Warn("failed to read response body completely",
			"url", requestURL(resp),
			"read_bytes", len(raw),
			"error", err)
	}
	return raw
}

// lookup resolves a cleaned charset label to an encoding, falling back to UTF-8.
func (e *Extractor) lookup(label string) (encoding.Encoding, string) {
	if label == "" {
		return unicode.UTF8, utf8Name
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		e.logger.Debug("unknown charset, falling back to utf-8", "charset", label, "error", err)
		return unicode.UTF8, utf8Name
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return enc, name
}

func (e *Extractor) decode(raw []byte, enc encoding.Encoding, name string) string {
	if name == utf8Name {
		return strings.ToValidUTF8(string(bytes.TrimPrefix(raw, utf8BOM)), "\uFFFD")
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		e.logger.Debug("decoding failed, using raw bytes as utf-8", "encoding", name, "error", err)
		return strings.ToValidUTF8(string(bytes.TrimPrefix(raw, utf8BOM)), "\uFFFD")
	}
	return strings.TrimPrefix(string(decoded), "\uFEFF")
}

// Close releases resources held by the extractor. It holds none today;
// the method lets owners dispose extractors uniformly.
func (e *Extractor) Close() error {
	return nil
}

func requestURL(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.String()
}

package linkparser

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nao1215/pagescout/internal/config"
	"github.com/nao1215/pagescout/internal/model"
)

// Options controls which links the Parser returns.
type Options struct {
	// RespectMetaRobotsNoFollow returns no links for pages whose robots
	// meta tag says nofollow or none.
	RespectMetaRobotsNoFollow bool

	// RespectHTTPXRobotsTagNoFollow returns no links for responses whose
	// X-Robots-Tag header says nofollow or none.
	RespectHTTPXRobotsTagNoFollow bool

	// RespectAnchorRelNoFollow skips anchors with rel="nofollow".
	RespectAnchorRelNoFollow bool

	// RespectURLNamedAnchorOrHashbang keeps #fragments on returned links.
	RespectURLNamedAnchorOrHashbang bool

	// RobotsUserAgent selects which user agent scoped X-Robots-Tag
	// values apply.
	RobotsUserAgent string

	// CleanURL, when set, is applied to each link last.
	CleanURL func(string) string
}

// OptionsFromConfig builds Options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		RespectMetaRobotsNoFollow:       cfg.RespectMetaRobotsNoFollow,
		RespectHTTPXRobotsTagNoFollow:   cfg.RespectHTTPXRobotsTagNoFollow,
		RespectAnchorRelNoFollow:        cfg.RespectAnchorRelNoFollow,
		RespectURLNamedAnchorOrHashbang: cfg.RespectURLNamedAnchorOrHashbang,
		RobotsUserAgent:                 cfg.RobotsUserAgent,
	}
	if cfg.CleanURLs {
		opts.CleanURL = PurellCleaner(DefaultCleanFlags)
	}
	return opts
}

// Parser applies link policy on top of a Backend. It is safe for
// concurrent use when the backend is.
type Parser struct {
	backend Backend
	opts    Options
	logger  *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a Parser using backend.
func NewParser(backend Backend, opts Options, options ...ParserOption) *Parser {
	p := &Parser{
		backend: backend,
		opts:    opts,
		logger:  slog.Default(),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Backend returns the backend the parser queries.
func (p *Parser) Backend() Backend {
	return p.backend
}

// GetLinks returns the absolute, de-duplicated links of page in the order
// they were first seen. It never returns nil.
func (p *Parser) GetLinks(page *model.FetchResult) []string {
	links := []string{}
	if page == nil || page.Content.IsEmpty() {
		return links
	}

	if p.opts.RespectHTTPXRobotsTagNoFollow &&
		xRobotsNoFollow(page.HeaderValues("X-Robots-Tag"), p.opts.RobotsUserAgent) {
		p.logger.Debug("links skipped by X-Robots-Tag", "url", page.URIString())
		return links
	}

	doc, err := p.backend.Parse(page)
	if err != nil {
		if !errors.Is(err, ErrNoContent) {
			p.logger.Warn("failed to parse page", "url", page.URIString(), "backend", p.backend.Name(), "error", err)
		}
		return links
	}

	if p.opts.RespectMetaRobotsNoFollow && hasNoFollow(doc.MetaRobots()) {
		p.logger.Debug("links skipped by meta robots", "url", page.URIString())
		return links
	}

	base := p.baseURI(page.URI, doc.BaseHref())
	if base == nil {
		return links
	}

	seen := make(map[string]struct{})
	for _, raw := range p.candidates(page, doc) {
		link, ok := p.normalize(base, raw)
		if !ok {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}

func (p *Parser) candidates(page *model.FetchResult, doc Document) []string {
	hrefs := doc.HrefValues(p.opts.RespectAnchorRelNoFollow)
	self := page.URIString()
	for _, c := range doc.CanonicalHrefs() {
		if strings.EqualFold(strings.TrimSpace(c), self) {
			continue
		}
		hrefs = append(hrefs, c)
	}
	return hrefs
}

// baseURI returns the in-document base when it is present and usable,
// otherwise the page URI. A relative base is resolved against the page URI.
func (p *Parser) baseURI(pageURI *url.URL, baseHref string) *url.URL {
	baseHref = cleanHref(baseHref)
	if baseHref == "" {
		return pageURI
	}
	var (
		base *url.URL
		err  error
	)
	if pageURI != nil {
		base, err = pageURI.Parse(baseHref)
	} else {
		base, err = url.Parse(baseHref)
	}
	if err != nil || !base.IsAbs() {
		p.logger.Debug("ignoring unusable base href", "base", baseHref, "error", err)
		return pageURI
	}
	return base
}

// normalize resolves raw against base and applies fragment and clean rules.
func (p *Parser) normalize(base *url.URL, raw string) (string, bool) {
	href := cleanHref(raw)
	if href == "" {
		return "", false
	}
	u, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return "", false
	}
	if !p.opts.RespectURLNamedAnchorOrHashbang {
		u.Fragment = ""
		u.RawFragment = ""
	}

	link := u.String()
	if p.opts.CleanURL != nil {
		link = p.opts.CleanURL(link)
	}
	return link, link != ""
}

// cleanHref removes ASCII tab and newline characters, which browsers
// ignore inside URLs, and trims surrounding whitespace.
func cleanHref(s string) string {
	if strings.ContainsAny(s, "\t\n\r") {
		s = strings.Map(func(r rune) rune {
			if r == '\t' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, s)
	}
	return strings.TrimSpace(s)
}

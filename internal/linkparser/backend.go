package linkparser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/pagescout/internal/model"
)

// Backend parses page text into a queryable Document.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// Parse builds a Document from page.Content.Text.
	Parse(page *model.FetchResult) (Document, error)
}

// Document is the read-only view of a parsed page used by the Parser.
// Attribute values are returned with HTML entities already decoded.
type Document interface {
	// HrefValues returns the href of every <a> and <area> element that
	// has one, in document order. Elements whose rel contains nofollow
	// are skipped when respectRelNoFollow is true.
	HrefValues(respectRelNoFollow bool) []string

	// CanonicalHrefs returns the href of every <link rel="canonical">.
	CanonicalHrefs() []string

	// BaseHref returns the href of the first <base> element, or "".
	BaseHref() string

	// MetaRobots returns the content of the first <meta name="robots">, or "".
	MetaRobots() string
}

var backends = map[string]func() Backend{
	goqueryBackendName: func() Backend { return GoqueryBackend{} },
	htmlBackendName:    func() Backend { return HTMLBackend{} },
	xpathBackendName:   func() Backend { return XPathBackend{} },
}

// NewBackend returns the backend registered under name (case-insensitive).
func NewBackend(name string) (Backend, error) {
	factory, ok := backends[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, name, strings.Join(BackendNames(), ", "))
	}
	return factory(), nil
}

// BackendNames returns the registered backend names in sorted order.
func BackendNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pageText(page *model.FetchResult) (string, error) {
	if page == nil || page.Content == nil || page.Content.Text == "" {
		return "", ErrNoContent
	}
	return page.Content.Text, nil
}

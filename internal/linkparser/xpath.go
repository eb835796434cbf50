package linkparser

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/nao1215/pagescout/internal/model"
	"golang.org/x/net/html"
)

const xpathBackendName = "xpath"

// XPath expressions used by XPathBackend. Element tests go through
// local-name() so that a and area come back in document order.
const (
	xpathAnchors = `//*[(local-name()='a' or local-name()='area') and @href]`
	xpathLinks   = `//link[@rel and @href]`
	xpathBase    = `//base[@href]`
	xpathMeta    = `//meta[@name]`
)

// XPathBackend queries documents with XPath via antchfx/htmlquery.
type XPathBackend struct{}

// Name implements Backend.
func (XPathBackend) Name() string { return xpathBackendName }

// Parse implements Backend.
func (XPathBackend) Parse(page *model.FetchResult) (Document, error) {
	text, err := pageText(page)
	if err != nil {
		return nil, err
	}
	root, err := htmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("xpath: %w", err)
	}
	return &xpathDocument{root: root}, nil
}

type xpathDocument struct {
	root *html.Node
}

func (d *xpathDocument) HrefValues(respectRelNoFollow bool) []string {
	nodes := htmlquery.Find(d.root, xpathAnchors)
	hrefs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if respectRelNoFollow && relHasToken(htmlquery.SelectAttr(n, "rel"), "nofollow") {
			continue
		}
		hrefs = append(hrefs, htmlquery.SelectAttr(n, "href"))
	}
	return hrefs
}

func (d *xpathDocument) CanonicalHrefs() []string {
	var hrefs []string
	for _, n := range htmlquery.Find(d.root, xpathLinks) {
		if relHasToken(htmlquery.SelectAttr(n, "rel"), "canonical") {
			hrefs = append(hrefs, htmlquery.SelectAttr(n, "href"))
		}
	}
	return hrefs
}

func (d *xpathDocument) BaseHref() string {
	n := htmlquery.FindOne(d.root, xpathBase)
	if n == nil {
		return ""
	}
	return htmlquery.SelectAttr(n, "href")
}

func (d *xpathDocument) MetaRobots() string {
	for _, n := range htmlquery.Find(d.root, xpathMeta) {
		if strings.EqualFold(strings.TrimSpace(htmlquery.SelectAttr(n, "name")), "robots") {
			return htmlquery.SelectAttr(n, "content")
		}
	}
	return ""
}

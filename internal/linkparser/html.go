package linkparser

import (
	"fmt"
	"strings"

	"github.com/nao1215/pagescout/internal/model"
	"golang.org/x/net/html"
)

const htmlBackendName = "html"

// HTMLBackend walks the golang.org/x/net/html node tree once and keeps
// the elements the Parser asks about.
type HTMLBackend struct{}

// Name implements Backend.
func (HTMLBackend) Name() string { return htmlBackendName }

// Parse implements Backend.
func (HTMLBackend) Parse(page *model.FetchResult) (Document, error) {
	text, err := pageText(page)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}

	doc := &htmlDocument{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			doc.processElement(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

type anchor struct {
	href string
	rel  string
}

type htmlDocument struct {
	anchors    []anchor
	canonicals []string
	base       string
	hasBase    bool
	robots     string
	hasRobots  bool
}

func (d *htmlDocument) processElement(n *html.Node) {
	switch n.Data {
	case "a", "area":
		if href, ok := getAttr(n, "href"); ok {
			rel, _ := getAttr(n, "rel")
			d.anchors = append(d.anchors, anchor{href: href, rel: rel})
		}

	case "link":
		href, ok := getAttr(n, "href")
		if !ok {
			return
		}
		if rel, _ := getAttr(n, "rel"); relHasToken(rel, "canonical") {
			d.canonicals = append(d.canonicals, href)
		}

	case "base":
		if d.hasBase {
			return
		}
		if href, ok := getAttr(n, "href"); ok {
			d.base, d.hasBase = href, true
		}

	case "meta":
		if d.hasRobots {
			return
		}
		if name, _ := getAttr(n, "name"); strings.EqualFold(strings.TrimSpace(name), "robots") {
			d.robots, _ = getAttr(n, "content")
			d.hasRobots = true
		}
	}
}

func (d *htmlDocument) HrefValues(respectRelNoFollow bool) []string {
	hrefs := make([]string, 0, len(d.anchors))
	for _, a := range d.anchors {
		if respectRelNoFollow && relHasToken(a.rel, "nofollow") {
			continue
		}
		hrefs = append(hrefs, a.href)
	}
	return hrefs
}

func (d *htmlDocument) CanonicalHrefs() []string { return d.canonicals }

func (d *htmlDocument) BaseHref() string { return d.base }

func (d *htmlDocument) MetaRobots() string { return d.robots }

// getAttr retrieves an attribute value from an HTML node.
// The parser lower-cases attribute keys, so key must be lower case.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key && attr.Namespace == "" {
			return attr.Val, true
		}
	}
	return "", false
}

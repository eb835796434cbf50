package linkparser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pagescout/internal/model"
)

const goqueryBackendName = "goquery"

// GoqueryBackend queries documents with CSS selectors.
type GoqueryBackend struct{}

// Name implements Backend.
func (GoqueryBackend) Name() string { return goqueryBackendName }

// Parse implements Backend.
func (GoqueryBackend) Parse(page *model.FetchResult) (Document, error) {
	text, err := pageText(page)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("goquery: %w", err)
	}
	return &goqueryDocument{doc: doc}, nil
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d *goqueryDocument) HrefValues(respectRelNoFollow bool) []string {
	var hrefs []string
	d.doc.Find("a[href], area[href]").Each(func(_ int, s *goquery.Selection) {
		if respectRelNoFollow && relHasToken(s.AttrOr("rel", ""), "nofollow") {
			return
		}
		hrefs = append(hrefs, s.AttrOr("href", ""))
	})
	return hrefs
}

func (d *goqueryDocument) CanonicalHrefs() []string {
	var hrefs []string
	d.doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		if relHasToken(s.AttrOr("rel", ""), "canonical") {
			hrefs = append(hrefs, s.AttrOr("href", ""))
		}
	})
	return hrefs
}

func (d *goqueryDocument) BaseHref() string {
	return d.doc.Find("base[href]").First().AttrOr("href", "")
}

func (d *goqueryDocument) MetaRobots() string {
	var content string
	d.doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("name", "")), "robots") {
			content = s.AttrOr("content", "")
			return false
		}
		return true
	})
	return content
}

// Package linkparser extracts followable hyperlinks from fetched pages.
//
// # Architecture
//
// Parsing is split in two layers. A Backend turns page text into a
// Document and answers four narrow questions: which a/area hrefs exist,
// which canonical links exist, what the <base href> is, and what the
// robots meta tag says. The Parser owns every policy decision on top of
// that: X-Robots-Tag and meta robots handling, base resolution, scheme
// filtering, fragment stripping, URL cleaning and de-duplication. Backends
// therefore differ only in how they query the document.
//
// # Backends
//
//   - goquery: CSS selectors via github.com/PuerkitoBio/goquery
//   - html: a tree walk over golang.org/x/net/html nodes
//   - xpath: XPath expressions via github.com/antchfx/htmlquery
//
// # Usage
//
//	backend, err := linkparser.NewBackend("goquery")
//	if err != nil {
//		return err
//	}
//	p := linkparser.NewParser(backend, linkparser.OptionsFromConfig(cfg))
//	links := p.GetLinks(result)
package linkparser

// Package extractor reads an HTTP response body and decodes it into text.
//
// The charset is taken from the Content-Type header when present,
// otherwise from a <meta> declaration found by scanning an ASCII-only
// copy of the body. Labels are normalized through an alias table and
// resolved with the WHATWG encoding index from golang.org/x/text. When
// nothing can be resolved the body is treated as UTF-8.
//
// GetContent never fails: every degradation is logged and a usable
// PageContent is still returned.
package extractor

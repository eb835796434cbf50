package model

import (
	"golang.org/x/text/encoding"
)

// PageContent is the body of a fetched page together with the text
// encoding that was resolved for it.
type PageContent struct {
	// Bytes is the raw body as received (after transfer decompression).
	Bytes []byte `json:"-"`

	// Charset is the charset label as declared by the server or the
	// document. Empty means no declaration was found.
	Charset string `json:"charset,omitempty"`

	// Encoding decodes Bytes into Text. It is never nil on content
	// produced by the extractor; UTF-8 is used when nothing else applies.
	Encoding encoding.Encoding `json:"-"`

	// EncodingName is the canonical name of Encoding, e.g. "windows-1251".
	EncodingName string `json:"encoding"`

	// Text is Bytes decoded with Encoding.
	Text string `json:"-"`
}

// Size returns the number of raw body bytes.
func (c *PageContent) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Bytes)
}

// IsEmpty reports whether the content carries no decoded text.
func (c *PageContent) IsEmpty() bool {
	return c == nil || c.Text == ""
}

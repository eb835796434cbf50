package extractor

import (
	"regexp"
	"strings"
)

// metaCharsetPattern finds charset declarations inside <meta> tags, both
// the HTML5 form (<meta charset="...">) and the http-equiv form
// (<meta content="text/html; charset=...">). The second group is the label.
var metaCharsetPattern = regexp.MustCompile(
	`(?i)<meta(?:[^>]*?content\s*=[\s"']*)?([^>]*?)[\s"';]*charset\s*=[\s"']*([^\s"'/>]*)`)

// metaNameOrValue matches tags whose first attribute is name= or value=.
// Such tags describe document metadata, not the document encoding.
var metaNameOrValue = regexp.MustCompile(`(?i)^\s*(?:name|value)\s*=`)

const metaTagLen = len("<meta")

// headerCharset returns the charset parameter of a Content-Type value.
// The label runs from "charset=" to the end of the header.
func headerCharset(contentType string) string {
	idx := strings.Index(strings.ToLower(contentType), "charset=")
	if idx < 0 {
		return ""
	}
	return strings.Trim(contentType[idx+len("charset="):], " \t\"';")
}

// metaCharset returns the first non-blank charset declared in a <meta>
// tag of body. Bytes outside ASCII are replaced before matching so that
// the scan never depends on the unknown encoding.
func metaCharset(body []byte) string {
	text := asciiOnly(body)
	for _, m := range metaCharsetPattern.FindAllStringSubmatchIndex(text, -1) {
		if metaNameOrValue.MatchString(text[m[0]+metaTagLen:]) {
			continue
		}
		if m[4] < 0 {
			continue
		}
		if label := strings.TrimSpace(text[m[4]:m[5]]); label != "" {
			return label
		}
	}
	return ""
}

func asciiOnly(body []byte) string {
	buf := make([]byte, len(body))
	for i, b := range body {
		if b >= 0x80 {
			buf[i] = '?'
			continue
		}
		buf[i] = b
	}
	return string(buf)
}

// cleanCharset maps known aliases to their registered names.
// Keys of aliases are compared case-insensitively.
func cleanCharset(label string, aliases map[string]string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	if v, ok := aliases[strings.ToLower(label)]; ok {
		return v
	}
	return label
}

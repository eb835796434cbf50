package requester

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptEncoding is advertised when automatic decompression is enabled.
const acceptEncoding = "gzip, deflate, br"

// decodedBody wraps a decompressing reader so that closing it also closes
// the underlying network body.
type decodedBody struct {
	io.Reader
	closers []io.Closer
}

func (b *decodedBody) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// decompress replaces resp.Body with a decoding reader according to
// Content-Encoding. Unknown or identity encodings are left untouched.
// On success the Content-Encoding and Content-Length headers are removed
// because they no longer describe the body. On failure resp.Body still
// yields every byte the server sent, including those consumed while
// probing the stream header.
func decompress(resp *http.Response) error {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	var body *decodedBody
	switch encoding {
	case "gzip", "x-gzip":
		rec := &headerRecorder{r: resp.Body}
		zr, err := gzip.NewReader(rec)
		if err != nil {
			resp.Body = rec.replay(resp.Body)
			return err
		}
		rec.stop()
		body = &decodedBody{Reader: zr, closers: []io.Closer{zr, resp.Body}}
	case "deflate":
		rec := &headerRecorder{r: resp.Body}
		rc, err := newDeflateReader(rec)
		if err != nil {
			resp.Body = rec.replay(resp.Body)
			return err
		}
		rec.stop()
		body = &decodedBody{Reader: rc, closers: []io.Closer{rc, resp.Body}}
	case "br":
		body = &decodedBody{Reader: brotli.NewReader(resp.Body), closers: []io.Closer{resp.Body}}
	default:
		return nil
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}

// headerRecorder keeps the bytes read through it until stop is called.
type headerRecorder struct {
	r       io.Reader
	buf     bytes.Buffer
	stopped bool
}

func (h *headerRecorder) Read(p []byte) (int, error) {
	n, err := h.r.Read(p)
	if !h.stopped {
		h.buf.Write(p[:n])
	}
	return n, err
}

func (h *headerRecorder) stop() {
	h.stopped = true
	h.buf = bytes.Buffer{}
}

// replay returns a body that yields the recorded bytes followed by the
// unread rest of rest.
func (h *headerRecorder) replay(rest io.ReadCloser) io.ReadCloser {
	return &decodedBody{
		Reader:  io.MultiReader(bytes.NewReader(h.buf.Bytes()), rest),
		closers: []io.Closer{rest},
	}
}

// newDeflateReader accepts both zlib-wrapped and raw deflate streams;
// servers disagree on which one "deflate" means.
func newDeflateReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(2)
	if err == nil && isZlibHeader(header[0], header[1]) {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}

func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0F == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

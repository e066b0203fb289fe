package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Static error definitions for better error handling.
var (
	// ErrDecodeBody indicates that a compressed response body could not be opened.
	ErrDecodeBody = errors.New("failed to decode response body")
	// errUnsupportedEncoding marks a content encoding the transport leaves untouched.
	errUnsupportedEncoding = errors.New("unsupported content encoding")
)

// DecompressTransport decodes gzip, deflate and zstd response bodies.
// Requests that set Accept-Encoding themselves, such as browser-like ones,
// do not get the transparent gzip handling of net/http.
type DecompressTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
}

// NewDecompressTransport wraps next with response body decoding.
// A nil next falls back to http.DefaultTransport.
func NewDecompressTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &DecompressTransport{next: next}
}

// RoundTrip executes a single HTTP transaction and decodes the response body.
// Unknown encodings are passed through unchanged.
func (t *DecompressTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.Uncompressed || resp.Body == nil || resp.Body == http.NoBody {
		return resp, err
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	if encoding == "" || encoding == "identity" {
		return resp, nil
	}

	body, err := decodeBody(encoding, resp.Body)

	switch {
	case errors.Is(err, errUnsupportedEncoding):
		return resp, nil
	case errors.Is(err, io.EOF):
		// An empty compressed body has no header to read.
		_ = resp.Body.Close()
		body = http.NoBody
	case err != nil:
		_ = resp.Body.Close()

		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeBody, encoding, err)
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true

	return resp, nil
}

// decodedBody reads decoded data and closes both the decoder and the raw body.
type decodedBody struct {
	io.Reader
	// closeDecoder releases the decoder.
	closeDecoder func() error
	// raw is the compressed body.
	raw io.Closer
}

// Close closes the decoder and the underlying body.
func (b *decodedBody) Close() error {
	decoderErr := b.closeDecoder()
	rawErr := b.raw.Close()

	return errors.Join(decoderErr, rawErr)
}

func decodeBody(encoding string, raw io.ReadCloser) (io.ReadCloser, error) {
	switch encoding {
	case "gzip", "x-gzip":
		reader, err := gzip.NewReader(raw)
		if err != nil {
			return nil, err
		}

		return &decodedBody{Reader: reader, closeDecoder: reader.Close, raw: raw}, nil
	case "deflate":
		reader, err := zlib.NewReader(raw)
		if err != nil {
			return nil, err
		}

		return &decodedBody{Reader: reader, closeDecoder: reader.Close, raw: raw}, nil
	case "zstd":
		decoder, err := zstd.NewReader(raw)
		if err != nil {
			return nil, err
		}

		return &decodedBody{
			Reader: decoder,
			closeDecoder: func() error {
				decoder.Close()

				return nil
			},
			raw: raw,
		}, nil
	}

	return nil, errUnsupportedEncoding
}

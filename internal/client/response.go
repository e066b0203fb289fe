package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is a buffered HTTP response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status line text, e.g. "200 OK".
	Status string
	// Proto is the protocol version, e.g. "HTTP/1.1".
	Proto string
	// Header holds the response headers.
	Header http.Header
	// Duration is the time spent on the exchange.
	Duration time.Duration
	// body is the fully read response body.
	body []byte
}

// NewResponse creates a response with the given status, headers and body.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	if header == nil {
		header = make(http.Header)
	}

	return &Response{
		StatusCode: statusCode,
		Status:     fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		Proto:      "HTTP/1.1",
		Header:     header,
		body:       body,
	}
}

// Body returns a fresh reader over the response body.
func (r *Response) Body() io.Reader {
	return bytes.NewReader(r.body)
}

// BodyBytes returns the raw response body.
func (r *Response) BodyBytes() []byte {
	return r.body
}

// Size returns the body size in bytes.
func (r *Response) Size() int {
	return len(r.body)
}

// String returns the response body as text.
func (r *Response) String() string {
	return string(r.body)
}

// IsSuccess reports a 2xx status code.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// IsRedirect reports a 3xx status code.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= http.StatusMultipleChoices && r.StatusCode < http.StatusBadRequest
}

// IsClientError reports a 4xx status code.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= http.StatusBadRequest && r.StatusCode < http.StatusInternalServerError
}

// IsServerError reports a 5xx status code.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= http.StatusInternalServerError
}

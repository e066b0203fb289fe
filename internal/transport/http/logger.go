package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/oshokin/transporter/internal/config"
	"github.com/oshokin/transporter/internal/logger"
	"github.com/oshokin/transporter/internal/utils"
)

//nolint:gochecknoglobals // Immutable lookup tables used as constants.
var (
	// sensitiveHeaders are the headers whose values never reach the logs.
	sensitiveHeaders = map[string]struct{}{
		"Authorization":       {},
		"Proxy-Authorization": {},
		"Cookie":              {},
		"Set-Cookie":          {},
	}

	// headerTerminator separates the header section of a dump from its body.
	headerTerminator = []byte("\r\n\r\n")

	// lineTerminator separates header lines of a dump.
	lineTerminator = []byte("\r\n")

	// redactedValue replaces the value of a sensitive header.
	redactedValue = []byte(": [redacted]")
)

// LogTransport is a custom http.RoundTripper that logs HTTP requests and responses.
// It wraps another http.RoundTripper and logs debug information for each request/response cycle.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of logged request/response data.
	maxLogLength uint64
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// NewLogTransport creates and returns a new instance of LogTransport.
// If maxLogLength is 0, it defaults to config.DefaultMaxLogLength.
// A nil next falls back to http.DefaultTransport.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	if next == nil {
		next = http.DefaultTransport
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip executes a single HTTP transaction and logs the request and response.
// It implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Skip logging if the logger is not at debug level.
	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	ctx := logger.WithKV(req.Context(), "exchange_id", uuid.NewString())

	requestDump := t.dumpRequest(req)

	// Record the start time to measure the duration of the request.
	startTime := time.Now()

	// Forward the request to the underlying RoundTripper.
	resp, err := t.next.RoundTrip(req)

	// Calculate the duration of the request.
	duration := time.Since(startTime)

	if err != nil {
		logger.DebugKV(ctx, "Request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"duration", duration,
			"error", err)

		return nil, err
	}

	logger.DebugKV(ctx, "Exchange completed",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", duration,
		"request", requestDump,
		"response", t.dumpResponse(resp))

	return resp, nil
}

func (t *LogTransport) dumpRequest(req *http.Request) string {
	// Include the request body in the dump.
	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return err.Error()
	}

	return t.truncate(redactHeaders(dump))
}

func (t *LogTransport) dumpResponse(resp *http.Response) string {
	// Check the Content-Type header to determine if the response body should be dumped.
	contentType := resp.Header.Get("Content-Type")

	dump, err := httputil.DumpResponse(resp, utils.IsTextContentType(contentType))
	if err != nil {
		return err.Error()
	}

	return t.truncate(redactHeaders(dump))
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated, " + humanize.Bytes(uint64(len(data))) + " total]"
	}

	return string(data)
}

// redactHeaders masks the values of credential headers in the header section of a dump.
func redactHeaders(dump []byte) []byte {
	head, body, found := bytes.Cut(dump, headerTerminator)

	lines := bytes.Split(head, lineTerminator)
	for i, line := range lines {
		name, _, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			continue
		}

		if _, sensitive := sensitiveHeaders[http.CanonicalHeaderKey(string(bytes.TrimSpace(name)))]; sensitive {
			lines[i] = append(append([]byte{}, name...), redactedValue...)
		}
	}

	result := bytes.Join(lines, lineTerminator)
	if found {
		result = append(append(result, headerTerminator...), body...)
	}

	return result
}

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/transporter/internal/config"
)

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// TestNewLogTransport tests the NewLogTransport function.
func TestNewLogTransport(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(nil, 0)
	require.IsType(t, &LogTransport{}, transport)

	logTransport, _ := transport.(*LogTransport)
	assert.Equal(t, http.DefaultTransport, logTransport.next)
	assert.Equal(t, uint64(config.DefaultMaxLogLength), logTransport.maxLogLength)
}

// TestLogTransport_RoundTrip tests that requests pass through unchanged.
func TestLogTransport_RoundTrip(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	}))
	defer server.Close()

	client := &http.Client{Transport: NewLogTransport(http.DefaultTransport, 16)}

	resp, err := client.Get(server.URL) //nolint:noctx // Test code, context not needed.
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestLogTransport_RoundTrip_NilRequest tests RoundTrip with a nil request.
func TestLogTransport_RoundTrip_NilRequest(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("next transport must not be called")

		return nil, nil //nolint:nilnil // Unreachable.
	}), 0)

	resp, err := transport.RoundTrip(nil) //nolint:bodyclose // Body is empty on error.
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)
}

// TestLogTransport_Truncate tests the truncate method.
func TestLogTransport_Truncate(t *testing.T) {
	t.Parallel()

	transport := &LogTransport{maxLogLength: 4}

	assert.Equal(t, "abc", transport.truncate([]byte("abc")))

	truncated := transport.truncate([]byte(strings.Repeat("x", 2048)))
	assert.True(t, strings.HasPrefix(truncated, "xxxx... [truncated, "))
	assert.Contains(t, truncated, "2.0 kB total]")
}

// TestRedactHeaders tests that credential headers are masked in dumps.
func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dump     string
		expected string
	}{
		{
			name: "request with credentials",
			dump: "GET / HTTP/1.1\r\nHost: example.test\r\nAuthorization: Bearer secret\r\n" +
				"cookie: sid=1\r\n\r\nbody",
			expected: "GET / HTTP/1.1\r\nHost: example.test\r\nAuthorization: [redacted]\r\n" +
				"cookie: [redacted]\r\n\r\nbody",
		},
		{
			name:     "response cookie",
			dump:     "HTTP/1.1 200 OK\r\nSet-Cookie: sid=2; Path=/\r\n\r\n",
			expected: "HTTP/1.1 200 OK\r\nSet-Cookie: [redacted]\r\n\r\n",
		},
		{
			name:     "header-like body lines are kept",
			dump:     "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nCookie: in body",
			expected: "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nCookie: in body",
		},
		{
			name:     "no header terminator",
			dump:     "GET / HTTP/1.1\r\nProxy-Authorization: Basic abc",
			expected: "GET / HTTP/1.1\r\nProxy-Authorization: [redacted]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, string(redactHeaders([]byte(tt.dump))))
		})
	}
}

package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRedirects is the number of redirects followed when redirects are allowed.
	DefaultMaxRedirects = 10
)

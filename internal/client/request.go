package client

import "net/http"

// Request is the snapshot of what is actually issued: method, target and headers.
type Request struct {
	// Method is the upper-case HTTP verb.
	Method string
	// URI is the request target, absolute or relative to the configured base URI.
	URI string
	// Header holds the request headers.
	Header http.Header
}

// Clone returns a copy of the request that shares no headers with r.
func (r Request) Clone() Request {
	clone := r
	clone.Header = r.Header.Clone()

	return clone
}

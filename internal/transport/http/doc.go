// Package http provides custom HTTP transport utilities used by the request adapter,
// including request/response debug logging, response body decompression
// and User-Agent header injection.
// It is designed to enhance HTTP client functionality
// with debugging capabilities and request customization.
package http

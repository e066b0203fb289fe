package client

import (
	"maps"
	"net/http"
	"time"

	"github.com/oshokin/transporter/internal/cookie"
)

// Option names recognized by Config.Get and Config.Options.
const (
	// OptionHeaders holds default request headers.
	OptionHeaders = "headers"
	// OptionCookies holds the cookie jar.
	OptionCookies = "cookies"
	// OptionTimeout holds the request timeout.
	OptionTimeout = "timeout"
	// OptionAllowRedirects tells whether redirects are followed.
	OptionAllowRedirects = "allow_redirects"
	// OptionBaseURI holds the URI relative request targets are resolved against.
	OptionBaseURI = "base_uri"
	// OptionFormParams holds urlencoded body parameters.
	OptionFormParams = "form_params"
	// OptionMultipart holds multipart body parameters.
	OptionMultipart = "multipart"
	// OptionProxy holds the proxy URL.
	OptionProxy = "proxy"
	// OptionVerify tells whether TLS certificates are verified.
	OptionVerify = "verify"
)

// Config is the option set an Adapter is built from.
// A nil map or zero scalar means the option is absent; FormParams and Multipart
// are never both non-nil.
type Config struct {
	// Headers maps normalized header names to their ordered values.
	Headers http.Header
	// Cookies is the cookie jar shared by requests built from this configuration.
	Cookies *cookie.Jar
	// Timeout bounds a whole request, including redirects and reading the body.
	Timeout time.Duration
	// AllowRedirects enables following redirect responses.
	AllowRedirects bool
	// BaseURI is prepended to relative request URIs.
	BaseURI string
	// FormParams are sent as an application/x-www-form-urlencoded body.
	FormParams Params
	// Multipart are sent as a multipart/form-data body.
	Multipart Params
	// Proxy is the proxy URL. Empty means the environment proxy settings.
	Proxy string
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	// Extra keeps options that have no dedicated field.
	Extra map[string]any
}

// Clone returns a copy of the configuration that shares no mutable maps with c.
// The cookie jar is shared by reference.
func (c Config) Clone() Config {
	clone := c
	clone.Headers = c.Headers.Clone()
	clone.FormParams = c.FormParams.Clone()
	clone.Multipart = c.Multipart.Clone()
	clone.Extra = maps.Clone(c.Extra)

	return clone
}

// Get returns the named option and whether it is present.
func (c Config) Get(name string) (any, bool) {
	switch name {
	case OptionHeaders:
		return c.Headers.Clone(), c.Headers != nil
	case OptionCookies:
		return c.Cookies, c.Cookies != nil
	case OptionTimeout:
		return c.Timeout, c.Timeout > 0
	case OptionAllowRedirects:
		return c.AllowRedirects, true
	case OptionBaseURI:
		return c.BaseURI, c.BaseURI != ""
	case OptionFormParams:
		return c.FormParams.Clone(), c.FormParams != nil
	case OptionMultipart:
		return c.Multipart.Clone(), c.Multipart != nil
	case OptionProxy:
		return c.Proxy, c.Proxy != ""
	case OptionVerify:
		return !c.InsecureSkipVerify, true
	}

	value, ok := c.Extra[name]

	return value, ok
}

// Options renders every present option as a plain map. The cookie jar is rendered
// as its name to value pairs and the timeout in seconds.
func (c Config) Options() map[string]any {
	result := make(map[string]any, len(c.Extra)+7) //nolint:mnd // Number of always-present options plus slack.

	for name, value := range c.Extra {
		result[name] = value
	}

	if c.Headers != nil {
		result[OptionHeaders] = map[string][]string(c.Headers.Clone())
	}

	if c.Cookies != nil {
		result[OptionCookies] = c.Cookies.ToMap()
	}

	if c.Timeout > 0 {
		result[OptionTimeout] = c.Timeout.Seconds()
	}

	result[OptionAllowRedirects] = c.AllowRedirects

	if c.BaseURI != "" {
		result[OptionBaseURI] = c.BaseURI
	}

	if c.FormParams != nil {
		result[OptionFormParams] = map[string]any(c.FormParams.Clone())
	}

	if c.Multipart != nil {
		result[OptionMultipart] = map[string]any(c.Multipart.Clone())
	}

	if c.Proxy != "" {
		result[OptionProxy] = c.Proxy
	}

	result[OptionVerify] = !c.InsecureSkipVerify

	return result
}

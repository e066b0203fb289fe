package transporter

import (
	"maps"
	"net/http"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/transporter/internal/utils"
)

// headerNameCacheSize bounds the memo of normalized header names.
const headerNameCacheSize = 512

//nolint:gochecknoglobals // Process-wide memo of normalized header names.
var headerNameCache = mustHeaderNameCache()

func mustHeaderNameCache() *lru.Cache[string, string] {
	cache, err := lru.New[string, string](headerNameCacheSize)
	if err != nil {
		panic(err)
	}

	return cache
}

// NormalizeHeaderName canonicalizes a header key: lower-cased, trimmed, and with the
// first letter of every dash-separated segment upper-cased ("content-type" becomes
// "Content-Type"). It reports false for non-string keys and keys that normalize to empty.
func NormalizeHeaderName(key any) (string, bool) {
	raw, ok := key.(string)
	if !ok {
		return "", false
	}

	if normalized, found := headerNameCache.Get(raw); found {
		return normalized, normalized != ""
	}

	normalized := normalizeHeaderName(raw)
	headerNameCache.Add(raw, normalized)

	return normalized, normalized != ""
}

func normalizeHeaderName(raw string) string {
	name := []byte(strings.TrimSpace(strings.ToLower(raw)))

	upper := true

	for i, c := range name {
		if upper && c >= 'a' && c <= 'z' {
			name[i] = c - ('a' - 'A')
		}

		upper = c == '-'
	}

	return string(name)
}

// browserHeaderNames are the headers WithoutBrowser removes again.
//
//nolint:gochecknoglobals // This is an immutable list used as a constant.
var browserHeaderNames = []string{
	"Accept",
	"Accept-Encoding",
	"Accept-Language",
	"Connection",
	"Pragma",
	"Upgrade-Insecure-Requests",
}

// browserHeaders returns the headers a desktop browser sends with a page request.
func browserHeaders() map[string][]string {
	return map[string][]string{
		"User-Agent":                {utils.BrowserUserAgent()},
		"Accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Encoding":           {"gzip, deflate"},
		"Accept-Language":           {"en-US,en;q=0.5"},
		"Connection":                {"keep-alive"},
		"Pragma":                    {"no-cache"},
		"Cache-Control":             {"no-cache"},
		"Upgrade-Insecure-Requests": {"1"},
	}
}

// normalizeHeaders returns a copy of headers keyed by normalized names.
// Keys that fail normalization are dropped; colliding keys are overwritten in key order.
func normalizeHeaders(headers map[string][]string) http.Header {
	result := make(http.Header, len(headers))

	for _, key := range slices.Sorted(maps.Keys(headers)) {
		name, ok := NormalizeHeaderName(key)
		if !ok {
			continue
		}

		result[name] = slices.Clone(headers[key])
	}

	return result
}

// SetHeader stores the values under the normalized name, replacing previous values.
// Invalid names are ignored. The receiver is modified in place.
func (t *Transport) SetHeader(name string, values ...string) *Transport {
	normalized, ok := NormalizeHeaderName(name)
	if !ok {
		return t
	}

	if t.config.Headers == nil {
		t.config.Headers = make(http.Header)
	}

	t.config.Headers[normalized] = slices.Clone(values)
	t.syncRequestHeaders()
	t.rebuild()

	return t
}

// ReplaceHeaders sets every given header as SetHeader does and rebuilds the adapter once.
// The receiver is modified in place.
func (t *Transport) ReplaceHeaders(headers map[string][]string) *Transport {
	t.batch(func() {
		for _, name := range slices.Sorted(maps.Keys(headers)) {
			t.SetHeader(name, headers[name]...)
		}

		t.syncRequestHeaders()
	})

	return t
}

// RemoveHeaders deletes every named header and rebuilds the adapter once.
// The receiver is modified in place.
func (t *Transport) RemoveHeaders(names ...string) *Transport {
	t.batch(func() {
		for _, name := range names {
			normalized, ok := NormalizeHeaderName(name)
			if !ok {
				continue
			}

			delete(t.config.Headers, normalized)
		}

		t.syncRequestHeaders()
	})

	return t
}

// RemoveHeader deletes a single header. The receiver is modified in place.
func (t *Transport) RemoveHeader(name string) *Transport {
	return t.RemoveHeaders(name)
}

// WithHeaders returns a Transport whose headers are replaced wholesale by headers.
func (t *Transport) WithHeaders(headers map[string][]string) *Transport {
	object := t.clone()
	object.config.Headers = make(http.Header)

	return object.ReplaceHeaders(headers)
}

// WithAddedHeaders returns a Transport with the given values appended to existing headers.
func (t *Transport) WithAddedHeaders(headers map[string][]string) *Transport {
	object := t.clone()

	if object.config.Headers == nil {
		object.config.Headers = make(http.Header)
	}

	for _, key := range slices.Sorted(maps.Keys(headers)) {
		name, ok := NormalizeHeaderName(key)
		if !ok {
			continue
		}

		object.config.Headers[name] = append(object.config.Headers[name], headers[key]...)
	}

	object.syncRequestHeaders()
	object.rebuild()

	return object
}

// WithoutHeader returns a Transport without the named headers.
func (t *Transport) WithoutHeader(names ...string) *Transport {
	return t.clone().RemoveHeaders(names...)
}

// WithBrowser returns a Transport whose headers imitate a desktop browser,
// including a generated browser User-Agent.
func (t *Transport) WithBrowser() *Transport {
	return t.clone().ReplaceHeaders(browserHeaders())
}

// WithoutBrowser returns a Transport without the browser headers added by WithBrowser.
// User-Agent and Cache-Control are kept.
func (t *Transport) WithoutBrowser() *Transport {
	return t.clone().RemoveHeaders(browserHeaderNames...)
}

// Headers returns a copy of the configured headers.
func (t *Transport) Headers() http.Header {
	return t.config.Headers.Clone()
}

// syncRequestHeaders mirrors the configured headers into the request snapshot.
func (t *Transport) syncRequestHeaders() {
	t.request.Header = t.config.Headers.Clone()
	if t.request.Header == nil {
		t.request.Header = make(http.Header)
	}
}

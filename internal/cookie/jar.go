package cookie

import (
	"maps"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// Jar is a cookie jar seeded from name-value pairs.
// Seeded cookies without a domain are sent to every host; scoped ones only to the
// domain and its subdomains. Cookies set by servers are kept in a public-suffix aware store.
// Jar is safe for concurrent use.
type Jar struct {
	// domain limits seeded cookies to a host and its subdomains; empty means unscoped.
	domain string
	// seeded holds the cookies the jar was constructed with.
	seeded map[string]string
	// store keeps cookies received from servers.
	store *cookiejar.Jar

	// mu guards received.
	mu sync.RWMutex
	// received logs every batch handed to the store, in arrival order, so the jar can be
	// listed and rebuilt with each cookie's own scope.
	received []receivedBatch
}

// receivedBatch is one SetCookies call: the URL the cookies came from and the cookies themselves.
type receivedBatch struct {
	// origin is the URL the cookies were received from.
	origin *url.URL
	// cookies are copies of the received cookies with every attribute intact.
	cookies []*http.Cookie
}

// New creates an unscoped jar holding the given cookies.
func New(cookies map[string]string) *Jar {
	return FromMap(cookies, "")
}

// FromMap creates a jar holding the given cookies scoped to domain.
// An empty domain produces an unscoped jar.
func FromMap(cookies map[string]string, domain string) *Jar {
	//nolint:errcheck // cookiejar.New never returns a non-nil error.
	store, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	seeded := make(map[string]string, len(cookies))

	for name, value := range cookies {
		if name == "" {
			continue
		}

		seeded[name] = value
	}

	return &Jar{
		domain: strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "."),
		seeded: seeded,
		store:  store,
	}
}

// Domain returns the domain seeded cookies are scoped to, or an empty string.
func (j *Jar) Domain() string {
	return j.domain
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if u == nil || len(cookies) == 0 {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.store.SetCookies(u, cookies)

	origin := *u

	batch := receivedBatch{
		origin:  &origin,
		cookies: make([]*http.Cookie, 0, len(cookies)),
	}

	for _, c := range cookies {
		cookieCopy := *c
		batch.cookies = append(batch.cookies, &cookieCopy)
	}

	j.received = append(j.received, batch)
}

// Cookies implements http.CookieJar.
// Received cookies win over seeded cookies with the same name.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	if u == nil {
		return nil
	}

	received := j.store.Cookies(u)
	result := make([]*http.Cookie, 0, len(received)+len(j.seeded))
	seen := make(map[string]struct{}, len(received))

	for _, c := range received {
		seen[c.Name] = struct{}{}
		result = append(result, c)
	}

	if !j.matches(u.Hostname()) {
		return result
	}

	for _, name := range slices.Sorted(maps.Keys(j.seeded)) {
		if _, ok := seen[name]; ok {
			continue
		}

		result = append(result, &http.Cookie{Name: name, Value: j.seeded[name]})
	}

	return result
}

// ToMap returns every cookie in the jar as a name-value map.
func (j *Jar) ToMap() map[string]string {
	result := maps.Clone(j.seeded)

	j.mu.RLock()
	defer j.mu.RUnlock()

	visited := make(map[string]struct{}, len(j.received))

	for _, batch := range j.received {
		key := batch.origin.Scheme + "://" + batch.origin.Host
		if _, ok := visited[key]; ok {
			continue
		}

		visited[key] = struct{}{}

		for _, c := range j.store.Cookies(&url.URL{Scheme: batch.origin.Scheme, Host: batch.origin.Host, Path: "/"}) {
			result[c.Name] = c.Value
		}
	}

	return result
}

// Len returns the number of distinct cookie names in the jar.
func (j *Jar) Len() int {
	return len(j.ToMap())
}

// Without returns a new jar with the same scope holding every cookie except the named ones.
// Received cookies keep the host, domain and path they were set for. Empty names are ignored.
func (j *Jar) Without(names ...string) *Jar {
	excluded := make(map[string]struct{}, len(names))

	for _, name := range names {
		if name == "" {
			continue
		}

		excluded[name] = struct{}{}
	}

	seeded := maps.Clone(j.seeded)
	maps.DeleteFunc(seeded, func(name, _ string) bool {
		_, ok := excluded[name]

		return ok
	})

	result := FromMap(seeded, j.domain)

	j.mu.RLock()
	defer j.mu.RUnlock()

	for _, batch := range j.received {
		kept := slices.DeleteFunc(slices.Clone(batch.cookies), func(c *http.Cookie) bool {
			_, ok := excluded[c.Name]

			return ok
		})

		if len(kept) == 0 {
			continue
		}

		result.SetCookies(batch.origin, kept)
	}

	return result
}

// matches reports whether seeded cookies should be sent to host.
func (j *Jar) matches(host string) bool {
	if j.domain == "" {
		return true
	}

	host = strings.ToLower(host)

	return host == j.domain || strings.HasSuffix(host, "."+j.domain)
}

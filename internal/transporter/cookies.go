package transporter

import "github.com/oshokin/transporter/internal/cookie"

// WithCookieJar returns a Transport using jar for cookies.
func (t *Transport) WithCookieJar(jar *cookie.Jar) *Transport {
	object := t.clone()
	object.config.Cookies = jar
	object.rebuild()

	return object
}

// WithCookieArray returns a Transport with a new jar holding the given cookies.
// The jar is scoped to domain, or unscoped when domain is empty.
func (t *Transport) WithCookieArray(cookies map[string]string, domain string) *Transport {
	if domain == "" {
		return t.WithCookieJar(cookie.New(cookies))
	}

	return t.WithCookieJar(cookie.FromMap(cookies, domain))
}

// WithoutCookie returns a Transport without the named cookies.
// Without names the jar is dropped entirely; without a jar nothing changes.
func (t *Transport) WithoutCookie(names ...string) *Transport {
	object := t.clone()

	if object.config.Cookies == nil {
		return object
	}

	if len(names) == 0 {
		object.config.Cookies = nil
	} else {
		object.config.Cookies = object.config.Cookies.Without(names...)
	}

	object.rebuild()

	return object
}

// CookieJar returns the configured cookie jar, nil when none is set.
func (t *Transport) CookieJar() *cookie.Jar {
	return t.config.Cookies
}

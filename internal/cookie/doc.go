// Package cookie provides the cookie jar used by transports.
// A Jar is seeded from a name-to-value map, optionally scoped to a domain,
// and also stores cookies received from servers, so it can be plugged
// directly into an HTTP client as a net/http.CookieJar.
package cookie

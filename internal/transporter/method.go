package transporter

import (
	"slices"
	"strings"
)

// Method is an upper-case HTTP verb from the allowed set.
type Method string

// Allowed HTTP methods.
const (
	MethodConnect  Method = "CONNECT"
	MethodCopy     Method = "COPY"
	MethodDelete   Method = "DELETE"
	MethodGet      Method = "GET"
	MethodHead     Method = "HEAD"
	MethodLink     Method = "LINK"
	MethodLock     Method = "LOCK"
	MethodOptions  Method = "OPTIONS"
	MethodPost     Method = "POST"
	MethodPut      Method = "PUT"
	MethodPurge    Method = "PURGE"
	MethodPatch    Method = "PATCH"
	MethodPropFind Method = "PROPFIND"
	MethodTrace    Method = "TRACE"
	MethodUnlink   Method = "UNLINK"
	MethodUnlock   Method = "UNLOCK"
	MethodView     Method = "VIEW"

	// DefaultMethod is the method of a newly created Transport.
	DefaultMethod = MethodGet
)

//nolint:gochecknoglobals // This is an immutable lookup table used as a constant.
var allowedMethods = map[Method]struct{}{
	MethodConnect:  {},
	MethodCopy:     {},
	MethodDelete:   {},
	MethodGet:      {},
	MethodHead:     {},
	MethodLink:     {},
	MethodLock:     {},
	MethodOptions:  {},
	MethodPost:     {},
	MethodPut:      {},
	MethodPurge:    {},
	MethodPatch:    {},
	MethodPropFind: {},
	MethodTrace:    {},
	MethodUnlink:   {},
	MethodUnlock:   {},
	MethodView:     {},
}

// AllowedMethod trims and upper-cases name and reports whether it is an allowed method.
func AllowedMethod(name string) (Method, bool) {
	method := Method(strings.ToUpper(strings.TrimSpace(name)))
	if method == "" {
		return "", false
	}

	if _, ok := allowedMethods[method]; !ok {
		return "", false
	}

	return method, true
}

// Methods returns every allowed method in alphabetical order.
func Methods() []Method {
	result := make([]Method, 0, len(allowedMethods))
	for method := range allowedMethods {
		result = append(result, method)
	}

	slices.Sort(result)

	return result
}

// String returns the method token.
func (m Method) String() string {
	return string(m)
}

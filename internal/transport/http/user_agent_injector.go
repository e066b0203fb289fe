package http

import (
	"github.com/go-resty/resty/v2"

	"github.com/oshokin/transporter/internal/utils"
)

// userAgentHeader is the HTTP header name for User-Agent.
const userAgentHeader = "User-Agent"

// NewUserAgentInjector returns a resty request middleware that fills in the User-Agent header.
// The header is injected only when neither the request nor the client defaults carry a non-empty value,
// which keeps resty from falling back to its own library User-Agent.
func NewUserAgentInjector(userAgentProvider utils.UserAgentProvider) resty.RequestMiddleware {
	return func(c *resty.Client, r *resty.Request) error {
		if r.Header.Get(userAgentHeader) != "" || c.Header.Get(userAgentHeader) != "" {
			return nil
		}

		r.SetHeader(userAgentHeader, userAgentProvider.GetUserAgent())

		return nil
	}
}

package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/transporter/internal/logger"
	transporthttp "github.com/oshokin/transporter/internal/transport/http"
	"github.com/oshokin/transporter/internal/utils"
)

// defaultPartContentType is used for multipart parts without an explicit content type.
const defaultPartContentType = "application/octet-stream"

// RestyFactory builds go-resty backed adapters.
type RestyFactory struct {
	// maxLogLength limits debug dumps of requests and responses.
	maxLogLength uint64
	// userAgentProvider fills in the User-Agent header when none is configured.
	userAgentProvider utils.UserAgentProvider
	// baseTransport is the round tripper requests finally go through.
	// Nil means a clone of http.DefaultTransport configured from the adapter options.
	baseTransport http.RoundTripper
}

// RestyOption customizes a RestyFactory.
type RestyOption func(*RestyFactory)

// WithMaxLogLength limits debug dumps of requests and responses to n bytes.
func WithMaxLogLength(n uint64) RestyOption {
	return func(f *RestyFactory) {
		f.maxLogLength = n
	}
}

// WithUserAgentProvider sets the provider used when a request carries no User-Agent.
func WithUserAgentProvider(provider utils.UserAgentProvider) RestyOption {
	return func(f *RestyFactory) {
		f.userAgentProvider = provider
	}
}

// WithBaseTransport makes adapters send through rt instead of a configured http.Transport.
// Proxy and TLS options are not applied to a custom transport.
func WithBaseTransport(rt http.RoundTripper) RestyOption {
	return func(f *RestyFactory) {
		f.baseTransport = rt
	}
}

// NewRestyFactory creates a factory of resty adapters.
func NewRestyFactory(opts ...RestyOption) *RestyFactory {
	f := &RestyFactory{
		userAgentProvider: utils.NewGeneratedUserAgentProvider(nil),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewAdapter returns an adapter whose resty client is configured from config.
func (f *RestyFactory) NewAdapter(config Config) Adapter {
	config = config.Clone()

	c := resty.New().
		SetLogger(logger.Logger()).
		SetTransport(transporthttp.NewLogTransport(
			transporthttp.NewDecompressTransport(f.roundTripper(config)),
			f.maxLogLength)).
		SetTimeout(config.Timeout).
		SetAllowGetMethodPayload(true).
		OnBeforeRequest(transporthttp.NewUserAgentInjector(f.userAgentProvider))

	if config.BaseURI != "" {
		c.SetBaseURL(config.BaseURI)
	}

	if config.AllowRedirects {
		c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(transporthttp.DefaultMaxRedirects))
	} else {
		c.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}

	// A nil *cookie.Jar must not reach resty as a non-nil interface.
	if config.Cookies != nil {
		c.SetCookieJar(config.Cookies)
	} else {
		c.SetCookieJar(nil)
	}

	for name, values := range config.Headers {
		for _, value := range values {
			c.Header.Add(name, value)
		}
	}

	return &RestyAdapter{
		client: c,
		config: config,
	}
}

func (f *RestyFactory) roundTripper(config Config) http.RoundTripper {
	if f.baseTransport != nil {
		return f.baseTransport
	}

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport
	}

	transport = transport.Clone()

	if config.Proxy != "" {
		if proxyURL, err := url.Parse(config.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // Verification is disabled only on request.
	}

	return transport
}

// RestyAdapter sends requests through a configured resty client.
type RestyAdapter struct {
	// client is the configured resty client.
	client *resty.Client
	// config is the configuration the client was built from.
	config Config
}

// Config returns a copy of the configuration the adapter was built from.
func (a *RestyAdapter) Config() Config {
	return a.config.Clone()
}

// Send issues the request and buffers the response.
// Timeouts are reported as errors wrapping ErrTimedOut.
func (a *RestyAdapter) Send(ctx context.Context, request Request, config Config) (*Response, error) {
	if strings.TrimSpace(request.Method) == "" {
		return nil, ErrEmptyMethod
	}

	req := a.client.R().SetContext(ctx)

	for name, values := range request.Header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	switch {
	case config.Multipart != nil:
		applyMultipart(req, config.Multipart)
	case config.FormParams != nil:
		req.SetFormDataFromValues(config.FormParams.Values())
	}

	resp, err := req.Execute(request.Method, request.URI)
	if err != nil {
		return nil, wrapTimeout(err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Proto:      resp.Proto(),
		Header:     resp.Header(),
		Duration:   resp.Time(),
		body:       resp.Body(),
	}, nil
}

func applyMultipart(req *resty.Request, params Params) {
	req.SetFormDataFromValues(params.Values())
	// Marks the body as multipart even when every part is textual.
	req.SetMultipartFormData(map[string]string{})

	for _, name := range params.Names() {
		switch typed := params[name].(type) {
		case File:
			req.SetMultipartField(name, typed.Name, partContentType(typed.ContentType), typed.Reader)
		case *File:
			if typed != nil {
				req.SetMultipartField(name, typed.Name, partContentType(typed.ContentType), typed.Reader)
			}
		case []byte:
			req.SetMultipartField(name, name, defaultPartContentType, bytes.NewReader(typed))
		case io.Reader:
			req.SetMultipartField(name, name, defaultPartContentType, typed)
		}
	}
}

func partContentType(contentType string) string {
	if contentType == "" {
		return defaultPartContentType
	}

	return contentType
}

// String describes the adapter for debugging.
func (a *RestyAdapter) String() string {
	return fmt.Sprintf("resty adapter (base_uri=%q, timeout=%s)", a.config.BaseURI, a.config.Timeout)
}

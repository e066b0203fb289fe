package transporter

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/oshokin/transporter/internal/client"
	transporthttp "github.com/oshokin/transporter/internal/transport/http"
	"github.com/oshokin/transporter/internal/utils"
)

//nolint:gochecknoglobals // Shared default factory; adapters it builds are independent.
var defaultFactory client.Factory = client.NewRestyFactory()

// Transport is an immutable HTTP request builder bound to an HTTP client adapter.
//
// A single Transport must not be modified or sent from several goroutines at once.
// Values returned by With methods share no mutable state with their source.
type Transport struct {
	// config is the option set the adapter is built from.
	config client.Config
	// request is the snapshot of what is issued.
	request client.Request
	// client is the adapter built from config.
	client client.Adapter
	// factory builds adapters on every configuration change.
	factory client.Factory
	// paramType is the active body parameter type.
	paramType ParamType
	// batching suppresses adapter rebuilds during a multi-step mutation.
	batching bool
	// lastResponse is the result of the last Send on this instance.
	lastResponse *Response
}

// Option customizes a Transport at construction.
type Option func(*Transport)

// UseFactory makes the Transport build its adapters with factory.
func UseFactory(factory client.Factory) Option {
	return func(t *Transport) {
		if factory != nil {
			t.factory = factory
		}
	}
}

// DefaultConfig returns the configuration every Transport starts from:
// a browser User-Agent, a 10 second timeout, and redirects allowed.
func DefaultConfig() client.Config {
	return client.Config{
		Headers: http.Header{
			"User-Agent": {utils.DefaultBrowserUserAgent},
		},
		Timeout:        transporthttp.DefaultTimeout,
		AllowRedirects: true,
	}
}

// New creates a Transport for uri with the overlay merged onto DefaultConfig.
// Overlay options replace default options wholesale; header names are normalized
// and invalid ones dropped. A non-empty uri also becomes the base URI.
func New(uri string, overlay map[string]any, opts ...Option) (*Transport, error) {
	t := &Transport{
		config:    DefaultConfig(),
		factory:   defaultFactory,
		paramType: ParamForm,
		request: client.Request{
			Method: DefaultMethod.String(),
			URI:    uri,
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := checkExclusiveParams(overlay); err != nil {
		return nil, err
	}

	if uri != "" {
		if _, err := url.Parse(uri); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	t.batching = true

	for _, name := range slices.Sorted(maps.Keys(overlay)) {
		if err := t.applyConfig(name, overlay[name]); err != nil {
			return nil, err
		}
	}

	if uri != "" {
		t.config.BaseURI = uri
	}

	t.batching = false

	t.syncRequestHeaders()
	t.rebuild()

	return t, nil
}

// checkExclusiveParams rejects option maps that carry both parameter types.
func checkExclusiveParams(options map[string]any) error {
	_, hasForm := options[client.OptionFormParams]
	_, hasMultipart := options[client.OptionMultipart]

	if hasForm && hasMultipart {
		return fmt.Errorf("%w: %s and %s are mutually exclusive",
			ErrInvalidArgument, client.OptionFormParams, client.OptionMultipart)
	}

	return nil
}

// clone returns a copy of t that shares no mutable configuration or request state.
// The cached last response is not carried over.
func (t *Transport) clone() *Transport {
	return &Transport{
		config:    t.config.Clone(),
		request:   t.request.Clone(),
		client:    t.client,
		factory:   t.factory,
		paramType: t.paramType,
	}
}

// rebuild binds a fresh adapter built from the current configuration unless batching.
func (t *Transport) rebuild() {
	if t.batching {
		return
	}

	t.client = t.factory.NewAdapter(t.config.Clone())
}

// batch runs fn with rebuilds suppressed and rebuilds once afterwards.
// Nested batches rebuild only when the outermost one ends.
func (t *Transport) batch(fn func()) {
	previous := t.batching
	t.batching = true

	defer func() {
		t.batching = previous
		t.rebuild()
	}()

	fn()
}

// WithMethod returns a Transport issuing the given method.
// It fails with ErrInvalidMethod when name is not an allowed method.
func (t *Transport) WithMethod(name string) (*Transport, error) {
	method, ok := AllowedMethod(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, name)
	}

	object := t.clone()
	object.request.Method = method.String()

	return object, nil
}

// Method returns the method of the request snapshot.
func (t *Transport) Method() Method {
	return Method(t.request.Method)
}

// WithURI returns a Transport targeting uri.
func (t *Transport) WithURI(uri string) (*Transport, error) {
	if _, err := url.Parse(uri); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	object := t.clone()
	object.request.URI = uri

	return object, nil
}

// WithURL returns a Transport targeting u.
func (t *Transport) WithURL(u *url.URL) (*Transport, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: url is nil", ErrInvalidArgument)
	}

	return t.WithURI(u.String())
}

// URI returns the target of the request snapshot.
func (t *Transport) URI() string {
	return t.request.URI
}

// WithRequest returns a Transport issuing request. The configured headers are
// replaced by the request headers so both stay in sync.
func (t *Transport) WithRequest(request client.Request) (*Transport, error) {
	method, ok := AllowedMethod(request.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, request.Method)
	}

	if _, err := url.Parse(request.URI); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	object := t.clone()
	object.request.Method = method.String()
	object.request.URI = request.URI
	object.config.Headers = normalizeHeaders(request.Header)
	object.syncRequestHeaders()
	object.rebuild()

	return object, nil
}

// Request returns a copy of the request snapshot.
func (t *Transport) Request() client.Request {
	return t.request.Clone()
}

// WithClient returns a Transport bound to adapter and adopting its configuration.
func (t *Transport) WithClient(adapter client.Adapter) *Transport {
	object := t.clone()
	object.client = adapter

	if adapter == nil {
		return object
	}

	object.config = adapter.Config()

	switch {
	case object.config.Multipart != nil:
		object.paramType = ParamMultipart
	case object.config.FormParams != nil:
		object.paramType = ParamForm
	}

	object.syncRequestHeaders()

	return object
}

// GetClient returns the bound adapter.
func (t *Transport) GetClient() client.Adapter {
	return t.client
}

// GetConfig returns a copy of the whole configuration.
func (t *Transport) GetConfig() client.Config {
	return t.config.Clone()
}

// GetConfigValue returns the named option, or nil when it is absent.
func (t *Transport) GetConfigValue(name string) any {
	value, ok := t.config.Get(name)
	if !ok {
		return nil
	}

	return value
}

// SetConfig sets a single option in place and rebuilds the adapter.
// Headers are replaced wholesale; form_params and multipart switch the
// parameter type as WithTypedParams does.
func (t *Transport) SetConfig(name string, value any) error {
	var err error

	t.batch(func() {
		err = t.applyConfig(name, value)
	})

	return err
}

// Timeout returns the configured timeout.
func (t *Transport) Timeout() time.Duration {
	return t.config.Timeout
}

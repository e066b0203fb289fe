package transporter

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/transporter/internal/client"
)

// stubAdapter answers every request with 200 OK.
type stubAdapter struct {
	config client.Config
}

func (a *stubAdapter) Send(context.Context, client.Request, client.Config) (*client.Response, error) {
	return client.NewResponse(http.StatusOK, nil, []byte("ok")), nil
}

func (a *stubAdapter) Config() client.Config {
	return a.config.Clone()
}

// countingFactory counts adapter rebuilds and remembers the last configuration.
type countingFactory struct {
	builds int
	last   client.Config
}

func (f *countingFactory) NewAdapter(config client.Config) client.Adapter {
	f.builds++
	f.last = config

	return &stubAdapter{config: config}
}

// newTestTransport creates a Transport bound to a counting factory.
func newTestTransport(t *testing.T, uri string, overlay map[string]any) (*Transport, *countingFactory) {
	t.Helper()

	factory := &countingFactory{}

	transport, err := New(uri, overlay, UseFactory(factory))
	require.NoError(t, err)

	return transport, factory
}

package client

//go:generate $MOCKGEN -source=adapter.go -destination=mocks/adapter_mock.go

import "context"

// Adapter issues requests with the options it was built from.
type Adapter interface {
	// Send issues the request. Body parameters are taken from config.
	Send(ctx context.Context, request Request, config Config) (*Response, error)
	// Config returns a copy of the configuration the adapter was built from.
	Config() Config
}

// Factory builds an Adapter from a configuration.
type Factory interface {
	// NewAdapter returns an adapter bound to config.
	NewAdapter(config Config) Adapter
}

// FactoryFunc adapts a plain function to the Factory interface.
type FactoryFunc func(config Config) Adapter

// NewAdapter calls f(config).
func (f FactoryFunc) NewAdapter(config Config) Adapter {
	return f(config)
}

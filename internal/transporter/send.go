package transporter

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/transporter/internal/client"
	"github.com/oshokin/transporter/internal/logger"
)

// errNoClient is reported when Send runs without a bound adapter.
var errNoClient = errors.New("no client adapter is bound")

// Send issues the request snapshot through the bound adapter.
// Failures, including panics raised by the adapter, are returned as a failed
// Response wrapping ErrExecutionFailure; Send never returns nil.
// The result is cached as the last response of t.
func (t *Transport) Send(ctx context.Context) (result *Response) {
	ctx = logger.WithKV(logger.WithName(ctx, "transporter"),
		"method", t.request.Method,
		"uri", t.request.URI)

	defer func() {
		if recovered := recover(); recovered != nil {
			result = t.capture(ctx, fmt.Errorf("%w: panic: %v", ErrExecutionFailure, recovered))
		}
	}()

	if t.client == nil {
		return t.capture(ctx, fmt.Errorf("%w: %w", ErrExecutionFailure, errNoClient))
	}

	logger.Debug(ctx, "Sending request")

	response, err := t.client.Send(ctx, t.request.Clone(), t.config.Clone())
	if err != nil {
		return t.capture(ctx, fmt.Errorf("%w: %w", ErrExecutionFailure, err))
	}

	t.lastResponse = NewSuccess(response)

	if t.lastResponse.IsValid() {
		logger.DebugKV(ctx, "Request completed",
			"status", response.StatusCode,
			"duration", response.Duration,
			"size", response.Size())
	}

	return t.lastResponse
}

// capture records err as the last response.
func (t *Transport) capture(ctx context.Context, err error) *Response {
	logger.DebugKV(ctx, "Request failed", "error", err)

	t.lastResponse = NewFailure(err)

	return t.lastResponse
}

// GetResponse returns the response or error of the last send, sending first when
// nothing was sent yet. Exactly one of the results is non-nil.
func (t *Transport) GetResponse(ctx context.Context) (*client.Response, error) {
	if t.lastResponse == nil {
		t.Send(ctx)
	}

	return t.lastResponse.GetResponse()
}

// GetLastResponse returns the result of the last send, nil when nothing was sent.
func (t *Transport) GetLastResponse() *Response {
	return t.lastResponse
}

// String sends the request when nothing was sent yet and returns the response body.
// A failed send yields an empty string.
func (t *Transport) String() string {
	if t.lastResponse == nil {
		t.Send(context.Background())
	}

	body, err := t.lastResponse.GetResponseBodyString()
	if err != nil {
		return ""
	}

	return body
}

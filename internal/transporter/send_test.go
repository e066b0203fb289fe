package transporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/transporter/internal/client"
	mock_client "github.com/oshokin/transporter/internal/client/mocks"
)

// newMockedTransport creates a POST Transport whose only adapter is a gomock mock.
func newMockedTransport(t *testing.T, config map[string]any) (*Transport, *mock_client.MockAdapter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	adapter := mock_client.NewMockAdapter(ctrl)
	factory := mock_client.NewMockFactory(ctrl)

	factory.EXPECT().NewAdapter(gomock.Any()).Return(adapter).Times(1)

	transport, err := Post("http://example.test", config, UseFactory(factory))
	require.NoError(t, err)

	return transport, adapter
}

// TestTransport_Send tests a successful form submission.
func TestTransport_Send(t *testing.T) {
	t.Parallel()

	transport, adapter := newMockedTransport(t, map[string]any{
		"form_params": map[string]any{"q": "1"},
	})

	adapter.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, request client.Request, config client.Config) (*client.Response, error) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "http://example.test", request.URI)
			assert.Equal(t, client.Params{"q": "1"}, config.FormParams)
			assert.Nil(t, config.Multipart)
			assert.Equal(t, 10*time.Second, config.Timeout)

			return client.NewResponse(http.StatusOK, http.Header{"Content-Type": {"text/plain"}}, []byte("done")), nil
		}).
		Times(1)

	result := transport.Send(context.Background())
	require.NotNil(t, result)

	assert.True(t, result.IsValid())
	assert.False(t, result.IsError())
	assert.False(t, result.IsTimeout())
	assert.Same(t, result, transport.GetLastResponse())

	response, err := result.GetResponse()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	body, err := result.GetResponseBodyString()
	require.NoError(t, err)
	assert.Equal(t, "done", body)
}

// TestTransport_Send_AdapterError tests that adapter errors become failed results.
func TestTransport_Send_AdapterError(t *testing.T) {
	t.Parallel()

	transport, adapter := newMockedTransport(t, nil)
	adapterErr := errors.New("connection refused")

	adapter.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, adapterErr).Times(1)

	result := transport.Send(context.Background())

	assert.True(t, result.IsError())
	assert.False(t, result.IsValid())
	assert.False(t, result.IsTimeout())
	require.ErrorIs(t, result.Err(), ErrExecutionFailure)
	require.ErrorIs(t, result.Err(), adapterErr)

	response, err := transport.GetResponse(context.Background())
	assert.Nil(t, response)
	require.ErrorIs(t, err, adapterErr)

	_, err = result.GetResponseBody()
	require.ErrorIs(t, err, ErrUnexpectedState)
	assert.Contains(t, err.Error(), "connection refused")

	assert.Empty(t, transport.String())
}

// TestTransport_Send_Timeout tests timeout detection on failed results.
func TestTransport_Send_Timeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "client timeout",
			err:      fmt.Errorf("%w: %w", client.ErrTimedOut, context.DeadlineExceeded),
			expected: true,
		},
		{
			name:     "mixed case message",
			err:      errors.New("Connection Timed Out"),
			expected: true,
		},
		{
			name:     "other failure",
			err:      errors.New("no such host"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport, adapter := newMockedTransport(t, nil)
			adapter.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			result := transport.Send(context.Background())

			assert.True(t, result.IsError())
			assert.Equal(t, tt.expected, result.IsTimeout())
		})
	}
}

// TestTransport_Send_Panic tests that a panicking adapter yields a failed result.
func TestTransport_Send_Panic(t *testing.T) {
	t.Parallel()

	transport, adapter := newMockedTransport(t, nil)

	adapter.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, client.Request, client.Config) (*client.Response, error) {
			panic("adapter exploded")
		})

	var result *Response

	require.NotPanics(t, func() {
		result = transport.Send(context.Background())
	})

	require.NotNil(t, result)
	assert.True(t, result.IsError())
	require.ErrorIs(t, result.Err(), ErrExecutionFailure)
	assert.Contains(t, result.Err().Error(), "adapter exploded")
	assert.Same(t, result, transport.GetLastResponse())
}

// TestTransport_Send_NilResponse tests an adapter returning neither a response nor an error.
func TestTransport_Send_NilResponse(t *testing.T) {
	t.Parallel()

	transport, adapter := newMockedTransport(t, nil)
	adapter.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	result := transport.Send(context.Background())

	assert.True(t, result.IsError())
	require.ErrorIs(t, result.Err(), ErrExecutionFailure)
}

// TestTransport_Send_NoClient tests sending without a bound adapter.
func TestTransport_Send_NoClient(t *testing.T) {
	t.Parallel()

	transport, _ := newTestTransport(t, "http://example.test", nil)
	unbound := transport.WithClient(nil)

	result := unbound.Send(context.Background())

	assert.True(t, result.IsError())
	require.ErrorIs(t, result.Err(), ErrExecutionFailure)
	require.ErrorIs(t, result.Err(), errNoClient)
}

// TestTransport_GetResponse tests that GetResponse sends only once.
func TestTransport_GetResponse(t *testing.T) {
	t.Parallel()

	transport, adapter := newMockedTransport(t, nil)

	adapter.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(client.NewResponse(http.StatusNoContent, nil, nil), nil).
		Times(1)

	first, err := transport.GetResponse(context.Background())
	require.NoError(t, err)

	second, err := transport.GetResponse(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, http.StatusNoContent, first.StatusCode)
}

// TestTransport_String tests the String method.
func TestTransport_String(t *testing.T) {
	t.Parallel()

	transport, adapter := newMockedTransport(t, nil)

	adapter.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(client.NewResponse(http.StatusOK, nil, []byte("hello")), nil).
		Times(1)

	assert.Equal(t, "hello", transport.String())
	assert.Equal(t, "hello", transport.String())
}

// TestTransport_Send_ClonesDoNotShareResults tests that derived transports start without a last response.
func TestTransport_Send_ClonesDoNotShareResults(t *testing.T) {
	t.Parallel()

	transport, adapter := newMockedTransport(t, nil)

	adapter.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(client.NewResponse(http.StatusOK, nil, []byte("first")), nil).
		Times(2)

	transport.Send(context.Background())
	require.NotNil(t, transport.GetLastResponse())

	derived, err := transport.WithURI("/second")
	require.NoError(t, err)
	assert.Nil(t, derived.GetLastResponse())

	derived.Send(context.Background())

	body, err := io.ReadAll(mustBody(t, derived.GetLastResponse()))
	require.NoError(t, err)
	assert.Equal(t, "first", string(body))
}

// mustBody returns the body of a valid result or fails the test.
func mustBody(t *testing.T, result *Response) io.Reader {
	t.Helper()

	body, err := result.GetResponseBody()
	require.NoError(t, err)

	return body
}

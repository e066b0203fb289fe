package transporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/oshokin/transporter/internal/client"
)

// timeoutMarker is searched case-insensitively in failure messages by IsTimeout.
const timeoutMarker = "timed out"

// Response is the outcome of Send: either a response or the error that prevented one.
// Exactly one of them is set, and a Response never changes after construction.
type Response struct {
	response *client.Response
	err      error
}

// NewSuccess wraps a received response. A nil response is recorded as a failure.
func NewSuccess(response *client.Response) *Response {
	if response == nil {
		return NewFailure(fmt.Errorf("%w: adapter returned no response", ErrExecutionFailure))
	}

	return &Response{response: response}
}

// NewFailure wraps the error that prevented a response.
func NewFailure(err error) *Response {
	if err == nil {
		err = ErrExecutionFailure
	}

	return &Response{err: err}
}

// IsError reports whether the result holds an error.
func (r *Response) IsError() bool {
	return r.err != nil
}

// IsValid reports whether the result holds a response.
func (r *Response) IsValid() bool {
	return r.response != nil
}

// IsTimeout reports whether the result holds an error whose message mentions a timeout.
func (r *Response) IsTimeout() bool {
	return r.IsError() && strings.Contains(strings.ToLower(r.err.Error()), timeoutMarker)
}

// GetResponse returns the wrapped response or the wrapped error. Exactly one is non-nil.
func (r *Response) GetResponse() (*client.Response, error) {
	return r.response, r.err
}

// Err returns the wrapped error, nil for a valid result.
func (r *Response) Err() error {
	return r.err
}

// GetResponseBody returns the response body.
// It fails with ErrUnexpectedState when the result holds an error.
func (r *Response) GetResponseBody() (io.Reader, error) {
	if r.IsError() {
		return nil, fmt.Errorf("%w, returning error with: %s", ErrUnexpectedState, r.err.Error())
	}

	return r.response.Body(), nil
}

// GetResponseBodyString returns the response body as text.
// It fails with ErrUnexpectedState when the result holds an error.
func (r *Response) GetResponseBodyString() (string, error) {
	if r.IsError() {
		return "", fmt.Errorf("%w, returning error with: %s", ErrUnexpectedState, r.err.Error())
	}

	return r.response.String(), nil
}

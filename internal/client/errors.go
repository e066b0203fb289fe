package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Static error definitions for better error handling.
var (
	// ErrTimedOut indicates that the request did not complete within the configured timeout.
	ErrTimedOut = errors.New("operation timed out")
	// ErrEmptyMethod indicates that the request snapshot carries no method.
	ErrEmptyMethod = errors.New("request method is empty")
)

// wrapTimeout marks deadline and network timeout errors with ErrTimedOut.
func wrapTimeout(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimedOut, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimedOut, err)
	}

	return err
}

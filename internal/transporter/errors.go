package transporter

import (
	"errors"
	"fmt"
)

// Static error definitions for better error handling.
var (
	// ErrInvalidArgument indicates a wrong argument shape or type at a public entry point.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidMethod indicates an HTTP verb outside the allowed set.
	ErrInvalidMethod = errors.New("method is not allowed")
	// ErrInvalidParamType indicates a parameter type other than form_params or multipart.
	ErrInvalidParamType = fmt.Errorf("%w: parameter type only allows %s and %s",
		ErrInvalidArgument, ParamForm, ParamMultipart)
	// ErrUnexpectedState indicates that a body was requested from a failed result.
	ErrUnexpectedState = errors.New("result is not a valid response")
	// ErrExecutionFailure marks any error raised while sending a request.
	ErrExecutionFailure = errors.New("request execution failed")
)

package enhancer

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned when no enhancer is configured
var ErrDisabled = errors.New("remote enhancer disabled")

// RemoteError represents a failed call to the remote service: transport
// failure, timeout, missing credentials or a provider error
type RemoteError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *RemoteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("enhancer %s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("enhancer %s: %s", e.Operation, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// ResponseError represents a response that arrived but cannot be trusted:
// not JSON, failing schema validation, or empty
type ResponseError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("enhancer %s: malformed response: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("enhancer %s: malformed response: %s", e.Operation, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

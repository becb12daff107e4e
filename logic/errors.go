package logic

import (
	"errors"
	"fmt"
)

type StatusCode int

const (
	StatusInvalidArgument StatusCode = iota
	StatusFailedPrecondition
)

// Error message constants for the line-item domain.
const (
	ErrMsgProductIDRequired = "Product ID is required"
	ErrMsgProductIDInvalid  = "Product ID must be a string or an integer"
	ErrMsgPayloadRequired   = "Product payload is required"
	ErrMsgAlreadyHydrated   = "Collection is already hydrated"
)

func (s StatusCode) String() string {
	switch s {
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusFailedPrecondition:
		return "FAILED_PRECONDITION"
	default:
		return "UNKNOWN"
	}
}

// CommandError is returned when an operation is rejected before it touches
// the collection.
type CommandError struct {
	Code    StatusCode
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func NewInvalidArgument(message string) *CommandError {
	return &CommandError{Code: StatusInvalidArgument, Message: message}
}

func NewInvalidArgumentf(format string, args ...interface{}) *CommandError {
	return &CommandError{Code: StatusInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NewFailedPrecondition(message string) *CommandError {
	return &CommandError{Code: StatusFailedPrecondition, Message: message}
}

// IsInvalidArgument reports whether err carries a CommandError with
// StatusInvalidArgument anywhere in its chain.
func IsInvalidArgument(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == StatusInvalidArgument
}

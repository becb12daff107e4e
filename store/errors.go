package store

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes store errors.
type ErrorKind int

const (
	// ErrRead indicates the backend could not be read.
	ErrRead ErrorKind = iota
	// ErrWrite indicates the backend rejected a write.
	ErrWrite
	// ErrCorrupt indicates a stored payload that could not be decoded.
	ErrCorrupt
	// ErrEncode indicates a collection that could not be encoded.
	ErrEncode
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRead:
		return "read"
	case ErrWrite:
		return "write"
	case ErrCorrupt:
		return "corrupt"
	case ErrEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// StoreError reports a persistence failure for one collection key.
type StoreError struct {
	Kind  ErrorKind
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s %q: %v", e.Kind, e.Key, e.Cause)
	}
	return fmt.Sprintf("store %s %q", e.Kind, e.Key)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// IsCorrupt returns true if the stored payload could not be decoded.
func (e *StoreError) IsCorrupt() bool {
	return e.Kind == ErrCorrupt
}

// AsStoreError extracts a StoreError from an error chain.
func AsStoreError(err error) *StoreError {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr
	}
	return nil
}

func readError(key string, err error) *StoreError {
	return &StoreError{Kind: ErrRead, Key: key, Cause: err}
}

func writeError(key string, err error) *StoreError {
	return &StoreError{Kind: ErrWrite, Key: key, Cause: err}
}

func corruptError(key string, err error) *StoreError {
	return &StoreError{Kind: ErrCorrupt, Key: key, Cause: err}
}

func encodeError(key string, err error) *StoreError {
	return &StoreError{Kind: ErrEncode, Key: key, Cause: err}
}

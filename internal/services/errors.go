package services

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned before any request is issued when no
// content-API token is configured. Fatal to the operation, never retried.
var ErrMissingCredential = errors.New("no content API credential configured")

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

// RemoteError reports a non-2xx response from the content API or the image
// upload endpoint.
type RemoteError struct {
	Status int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote endpoint rejected the request with status %d", e.Status)
}

// TransportError wraps a network-level failure reaching a remote endpoint.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport failure: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a fetch that succeeded at the HTTP level
// but returned a payload failing basic shape expectations.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string { return "malformed response: " + e.Reason }

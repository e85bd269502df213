// Package apperr defines the service-wide error taxonomy. Components return
// *Error values; the single transport-level mapping to HTTP status codes
// lives in the Fiber error handler.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the taxonomy the API exposes.
type Kind int

const (
	// KindInvalidRequest covers missing/unresolvable input. Never retried.
	KindInvalidRequest Kind = iota + 1
	// KindUnauthorized means the credential gate rejected the API key.
	KindUnauthorized
	// KindRateLimited means the per-key quota was exceeded.
	KindRateLimited
	// KindNotFound covers missing catalog records (categories, questions).
	KindNotFound
	// KindProductResolution means the upstream commerce fetch failed.
	KindProductResolution
	// KindAIUnavailable means all generation providers were exhausted.
	KindAIUnavailable
	// KindInternal is any other unexpected failure.
	KindInternal
)

// Error carries a taxonomy kind, a caller-safe message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a taxonomy error. The cause is logged server-side
// but never echoed to the caller.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the taxonomy kind of err, or KindInternal when err does not
// carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to its response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNotFound, KindProductResolution:
		return http.StatusNotFound
	case KindAIUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

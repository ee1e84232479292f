package tally

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTarget       = errors.New("tally: target type and id required")
	ErrMissingObjectType   = errors.New("tally: collection object type required")
	ErrNoProjection        = errors.New("tally: collection needs at least one projection")
	ErrDuplicateFilter     = errors.New("tally: duplicate filter name")
	ErrDanglingFilter      = errors.New("tally: filter reference has no formula definition")
	ErrUnknownDialect      = errors.New("tally: unknown filter dialect")
	ErrUnsupportedOperator = errors.New("tally: unsupported filter operator")
	ErrTimeout             = errors.New("tally: request timed out")
)

// TransportErrorKind classifies a failed round trip so callers can
// pick different retry policies per class.
type TransportErrorKind string

const (
	TransportTimeout  TransportErrorKind = "timeout"
	TransportConnect  TransportErrorKind = "connect"
	TransportRejected TransportErrorKind = "rejected"
)

// TransportError is any failure between request submission and a usable
// response body. It carries the endpoint and the underlying cause.
type TransportError struct {
	Kind     TransportErrorKind
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tally: transport %s (%s): %v", e.Kind, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTimeout equivalence for timeout-kind failures, so
// callers can branch with errors.Is without inspecting Kind.
func (e *TransportError) Is(target error) bool {
	return target == ErrTimeout && e.Kind == TransportTimeout
}

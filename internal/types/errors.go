package types

import (
	"errors"
	"fmt"
)

// ErrorKind is a typed string for categorizing pull failures. The set is
// closed: every error leaving the fetch or write stage carries one of the
// kinds below.
type ErrorKind string

const (
	// ErrKindDependency indicates the parameter store call failed or returned
	// a response that could not be interpreted.
	ErrKindDependency ErrorKind = "DEPENDENCY"
	// ErrKindInvalidParameter indicates the parameter store reported at least
	// one requested name as invalid.
	ErrKindInvalidParameter ErrorKind = "INVALID_PARAMETER"
	// ErrKindIO indicates the environment file could not be written.
	ErrKindIO ErrorKind = "IO"
)

// PullError is the error type returned by the fetch and write stages.
// Only the fields relevant to Kind are populated.
type PullError struct {
	Kind ErrorKind

	// Name is the first invalid parameter name (INVALID_PARAMETER).
	Name string
	// Invalid lists every name the store rejected (INVALID_PARAMETER).
	Invalid []string

	// Detail is a human-readable diagnostic (DEPENDENCY).
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *PullError) Error() string {
	switch e.Kind {
	case ErrKindDependency:
		return fmt.Sprintf("[%s] error calling service dependency: %s", e.Kind, e.Detail)
	case ErrKindInvalidParameter:
		return fmt.Sprintf("[%s] invalid parameter %q", e.Kind, e.Name)
	case ErrKindIO:
		if e.Err != nil {
			return fmt.Sprintf("[%s] error writing to disk: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("[%s] error writing to disk", e.Kind)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Detail)
	}
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *PullError) Unwrap() error {
	return e.Err
}

// DependencyError builds a DEPENDENCY error. The detail should be enough to
// diagnose the failure from a log line alone.
func DependencyError(detail string, err error) *PullError {
	return &PullError{
		Kind:   ErrKindDependency,
		Detail: detail,
		Err:    err,
	}
}

// InvalidParameterError builds an INVALID_PARAMETER error naming the first
// entry of invalid. The caller must pass a non-empty slice.
func InvalidParameterError(invalid []string) *PullError {
	names := append([]string(nil), invalid...)
	return &PullError{
		Kind:    ErrKindInvalidParameter,
		Name:    names[0],
		Invalid: names,
	}
}

// IOError builds an IO error wrapping a filesystem failure.
func IOError(err error) *PullError {
	return &PullError{
		Kind: ErrKindIO,
		Err:  err,
	}
}

// KindOf reports the ErrorKind of err if it is (or wraps) a *PullError.
func KindOf(err error) (ErrorKind, bool) {
	var pe *PullError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

package service

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind string

const (
	// KindValidation marks a request rejected locally, before any remote call.
	KindValidation Kind = "validation"

	// KindRemote marks any failure of a remote store operation.
	KindRemote Kind = "remote"
)

// Error is the error type returned by the store client and the controller.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError builds a validation error for op.
func ValidationError(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: errors.New(msg)}
}

// RemoteError wraps err as a remote failure of op.
// An err that is already a remote Error is returned unchanged.
func RemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRemote {
		return err
	}
	return &Error{Kind: KindRemote, Op: op, Err: err}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return hasKind(err, KindValidation)
}

// IsRemote reports whether err is a remote error.
func IsRemote(err error) bool {
	return hasKind(err, KindRemote)
}

func hasKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error by what the caller has to do about it.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindState      Kind = "state"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindRepository Kind = "repository"
)

// Error is a classified error. Two Errors match under errors.Is when their kinds match
// and the target carries no message, so a domain sentinel such as
// State("already clocked in") matches ErrState.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrState      = &Error{Kind: KindState}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrRepository = &Error{Kind: KindRepository}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func State(msg string) *Error { return &Error{Kind: KindState, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// Repository wraps a persistence failure. The caller may retry the operation.
func Repository(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind != KindRepository {
		return err
	}
	return &Error{Kind: KindRepository, Message: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

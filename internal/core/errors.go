package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by a Store when no row matches the identifier.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned by a Store when a unique constraint is violated.
	ErrConflict = errors.New("unique constraint violated")
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindUnavailable:
		return "Unavailable"
	default:
		return "Internal"
	}
}

// KindOf returns the Kind of err. Unrecognized errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var ve ValidationError
	if errors.As(err, &ve) {
		return KindInvalidArgument
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	if errors.Is(err, ErrConflict) {
		return KindConflict
	}
	if errors.Is(err, ErrTooManyExports) {
		return KindUnavailable
	}
	return KindInternal
}

// NotFoundError reports that no record of Entity exists at ID.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return capitalize(e.Entity) + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports that a code value is already taken by another record.
// Field is empty when the store could not tell which constraint fired.
type ConflictError struct {
	Entity string
	Field  string
	Err    error
}

func (e *ConflictError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// PublicMessage returns the message that may be shown to a client for err.
// Internal errors are replaced by a mapped, user-friendly message so driver
// details never leak.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindInvalidArgument:
		var ve ValidationError
		errors.As(err, &ve)
		return ve.Error()
	case KindNotFound:
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nf.Error()
		}
		return "Record not found"
	case KindConflict:
		var ce *ConflictError
		if errors.As(err, &ce) {
			return ce.Error()
		}
		return "Record already exists"
	case KindUnavailable:
		return ErrTooManyExports.Error()
	default:
		return MapError(err).Message
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

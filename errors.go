package dbeam

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a value supplied to the query core
// cannot be accepted, such as a table name that is not a plain identifier.
type ErrInvalidArgument struct {
	Argument string
	Reason   string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("dbeam: '%s' %s", e.Argument, e.Reason)
}

// NewErrInvalidArgument constructs a new ErrInvalidArgument for the given argument name.
func NewErrInvalidArgument(argument, reason string) error {
	return &ErrInvalidArgument{Argument: argument, Reason: reason}
}

// IsInvalidArgument reports whether err, or any error it wraps, is an ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	var target *ErrInvalidArgument
	return errors.As(err, &target)
}

// ErrInvalidClause is returned when a clause of an unknown type is encountered.
type ErrInvalidClause struct {
	Clause string
}

func (e *ErrInvalidClause) Error() string {
	return fmt.Sprintf("dbeam: clause %q is invalid", e.Clause)
}

// NewErrInvalidClause constructs a new ErrInvalidClause for the given clause name.
func NewErrInvalidClause(clause string) error {
	return &ErrInvalidClause{Clause: clause}
}

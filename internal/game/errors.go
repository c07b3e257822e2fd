package game

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Kinds of validation failure. Every engine operation reports invalid
// requests as an *Error wrapping one of these, before touching state.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrPreconditionFailed = errors.New("precondition failed")
)

type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindName returns a stable identifier for the kind of err, or "internal"
// for errors that are not validation failures.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	default:
		return "internal"
	}
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func invalid(format string, args ...any) error {
	return newError(ErrInvalidInput, format, args...)
}

func capacityExceeded(format string, args ...any) error {
	return newError(ErrCapacityExceeded, format, args...)
}

func precondition(format string, args ...any) error {
	return newError(ErrPreconditionFailed, format, args...)
}

// requireCash fails unless cash covers cost.
func requireCash(cash, cost int, what string) error {
	if cost > cash {
		return newError(ErrInsufficientFunds, "insufficient cash: %s costs %s, have %s", what, money(cost), money(cash))
	}
	return nil
}

func money(n int) string {
	if n < 0 {
		return "-$" + humanize.Comma(int64(-n))
	}
	return "$" + humanize.Comma(int64(n))
}

// Package errors defines the error kinds the service layer reports and
// their mapping to HTTP status codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidRange
	KindPastStartDate
	KindVehicleUnavailable
	KindNotFound
	KindTerminalState
	KindAlreadyCancelled
	KindInvalidTransition
	KindValidation
	KindConflict
	KindUnauthorized
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindInvalidRange:       "invalid_range",
	KindPastStartDate:      "past_start_date",
	KindVehicleUnavailable: "vehicle_unavailable",
	KindNotFound:           "not_found",
	KindTerminalState:      "terminal_state",
	KindAlreadyCancelled:   "already_cancelled",
	KindInvalidTransition:  "invalid_transition",
	KindValidation:         "validation",
	KindConflict:           "conflict",
	KindUnauthorized:       "unauthorized",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// HTTPStatus is the response code used for errors of this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// Error represents a failure of a known kind with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
// A past start date is also an invalid range.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind || (e.Kind == KindPastStartDate && t.Kind == KindInvalidRange)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err. Errors without a kind
// are not described to clients.
func Message(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error"
}

var (
	ErrInvalidRange       = New(KindInvalidRange, "start date must be before end date")
	ErrPastStartDate      = New(KindPastStartDate, "start date cannot be in the past")
	ErrVehicleUnavailable = New(KindVehicleUnavailable, "vehicle is not available for the selected dates")
	ErrNotFound           = New(KindNotFound, "not found")
	ErrTerminalState      = New(KindTerminalState, "reservation is in a terminal state")
	ErrAlreadyCancelled   = New(KindAlreadyCancelled, "reservation is already cancelled")
	ErrInvalidTransition  = New(KindInvalidTransition, "invalid status transition")
	ErrValidation         = New(KindValidation, "validation failed")
	ErrConflict           = New(KindConflict, "conflict")
	ErrUnauthorized       = New(KindUnauthorized, "unauthorized")
)

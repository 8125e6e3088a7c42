package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the HTTP layer can map it to a
// status code without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindUnauthorized
	KindConflict
	KindUpstreamAuth
	KindUpstreamPayment
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) error     { return New(KindNotFound, message) }
func InvalidInput(message string) error { return New(KindInvalidInput, message) }
func Unauthorized(message string) error { return New(KindUnauthorized, message) }
func Conflict(message string) error     { return New(KindConflict, message) }

func UpstreamAuth(err error) error {
	return Wrap(KindUpstreamAuth, "payment gateway authentication failed", err)
}

func UpstreamPayment(err error) error {
	return Wrap(KindUpstreamPayment, "payment could not be started", err)
}

// KindOf returns the Kind of err, or KindUnknown for errors that did not
// originate from this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Message returns the user-facing message for err. Upstream errors collapse to
// their generic message so gateway internals never reach the client.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an error occurred"
}

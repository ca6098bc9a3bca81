package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrAuthorization = errors.New("not authorized")
	ErrDuplicateVote = errors.New("duplicate vote")
	ErrConflict      = errors.New("conflict")
	ErrGateway       = errors.New("gateway error")
	ErrPersistence   = errors.New("persistence error")
)

// Error carries a kind, a short human-readable message meant for players and
// the underlying cause, if any.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Authorization(msg string) error {
	return &Error{Kind: ErrAuthorization, Message: msg}
}

func DuplicateVote(msg string) error {
	return &Error{Kind: ErrDuplicateVote, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Gateway(msg string, err error) error {
	return &Error{Kind: ErrGateway, Message: msg, Err: err}
}

func Persistence(msg string, err error) error {
	return &Error{Kind: ErrPersistence, Message: msg, Err: err}
}

// Message returns the player-facing message of err, or fallback when err is
// not an *Error.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

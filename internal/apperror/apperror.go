// Package apperror defines the two error kinds the service raises on purpose:
// an unauthorized action and a missing resource. The HTTP layer translates
// them into status codes; everything else is treated as an internal failure.
package apperror

import "errors"

// Kind tags an Error with the condition it signals.
type Kind int

const (
	// KindUnknown is reported for errors that are not an *Error.
	KindUnknown Kind = iota
	// KindUnauthorizedAction means the caller has no right to perform the action.
	KindUnauthorizedAction
	// KindResourceNotFound means the requested entity does not exist.
	KindResourceNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorizedAction:
		return "unauthorized_action"
	case KindResourceNotFound:
		return "resource_not_found"
	default:
		return "unknown"
	}
}

// HasMessage is implemented by anything that can hand over a human readable
// message. *Error implements it too, so an error can be re-raised as the
// other kind without losing its text.
type HasMessage interface {
	GetMessage() string
}

// Error is a tagged error carrying a message.
type Error struct {
	kind    Kind
	message string
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnauthorizedAction = &Error{kind: KindUnauthorizedAction, message: "unauthorized action"}
	ErrResourceNotFound   = &Error{kind: KindResourceNotFound, message: "resource not found"}
)

// UnauthorizedAction returns an error signalling a forbidden action.
func UnauthorizedAction(message string) *Error {
	return &Error{kind: KindUnauthorizedAction, message: message}
}

// UnauthorizedActionFrom builds an UnauthorizedAction error from src's message.
func UnauthorizedActionFrom(src HasMessage) *Error {
	return UnauthorizedAction(messageOf(src))
}

// ResourceNotFound returns an error signalling a missing entity.
func ResourceNotFound(message string) *Error {
	return &Error{kind: KindResourceNotFound, message: message}
}

// ResourceNotFoundFrom builds a ResourceNotFound error from src's message.
func ResourceNotFoundFrom(src HasMessage) *Error {
	return ResourceNotFound(messageOf(src))
}

func messageOf(src HasMessage) string {
	if src == nil {
		return ""
	}
	return src.GetMessage()
}

func (e *Error) Error() string { return e.message }

// GetMessage returns the message the error was built with.
func (e *Error) GetMessage() string { return e.message }

// Kind reports which condition the error signals.
func (e *Error) Kind() Kind { return e.kind }

// Is matches on kind, so errors.Is(err, ErrResourceNotFound) holds for every
// ResourceNotFound error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.kind == e.kind
}

// KindOf walks err's chain and returns the kind of the first *Error found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

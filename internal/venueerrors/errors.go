// Package venueerrors is the typed-error vocabulary shared by every
// component: the five kinds below are the only ones that ever reach HTTP.
package venueerrors

import (
	"fmt"
	"net/http"
	"time"
)

// Kind is one of the five error kinds in the error handling design.
type Kind string

const (
	NotFound   Kind = "NOT_FOUND"
	Conflict   Kind = "CONFLICT"
	Invalid    Kind = "INVALID"
	BusPublish Kind = "BUS_PUBLISH"
	Internal   Kind = "INTERNAL"
)

// VenueError is the structured error every component returns instead of a
// bare error string, so the HTTP layer can translate it without string
// sniffing.
type VenueError struct {
	Kind      Kind
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *VenueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *VenueError) Unwrap() error { return e.Cause }

// New builds a VenueError with no formatting.
func New(kind Kind, message string) *VenueError {
	return &VenueError{Kind: kind, Message: message, Timestamp: time.Now()}
}

// Newf builds a VenueError with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *VenueError {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap attaches a cause to a new VenueError.
func Wrap(err error, kind Kind, message string) *VenueError {
	if err == nil {
		return nil
	}
	return &VenueError{Kind: kind, Message: message, Cause: err, Timestamp: time.Now()}
}

// As finds the first VenueError in err's chain.
func As(err error) (*VenueError, bool) {
	for err != nil {
		if ve, ok := err.(*VenueError); ok {
			return ve, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

func KindOf(err error) Kind {
	if ve, ok := As(err); ok {
		return ve.Kind
	}
	return Internal
}

// genericInternalBody is returned verbatim for any Internal/BusPublish error;
// the real error is logged, never shown to the caller.
const genericInternalBody = "An internal server error occurred. Please try again later."

// HTTPStatus maps a kind to the status code from the error handling design table.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound, Conflict, Invalid:
		return http.StatusBadRequest
	case BusPublish, Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HTTPBody returns what the client sees: the message verbatim for client
// errors, the fixed generic body otherwise.
func HTTPBody(err error) string {
	ve, ok := As(err)
	if !ok {
		return genericInternalBody
	}
	switch ve.Kind {
	case NotFound, Conflict, Invalid:
		return ve.Message
	default:
		return genericInternalBody
	}
}

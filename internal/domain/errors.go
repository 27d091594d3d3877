package domain

import "sort"

type ErrorKind string

const (
	KindMalformedInput    ErrorKind = "MALFORMED_INPUT"
	KindUnauthenticated   ErrorKind = "UNAUTHENTICATED"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidRequest    ErrorKind = "INVALID_REQUEST"
	KindDuplicateBooking  ErrorKind = "DUPLICATE_BOOKING"
	KindSlotConflict      ErrorKind = "SLOT_CONFLICT"
	KindOutOfHours        ErrorKind = "OUT_OF_HOURS"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
)

// Error is a client-facing scheduling failure. Details carries the values a
// caller needs to correct and retry the request (requested window, salon
// hours, conflicting window).
type Error struct {
	Kind    ErrorKind
	Msg     string
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

// Is matches any *Error of the same kind, so callers can compare against the
// sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// DetailKeys returns the detail keys in a stable order.
func (e *Error) DetailKeys() []string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	ErrMalformedInput    = &Error{Kind: KindMalformedInput}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidRequest    = &Error{Kind: KindInvalidRequest}
	ErrDuplicateBooking  = &Error{Kind: KindDuplicateBooking}
	ErrSlotConflict      = &Error{Kind: KindSlotConflict}
	ErrOutOfHours        = &Error{Kind: KindOutOfHours}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
)

func newError(kind ErrorKind, msg string, details map[string]string) *Error {
	return &Error{Kind: kind, Msg: msg, Details: details}
}

func MalformedInput(msg string) error { return newError(KindMalformedInput, msg, nil) }
func Unauthenticated(msg string) error { return newError(KindUnauthenticated, msg, nil) }
func Forbidden(msg string) error { return newError(KindForbidden, msg, nil) }
func NotFound(msg string) error { return newError(KindNotFound, msg, nil) }
func InvalidRequest(msg string) error { return newError(KindInvalidRequest, msg, nil) }
func InvalidTransition(msg string) error { return newError(KindInvalidTransition, msg, nil) }

func DuplicateBooking(msg string, details map[string]string) error {
	return newError(KindDuplicateBooking, msg, details)
}

func SlotConflict(msg string, details map[string]string) error {
	return newError(KindSlotConflict, msg, details)
}

func OutOfHours(msg string, details map[string]string) error {
	return newError(KindOutOfHours, msg, details)
}

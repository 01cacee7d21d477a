package ledger

import (
	"errors" // Sentinel matching
	"fmt"    // Error messages
)

// Kind tags the outcome of a failed ledger operation.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInsufficientFunds
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the failure returned by ledger operations. State is never
// modified when one is returned.
type Error struct {
	Kind    Kind
	Field   string // offending input, validation only
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is matches any *Error of the same kind, so callers can compare against
// the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds, Message: "insufficient balance for withdrawal"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "transaction not found"}

	// ErrInconsistent is returned by Verify when the log no longer replays
	// to the recorded balances.
	ErrInconsistent = errors.New("ledger: log does not replay to balance")

	// ErrIDExhausted is returned when the id generator keeps producing ids
	// already in the log. Nothing is recorded.
	ErrIDExhausted = errors.New("ledger: no unused transaction id")
)

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func invalid(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

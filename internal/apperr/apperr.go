package apperr

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on failure mode
// without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindIllegalState
	KindNotFound
	KindConflict
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindIllegalState:
		return "illegal_state"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	if e.Code != "" {
		return e.Code
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Err: errors.New(msg)}
}

func Wrap(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

// KindOf walks the error chain and returns the kind of the outermost *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// ErrStaleVersion signals an optimistic-lock miss. The retry loop lives at
// the call site, never inside the entity or the repo.
var ErrStaleVersion = New(KindConflict, "STALE_VERSION", "stale version")

// MarkTransient wraps a data-access failure that is safe to retry.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return Wrap(KindTransient, "TRANSIENT_DATA_ACCESS", err)
}

// IsTransient reports whether err may succeed on a retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsKind(err, KindTransient) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn)
}

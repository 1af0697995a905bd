package catalog

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for caller-checkable conditions.
var (
	ErrNetwork         = errors.New("catalog: network error")
	ErrProtocol        = errors.New("catalog: unexpected response shape")
	ErrInvalidArgument = errors.New("catalog: invalid argument")
	ErrNotFound        = errors.New("catalog: not found")
)

// Error is a failed catalog operation. errors.Is matches both its Kind and the
// underlying cause.
type Error struct {
	Kind    error
	Op      string // "index", "detail", "move".
	Locator string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Locator != "" {
		msg += fmt.Sprintf(" (%s)", e.Locator)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds an Error of the given kind.
func NewError(kind error, op, locator string, err error) *Error {
	return &Error{Kind: kind, Op: op, Locator: locator, Err: err}
}

// KindOf returns the sentinel kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidArgument, ErrProtocol, ErrNetwork} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

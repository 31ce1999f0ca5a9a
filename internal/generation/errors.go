package generation

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindRequestFailed covers network errors, non-2xx responses and rate limiting.
	KindRequestFailed Kind = iota + 1
	// KindInvalidResponseFormat means the response envelope was not what the API promises.
	KindInvalidResponseFormat
	// KindInvalidStructure means the generated text held no usable JSON of the asked shape.
	KindInvalidStructure
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "request_failed"
	case KindInvalidResponseFormat:
		return "invalid_response_format"
	case KindInvalidStructure:
		return "invalid_structure"
	default:
		return "unknown"
	}
}

var (
	ErrRequestFailed         = &Error{Kind: KindRequestFailed}
	ErrInvalidResponseFormat = &Error{Kind: KindInvalidResponseFormat}
	ErrInvalidStructure      = &Error{Kind: KindInvalidStructure}
)

// Error is returned by every failing client call. Match it with
// errors.Is against the Err* sentinels, or errors.As to read the kind.
type Error struct {
	Kind   Kind
	Op     string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of a generation error, or 0 for anything else.
func KindOf(err error) Kind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return 0
}

func requestFailed(op string, err error, format string, args ...any) *Error {
	return &Error{Kind: KindRequestFailed, Op: op, Reason: fmt.Sprintf(format, args...), Err: err}
}

func invalidResponseFormat(op string, err error, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidResponseFormat, Op: op, Reason: fmt.Sprintf(format, args...), Err: err}
}

func invalidStructure(op string, err error, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidStructure, Op: op, Reason: fmt.Sprintf(format, args...), Err: err}
}

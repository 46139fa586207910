package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by where it came from.
type Kind int

const (
	KindUnknown Kind = iota
	KindFetch
	KindParse
	KindExecution
	KindValidation
)

// String returns the error class name.
func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "FetchError"
	case KindParse:
		return "ParseError"
	case KindExecution:
		return "ExecutionError"
	case KindValidation:
		return "ValidationError"
	default:
		return "UnknownError"
	}
}

// Error is a classified error with the operation that produced it.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Sentinels for errors.Is matching on kind only.
var (
	ErrFetch      = &Error{Kind: KindFetch}
	ErrParse      = &Error{Kind: KindParse}
	ErrExecution  = &Error{Kind: KindExecution}
	ErrValidation = &Error{Kind: KindValidation}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := e.Kind.String()
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Fetch creates a FetchError: a page could not be retrieved.
func Fetch(op, message string, err error) *Error {
	return &Error{Kind: KindFetch, Op: op, Message: message, Err: err}
}

// Parse creates a ParseError: an expected structural element was absent.
func Parse(op, message string, err error) *Error {
	return &Error{Kind: KindParse, Op: op, Message: message, Err: err}
}

// Execution creates an ExecutionError: the sandboxed script failed.
func Execution(op, message string, err error) *Error {
	return &Error{Kind: KindExecution, Op: op, Message: message, Err: err}
}

// Validation creates a ValidationError: caller input was malformed.
func Validation(op, message string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the API should answer with.
// Validation failures are the client's fault; everything else is ours.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if IsKind(err, KindValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

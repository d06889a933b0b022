package apperr

import (
	"errors"
	"net/http"

	"github.com/phrazzld/bookshelf-api/internal/validation"
)

// Kind classifies an Error.
type Kind int

// The closed set of error kinds.
const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindTooManyRequests
	KindInternal
)

// InternalMessage is the only message an Internal error ever exposes.
const InternalMessage = "An internal server error occurred."

// String returns the name clients see for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindTooManyRequests:
		return "TooManyRequestsError"
	default:
		return "InternalServerError"
	}
}

// StatusCode returns the HTTP status bound to the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Kinds lists every kind in status order.
func Kinds() []Kind {
	return []Kind{KindValidation, KindNotFound, KindTooManyRequests, KindInternal}
}

// Error is an anticipated API failure.
type Error struct {
	kind    Kind
	message string
	details validation.Errors
	cause   error
}

// Validation reports input that does not satisfy its schema.
func Validation(message string, details validation.Errors, cause error) *Error {
	return &Error{kind: KindValidation, message: message, details: details, cause: cause}
}

// NotFound reports a referenced resource that does not exist.
func NotFound(message string) *Error {
	return &Error{kind: KindNotFound, message: message}
}

// TooManyRequests reports a client that exceeded its request budget.
func TooManyRequests(message string) *Error {
	return &Error{kind: KindTooManyRequests, message: message}
}

// Internal wraps an unanticipated failure. The cause is retained for logs.
func Internal(cause error) *Error {
	return &Error{kind: KindInternal, message: InternalMessage, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil && e.kind == KindInternal {
		return e.kind.String() + ": " + e.cause.Error()
	}
	return e.kind.String() + ": " + e.message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's kind.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the client-facing message.
func (e *Error) Message() string { return e.message }

// Details returns the violations of a Validation error.
func (e *Error) Details() validation.Errors { return e.details }

// StatusCode returns the HTTP status of the error.
func (e *Error) StatusCode() int { return e.kind.StatusCode() }

// Name returns the error name clients see.
func (e *Error) Name() string { return e.kind.String() }

// Response is the JSON body written for an Error.
type Response struct {
	Name       string              `json:"name"`
	Message    string              `json:"message"`
	StatusCode int                 `json:"status_code"`
	Details    []validation.Detail `json:"details,omitempty"`
}

// Response builds the wire representation of the error.
func (e *Error) Response() Response {
	resp := Response{
		Name:       e.Name(),
		Message:    e.message,
		StatusCode: e.StatusCode(),
	}

	switch e.kind {
	case KindValidation:
		resp.Details = e.details.Details()
	case KindInternal:
		resp.Message = InternalMessage
	}

	return resp
}

// Is reports whether err is or wraps an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.kind == kind
}

package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies an AppError and decides its HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindInvalidToken
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
)

var kindStatus = map[Kind]int{
	KindInternal:        http.StatusInternalServerError,
	KindUnauthenticated: http.StatusUnauthorized,
	KindInvalidToken:    http.StatusForbidden,
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindForbidden:       http.StatusForbidden,
	KindConflict:        http.StatusConflict,
}

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidToken:
		return "invalid_token"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is the single error type handlers turn into a response.
// Message is always safe to show to the client.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Status returns the HTTP status for the error kind.
func (e *AppError) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func newErr(k Kind, msg string) *AppError { return &AppError{Kind: k, Message: msg} }

func Unauthenticated(msg string) *AppError { return newErr(KindUnauthenticated, msg) }
func InvalidToken(msg string) *AppError    { return newErr(KindInvalidToken, msg) }
func Validation(msg string) *AppError      { return newErr(KindValidation, msg) }
func NotFound(msg string) *AppError        { return newErr(KindNotFound, msg) }
func Forbidden(msg string) *AppError       { return newErr(KindForbidden, msg) }
func Conflict(msg string) *AppError        { return newErr(KindConflict, msg) }

// Internal wraps an unexpected failure. The cause is kept for logs only.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// IsKind reports whether err is (or wraps) an AppError of kind k.
func IsKind(err error, k Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == k
}

package errors

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"
)

// Map converts repo/infra errors into an AppError.
// Errors that already are AppErrors pass through unchanged.
func Map(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := As(err); ok {
		return appErr
	}

	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return &AppError{Kind: KindNotFound, Message: "Record not found", Err: err}

	case IsDuplicate(err):
		return &AppError{Kind: KindConflict, Message: "Record already exists", Err: err}

	case stderrors.Is(err, context.DeadlineExceeded):
		return &AppError{Kind: KindInternal, Message: "Request timed out", Err: err}

	case stderrors.Is(err, context.Canceled):
		return &AppError{Kind: KindInternal, Message: "Request was canceled", Err: err}

	default:
		return Internal(err)
	}
}

// As unwraps err into an *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsDuplicate reports a unique-constraint violation. gorm translates driver
// errors when TranslateError is on; the string checks cover connections
// opened without it.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

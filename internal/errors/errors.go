package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"statkit/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped
// AppError or domain error is preserved.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError, the code of a domain
// error, or CodeInternalError.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	if code, ok := domainCode(err); ok {
		return code
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeTypeMismatch    = "TYPE_MISMATCH"
	CodeMissingColumn   = "MISSING_COLUMN"
	CodeEmptyInput      = "EMPTY_INPUT"
	CodeInsufficient    = "INSUFFICIENT_DATA"
	CodeMissingValues   = "MISSING_VALUES"
	CodeLengthMismatch  = "LENGTH_MISMATCH"
	CodeUnsupported     = "UNSUPPORTED_METHOD"
	CodeUnbalanced      = "UNBALANCED_DESIGN"
	CodeDegenerate      = "DEGENERATE_DATA"
	CodeInvalidParam    = "INVALID_PARAMETER"
	CodeNoResult        = "NO_RESULT_AVAILABLE"
	CodeUnsupportedKind = "UNSUPPORTED_FOR_KIND"
)

var domainCodes = []struct {
	target error
	code   string
}{
	{core.ErrTypeMismatch, CodeTypeMismatch},
	{core.ErrMissingColumn, CodeMissingColumn},
	{core.ErrEmptyInput, CodeEmptyInput},
	{core.ErrInsufficientData, CodeInsufficient},
	{core.ErrMissingValues, CodeMissingValues},
	{core.ErrLengthMismatch, CodeLengthMismatch},
	{core.ErrUnsupportedMethod, CodeUnsupported},
	{core.ErrUnbalancedDesign, CodeUnbalanced},
	{core.ErrDegenerateData, CodeDegenerate},
	{core.ErrInvalidParameter, CodeInvalidParam},
	{core.ErrNoResultAvailable, CodeNoResult},
	{core.ErrUnsupportedForKind, CodeUnsupportedKind},
	{core.ErrNotFound, CodeNotFound},
}

func domainCode(err error) (string, bool) {
	for _, dc := range domainCodes {
		if stderrors.Is(err, dc.target) {
			return dc.code, true
		}
	}
	return "", false
}

// FromDomain lifts a domain error into an AppError carrying its code. Errors
// that are already AppErrors are returned unchanged.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: GetCode(err), Message: err.Error(), Cause: err}
}

// HTTPStatus maps an error onto a response status: type-kind rejections are
// 400, value-kind rejections 422, missing resources 404.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case core.IsNotFoundError(err):
		return http.StatusNotFound
	case core.IsTypeError(err):
		return http.StatusBadRequest
	case core.IsValueError(err):
		return http.StatusUnprocessableEntity
	}
	switch GetCode(err) {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

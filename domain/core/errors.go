package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Type-kind rejections
	ErrTypeMismatch = errors.New("unsupported input representation")

	// Value-kind rejections
	ErrMissingColumn     = errors.New("missing column")
	ErrEmptyInput        = errors.New("empty input")
	ErrInsufficientData  = errors.New("insufficient data for analysis")
	ErrMissingValues     = errors.New("missing values in input")
	ErrLengthMismatch    = errors.New("length mismatch")
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrUnbalancedDesign  = errors.New("unbalanced design")
	ErrDegenerateData    = errors.New("degenerate data")
	ErrInvalidParameter  = errors.New("invalid parameter")

	// Result access errors
	ErrNoResultAvailable  = errors.New("no result available")
	ErrUnsupportedForKind = errors.New("operation not supported for result kind")

	// Storage errors
	ErrNotFound       = errors.New("resource not found")
	ErrResultNotFound = fmt.Errorf("%w: result", ErrNotFound)
)

// Error constructors with context
func NewUnsupportedMethodError(module, method string) error {
	return fmt.Errorf("%w: %s does not support %q", ErrUnsupportedMethod, module, method)
}

func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

func NewTypeMismatchError(got interface{}) error {
	return fmt.Errorf("%w: %T", ErrTypeMismatch, got)
}

func NewInsufficientDataError(what string, need, got int) error {
	return fmt.Errorf("%w: %s needs at least %d, got %d", ErrInsufficientData, what, need, got)
}

func NewInvalidParameterError(name string, value interface{}, constraint string) error {
	return fmt.Errorf("%w: %s=%v must be %s", ErrInvalidParameter, name, value, constraint)
}

func NewUnsupportedForKindError(operation string, kind string) error {
	return fmt.Errorf("%w: %s is not available for %s", ErrUnsupportedForKind, operation, kind)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers

// IsTypeError reports whether err is a type-kind rejection.
func IsTypeError(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsValueError reports whether err is a value-kind rejection.
func IsValueError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrMissingValues) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrUnsupportedMethod) ||
		errors.Is(err, ErrUnbalancedDesign) ||
		errors.Is(err, ErrDegenerateData) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrNoResultAvailable) ||
		errors.Is(err, ErrUnsupportedForKind)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

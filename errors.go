package gochart

import (
	"errors"
	"fmt"
)

// Validation failures. Every rejected request wraps exactly one of these in a
// *ValidationError.
var (
	ErrEmptyDataSet         = errors.New("empty data set")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidStepCount     = errors.New("invalid step count")
	ErrTooFewRadarAxes      = errors.New("too few radar axes")
	ErrNonNumericValue      = errors.New("non-numeric value")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrInvalidBounds        = errors.New("invalid axis bounds")
	ErrUnknownAsset         = errors.New("unknown asset")
	ErrInvalidBody          = errors.New("invalid request body")
)

// ErrorCode is the numeric code reported alongside a validation failure.
type ErrorCode int

const (
	CodeInvalidBodyJSON   ErrorCode = 3
	CodeFieldMissing      ErrorCode = 4
	CodeInvalidFieldValue ErrorCode = 5
)

// ValidationError describes why a request was rejected before rendering.
type ValidationError struct {
	Field  string // dotted path of the offending field, e.g. "bars.2.value"
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code maps the failure onto the service's numeric error codes.
func (e *ValidationError) Code() ErrorCode {
	switch {
	case errors.Is(e.Err, ErrMissingRequiredField):
		return CodeFieldMissing
	case errors.Is(e.Err, ErrInvalidBody):
		return CodeInvalidBodyJSON
	default:
		return CodeInvalidFieldValue
	}
}

func newValidationError(field, reason string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}

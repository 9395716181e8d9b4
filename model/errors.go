package model

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes failures that call for different corrective action.
type ErrorKind string

const (
	KindValidation  ErrorKind = "ValidationError"
	KindCredentials ErrorKind = "CredentialsError"
	KindAwsAPI      ErrorKind = "AwsApiError"
	KindUnexpected  ErrorKind = "UnexpectedError"
)

// ValidationError reports a malformed or out-of-range input field.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}

func (e *ValidationError) Kind() ErrorKind { return KindValidation }

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Constraint: fmt.Sprintf(format, args...)}
}

// CredentialsError means no usable AWS credentials could be resolved.
type CredentialsError struct {
	Profile string
	Err     error
}

func (e *CredentialsError) Error() string {
	if e.Profile != "" {
		return fmt.Sprintf("no usable AWS credentials for profile %q: %v", e.Profile, e.Err)
	}
	return fmt.Sprintf("no usable AWS credentials in the default chain: %v", e.Err)
}

func (e *CredentialsError) Unwrap() error { return e.Err }

func (e *CredentialsError) Kind() ErrorKind { return KindCredentials }

// AwsApiError carries the code and message of a rejected Cost Explorer call.
type AwsApiError struct {
	Operation string
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (e *AwsApiError) Error() string {
	return fmt.Sprintf("Cost Explorer API error (%s) in %s: %s", e.Code, e.Operation, e.Message)
}

func (e *AwsApiError) Unwrap() error { return e.Err }

func (e *AwsApiError) Kind() ErrorKind { return KindAwsAPI }

// UnexpectedError wraps anything not otherwise classified.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

func (e *UnexpectedError) Kind() ErrorKind { return KindUnexpected }

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnexpected
}

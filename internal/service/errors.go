package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. The API layer maps them to HTTP
// status codes with errors.Is.
var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrQuestionOutOfRange is returned when answering an index the set does not have.
	ErrQuestionOutOfRange = errors.New("question index out of range")

	// ErrNotMonthlySet is returned when opting out of or into a curated set.
	ErrNotMonthlySet = errors.New("only monthly sets can be declined")

	// ErrUploadsDisabled is returned when no bucket is configured.
	ErrUploadsDisabled = errors.New("uploads are not configured")

	// ErrInvalidUploadKind is returned for an unknown upload destination.
	ErrInvalidUploadKind = errors.New("invalid upload kind")
)

// ServiceError adds the service and operation to an unexpected error.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

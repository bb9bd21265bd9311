package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// ErrPreviousUserNotFound indicates that a task being reassigned references a
// user that no longer exists. It wraps store.ErrUserNotFound.
var ErrPreviousUserNotFound = fmt.Errorf("previous assignee: %w", store.ErrUserNotFound)

// ServiceError wraps an unexpected failure with the service and operation
// that produced it.
type ServiceError struct {
	// Service is the service that failed (e.g., "task", "user")
	Service string
	// Operation is the operation that failed (e.g., "create", "update")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. Expected conditions (not
// found, validation, bad queries, duplicates) are returned unwrapped.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	if isExpected(err) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func isExpected(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidID) ||
		errors.Is(err, query.ErrInvalidQuery) ||
		errors.Is(err, query.ErrMalformedQueryParameter)
}

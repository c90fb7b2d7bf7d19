// Package errors contains the service error taxonomy shared by the management API,
// the stores and the monitor consumer.
//
// The consumer uses the taxonomy to decide a message's fate: data errors are dead-lettered
// at once, dependency failures are retried.
package errors

import (
	"errors"
	"net/http"
)

// Category classifies a ServiceError.
type Category int

const (
	CategoryNoError Category = iota
	// CategoryDataError covers malformed input such as an unparsable rule expression,
	// an unknown alert status or an incomplete rule hit.
	CategoryDataError
	CategoryUnauthorized
	// CategoryResourceNotFound is returned for unknown rule, alert or graph node ids.
	CategoryResourceNotFound
	// CategoryDataConflict is returned for duplicate rule names and invalid alert
	// status transitions.
	CategoryDataConflict
	// CategoryDependencyFailure means a store or queue is unavailable. Callers may retry.
	CategoryDependencyFailure
	CategoryGeneralError
)

type categoryInfo struct {
	name   string
	kind   string
	status int
}

var categories = map[Category]categoryInfo{
	CategoryNoError:           {"CategoryNoError", "ok", http.StatusOK},
	CategoryDataError:         {"CategoryDataError", "invalid_request", http.StatusBadRequest},
	CategoryUnauthorized:      {"CategoryUnauthorized", "unauthorized", http.StatusUnauthorized},
	CategoryResourceNotFound:  {"CategoryResourceNotFound", "not_found", http.StatusNotFound},
	CategoryDataConflict:      {"CategoryDataConflict", "conflict", http.StatusConflict},
	CategoryDependencyFailure: {"CategoryDependencyFailure", "dependency_unavailable", http.StatusBadGateway},
	CategoryGeneralError:      {"CategoryGeneralError", "internal", http.StatusInternalServerError},
}

func (c Category) info() categoryInfo {
	if info, ok := categories[c]; ok {
		return info
	}
	return categories[CategoryGeneralError]
}

func (c Category) String() string { return c.info().name }

// Kind is the machine-readable category name returned in API error bodies.
func (c Category) Kind() string { return c.info().kind }

// ServiceError pairs an internal cause with the message that is safe to show API clients.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err *ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err *ServiceError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status for the error category.
func (err *ServiceError) StatusCode() int {
	return err.Category.info().status
}

// Is reports whether err wraps a ServiceError of category cat.
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsTransient reports whether err is a dependency failure worth retrying.
func IsTransient(err error) bool {
	return Is(err, CategoryDependencyFailure)
}

func newError(cat Category, err error, message, fallback string) error {
	if err == nil {
		err = errors.New(fallback)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "Internal Server Error", "internal server error")
}

// ResourceNotFoundError returns a CategoryResourceNotFound error; message is shown to the client.
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message, "resource not found: "+message)
}

// BadRequestError returns a CategoryDataError; message is shown to the client.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message, "bad request: "+message)
}

// ValidationError returns a CategoryDataError whose client message is the validation reason.
func ValidationError(err error) error {
	if err == nil {
		return newError(CategoryDataError, nil, "validation failed", "validation failed")
	}
	return newError(CategoryDataError, err, err.Error(), "")
}

func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message, "unauthorized")
}

func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, message, "conflict")
}

// TransientStoreError marks err as a retryable dependency failure.
func TransientStoreError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, message, "store unavailable: "+message)
}

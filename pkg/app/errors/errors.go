// Package errors defines the categorised service error returned by every
// wallet service and translated to an HTTP status at the edge.
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	CategoryNoError Category = iota
	// CategoryDataError means the client sent invalid input.
	CategoryDataError
	// CategoryUnauthorized means the caller could not be authenticated.
	CategoryUnauthorized
	CategoryForbidden
	CategoryResourceNotFound
	// CategoryNotSupported means the operation does not exist for the target, e.g. simulating on an EVM chain.
	CategoryNotSupported
	CategoryDataConflict
	// CategoryLocked means the caller is temporarily locked out, e.g. too many PIN attempts.
	CategoryLocked
	// CategoryDependencyFailure means a chain node or other upstream failed.
	CategoryDependencyFailure
	CategoryGeneralError
	CategoryRecovering
	// CategoryConnectionTimeout means an upstream did not answer in time.
	CategoryConnectionTimeout
)

var categoryNames = map[Category]string{
	CategoryNoError:           "CategoryNoError",
	CategoryDataError:         "CategoryDataError",
	CategoryUnauthorized:      "CategoryUnauthorized",
	CategoryForbidden:         "CategoryForbidden",
	CategoryResourceNotFound:  "CategoryResourceNotFound",
	CategoryNotSupported:      "CategoryNotSupported",
	CategoryDataConflict:      "CategoryDataConflict",
	CategoryLocked:            "CategoryLocked",
	CategoryDependencyFailure: "CategoryDependencyFailure",
	CategoryGeneralError:      "CategoryGeneralError",
	CategoryRecovering:        "CategoryRecovering",
	CategoryConnectionTimeout: "CategoryConnectionTimeout",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "CategoryGeneralError"
}

var categoryStatus = map[Category]int{
	CategoryDataError:         http.StatusBadRequest,
	CategoryUnauthorized:      http.StatusUnauthorized,
	CategoryForbidden:         http.StatusForbidden,
	CategoryResourceNotFound:  http.StatusNotFound,
	CategoryNotSupported:      http.StatusMethodNotAllowed,
	CategoryDataConflict:      http.StatusConflict,
	CategoryLocked:            http.StatusLocked,
	CategoryDependencyFailure: http.StatusBadGateway,
	CategoryGeneralError:      http.StatusInternalServerError,
	CategoryRecovering:        http.StatusServiceUnavailable,
	CategoryConnectionTimeout: http.StatusGatewayTimeout,
}

// ServiceError carries a client-facing message and category alongside the
// internal cause. Details are extra client-facing fields (such as the
// offending input field or a transaction hash) added to the error body.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
	Details  map[string]string
}

func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is matches a target error by message.
func (err ServiceError) Is(target error) bool {
	return err.Message == target.Error()
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	if code, ok := categoryStatus[err.Category]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// WithDetail attaches a client-facing detail to a ServiceError. Other errors
// are returned unchanged.
func WithDetail(err error, key, value string) error {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		return err
	}
	if svcErr.Details == nil {
		svcErr.Details = make(map[string]string)
	}
	svcErr.Details[key] = value
	return err
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError reports whether err should be treated as a server side failure.
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Category < CategoryDependencyFailure {
		return false
	}
	return true
}

func newError(cat Category, err error, fallback, message string) error {
	if err == nil {
		err = errors.New(fallback)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "internal server error", "Internal Server Error")
}

// ResourceNotFoundError returns an error with category ResourceNotFound
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, "resource not found: "+message, message)
}

// BadRequestError returns an error with category DataError
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, "bad request: "+message, message)
}

// NotSupportedError returns an error with category NotSupported
func NotSupportedError(err error, message string) error {
	return newError(CategoryNotSupported, err, "not supported: "+message, message)
}

// ForbiddenError returns an error with category Forbidden
func ForbiddenError(err error, message string) error {
	return newError(CategoryForbidden, err, "request forbidden", message)
}

// UnAuthorizedError returns an error with category Unauthorized
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, "unauthorized", message)
}

// ConflictError returns an error with category DataConflict
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, "conflict", message)
}

// LockedError returns an error with category Locked
func LockedError(err error, message string) error {
	return newError(CategoryLocked, err, "locked", message)
}

// DependencyError reports an upstream failure with category DependencyFailure
func DependencyError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, "dependency failure", message)
}

// TimeoutError reports an upstream timeout with category ConnectionTimeout
func TimeoutError(err error, message string) error {
	return newError(CategoryConnectionTimeout, err, "timeout", message)
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorType classifies domain failures independent of transport
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeUnavailable  ErrorType = "unavailable"
	ErrorTypeDatabase     ErrorType = "database"
	ErrorTypeInternal     ErrorType = "internal"
)

// Sentinel errors shared by every module
var (
	// ErrNotFound indicates a referenced entity does not exist
	ErrNotFound = stderrors.New("not found")

	// ErrValidation indicates a structural rule was violated
	ErrValidation = stderrors.New("validation failed")

	// ErrStaleWrite indicates a replace was based on an outdated revision
	ErrStaleWrite = stderrors.New("stale write")

	// ErrUnauthorized indicates a missing or invalid principal
	ErrUnauthorized = stderrors.New("unauthorized")

	// ErrForbidden indicates the principal lacks the required role
	ErrForbidden = stderrors.New("forbidden")

	// ErrUnavailable indicates an optional backend is not configured
	ErrUnavailable = stderrors.New("unavailable")
)

// DomainError carries classification and context for a failed operation
type DomainError struct {
	Type     ErrorType
	Op       string
	Resource string
	ID       string
	Field    string
	Err      error
	Details  map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	var ctx []string
	if e.Resource != "" {
		ctx = append(ctx, "resource="+e.Resource)
	}
	if e.ID != "" {
		ctx = append(ctx, "id="+e.ID)
	}
	if e.Field != "" {
		ctx = append(ctx, "field="+e.Field)
	}
	if len(ctx) > 0 {
		return fmt.Sprintf("%s error in %s [%s]: %v", e.Type, e.Op, strings.Join(ctx, " "), e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// ErrorType reports the classification, used when mapping to HTTP
func (e *DomainError) ErrorType() ErrorType {
	return e.Type
}

// WithDetail adds a key-value detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NotFound builds a not-found error for a resource id
func NotFound(op, resource, id string) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Op: op, Resource: resource, ID: id, Err: ErrNotFound}
}

// Validation builds a validation error pointing at a field
func Validation(op, field, message string) *DomainError {
	return &DomainError{
		Type:  ErrorTypeValidation,
		Op:    op,
		Field: field,
		Err:   fmt.Errorf("%w: %s", ErrValidation, message),
	}
}

// Validationf builds a validation error from a format string
func Validationf(op, field, format string, args ...interface{}) *DomainError {
	return Validation(op, field, fmt.Sprintf(format, args...))
}

// StaleWrite builds a revision conflict error
func StaleWrite(op, resource, id string, expected int64) *DomainError {
	e := &DomainError{Type: ErrorTypeConflict, Op: op, Resource: resource, ID: id, Err: ErrStaleWrite}
	return e.WithDetail("expected_revision", expected)
}

// Unauthorized builds an authentication error
func Unauthorized(op, message string) *DomainError {
	return &DomainError{Type: ErrorTypeUnauthorized, Op: op, Err: fmt.Errorf("%w: %s", ErrUnauthorized, message)}
}

// Forbidden builds an authorization error
func Forbidden(op, message string) *DomainError {
	return &DomainError{Type: ErrorTypeForbidden, Op: op, Err: fmt.Errorf("%w: %s", ErrForbidden, message)}
}

// Unavailable builds an error for a backend that is not configured
func Unavailable(op, backend string) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Op: op, Resource: backend, Err: ErrUnavailable}
}

// Database wraps a storage failure, translating gorm's not-found sentinel
func Database(op, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(op, resource, id)
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return &DomainError{Type: ErrorTypeDatabase, Op: op, Resource: resource, ID: id, Err: err}
}

// TypeOf returns the classification of err, or internal when unclassified
func TypeOf(err error) ErrorType {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Type
	}
	switch {
	case stderrors.Is(err, ErrNotFound):
		return ErrorTypeNotFound
	case stderrors.Is(err, ErrValidation):
		return ErrorTypeValidation
	case stderrors.Is(err, ErrStaleWrite):
		return ErrorTypeConflict
	case stderrors.Is(err, ErrUnauthorized):
		return ErrorTypeUnauthorized
	case stderrors.Is(err, ErrForbidden):
		return ErrorTypeForbidden
	case stderrors.Is(err, ErrUnavailable):
		return ErrorTypeUnavailable
	}
	return ErrorTypeInternal
}

// IsNotFound reports whether err is a not-found failure
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsStaleWrite reports whether err is a revision conflict
func IsStaleWrite(err error) bool {
	return stderrors.Is(err, ErrStaleWrite)
}

package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/logger"
)

// AppError represents a structured error with HTTP context
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ToGinResponse sends the error as a standardized JSON response
func (e *AppError) ToGinResponse(c *gin.Context) {
	statusCode := e.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	response := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}

	if len(e.Context) > 0 {
		response["details"] = e.Context
	}

	log := logger.Named("http")
	if statusCode >= http.StatusInternalServerError {
		log.Error("HTTP error response",
			"status", statusCode,
			"code", e.Code,
			"message", e.Message,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"cause", e.Cause)
		_ = c.Error(e)
	} else {
		log.Debug("HTTP error response",
			"status", statusCode,
			"code", e.Code,
			"path", c.Request.URL.Path)
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// Common error constructors
func NewValidationError(message string, field string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Context:    map[string]interface{}{"field": field},
	}
}

func NewNotFoundError(resource string, id string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

func NewConflictError(resource string, id string, cause error) *AppError {
	return &AppError{
		Code:       "STALE_WRITE",
		Message:    resource + " was modified by another writer",
		HTTPStatus: http.StatusConflict,
		Context:    map[string]interface{}{"resource": resource, "id": id},
		Cause:      cause,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func NewUnavailableError(backend string) *AppError {
	return &AppError{
		Code:       "UNAVAILABLE",
		Message:    backend + " is not configured",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Code:       "DATABASE_ERROR",
		Message:    "Database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Context:    map[string]interface{}{"operation": operation},
		Cause:      cause,
	}
}

// FromError converts any error returned by a service into an AppError
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var de *DomainError
	if !stderrors.As(err, &de) {
		de = &DomainError{Type: TypeOf(err), Err: err}
	}

	switch de.Type {
	case ErrorTypeNotFound:
		return NewNotFoundError(resourceName(de.Resource), de.ID)
	case ErrorTypeValidation:
		return NewValidationError(de.Err.Error(), de.Field)
	case ErrorTypeConflict:
		ae := NewConflictError(resourceName(de.Resource), de.ID, err)
		for k, v := range de.Details {
			ae.Context[k] = v
		}
		return ae
	case ErrorTypeUnauthorized:
		return NewUnauthorizedError(de.Err.Error())
	case ErrorTypeForbidden:
		return NewForbiddenError(de.Err.Error())
	case ErrorTypeUnavailable:
		return NewUnavailableError(resourceName(de.Resource))
	case ErrorTypeDatabase:
		return NewDatabaseError(de.Op, err)
	}
	return NewInternalError("Internal server error", err)
}

func resourceName(resource string) string {
	if resource == "" {
		return "resource"
	}
	return resource
}

// HTTP helpers to eliminate duplicate error handling

// HandleError sends the response matching a service error
func HandleError(c *gin.Context, err error) {
	FromError(err).ToGinResponse(c)
}

// HandleValidationError sends a validation error response
func HandleValidationError(c *gin.Context, message string, field string) {
	NewValidationError(message, field).ToGinResponse(c)
}

// HandleNotFound sends a not found error response
func HandleNotFound(c *gin.Context, resource string, id string) {
	NewNotFoundError(resource, id).ToGinResponse(c)
}

// HandleInternalError sends an internal server error response
func HandleInternalError(c *gin.Context, message string, err error) {
	NewInternalError(message, err).ToGinResponse(c)
}

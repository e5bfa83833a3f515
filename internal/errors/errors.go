package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrMissingEmail is returned when a caller omits the email argument.
	ErrMissingEmail = errors.New("email must be set")
	// ErrMissingPassword is returned when a caller omits the password argument.
	ErrMissingPassword = errors.New("password is required")
	// ErrDuplicateEmail is returned when the email column uniqueness is violated.
	ErrDuplicateEmail = errors.New("a user with this email exists")
	// ErrDuplicateSlug is returned when the slug column uniqueness is violated.
	ErrDuplicateSlug = errors.New("a user with this slug exists")
	// ErrUserNotFound is returned when no record matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned when the old password does not verify.
	ErrWrongPassword = errors.New("wrong password, does not match old")
	// ErrPasswordMismatch is returned when new and confirm passwords differ.
	ErrPasswordMismatch = errors.New("new passwords do not match")
	// ErrPrivilege is returned when superuser flags are inconsistent.
	ErrPrivilege = errors.New("superuser must have is_staff=true and is_superuser=true")
	// ErrNotImplemented is returned by deliberately disabled entry points.
	ErrNotImplemented = errors.New("use CreateUser or CreateSuperuser instead of Create")
)

// FieldErrors carries validation messages keyed by input field.
type FieldErrors map[string][]string

// Add appends a message under the given field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     FieldErrors
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var fields FieldErrors
	if errors.As(err, &fields) {
		he := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_FAILED")
		he.Fields = fields
		return he
	}

	switch {
	case errors.Is(err, ErrMissingEmail):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_REQUIRED")
	case errors.Is(err, ErrMissingPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_REQUIRED")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrDuplicateSlug):
		return NewHTTPError(http.StatusConflict, err.Error(), "SLUG_EXISTS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrWrongPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WRONG_PASSWORD")
	case errors.Is(err, ErrPasswordMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_MISMATCH")
	case errors.Is(err, ErrPrivilege):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PRIVILEGE_ERROR")
	case errors.Is(err, ErrNotImplemented):
		return NewHTTPError(http.StatusMethodNotAllowed, err.Error(), "NOT_IMPLEMENTED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

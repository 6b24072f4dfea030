package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPermission          = errors.New("permission denied")
	ErrInvalidInput        = errors.New("invalid input")
	ErrMalformedID         = errors.New("malformed identifier")
	ErrConflict            = errors.New("conflict")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInternal            = errors.New("internal server error")
	ErrUnauthorized        = errors.New("unauthorized")
)

// FieldError is one entry of an {"errors": [...]} response body.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
	Fields    []FieldError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

// NewNotFound keeps msg verbatim; it is what the client sees.
func NewNotFound(msg, identifier string) *AppError {
	return NewAppError(ErrNotFound, msg, fmt.Sprintf("identifier '%s' was not found", identifier), nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewValidation(fields ...FieldError) *AppError {
	e := NewAppError(ErrInvalidInput, "Validation failed", "", nil)
	e.Fields = fields
	return e
}

func NewMalformedID(msg, value string) *AppError {
	return NewAppError(ErrMalformedID, msg, fmt.Sprintf("'%s' is not a valid identifier", value), nil)
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s already exists", resource)
	e := NewAppError(ErrConflict, msg, fmt.Sprintf("%s with %s '%s' already exists", resource, field, value), nil)
	e.Fields = []FieldError{{Msg: msg, Param: field, Location: "body"}}
	return e
}

func NewUpstreamUnavailable(msg string, err error) *AppError {
	return NewAppError(ErrUpstreamUnavailable, msg, "upstream call failed", err)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "Server error", details, err)
}

func NewUnauthorized(msg string, err error) *AppError {
	return NewAppError(ErrUnauthorized, msg, "", err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

// ToHTTPStatus follows the public contract of the API: lookups that miss
// are reported as 400, and only a failed upstream call is a 404.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMalformedID),
		errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	if len(e.Fields) > 0 {
		return gin.H{"errors": e.Fields}
	}
	if ToHTTPStatus(e) == http.StatusInternalServerError {
		return gin.H{"msg": "Server error"}
	}
	return gin.H{"msg": e.Message}
}

// From returns err as an *AppError, wrapping anything unknown as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("unhandled error", err)
}

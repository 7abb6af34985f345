package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidInterval = "INVALID_INTERVAL"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeRateLimited     = "RATE_LIMITED"
)

var statusByCode = map[string]int{
	CodeNotFound:        http.StatusNotFound,
	CodeValidation:      http.StatusUnprocessableEntity,
	CodeInvalidInterval: http.StatusBadRequest,
	CodeConflict:        http.StatusConflict,
	CodeInternal:        http.StatusInternalServerError,
	CodeTimeout:         http.StatusGatewayTimeout,
	CodeInvalidInput:    http.StatusBadRequest,
	CodeRateLimited:     http.StatusTooManyRequests,
}

// AppError is the error shape the HTTP boundary understands. Message is
// client facing; Err is the cause and stays server side.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

type ErrorResponse struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) StatusCode() int { return e.HTTPStatus }

func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{Code: e.Code, Message: e.Message, Details: e.Details}
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(e.Response())
	return data
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// New builds an error with an explicit status, for codes reused outside
// their usual status (e.g. INVALID_INPUT as 415).
func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func newError(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusByCode[code], Err: err}
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found", nil)
}

func NotFoundWithID(resource, id string, err error) *AppError {
	return newError(CodeNotFound, resource+" not found", err).
		WithDetails(map[string]any{"resource": resource, "id": id})
}

func Validation(message string, details map[string]any) *AppError {
	return newError(CodeValidation, message, nil).WithDetails(details)
}

// InvalidInterval reports a rejected [start, end) pair. The message is shown to the caller as is.
func InvalidInterval(message string, err error) *AppError {
	return newError(CodeInvalidInterval, message, err)
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, message, nil)
}

func Conflict(message string, err error) *AppError {
	return newError(CodeConflict, message, err)
}

func Internal(message string, err error) *AppError {
	return newError(CodeInternal, message, err)
}

func Timeout(message string) *AppError {
	return newError(CodeTimeout, message, nil)
}

func RateLimited() *AppError {
	return newError(CodeRateLimited, "Rate limit exceeded", nil)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError finds an *AppError in err's chain, or wraps err as a generic internal error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

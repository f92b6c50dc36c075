package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeTransport    ErrorType = "TRANSPORT_ERROR"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnsupportedReceipt ErrorCode = "UNSUPPORTED_RECEIPT"

	ErrCodeBillNotFound ErrorCode = "BILL_NOT_FOUND"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"

	ErrCodeGatewayFailure ErrorCode = "GATEWAY_FAILURE"
)

// AppError carries the error taxonomy of the workflow: local validation
// failures, remote transport faults and everything else. StatusCode is
// the HTTP status the bill service responds with; for transport errors
// raised by the gateway client it is the upstream status.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewTransportError wraps a gateway/server fault. upstreamStatus is the
// HTTP status the remote service answered with, 0 when the request never
// got an answer.
func NewTransportError(message string, upstreamStatus int) *AppError {
	status := upstreamStatus
	if status == 0 {
		status = http.StatusBadGateway
	}
	return &AppError{
		Type:       ErrorTypeTransport,
		Code:       ErrCodeGatewayFailure,
		Message:    message,
		StatusCode: status,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

var (
	ErrBillNotFound       = NewNotFoundError("bill not found", ErrCodeBillNotFound)
	ErrUnsupportedReceipt = NewValidationError("receipt must be a jpg, jpeg or png file", ErrCodeUnsupportedReceipt)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrConflict           ErrorCode = "CONFLICT"
	ErrBadRequest         ErrorCode = "BAD_REQUEST"
	ErrInvalidCredential  ErrorCode = "INVALID_CREDENTIAL"
	ErrInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrAmountBelowMinimum ErrorCode = "AMOUNT_BELOW_MINIMUM"
	ErrInsufficientFunds  ErrorCode = "INSUFFICIENT_BALANCE"
	ErrAlreadyResolved    ErrorCode = "ALREADY_RESOLVED"
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if code == ErrInternalServer {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Code extracts the error code from err, or ErrInternalServer when err is
// not an APIError. Store failures surface through here as
// INTERNAL_SERVER_ERROR so callers can tell infrastructure faults from rule
// violations.
func Code(err error) ErrorCode {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ErrInternalServer
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return Code(err) == code
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict, ErrAlreadyResolved:
			return http.StatusConflict
		case ErrInvalidCredential:
			return http.StatusForbidden
		case ErrBadRequest, ErrInvalidAmount, ErrAmountBelowMinimum, ErrInsufficientFunds:
			return http.StatusBadRequest
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

package apierror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swiftpay/swiftpay/internal/apierror"
)

func TestAPIErrorError(t *testing.T) {
	err := apierror.NewAPIError(apierror.ErrNotFound, "account not found", nil)
	assert.Equal(t, "NOT_FOUND: account not found", err.Error())
}

func TestCode(t *testing.T) {
	err := apierror.NewAPIError(apierror.ErrInsufficientFunds, "insufficient balance", nil)
	assert.Equal(t, apierror.ErrInsufficientFunds, apierror.Code(err))

	wrapped := errors.New("plain failure")
	assert.Equal(t, apierror.ErrInternalServer, apierror.Code(wrapped))
}

func TestIsCode(t *testing.T) {
	err := apierror.NewAPIError(apierror.ErrAlreadyResolved, "request already resolved", nil)
	assert.True(t, apierror.IsCode(err, apierror.ErrAlreadyResolved))
	assert.False(t, apierror.IsCode(err, apierror.ErrConflict))
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	cases := map[apierror.ErrorCode]int{
		apierror.ErrNotFound:           http.StatusNotFound,
		apierror.ErrConflict:           http.StatusConflict,
		apierror.ErrAlreadyResolved:    http.StatusConflict,
		apierror.ErrInvalidCredential:  http.StatusForbidden,
		apierror.ErrInvalidAmount:      http.StatusBadRequest,
		apierror.ErrAmountBelowMinimum: http.StatusBadRequest,
		apierror.ErrInsufficientFunds:  http.StatusBadRequest,
		apierror.ErrInternalServer:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		err := apierror.NewAPIError(code, "test", nil)
		assert.Equal(t, status, apierror.MapErrorToHTTPStatus(err))
	}
	assert.Equal(t, http.StatusInternalServerError, apierror.MapErrorToHTTPStatus(errors.New("x")))
}

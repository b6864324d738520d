package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns message", func(t *testing.T) {
		err := &AppError{
			Code:    "TEST_ERROR",
			Message: "test error message",
		}
		assert.Equal(t, "test error message", err.Error())
	})

	t.Run("Error includes wrapped cause", func(t *testing.T) {
		wrapped := errors.New("gateway timeout")
		err := Internal("capture failed", wrapped)
		assert.Contains(t, err.Error(), "capture failed")
		assert.Contains(t, err.Error(), "gateway timeout")
	})

	t.Run("Error hides taxonomy sentinel", func(t *testing.T) {
		err := ValidationError("invalid signature")
		assert.Equal(t, "invalid signature", err.Error())
	})

	t.Run("Unwrap returns wrapped error", func(t *testing.T) {
		err := Conflict("duplicate")
		assert.Equal(t, ErrConflict, err.Unwrap())
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
		is     error
	}{
		{"not found", NotFound("payment"), "NOT_FOUND", http.StatusNotFound, ErrNotFound},
		{"forbidden", Forbidden(""), "FORBIDDEN", http.StatusForbidden, ErrForbidden},
		{"validation", ValidationError("amount must be positive"), "VALIDATION_ERROR", http.StatusUnprocessableEntity, ErrValidation},
		{"conflict", Conflict("already completed"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"bad request", BadRequest("bad json"), "BAD_REQUEST", http.StatusBadRequest, ErrBadRequest},
		{"unauthorized", Unauthorized(""), "UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.True(t, errors.Is(tt.err, tt.is))
		})
	}

	assert.Equal(t, "payment not found", NotFound("payment").Message)
	assert.Equal(t, "access denied", Forbidden("").Message)
	assert.Equal(t, "amount 5 exceeds 3", Validationf("amount %d exceeds %d", 5, 3).Message)
}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"app error", Conflict("x"), http.StatusConflict},
		{"wrapped app error", fmt.Errorf("refund: %w", NotFound("payment")), http.StatusNotFound},
		{"sentinel", fmt.Errorf("op: %w", ErrForbidden), http.StatusForbidden},
		{"validation sentinel", ErrValidation, http.StatusUnprocessableEntity},
		{"unclassified", errors.New("capturePayPalPayment: missing capture id"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetStatusCode(tt.err))
		})
	}
}

func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("verifyRazorpayPayment: %w", ValidationError("invalid signature"))

	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsNotFound(NotFound("order")))
	assert.True(t, IsForbidden(Forbidden("admin only")))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsAppError(wrapped))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestAppError_Is(t *testing.T) {
	a := Conflict("first")
	b := Conflict("second")
	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, NotFound("x")))
}

func TestToResponse(t *testing.T) {
	err := ValidationError("refund exceeds balance").WithDetails(map[string]any{"remaining": "10.00"})
	resp := err.ToResponse()

	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "refund exceeds balance", resp.Error.Message)
	assert.Equal(t, "10.00", resp.Error.Details["remaining"])
}

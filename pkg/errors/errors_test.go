package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeBadRequest:           http.StatusBadRequest,
		CodeValidationFailed:     http.StatusUnprocessableEntity,
		CodeAuthRequired:         http.StatusUnauthorized,
		CodeConflict:             http.StatusConflict,
		CodeQuotaExceeded:        http.StatusTooManyRequests,
		CodeGenerationFailed:     http.StatusBadGateway,
		CodeExternalServiceError: http.StatusBadGateway,
		CodeInternal:             http.StatusInternalServerError,
	}

	for code, want := range cases {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, want, NewAppError(code, "m", "").StatusCode())
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "CONFLICT: busy", NewConflictError("busy").Error())
	assert.Equal(t,
		"EXTERNAL_SERVICE_ERROR: External service error (Failed to communicate with backend)",
		NewExternalServiceError("backend", nil).Error(),
	)
}

func TestAuthRequired_CarriesRedirect(t *testing.T) {
	err := NewAuthRequiredError()

	assert.Equal(t, CodeAuthRequired, err.Code)
	assert.Equal(t, "/login", err.Metadata["redirect"])
}

func TestIs_SeesThroughWrapping(t *testing.T) {
	base := NewQuotaExceededError("out of credits")
	wrapped := fmt.Errorf("submit: %w", base)

	assert.True(t, Is(wrapped, CodeQuotaExceeded))
	assert.False(t, Is(wrapped, CodeAuthRequired))
	assert.Equal(t, CodeQuotaExceeded, GetCode(wrapped))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	appErr := NewValidationError("bad")
	assert.Same(t, appErr, Wrap(appErr, "ignored"))

	cause := stderrors.New("boom")
	wrapped := Wrap(cause, "failed")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewQuotaExceededError(""), "req-1")

	assert.Equal(t, CodeQuotaExceeded, resp.Error.Code)
	assert.Equal(t, "Quota exceeded", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.NotEmpty(t, resp.Error.Timestamp)
}

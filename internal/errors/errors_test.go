package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorCodes(t *testing.T) {
	cases := []struct {
		err  *APIError
		code int
		typ  ErrorType
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest, ErrorTypeValidation},
		{NewDatabaseError("disk", nil), http.StatusInternalServerError, ErrorTypeDatabase},
		{NewRemoteError("redis", nil), http.StatusServiceUnavailable, ErrorTypeRemote},
		{NewAuthError("token", nil), http.StatusUnauthorized, ErrorTypeAuth},
		{NewNotFoundError("gone", nil), http.StatusNotFound, ErrorTypeNotFound},
		{NewUnavailableError("down", nil), http.StatusServiceUnavailable, ErrorTypeUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code, string(tc.typ))
		assert.Equal(t, tc.typ, tc.err.Type)
	}
}

func TestPredicatesFollowWrapping(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("write state: %w", NewRemoteError("remote write failed", cause))

	assert.True(t, IsRemote(wrapped))
	assert.False(t, IsDatabase(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))

	apiErr, ok := AsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "remote write failed", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "connection refused")
}

func TestWithRequestID(t *testing.T) {
	err := NewInternalError("boom", nil).WithRequestID("req_abc").WithDetails(map[string]string{"k": "v"})
	assert.Equal(t, "req_abc", err.RequestID)
	assert.Equal(t, "internal: boom", err.Error())
	assert.False(t, IsNotFound(err))
	assert.False(t, IsValidation(nil))
}

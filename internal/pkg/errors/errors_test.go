package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[2000] Investigation not found: abc", (&AppError{
		Code:    ErrInvestigationNotFound,
		Message: GetMessage(ErrInvestigationNotFound),
		Details: "abc",
	}).Error())
	assert.Equal(t, "[1000] Internal server error", (&AppError{Code: ErrInternalServer, Message: GetMessage(ErrInternalServer)}).Error())

	wrapped := Wrap(stderrors.New("disk full"), ErrExportWriteFailed)
	assert.Equal(t, "[4000] Export write failed: disk full", wrapped.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternalServer))

	cause := stderrors.New("redis: connection refused")
	err := Wrap(cause, ErrExportWriteFailed, "save inv-1")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save inv-1", GetDetails(err))

	// an AppError keeps its code and is not mutated by re-wrapping
	orig := Wrap(stderrors.New("empty name"), ErrInvalidTarget, "name is required")
	rewrapped := Wrap(fmt.Errorf("create: %w", orig), ErrInternalServer, "other")
	assert.Equal(t, ErrInvalidTarget, rewrapped.Code)
	assert.Equal(t, "other", rewrapped.Details)
	assert.Equal(t, "name is required", orig.Details)
}

func TestExtractCodeAndDetails(t *testing.T) {
	err := fmt.Errorf("handler: %w", Wrap(stderrors.New("none enabled"), ErrSearchNoProviders))
	assert.Equal(t, ErrSearchNoProviders, ExtractCode(err))
	assert.Equal(t, "none enabled", GetDetails(err))

	assert.Equal(t, ErrInternalServer, ExtractCode(stderrors.New("plain")))
	assert.Equal(t, "plain", GetDetails(stderrors.New("plain")))
	assert.Equal(t, "", GetDetails(nil))
}

func TestCodes(t *testing.T) {
	tests := []struct {
		code   int
		status int
	}{
		{ErrInvestigationNotFound, http.StatusNotFound},
		{ErrInvalidFilter, http.StatusBadRequest},
		{ErrSearchProviderFailed, http.StatusBadGateway},
		{ErrExportStorageUnavailable, http.StatusServiceUnavailable},
		{99999, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}

	require.True(t, IsServerError(ErrExportWriteFailed))
	require.False(t, IsServerError(ErrInvalidTarget))
	assert.Equal(t, "Invalid filter: risk", FormatError(ErrInvalidFilter, "risk"))
}

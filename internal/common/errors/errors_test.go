package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		expectedCode  string
		expectedRetry int
	}{
		{
			name:          "retryable insert failure",
			err:           NewDatabaseInsertFailedError(stderrors.New("connection reset")),
			expectedCode:  "DATABASE_INSERT_FAILED",
			expectedRetry: 3,
		},
		{
			name:          "crm api failure",
			err:           NewCRMAPIError(stderrors.New("503")),
			expectedCode:  "CRM_API_ERROR",
			expectedRetry: 2,
		},
		{
			name:          "business validation failure",
			err:           NewDiagnosticValidationFailedError([]string{"email"}, "email: invalid format"),
			expectedCode:  "DIAGNOSTIC_VALIDATION_FAILED",
			expectedRetry: 0,
		},
		{
			name:          "invalid answer",
			err:           NewInvalidAnswerError("Q3", stderrors.New("answer for Q3 must be one of A, B, C, D")),
			expectedCode:  "INVALID_ANSWER",
			expectedRetry: 0,
		},
		{
			name:          "unknown code falls back to itself",
			err:           &StandardError{Code: "SOMETHING_ELSE", Message: "x", Retryable: true},
			expectedCode:  "SOMETHING_ELSE",
			expectedRetry: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetry, bpmnErr.Retries)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	stdErr := NewInvalidAnswerError("Q3", stderrors.New("bad"))

	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "Q3", vars["question"])
	assert.Equal(t, "INVALID_ANSWER", vars["errorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestAsStandardError_Wrapped(t *testing.T) {
	inner := NewLeadNotFoundError(42)
	wrapped := fmt.Errorf("load report: %w", inner)

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeLeadNotFound, stdErr.Code)
	assert.Contains(t, stdErr.Details, "42")

	_, ok = AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeLeadNotFound))
	assert.Equal(t, "CRM", GetErrorCategory(ErrCodeCRMTokenUnavailable))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexFailed))
	assert.Equal(t, "REPORT", GetErrorCategory(ErrCodeReportRenderFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidAnswer))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParsingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING"))

	assert.True(t, IsRetryableErrorCode(ErrCodeIndexFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeLeadNotFound))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, ErrCodeIndexFailed, CodeOf(fmt.Errorf("wrap: %w", NewIndexFailedError("diagnostic-leads", stderrors.New("down")))))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), CodeOf(stderrors.New("boom")))
}

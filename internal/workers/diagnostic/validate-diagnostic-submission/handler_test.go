// internal/workers/diagnostic/validate-diagnostic-submission/handler_test.go
package validatediagnosticsubmission

import (
	"context"
	"testing"

	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestInput() Input {
	return Input{
		"nome":           "  Ana Souza ",
		"email":          "Ana@Empresa.com.br",
		"whatsapp":       "+55 11 99999-9999",
		"privacyConsent": true,
		"empresa":        "Empresa X",
		"nicho":          "varejo",
		"funcionarios":   "11-50",
		"Q1":             "c",
		"Q2":             "D",
		"Q3":             " b",
		"Q4":             "C",
		"Q5":             "A",
		"Q6":             "D",
		"utmSource":      "google",
		"landingUrl":     "https://lp.example.com/diagnostico",
	}
}

func newHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	output, err := newHandler(t).Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.True(t, output.IsValid)
	assert.Equal(t, "Ana Souza", output.Submission.Nome)
	assert.Equal(t, "ana@empresa.com.br", output.Submission.Email)
	assert.Equal(t, "(11) 99999-9999", output.Submission.WhatsApp)
	assert.Equal(t, "11999999999", output.WhatsAppDigits)
	assert.Equal(t, "google", output.Submission.UTMSource)
	assert.Equal(t, "https://lp.example.com/diagnostico", output.Submission.LandingURL)
	assert.Equal(t, map[string]string{
		"Q1": "C", "Q2": "D", "Q3": "B", "Q4": "C", "Q5": "A", "Q6": "D",
	}, output.Answers)
}

func TestHandler_Execute_IgnoresOtherProcessVariables(t *testing.T) {
	input := createTestInput()
	input["leadId"] = 12.0
	input["scoreResult"] = map[string]interface{}{"totalScore": 63.0}

	output, err := newHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, output.IsValid)
}

func TestHandler_Execute_WhatsAppFormats(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"(11) 99999-9999", "(11) 99999-9999"},
		{"11999999999", "(11) 99999-9999"},
		{"+55 11 99999-9999", "(11) 99999-9999"},
		{"(21) 3333-4444", "(21) 3333-4444"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			input := createTestInput()
			input["whatsapp"] = tt.raw

			output, err := newHandler(t).Execute(context.Background(), input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output.Submission.WhatsApp)
		})
	}
}

// ==========================
// Validation Failure Tests
// ==========================

func TestHandler_Execute_ValidationFailed(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(in Input)
		expectedFields []string
	}{
		{
			name:           "missing answer is not defaulted",
			mutate:         func(in Input) { delete(in, "Q4") },
			expectedFields: []string{"Q4"},
		},
		{
			name:           "blank answer",
			mutate:         func(in Input) { in["Q2"] = "  " },
			expectedFields: []string{"Q2"},
		},
		{
			name:           "answer out of range",
			mutate:         func(in Input) { in["Q6"] = "E" },
			expectedFields: []string{"Q6"},
		},
		{
			name:           "invalid email",
			mutate:         func(in Input) { in["email"] = "ana@" },
			expectedFields: []string{"email"},
		},
		{
			name:           "invalid whatsapp",
			mutate:         func(in Input) { in["whatsapp"] = "123" },
			expectedFields: []string{"whatsapp"},
		},
		{
			name:           "consent not given",
			mutate:         func(in Input) { in["privacyConsent"] = false },
			expectedFields: []string{"privacyConsent"},
		},
		{
			name:           "consent with wrong type",
			mutate:         func(in Input) { in["privacyConsent"] = "yes" },
			expectedFields: []string{"privacyConsent"},
		},
		{
			name: "several fields reported together",
			mutate: func(in Input) {
				delete(in, "nome")
				in["email"] = "invalid"
				in["Q1"] = "Z"
			},
			expectedFields: []string{"Q1", "email", "nome"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := createTestInput()
			tt.mutate(input)

			output, err := newHandler(t).Execute(context.Background(), input)
			require.Error(t, err)
			assert.Nil(t, output)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeDiagnosticValidationFailed, stdErr.Code)
			assert.False(t, stdErr.Retryable)
			assert.Equal(t, tt.expectedFields, stdErr.Metadata["fields"])
		})
	}
}

func TestHandler_Execute_ValidationErrorIsNotRetried(t *testing.T) {
	input := createTestInput()
	delete(input, "Q1")

	_, err := newHandler(t).Execute(context.Background(), input)
	require.Error(t, err)

	stdErr, _ := errors.AsStandardError(err)
	bpmnErr := errors.ConvertToBPMNError(stdErr)
	assert.Equal(t, "DIAGNOSTIC_VALIDATION_FAILED", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestNormalize(t *testing.T) {
	out := normalize(Input{"Q1": " b ", "nome": " Ana ", "privacyConsent": true, "QX1": "keep"})
	assert.Equal(t, "B", out["Q1"])
	assert.Equal(t, "Ana", out["nome"])
	assert.Equal(t, true, out["privacyConsent"])
	assert.Equal(t, "keep", out["QX1"])
}

// internal/workers/analytics/index-lead-analytics/handler_test.go
package indexleadanalytics

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"diagnostic-workers/internal/common/config"
	"diagnostic-workers/internal/common/database"
	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/models"
	"diagnostic-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type failingIndexer struct{ err error }

func (f failingIndexer) IndexDocument(context.Context, string, string, interface{}) (string, error) {
	return "", f.err
}

func createTestInput(t *testing.T) *Input {
	submission := models.DiagnosticSubmission{
		Nome:         "Ana Souza",
		Email:        "ana@empresa.com.br",
		Nicho:        "varejo",
		Funcionarios: "11-50",
		Q1:           "D",
		Q2:           "A",
		Q3:           "D",
		Q4:           "D",
		Q5:           "D",
		Q6:           "D",
		Attribution: models.Attribution{
			UTMSource:   "google",
			UTMCampaign: "diagnostico",
		},
	}
	answers, err := submission.Answers()
	require.NoError(t, err)
	result, err := scoring.NewEngine(scoring.DefaultDictionary()).Score(answers)
	require.NoError(t, err)

	return &Input{LeadID: 7, Submission: submission, ScoreResult: result}
}

func newFakeElasticsearch(t *testing.T, handler http.HandlerFunc) *database.ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := database.NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_IndexesDocument(t *testing.T) {
	var path string
	var doc map[string]interface{}
	es := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_index":"diagnostic-leads","_id":"7","result":"created"}`))
	})

	handler := NewHandler(LoadConfig(), es, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput(t))

	require.NoError(t, err)
	assert.True(t, output.Indexed)
	assert.Equal(t, "diagnostic-leads", output.IndexName)
	assert.Equal(t, "created", output.Result)

	assert.Equal(t, "/diagnostic-leads/_doc/7", path)
	assert.EqualValues(t, 7, doc["leadId"])
	assert.EqualValues(t, 49, doc["totalScore"])
	assert.Equal(t, "Básica", doc["nivel"])
	assert.Equal(t, true, doc["capped"])
	assert.Equal(t, "varejo", doc["business_niche"])
	assert.Equal(t, "11-50", doc["employees"])
	assert.Equal(t, "google", doc["utm_source"])
	assert.NotContains(t, doc, "utm_medium")
	assert.Equal(t, map[string]interface{}{
		"plataforma": float64(50), "praticaAnalitica": float64(100), "insight": float64(100),
	}, doc["subscores"])
	assert.Equal(t, "A", doc["answers"].(map[string]interface{})["Q2"])
}

func TestBuildDocument_IndexedAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	doc, err := buildDocument(createTestInput(t), now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T09:00:00Z", doc.IndexedAt)
}

func TestHandler_Execute_SkippedWithoutIndexer(t *testing.T) {
	output, err := NewHandler(LoadConfig(), nil, nil, logger.NewTestLogger(t)).
		Execute(context.Background(), createTestInput(t))

	require.NoError(t, err)
	assert.False(t, output.Indexed)
	assert.Equal(t, "skipped", output.Result)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_IndexFailure(t *testing.T) {
	handler := NewHandler(LoadConfig(), failingIndexer{err: stderrors.New("cluster unavailable")}, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput(t))

	require.Error(t, err)
	assert.Nil(t, output)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeIndexFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "index: diagnostic-leads")
}

func TestHandler_Execute_RejectedStatus(t *testing.T) {
	es := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"mapper_parsing_exception"}}`))
	})

	_, err := NewHandler(LoadConfig(), es, nil, logger.NewTestLogger(t)).
		Execute(context.Background(), createTestInput(t))

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeIndexFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "mapper_parsing_exception")
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
		code   errors.ErrorCode
	}{
		{"missing lead id", func(in *Input) { in.LeadID = 0 }, errors.ErrCodeDiagnosticValidationFailed},
		{"missing score", func(in *Input) { in.ScoreResult = nil }, errors.ErrCodeDiagnosticValidationFailed},
		{"bad answer", func(in *Input) { in.Submission.Q4 = "Z" }, errors.ErrCodeInvalidAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := createTestInput(t)
			tt.mutate(input)

			_, err := NewHandler(LoadConfig(), failingIndexer{}, nil, logger.NewTestLogger(t)).
				Execute(context.Background(), input)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/leads"
	"diagnostic-workers/internal/models"
	"diagnostic-workers/internal/scoring"

	"github.com/go-playground/validator/v10"
)

type submitResponse struct {
	ProcessInstanceKey int64           `json:"processInstanceKey"`
	Status             string          `json:"status"`
	Score              *scoring.Result `json:"score"`
}

type leadResponse struct {
	Lead  *models.Lead    `json:"lead"`
	Score *scoring.Result `json:"score"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub models.DiagnosticSubmission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	normalizeSubmission(&sub)

	if err := s.validator.Struct(sub); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", invalidFields(err)...)
		return
	}

	answers, err := sub.Answers()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.engine.Score(answers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := s.starter.StartProcess(r.Context(), s.processID, sub)
	if err != nil {
		s.logger.Error("process start failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusServiceUnavailable, "diagnostic could not be started")
		return
	}

	s.logger.Info("diagnostic submitted", map[string]interface{}{
		"processInstanceKey": key,
		"totalScore":         result.TotalScore,
		"utmSource":          sub.UTMSource,
	})
	writeJSON(w, http.StatusAccepted, submitResponse{ProcessInstanceKey: key, Status: "accepted", Score: result})
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	lead, err := s.leads.GetByID(r.Context(), id)
	if stderrors.Is(err, leads.ErrNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		s.logger.Error("lead lookup failed", map[string]interface{}{"leadId": id, "error": err.Error()})
		writeError(w, http.StatusInternalServerError, "lead lookup failed")
		return
	}

	answers, err := lead.ScoringAnswers()
	if err != nil {
		s.logger.Error("stored answers invalid", map[string]interface{}{"leadId": id, "error": err.Error()})
		writeError(w, http.StatusInternalServerError, "stored answers are invalid")
		return
	}
	result, err := s.engine.Score(answers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	writeJSON(w, http.StatusOK, leadResponse{Lead: lead, Score: result})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	if s.reports == nil {
		writeError(w, http.StatusNotFound, "reports are not enabled")
		return
	}

	html, err := s.reports.ReportHTML(r.Context(), id)
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrCodeLeadNotFound:
			writeError(w, http.StatusNotFound, "lead not found")
		case errors.ErrCodeDiagnosticValidationFailed:
			writeError(w, http.StatusBadRequest, "invalid id")
		default:
			s.logger.Error("report failed", map[string]interface{}{"leadId": id, "error": err.Error()})
			writeError(w, http.StatusInternalServerError, "report could not be rendered")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var err error
	if s.db != nil {
		err = s.db.PingContext(ctx)
	}
	if err == nil && s.broker != nil {
		err = s.broker.HealthCheck(ctx)
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func leadID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// normalizeSubmission trims text fields and upper-cases the answers.
func normalizeSubmission(s *models.DiagnosticSubmission) {
	s.Nome = strings.TrimSpace(s.Nome)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.WhatsApp = strings.TrimSpace(s.WhatsApp)
	s.Empresa = strings.TrimSpace(s.Empresa)
	for _, q := range []*string{&s.Q1, &s.Q2, &s.Q3, &s.Q4, &s.Q5, &s.Q6} {
		*q = strings.ToUpper(strings.TrimSpace(*q))
	}
}

func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// Package api serves the diagnostic intake endpoints and the health probes.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"time"

	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/validation"
	"diagnostic-workers/internal/models"
	"diagnostic-workers/internal/scoring"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 64 << 10

// ProcessStarter starts a process instance. *camunda.Client satisfies it.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

// LeadReader loads stored leads. *leads.Repository satisfies it.
type LeadReader interface {
	GetByID(ctx context.Context, id int64) (*models.Lead, error)
}

// ReportSource returns rendered HTML reports.
type ReportSource interface {
	ReportHTML(ctx context.Context, leadID int64) (string, error)
}

// Pinger checks a backing store. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker checks the workflow broker. *camunda.Client satisfies it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Options struct {
	ProcessID string
	Starter   ProcessStarter
	Leads     LeadReader
	Reports   ReportSource
	DB        Pinger
	Broker    HealthChecker
	Engine    *scoring.Engine
	Logger    logger.Logger
}

type Server struct {
	processID string
	starter   ProcessStarter
	leads     LeadReader
	reports   ReportSource
	db        Pinger
	broker    HealthChecker
	engine    *scoring.Engine
	validator *validator.Validate
	logger    logger.Logger
}

func NewServer(opts Options) *Server {
	return &Server{
		processID: opts.ProcessID,
		starter:   opts.Starter,
		leads:     opts.Leads,
		reports:   opts.Reports,
		db:        opts.DB,
		broker:    opts.Broker,
		engine:    opts.Engine,
		validator: NewValidator(),
		logger:    opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// NewValidator returns a validator that reports fields by their JSON names
// and knows the whatsapp_br tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("whatsapp_br", func(fl validator.FieldLevel) bool {
		return validation.ValidateWhatsApp(fl.Field().String())
	})
	return v
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/diagnostic", s.handleSubmit)
	mux.HandleFunc("GET /api/diagnostic", s.handleGetLead)
	mux.HandleFunc("GET /api/diagnostic/report", s.handleReport)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/metrics" || r.URL.Path == "/health" {
			return
		}
		s.logger.Info("http request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, fields ...string) {
	writeJSON(w, status, errorResponse{Error: msg, Fields: fields})
}

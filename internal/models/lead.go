// internal/models/lead.go
package models

import (
	"strings"
	"time"

	"diagnostic-workers/internal/scoring"
)

// DiagnosticSubmission is the questionnaire payload posted by the landing page.
type DiagnosticSubmission struct {
	Nome           string `json:"nome" validate:"required"`
	Q1             string `json:"Q1" validate:"required,oneof=A B C D"`
	Q2             string `json:"Q2" validate:"required,oneof=A B C D"`
	Q3             string `json:"Q3" validate:"required,oneof=A B C D"`
	Q4             string `json:"Q4" validate:"required,oneof=A B C D"`
	Q5             string `json:"Q5" validate:"required,oneof=A B C D"`
	Q6             string `json:"Q6" validate:"required,oneof=A B C D"`
	Empresa        string `json:"empresa,omitempty"`
	Nicho          string `json:"nicho,omitempty"`
	Funcionarios   string `json:"funcionarios,omitempty"`
	Email          string `json:"email" validate:"required,email"`
	WhatsApp       string `json:"whatsapp" validate:"required,whatsapp_br"`
	PrivacyConsent bool   `json:"privacyConsent" validate:"required"`

	Attribution
}

// Attribution carries marketing tracking parameters captured on the landing page.
type Attribution struct {
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
	UTMTerm     string `json:"utmTerm,omitempty"`
	UTMContent  string `json:"utmContent,omitempty"`
	UTMAdset    string `json:"utmAdset,omitempty"`
	UTMAd       string `json:"utmAd,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	LandingURL  string `json:"landingUrl,omitempty"`
	GCLID       string `json:"gclid,omitempty"`
	FBCLID      string `json:"fbclid,omitempty"`
}

// AnswerMap returns the raw answers keyed by question id.
func (s DiagnosticSubmission) AnswerMap() map[string]string {
	return map[string]string{
		"Q1": s.Q1, "Q2": s.Q2, "Q3": s.Q3,
		"Q4": s.Q4, "Q5": s.Q5, "Q6": s.Q6,
	}
}

// Answers parses the six answers strictly.
func (s DiagnosticSubmission) Answers() (scoring.Answers, error) {
	return scoring.ParseAnswers(s.AnswerMap())
}

// Lead is a stored row of diagnostic_campaign_leads.
type Lead struct {
	ID            int64     `json:"id"`
	RegisterDate  time.Time `json:"registerDate"`
	Name          string    `json:"leadName"`
	Email         string    `json:"leadEmail"`
	Phone         string    `json:"leadPhone"`
	BusinessName  string    `json:"businessName,omitempty"`
	BusinessNiche string    `json:"businessNiche,omitempty"`
	NumEmployees  string    `json:"businessNumEmployees,omitempty"`
	LGPDConsent   bool      `json:"lgpdConsent"`
	Answers       [6]string `json:"answers"`
	MaturityScore int       `json:"maturityScore"`
	UTMSource     string    `json:"utmSource,omitempty"`
	UTMMedium     string    `json:"utmMedium,omitempty"`
	UTMCampaign   string    `json:"utmCampaign,omitempty"`
	UTMTerm       string    `json:"utmTerm,omitempty"`
	UTMContent    string    `json:"utmContent,omitempty"`
	Referrer      string    `json:"referrer,omitempty"`
	LandingURL    string    `json:"landingUrl,omitempty"`
	GCLID         string    `json:"gclid,omitempty"`
	FBCLID        string    `json:"fbclid,omitempty"`
}

// ScoringAnswers parses the stored answer columns.
func (l Lead) ScoringAnswers() (scoring.Answers, error) {
	return scoring.ParseAnswers(map[string]string{
		"Q1": l.Answers[0], "Q2": l.Answers[1], "Q3": l.Answers[2],
		"Q4": l.Answers[3], "Q5": l.Answers[4], "Q6": l.Answers[5],
	})
}

// NewLead maps a validated submission onto a row.
func NewLead(s DiagnosticSubmission, maturityScore int) Lead {
	return Lead{
		Name:          s.Nome,
		Email:         s.Email,
		Phone:         s.WhatsApp,
		BusinessName:  s.Empresa,
		BusinessNiche: s.Nicho,
		NumEmployees:  s.Funcionarios,
		LGPDConsent:   s.PrivacyConsent,
		Answers:       [6]string{answer(s.Q1), answer(s.Q2), answer(s.Q3), answer(s.Q4), answer(s.Q5), answer(s.Q6)},
		MaturityScore: maturityScore,
		UTMSource:     s.UTMSource,
		UTMMedium:     s.UTMMedium,
		UTMCampaign:   s.UTMCampaign,
		UTMTerm:       s.UTMTerm,
		UTMContent:    s.UTMContent,
		Referrer:      s.Referrer,
		LandingURL:    s.LandingURL,
		GCLID:         s.GCLID,
		FBCLID:        s.FBCLID,
	}
}

func answer(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

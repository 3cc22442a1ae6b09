// internal/workers/diagnostic/validate-diagnostic-submission/models.go
package validatediagnosticsubmission

import (
	"diagnostic-workers/internal/common/validation"
	"diagnostic-workers/internal/models"
)

// Input is the raw process variable document. Fields stay untyped so that
// wrong types are reported as validation errors instead of parse failures.
type Input map[string]interface{}

type Output struct {
	IsValid        bool                        `json:"isValid"`
	Submission     models.DiagnosticSubmission `json:"submission"`
	Answers        map[string]string           `json:"answers"`
	WhatsAppDigits string                      `json:"whatsappDigits"`
}

var answerOptions = []string{"A", "B", "C", "D"}

func answerProperty(description string) validation.Property {
	return validation.Property{Type: "string", Description: description, Enum: answerOptions}
}

var submissionSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"nome":           {Type: "string", MinLength: validation.IntPtr(2), MaxLength: validation.IntPtr(120)},
		"email":          {Type: "string", Format: "email", MaxLength: validation.IntPtr(254)},
		"whatsapp":       {Type: "string", Format: "whatsapp"},
		"privacyConsent": {Type: "boolean", MustBeTrue: true},
		"empresa":        {Type: "string", MaxLength: validation.IntPtr(200)},
		"nicho":          {Type: "string", MaxLength: validation.IntPtr(120)},
		"funcionarios":   {Type: "string", MaxLength: validation.IntPtr(40)},
		"Q1":             answerProperty("Infraestrutura de Dados"),
		"Q2":             answerProperty("Acesso e Disponibilidade"),
		"Q3":             answerProperty("Frequência de Análise"),
		"Q4":             answerProperty("Capacidade de Cruzar Informações"),
		"Q5":             answerProperty("Tomada de Decisão Baseada em Dados"),
		"Q6":             answerProperty("Descoberta de Oportunidades"),
		"utmSource":      {Type: "string"},
		"utmMedium":      {Type: "string"},
		"utmCampaign":    {Type: "string"},
		"utmTerm":        {Type: "string"},
		"utmContent":     {Type: "string"},
		"utmAdset":       {Type: "string"},
		"utmAd":          {Type: "string"},
		"referrer":       {Type: "string"},
		"landingUrl":     {Type: "string"},
		"gclid":          {Type: "string"},
		"fbclid":         {Type: "string"},
	},
	Required: []string{
		"nome", "email", "whatsapp", "privacyConsent",
		"Q1", "Q2", "Q3", "Q4", "Q5", "Q6",
	},
	// other process variables travel in the same document
	AdditionalProperties: true,
}

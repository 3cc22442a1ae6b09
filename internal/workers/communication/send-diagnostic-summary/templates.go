// internal/workers/communication/send-diagnostic-summary/templates.go
package senddiagnosticsummary

import (
	"strings"
	"text/template"

	"diagnostic-workers/internal/scoring"
)

var (
	subjectTemplate = template.Must(template.New("subject").Parse(
		`Seu diagnóstico de maturidade em dados: nível {{.Nivel}} ({{.Total}}/100)`))

	bodyTemplate = template.Must(template.New("body").Parse(`Olá, {{.FirstName}}!

Obrigado por responder ao Diagnóstico de Maturidade em Dados{{if .Empresa}} da {{.Empresa}}{{end}}.

Pontuação geral: {{.Total}}/100
Nível: {{.Nivel}}

{{.Summary}}

Dimensões avaliadas:
{{range .Dimensions}}- {{.Name}}: {{.Score}}/100
{{end}}{{if .ReportURL}}
Veja o relatório completo em {{.ReportURL}}
{{end}}`))

	smsTemplate = template.Must(template.New("sms").Parse(
		`{{.FirstName}}, seu diagnóstico de dados ficou em {{.Total}}/100 (nível {{.Nivel}}).{{if .ReportURL}} Relatório: {{.ReportURL}}{{end}}`))
)

type messageData struct {
	FirstName  string
	Empresa    string
	Total      int
	Nivel      scoring.Level
	Summary    string
	Dimensions []scoring.Dimension
	ReportURL  string
}

type message struct {
	Subject string
	Body    string
	SMS     string
}

func newMessageData(input *Input, reportURL string) messageData {
	first := strings.TrimSpace(input.Submission.Nome)
	if i := strings.IndexByte(first, ' '); i > 0 {
		first = first[:i]
	}
	return messageData{
		FirstName:  first,
		Empresa:    input.Submission.Empresa,
		Total:      input.ScoreResult.TotalScore,
		Nivel:      input.ScoreResult.Nivel,
		Summary:    scoring.Summary(input.ScoreResult.Nivel),
		Dimensions: input.ScoreResult.Subscores.Dimensions(),
		ReportURL:  reportURL,
	}
}

func render(data messageData) (*message, error) {
	var subject, body, sms strings.Builder
	if err := subjectTemplate.Execute(&subject, data); err != nil {
		return nil, err
	}
	if err := bodyTemplate.Execute(&body, data); err != nil {
		return nil, err
	}
	if err := smsTemplate.Execute(&sms, data); err != nil {
		return nil, err
	}
	return &message{Subject: subject.String(), Body: body.String(), SMS: sms.String()}, nil
}

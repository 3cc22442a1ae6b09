// internal/workers/diagnostic/render-diagnostic-report/render.go
package renderdiagnosticreport

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"diagnostic-workers/internal/models"
	"diagnostic-workers/internal/scoring"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

const placeholder = "—"

type dimensionView struct {
	Name  string
	Score int
	Color string
	Width int
}

type reportView struct {
	Empresa        string
	Funcionarios   string
	Total          int
	NivelLabel     string
	Dimensions     []dimensionView
	Significado    string
	OndeEsta       string
	Rows           [][]*scoring.Paragraph
	ProximosPassos []string
}

// NivelLabel is the badge text for a tier. The intermediate tier uses the masculine form.
func NivelLabel(nivel scoring.Level) string {
	if nivel == scoring.LevelIntermediaria {
		return "Intermediário"
	}
	return string(nivel)
}

// pairRows lays paragraphs out two per row. An odd final row gets a nil second cell.
func pairRows(paragraphs []scoring.Paragraph) [][]*scoring.Paragraph {
	var rows [][]*scoring.Paragraph
	for i := 0; i < len(paragraphs); i += 2 {
		row := []*scoring.Paragraph{&paragraphs[i], nil}
		if i+1 < len(paragraphs) {
			row[1] = &paragraphs[i+1]
		}
		rows = append(rows, row)
	}
	return rows
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func newReportView(lead *models.Lead, result *scoring.Result) reportView {
	dims := result.Subscores.Dimensions()
	views := make([]dimensionView, 0, len(dims))
	for _, d := range dims {
		views = append(views, dimensionView{Name: d.Name, Score: d.Score, Color: d.Color, Width: clamp(d.Score)})
	}
	return reportView{
		Empresa:        orPlaceholder(lead.BusinessName),
		Funcionarios:   orPlaceholder(lead.NumEmployees),
		Total:          result.TotalScore,
		NivelLabel:     NivelLabel(result.Nivel),
		Dimensions:     views,
		Significado:    result.Analysis.Significado,
		OndeEsta:       result.Analysis.OndeEsta,
		Rows:           pairRows(result.Analysis.Paragraphs),
		ProximosPassos: result.Analysis.ProximosPassos,
	}
}

// Render produces the HTML report for a stored lead and its score.
func Render(lead *models.Lead, result *scoring.Result) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, newReportView(lead, result)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

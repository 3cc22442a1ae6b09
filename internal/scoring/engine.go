// internal/scoring/engine.go

// Package scoring turns six questionnaire answers into a data maturity report:
// a weighted 0-100 total, a tier, three dimension subscores and a narrative
// assembled from a read-only dictionary.
package scoring

import (
	"fmt"
	"strings"
)

// Engine scores answer sets. It holds only the dictionary and is safe for
// concurrent use.
type Engine struct {
	dict Dictionary
}

// NewEngine returns an engine backed by dict. A nil dictionary yields empty narratives.
func NewEngine(dict Dictionary) *Engine {
	if dict == nil {
		dict = Dictionary{}
	}
	return &Engine{dict: dict}
}

// Score computes the report for answers. Missing or unknown options are
// rejected with an *InvalidAnswerError.
func (e *Engine) Score(answers Answers) (*Result, error) {
	if err := answers.Validate(); err != nil {
		return nil, err
	}

	total := totalScore(answers)
	nivel := TierFor(total)

	return &Result{
		TotalScore: total,
		Nivel:      nivel,
		Subscores: Subscores{
			Plataforma:       pairScore(answers, Q1, Q2),
			PraticaAnalitica: pairScore(answers, Q3, Q5),
			Insight:          pairScore(answers, Q4, Q6),
		},
		Analysis: e.analysis(answers, nivel),
	}, nil
}

// totalScore returns round(S*20) with the gating cap applied.
// S*20 = sum(pct*tenths)/50, rounded half up in integers.
func totalScore(answers Answers) int {
	weighted := 0
	for _, q := range Questions {
		weighted += weightPercent[q] * optionTenths[answers.Get(q)]
	}
	total := (weighted + 25) / 50

	for _, q := range gatingQuestions {
		if optionTenths[answers.Get(q)] <= gateTenths && total > cappedMax {
			total = cappedMax
		}
	}
	return total
}

// pairScore is round(avg(a,b)*20); with tenth points that is exactly ta+tb.
func pairScore(answers Answers, a, b Question) int {
	return optionTenths[answers.Get(a)] + optionTenths[answers.Get(b)]
}

func (e *Engine) analysis(answers Answers, nivel Level) Analysis {
	paragraphs := make([]Paragraph, 0, len(Questions))
	texts := make([]string, 0, len(Questions))
	for _, q := range Questions {
		text, ok := e.dict.Lookup(q, answers.Get(q))
		if !ok {
			continue
		}
		paragraphs = append(paragraphs, Paragraph{Category: Category(q), Content: text})
		texts = append(texts, text)
	}

	return Analysis{
		OndeEsta:       strings.Join(texts, " "),
		Significado:    Summary(nivel),
		ProximosPassos: []string{},
		Paragraphs:     paragraphs,
	}
}

// Summary is the fixed sentence naming the tier.
func Summary(nivel Level) string {
	return fmt.Sprintf(
		"Este diagnóstico mostra que sua empresa está no nível %s de maturidade em dados. As análises abaixo refletem o estado atual de cada dimensão avaliada.",
		strings.ToLower(string(nivel)),
	)
}

// internal/scoring/tables.go
package scoring

// Raw option scores in tenths of a point (A=0, B=2, C=3.5, D=5).
var optionTenths = map[Option]int{
	OptionA: 0,
	OptionB: 20,
	OptionC: 35,
	OptionD: 50,
}

// Question weights in percent. Integer storage keeps the sum exact.
var weightPercent = map[Question]int{
	Q1: 25,
	Q2: 20,
	Q3: 15,
	Q4: 20,
	Q5: 15,
	Q6: 5,
}

// Human readable label attached to each narrative paragraph.
var questionCategory = map[Question]string{
	Q1: "Infraestrutura de Dados",
	Q2: "Acesso e Disponibilidade",
	Q3: "Frequência de Análise",
	Q4: "Capacidade de Cruzar Informações",
	Q5: "Tomada de Decisão Baseada em Dados",
	Q6: "Descoberta de Oportunidades",
}

// Gating questions cap the total when their raw score is at most gateTenths.
var gatingQuestions = [...]Question{Q1, Q2}

const (
	gateTenths = 20
	cappedMax  = 49
)

// OptionScore returns the raw 0-5 point value of o.
func OptionScore(o Option) float64 {
	return float64(optionTenths[o]) / 10
}

// Weight returns the weight of q in [0,1].
func Weight(q Question) float64 {
	return float64(weightPercent[q]) / 100
}

// Weights returns a copy of the weight table.
func Weights() map[Question]float64 {
	out := make(map[Question]float64, len(weightPercent))
	for q := range weightPercent {
		out[q] = Weight(q)
	}
	return out
}

// Category returns the category label of q.
func Category(q Question) string {
	return questionCategory[q]
}

// Gated reports whether a weak platform answer limits the total to 49.
func Gated(answers Answers) bool {
	for _, q := range gatingQuestions {
		if optionTenths[answers.Get(q)] <= gateTenths {
			return true
		}
	}
	return false
}

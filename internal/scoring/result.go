// internal/scoring/result.go
package scoring

// Level is the maturity tier derived from the capped total.
type Level string

const (
	LevelInicial       Level = "Inicial"
	LevelBasica        Level = "Básica"
	LevelIntermediaria Level = "Intermediária"
	LevelAvancada      Level = "Avançada"
)

// Result is the report produced by one scoring call.
type Result struct {
	TotalScore int       `json:"totalScore"`
	Nivel      Level     `json:"nivel"`
	Subscores  Subscores `json:"subscores"`
	Analysis   Analysis  `json:"analysis"`
}

// Subscores are the three dimension scores. They are never capped.
type Subscores struct {
	Plataforma       int `json:"plataforma"`
	PraticaAnalitica int `json:"praticaAnalitica"`
	Insight          int `json:"insight"`
}

// Analysis carries the narrative assembled from the dictionary.
type Analysis struct {
	OndeEsta       string      `json:"ondeEsta"`
	Significado    string      `json:"significado"`
	ProximosPassos []string    `json:"proximosPassos"`
	Paragraphs     []Paragraph `json:"paragraphs"`
}

// Paragraph is one dictionary text tagged with its question category.
type Paragraph struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// Dimension keys as they appear in Subscores JSON.
const (
	DimensionPlataforma       = "plataforma"
	DimensionPraticaAnalitica = "praticaAnalitica"
	DimensionInsight          = "insight"
)

var dimensionNames = map[string]string{
	DimensionPlataforma:       "Plataforma",
	DimensionPraticaAnalitica: "Prática Analítica",
	DimensionInsight:          "Insight",
}

// Dimension pairs a subscore key with its display name and value.
type Dimension struct {
	Key   string
	Name  string
	Score int
	Color string
}

// Dimensions returns the subscores in display order.
func (s Subscores) Dimensions() []Dimension {
	return []Dimension{
		{Key: DimensionPlataforma, Name: DimensionName(DimensionPlataforma), Score: s.Plataforma, Color: DimensionColor(s.Plataforma)},
		{Key: DimensionPraticaAnalitica, Name: DimensionName(DimensionPraticaAnalitica), Score: s.PraticaAnalitica, Color: DimensionColor(s.PraticaAnalitica)},
		{Key: DimensionInsight, Name: DimensionName(DimensionInsight), Score: s.Insight, Color: DimensionColor(s.Insight)},
	}
}

// TierFor classifies a total score.
func TierFor(total int) Level {
	switch {
	case total <= 24:
		return LevelInicial
	case total <= 49:
		return LevelBasica
	case total <= 74:
		return LevelIntermediaria
	default:
		return LevelAvancada
	}
}

// DimensionName returns the display name for a subscore key, or the key itself.
func DimensionName(key string) string {
	if name, ok := dimensionNames[key]; ok {
		return name
	}
	return key
}

// DimensionColor maps a 0-100 score to its report colour band.
func DimensionColor(score int) string {
	switch {
	case score >= 75:
		return "green"
	case score >= 50:
		return "yellow"
	case score >= 25:
		return "orange"
	default:
		return "red"
	}
}

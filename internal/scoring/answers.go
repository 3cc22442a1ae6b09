// internal/scoring/answers.go
package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Question identifies one of the six questionnaire slots.
type Question string

const (
	Q1 Question = "Q1"
	Q2 Question = "Q2"
	Q3 Question = "Q3"
	Q4 Question = "Q4"
	Q5 Question = "Q5"
	Q6 Question = "Q6"
)

// Questions lists the slots in narrative order.
var Questions = [...]Question{Q1, Q2, Q3, Q4, Q5, Q6}

// Option is an ordinal answer category.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// Options lists the categories from lowest to highest maturity.
var Options = [...]Option{OptionA, OptionB, OptionC, OptionD}

// ErrInvalidAnswer is wrapped by every answer validation failure.
var ErrInvalidAnswer = errors.New("INVALID_ANSWER")

// InvalidAnswerError names the slot that broke the input contract.
type InvalidAnswerError struct {
	Question Question
	Value    string
}

func (e *InvalidAnswerError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("answer for %s is missing", e.Question)
	}
	return fmt.Sprintf("answer for %s must be one of A, B, C, D (got %q)", e.Question, e.Value)
}

func (e *InvalidAnswerError) Unwrap() error {
	return ErrInvalidAnswer
}

// Answers holds one option per question. Zero values are treated as missing.
type Answers struct {
	Q1 Option `json:"Q1"`
	Q2 Option `json:"Q2"`
	Q3 Option `json:"Q3"`
	Q4 Option `json:"Q4"`
	Q5 Option `json:"Q5"`
	Q6 Option `json:"Q6"`
}

// Get returns the option stored for q.
func (a Answers) Get(q Question) Option {
	switch q {
	case Q1:
		return a.Q1
	case Q2:
		return a.Q2
	case Q3:
		return a.Q3
	case Q4:
		return a.Q4
	case Q5:
		return a.Q5
	case Q6:
		return a.Q6
	}
	return ""
}

// Validate reports the first slot, in question order, that is missing or out of range.
func (a Answers) Validate() error {
	for _, q := range Questions {
		opt := a.Get(q)
		if !opt.Valid() {
			return &InvalidAnswerError{Question: q, Value: string(opt)}
		}
	}
	return nil
}

// Map returns the answers keyed by slot name.
func (a Answers) Map() map[string]string {
	out := make(map[string]string, len(Questions))
	for _, q := range Questions {
		out[string(q)] = string(a.Get(q))
	}
	return out
}

// Valid reports whether o is one of A, B, C or D.
func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// ParseAnswers builds Answers from a map keyed "Q1".."Q6". Values are trimmed and
// upper-cased; anything missing or unknown is rejected, never defaulted.
func ParseAnswers(raw map[string]string) (Answers, error) {
	var a Answers
	for _, q := range Questions {
		v := Option(strings.ToUpper(strings.TrimSpace(raw[string(q)])))
		if !v.Valid() {
			return Answers{}, &InvalidAnswerError{Question: q, Value: raw[string(q)]}
		}
		switch q {
		case Q1:
			a.Q1 = v
		case Q2:
			a.Q2 = v
		case Q3:
			a.Q3 = v
		case Q4:
			a.Q4 = v
		case Q5:
			a.Q5 = v
		case Q6:
			a.Q6 = v
		}
	}
	return a, nil
}

// ParseAnswerList parses six comma separated options, e.g. "A,B,C,D,A,B".
func ParseAnswerList(list string) (Answers, error) {
	parts := strings.Split(list, ",")
	if len(parts) != len(Questions) {
		return Answers{}, fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidAnswer, len(Questions), len(parts))
	}
	raw := make(map[string]string, len(parts))
	for i, q := range Questions {
		raw[string(q)] = parts[i]
	}
	return ParseAnswers(raw)
}

// internal/scoring/dictionary_test.go
package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDictionary_Complete(t *testing.T) {
	dict := DefaultDictionary()

	assert.Equal(t, 24, dict.Len())
	for _, q := range Questions {
		for _, o := range Options {
			_, ok := dict.Lookup(q, o)
			assert.True(t, ok, "missing entry for %s/%s", q, o)
		}
	}
}

func TestParseDictionary(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
		wantLen int
	}{
		{
			name:    "valid partial dictionary",
			data:    `{"paragraphs":{"Q1":{"A":"texto"},"Q6":{"D":"outro"}}}`,
			wantLen: 2,
		},
		{
			name:    "empty paragraphs",
			data:    `{"paragraphs":{}}`,
			wantLen: 0,
		},
		{
			name:    "missing paragraphs key",
			data:    `{"texts":{}}`,
			wantErr: "invalid dictionary",
		},
		{
			name:    "unknown question",
			data:    `{"paragraphs":{"Q7":{"A":"texto"}}}`,
			wantErr: "invalid dictionary",
		},
		{
			name:    "unknown option",
			data:    `{"paragraphs":{"Q1":{"E":"texto"}}}`,
			wantErr: "invalid dictionary",
		},
		{
			name:    "non string text",
			data:    `{"paragraphs":{"Q1":{"A":42}}}`,
			wantErr: "invalid dictionary",
		},
		{
			name:    "malformed json",
			data:    `{"paragraphs":`,
			wantErr: "dictionary validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, err := ParseDictionary([]byte(tt.data))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, dict.Len())
		})
	}
}

func TestLoadDictionary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dicionario.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"paragraphs":{"Q2":{"C":"acesso"}}}`), 0o600))

	dict, err := LoadDictionary(path)
	require.NoError(t, err)

	text, ok := dict.Lookup(Q2, OptionC)
	assert.True(t, ok)
	assert.Equal(t, "acesso", text)

	_, err = LoadDictionary(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestParseAnswers(t *testing.T) {
	answers, err := ParseAnswers(map[string]string{
		"Q1": "a", "Q2": " b ", "Q3": "C", "Q4": "D", "Q5": "A", "Q6": "B",
	})
	require.NoError(t, err)
	assert.Equal(t, Answers{Q1: OptionA, Q2: OptionB, Q3: OptionC, Q4: OptionD, Q5: OptionA, Q6: OptionB}, answers)

	_, err = ParseAnswers(map[string]string{"Q1": "A", "Q2": "A", "Q3": "Z", "Q4": "A", "Q5": "A", "Q6": "A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Q3")

	_, err = ParseAnswers(map[string]string{"Q1": "A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Q2")
}

func TestParseAnswerList(t *testing.T) {
	answers, err := ParseAnswerList("D,A,D,D,D,D")
	require.NoError(t, err)
	assert.Equal(t, with(uniform(OptionD), Q2, OptionA), answers)

	_, err = ParseAnswerList("A,B")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

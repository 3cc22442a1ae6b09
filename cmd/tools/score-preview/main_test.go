package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"diagnostic-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScorePreview_Text(t *testing.T) {
	out, err := execute(t, "--answers", "D,A,D,D,D,D")
	require.NoError(t, err)

	assert.Contains(t, out, "Score:  49/100")
	assert.Contains(t, out, "Nível:  Básica")
	assert.Contains(t, out, "Cap:    applied")
	assert.Contains(t, out, "Plataforma")
}

func TestScorePreview_JSON(t *testing.T) {
	out, err := execute(t, "--answers", "c,d,b,c,a,d", "--json")
	require.NoError(t, err)

	var result scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 63, result.TotalScore)
	assert.Equal(t, scoring.LevelIntermediaria, result.Nivel)
	assert.Equal(t, scoring.Subscores{Plataforma: 85, PraticaAnalitica: 20, Insight: 85}, result.Subscores)
}

func TestScorePreview_Questions(t *testing.T) {
	out, err := execute(t, "--questions")
	require.NoError(t, err)
	assert.Contains(t, out, "Q1")
	assert.Contains(t, out, "Q6")
	assert.Contains(t, out, "peso 25%")
}

func TestScorePreview_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no answers", nil},
		{"too few answers", []string{"--answers", "A,B,C"}},
		{"unknown option", []string{"--answers", "A,B,C,D,E,A"}},
		{"missing dictionary", []string{"--answers", "A,B,C,D,A,B", "--dictionary", "/nonexistent/dict.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestScorePreview_CustomDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"paragraphs":{"Q1":{"A":"texto customizado"}}}`), 0o600))

	out, err := execute(t, "--answers", "A,A,A,A,A,A", "--dictionary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "texto customizado")
}

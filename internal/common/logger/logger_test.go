package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "calculate-maturity-score"})

	log.Info("score calculated", map[string]interface{}{"totalScore": 49})
	log.WithError(errors.New("boom")).Error("job failed", map[string]interface{}{"cause": errors.New("db down")})

	entries := logs.All()
	assert.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "calculate-maturity-score", first["taskType"])
	assert.EqualValues(t, 49, first["totalScore"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, "db down", second["cause"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestConstructors(t *testing.T) {
	assert.NotNil(t, New("info", "console"))
	assert.NotNil(t, NewStructured("debug", "json", "stderr"))
	NewNoOpLogger().Info("ignored", nil)
	NewTestLogger(t).Debug("visible in -v", map[string]interface{}{"k": "v"})
}

// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: diagnostic
    user: ${TEST_DB_USER}
  redis:
    address: localhost:6379
workers:
  calculate-maturity-score:
    enabled: true
  create-lead-record:
    enabled: false
    timeout: 5000
`

func TestLoadFromFile_AppliesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_USER", "funnel")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "funnel", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "diagnostic-lead-funnel", cfg.Camunda.ProcessID)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "https://api.rd.services", cfg.Integrations.RDStation.BaseURL)
	assert.Equal(t, "Diagnóstico Maturidade em Dados", cfg.Integrations.RDStation.ConversionIdentifier)
	assert.Equal(t, "diagnostic-leads", cfg.Analytics.IndexName)
	assert.False(t, cfg.Database.Elasticsearch.Enabled())

	score := cfg.Workers["calculate-maturity-score"]
	assert.True(t, score.Enabled)
	assert.Equal(t, 5, score.MaxJobsActive)
	assert.Equal(t, 30000, score.Timeout)
	assert.Equal(t, 3, score.MaxRetries)

	lead := cfg.Workers["create-lead-record"]
	assert.False(t, lead.Enabled)
	assert.Equal(t, 5000, lead.Timeout)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "missing redis",
			body:    "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "database.redis.address",
		},
		{
			name: "ses enabled without sender",
			body: "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\n" +
				"integrations:\n  aws:\n    ses:\n      enabled: true\n",
			wantErr: "from_email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SES_FROM_EMAIL", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, Database: "leads", User: "app", Password: "p@ss", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/leads?sslmode=require", cfg.GetDSN())
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"create-lead-record": {Enabled: false, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "create-lead-record"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "unknown").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

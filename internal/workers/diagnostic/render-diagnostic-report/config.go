// internal/workers/diagnostic/render-diagnostic-report/config.go
package renderdiagnosticreport

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: time.Hour,
		Timeout:  10 * time.Second,
	}
}

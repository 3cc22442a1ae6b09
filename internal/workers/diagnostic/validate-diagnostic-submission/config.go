// internal/workers/diagnostic/validate-diagnostic-submission/config.go
package validatediagnosticsubmission

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

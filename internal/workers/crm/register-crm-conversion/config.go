// internal/workers/crm/register-crm-conversion/config.go
package registercrmconversion

import "time"

type Config struct {
	Enabled bool
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 15 * time.Second,
	}
}

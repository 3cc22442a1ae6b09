// internal/workers/diagnostic/calculate-maturity-score/config.go
package calculatematurityscore

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

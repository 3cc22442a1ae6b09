// internal/workers/analytics/index-lead-analytics/config.go
package indexleadanalytics

import "time"

type Config struct {
	IndexName string
	Timeout   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		IndexName: "diagnostic-leads",
		Timeout:   10 * time.Second,
	}
}

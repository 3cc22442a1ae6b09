// internal/workers/communication/send-diagnostic-summary/config.go
package senddiagnosticsummary

import (
	"time"

	"diagnostic-workers/internal/common/config"
)

type Config struct {
	EmailEnabled  bool
	SMSEnabled    bool
	FromEmail     string
	SMSSenderID   string
	ReportBaseURL string
	SentTTL       time.Duration
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   false,
		SentTTL:      24 * time.Hour,
		Timeout:      15 * time.Second,
	}
}

// ConfigFrom reads channel switches from the notification and AWS sections.
// A channel is on only when both sections enable it.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	c.EmailEnabled = cfg.Notifications.Email.Enabled && cfg.Integrations.AWS.SES.Enabled
	c.SMSEnabled = cfg.Notifications.SMS.Enabled && cfg.Integrations.AWS.SNS.Enabled
	c.FromEmail = cfg.Integrations.AWS.SES.FromEmail
	c.SMSSenderID = cfg.Integrations.AWS.SNS.DefaultSMSSenderID
	c.ReportBaseURL = cfg.Notifications.ReportBaseURL
	return c
}

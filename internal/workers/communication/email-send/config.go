package emailsend

import (
	"fmt"
	"time"

	"research-crew/internal/common/config"
)

// ConfigKey is the workers.* entry for this task type. Viper splits dotted
// keys, so it cannot be the task type itself.
const ConfigKey = "email-send"

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`

	Transport      string        `mapstructure:"transport"`
	SenderAddress  string        `mapstructure:"sender_address"`
	SenderPassword string        `mapstructure:"sender_password"`
	SMTPServer     string        `mapstructure:"smtp_server"`
	SMTPPort       string        `mapstructure:"smtp_port"`
	SendTimeout    time.Duration `mapstructure:"send_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		Transport:     config.MailTransportSMTP,
		SendTimeout:   20 * time.Second,
	}
}

// Validate checks worker settings only. Missing credentials are reported
// when a send is attempted.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("send_timeout must be positive")
	}
	switch c.Transport {
	case config.MailTransportSMTP, config.MailTransportSES:
	default:
		return fmt.Errorf("transport must be %q or %q", config.MailTransportSMTP, config.MailTransportSES)
	}
	return nil
}

// ConfigFromApp builds the mailer settings from the application config.
func ConfigFromApp(appConfig *config.Config) *Config {
	return createConfigFromAppConfig(appConfig, nil)
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if workerCfg, exists := appConfig.Workers[ConfigKey]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
		}
	}

	mail := appConfig.Mail
	if mail.Transport != "" {
		cfg.Transport = mail.Transport
	}
	cfg.SenderAddress = mail.SenderAddress
	cfg.SenderPassword = mail.SenderPassword
	cfg.SMTPServer = mail.SMTPServer
	cfg.SMTPPort = mail.SMTPPort
	if mail.Timeout > 0 {
		cfg.SendTimeout = time.Duration(mail.Timeout) * time.Millisecond
	}

	if cfg.Transport == config.MailTransportSES && appConfig.AWS.SES.FromEmail != "" {
		cfg.SenderAddress = appConfig.AWS.SES.FromEmail
	}
	return cfg
}

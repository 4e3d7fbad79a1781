package reportnotify

import (
	"fmt"
	"time"

	"research-crew/internal/common/config"
)

const ConfigKey = "report-notify"

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	TopicARN      string
	AWSRegion     string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		AWSRegion:     "us-east-1",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.Enabled && c.TopicARN == "" {
		return fmt.Errorf("topic_arn is required")
	}
	return nil
}

// ConfigFromApp reads the aws.sns section and the worker entry.
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

	cfg.Enabled = appConfig.AWS.SNS.Enabled
	cfg.TopicARN = appConfig.AWS.SNS.TopicARN
	if appConfig.AWS.Region != "" {
		cfg.AWSRegion = appConfig.AWS.Region
	}

	if workerCfg, exists := appConfig.Workers[ConfigKey]; exists {
		cfg.Enabled = cfg.Enabled && workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
		}
	}
	return cfg
}

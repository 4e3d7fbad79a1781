// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (and config.<APP_ENVIRONMENT>.yaml when present),
// expands ${VAR} placeholders and applies environment overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found from the working directory up to the module root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values still empty after expansion from the
// well-known environment variables.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Mail.SenderAddress, "EMAIL_SENDER_ADDRESS")
	setIfEmpty(&cfg.Mail.SenderPassword, "EMAIL_SENDER_PASSWORD")
	setIfEmpty(&cfg.Mail.SMTPServer, "SMTP_SERVER")
	setIfEmpty(&cfg.Mail.SMTPPort, "SMTP_PORT")

	setIfEmpty(&cfg.Tools.WebSearch.APIKey, "WEB_SEARCH_API_KEY")
	setIfEmpty(&cfg.Tools.WebSearch.EngineID, "WEB_SEARCH_ENGINE_ID")

	setIfEmpty(&cfg.Archive.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Archive.Postgres.Password, "DB_PASSWORD")

	setIfEmpty(&cfg.AWS.Region, "AWS_REGION")
	setIfEmpty(&cfg.AWS.SNS.TopicARN, "REPORT_TOPIC_ARN")

	setIfEmpty(&cfg.Camunda.BrokerAddress, "ZEEBE_ADDRESS")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "research-crew"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Pipeline.ErrorPolicy == "" {
		cfg.Pipeline.ErrorPolicy = ErrorPolicyEmbed
	}
	if cfg.Pipeline.ReportsDir == "" {
		cfg.Pipeline.ReportsDir = "reports"
	}

	if cfg.Tools.WebSearch.Timeout == 0 {
		cfg.Tools.WebSearch.Timeout = 10000
	}
	if cfg.Tools.WebSearch.MaxResults == 0 {
		cfg.Tools.WebSearch.MaxResults = 5
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}

	if cfg.Mail.Transport == "" {
		cfg.Mail.Transport = MailTransportSMTP
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 20000
	}

	if cfg.Archive.Postgres.Port == 0 {
		cfg.Archive.Postgres.Port = 5432
	}
	if cfg.Archive.Postgres.MaxConnections == 0 {
		cfg.Archive.Postgres.MaxConnections = 10
	}
	if cfg.Archive.Postgres.MaxIdle == 0 {
		cfg.Archive.Postgres.MaxIdle = 2
	}
	if cfg.Archive.Postgres.SSLMode == "" {
		cfg.Archive.Postgres.SSLMode = "disable"
	}

	if cfg.Index.Name == "" {
		cfg.Index.Name = "research-reports"
	}
	if cfg.Index.Elasticsearch.URL == "" && len(cfg.Index.Elasticsearch.Addresses) > 0 {
		cfg.Index.Elasticsearch.URL = cfg.Index.Elasticsearch.Addresses[0]
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = ":9090"
	}
}

// validateConfig validates critical configuration fields. Optional sinks are
// only checked when enabled.
func validateConfig(cfg *Config) error {
	switch cfg.Pipeline.ErrorPolicy {
	case ErrorPolicyEmbed, ErrorPolicyAbort:
	default:
		return fmt.Errorf("pipeline.error_policy must be %q or %q, got %q",
			ErrorPolicyEmbed, ErrorPolicyAbort, cfg.Pipeline.ErrorPolicy)
	}

	switch cfg.Mail.Transport {
	case MailTransportSMTP, MailTransportSES:
	default:
		return fmt.Errorf("mail.transport must be %q or %q, got %q",
			MailTransportSMTP, MailTransportSES, cfg.Mail.Transport)
	}

	if cfg.Cache.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when cache is enabled")
	}

	if cfg.Archive.Enabled {
		if cfg.Archive.Postgres.Host == "" {
			return fmt.Errorf("archive.postgres.host is required")
		}
		if cfg.Archive.Postgres.Database == "" {
			return fmt.Errorf("archive.postgres.database is required")
		}
		if cfg.Archive.Postgres.User == "" {
			return fmt.Errorf("archive.postgres.user is required")
		}
	}

	if cfg.Index.Enabled && cfg.Index.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("index.elasticsearch.addresses or url is required")
	}

	if cfg.AWS.SNS.Enabled && cfg.AWS.SNS.TopicARN == "" {
		return fmt.Errorf("aws.sns.topic_arn is required when sns is enabled")
	}

	if cfg.Mail.Transport == MailTransportSES && cfg.AWS.Region == "" {
		return fmt.Errorf("aws.region is required for the ses mail transport")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}

// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Pipeline PipelineConfig          `mapstructure:"pipeline"`
	Tools    ToolsConfig             `mapstructure:"tools"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Mail     MailConfig              `mapstructure:"mail"`
	AWS      AWSConfig               `mapstructure:"aws"`
	Archive  ArchiveConfig           `mapstructure:"archive"`
	Index    IndexConfig             `mapstructure:"index"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Error policies for a failing stage tool.
const (
	ErrorPolicyEmbed = "embed"
	ErrorPolicyAbort = "abort"
)

// PipelineConfig controls the sequential executor and report output.
type PipelineConfig struct {
	ErrorPolicy string `mapstructure:"error_policy"`
	ReportsDir  string `mapstructure:"reports_dir"`
}

type ToolsConfig struct {
	WebSearch WebSearchConfig `mapstructure:"web_search"`
}

type WebSearchConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	EngineID   string `mapstructure:"engine_id"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxResults int    `mapstructure:"max_results"`
}

// CacheConfig configures the Redis cache in front of web search.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // seconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Mail transports.
const (
	MailTransportSMTP = "smtp"
	MailTransportSES  = "ses"
)

// MailConfig holds the report mailer settings. SMTPPort stays a string so a
// non-numeric value can be reported at send time instead of failing startup.
type MailConfig struct {
	Transport      string `mapstructure:"transport"`
	SenderAddress  string `mapstructure:"sender_address"`
	SenderPassword string `mapstructure:"sender_password"`
	SMTPServer     string `mapstructure:"smtp_server"`
	SMTPPort       string `mapstructure:"smtp_port"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	SES    struct {
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

// ArchiveConfig configures the Postgres report archive.
type ArchiveConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// IndexConfig configures the Elasticsearch report index.
type IndexConfig struct {
	Enabled       bool                `mapstructure:"enabled"`
	Name          string              `mapstructure:"name"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type MetricsConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

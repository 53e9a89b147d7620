package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	HTTP         HTTPConfig              `mapstructure:"http"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	ROI          ROIConfig               `mapstructure:"roi"`
	LeadCapture  LeadCaptureConfig       `mapstructure:"lead_capture"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	RateLimit       struct {
		RequestsPerMinute int `mapstructure:"requests_per_minute"`
		Burst             int `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	LeadProcessID  string `mapstructure:"lead_process_id"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
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

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ROIConfig controls the estimate cache.
type ROIConfig struct {
	CacheTTL    int    `mapstructure:"cache_ttl"` // seconds
	CachePrefix string `mapstructure:"cache_prefix"`
}

// LeadCaptureConfig tunes the form-to-scheduler handoff.
type LeadCaptureConfig struct {
	TransitionDelay int      `mapstructure:"transition_delay"` // milliseconds
	ResizeThreshold float64  `mapstructure:"resize_threshold"` // pixels
	ResizeArmDelay  int      `mapstructure:"resize_arm_delay"` // milliseconds
	MessageTokens   []string `mapstructure:"message_tokens"`
	HashSentinels   []string `mapstructure:"hash_sentinels"`
	SubmittedParam  string   `mapstructure:"submitted_param"`
	SessionTTL      int      `mapstructure:"session_ttl"`    // seconds
	SweepInterval   int      `mapstructure:"sweep_interval"` // seconds
	Scheduler       struct {
		URL       string `mapstructure:"url"`
		Container string `mapstructure:"container"`
	} `mapstructure:"scheduler"`
	Retry struct {
		InitialDelay int `mapstructure:"initial_delay"` // milliseconds
		Interval     int `mapstructure:"interval"`      // milliseconds
		MaxElapsed   int `mapstructure:"max_elapsed"`   // milliseconds
		MaxAttempts  int `mapstructure:"max_attempts"`
	} `mapstructure:"retry"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// IntegrationConfig holds settings for CRM, email and event publishing.
type IntegrationConfig struct {
	Zoho struct {
		Enabled   bool   `mapstructure:"enabled"`
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		AuthToken string `mapstructure:"oauth_token"`
		Timeout   int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"zoho"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool     `mapstructure:"enabled"`
			FromEmail string   `mapstructure:"from_email"`
			SalesTo   []string `mapstructure:"sales_to"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

package leadregister

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FromEmail     string        `mapstructure:"from_email"`
	SalesTo       []string      `mapstructure:"sales_to"`
	TopicARN      string        `mapstructure:"topic_arn"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if len(c.SalesTo) > 0 && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when sales_to is set")
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: leadflow
  environment: test
database:
  redis:
    enabled: true
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 800, cfg.LeadCapture.TransitionDelay)
	assert.Equal(t, 120.0, cfg.LeadCapture.ResizeThreshold)
	assert.Equal(t, []string{"#calendar", "#submitted"}, cfg.LeadCapture.HashSentinels)
	assert.Equal(t, "https://calendly.com/csanz06?hide_gdpr_banner=1", cfg.LeadCapture.Scheduler.URL)
	assert.Equal(t, 3600, cfg.ROI.CacheTTL)
	assert.Equal(t, "strategy-call-lead", cfg.Camunda.LeadProcessID)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("LEADFLOW_TEST_TOPIC", "arn:aws:sns:us-east-1:123456789012:leads")
	path := writeConfig(t, `
integrations:
  aws:
    sns:
      enabled: true
      topic_arn: ${LEADFLOW_TEST_TOPIC}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:leads", cfg.Integrations.AWS.SNS.TopicARN)
}

func TestLoadFromFile_ValidatesEnabledSections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"camunda", "camunda:\n  enabled: true\n", "camunda.broker_address"},
		{"postgres", "database:\n  postgres:\n    enabled: true\n", "database.postgres.host"},
		{"redis", "database:\n  redis:\n    enabled: true\n", "database.redis.address"},
		{"ses", "integrations:\n  aws:\n    ses:\n      enabled: true\n", "from_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWorkerConfigFallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"crm-lead-register": {Enabled: false},
	}}
	applyDefaults(cfg)

	assert.False(t, IsWorkerEnabled(cfg, "crm-lead-register"))
	assert.True(t, IsWorkerEnabled(cfg, "roi-estimate-impact"))
	assert.Equal(t, 3, GetWorkerConfig(cfg, "crm-lead-register").MaxRetries)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "unknown").MaxJobsActive)
	assert.Equal(t, 800*time.Millisecond, GetDuration(800))
}

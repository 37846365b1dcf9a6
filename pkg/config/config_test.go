package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

feedback:
  csv_path: /data/feedback.csv
  column: comment
  feeds:
    - https://example.com/reviews.rss

models:
  backend: hf
  cache_size: 128
  hf:
    token: hf-token
    timeout: 10s

report:
  output_dir: /tmp/reports
  sort_by_priority: true

schedule:
  cron: "0 9 * * 1"
  format: json
  email_to: team@example.com

quotes:
  - "first quote"
  - "second quote"
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "/data/feedback.csv", cfg.Feedback.CSVPath)
		assert.Equal(t, "comment", cfg.Feedback.Column)
		assert.Equal(t, []string{"https://example.com/reviews.rss"}, cfg.Feedback.Feeds)
		assert.Equal(t, 128, cfg.Models.CacheSize)
		assert.Equal(t, "hf-token", cfg.Models.HF.Token)
		assert.Equal(t, 10*time.Second, cfg.Models.HF.Timeout)
		assert.Equal(t, "/tmp/reports", cfg.Report.OutputDir)
		assert.True(t, cfg.Report.SortByPriority)
		assert.Equal(t, "0 9 * * 1", cfg.Schedule.Cron)
		assert.Equal(t, "json", cfg.Schedule.Format)
		assert.Equal(t, []string{"first quote", "second quote"}, cfg.Quotes)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "server:\n  listen: \":8000\"\n"))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// check server defaults
		assert.Equal(t, ":8000", cfg.Server.Listen)
		assert.Equal(t, 5*time.Minute, cfg.Server.Timeout)

		// check models defaults
		assert.Equal(t, "hf", cfg.Models.Backend)
		assert.Equal(t, 0, cfg.Models.CacheSize)
		assert.Equal(t, 15, cfg.Models.Summary.MinLength)
		assert.Equal(t, 100, cfg.Models.Summary.MaxLength)
		assert.Equal(t, "facebook/bart-large-mnli", cfg.Models.HF.ClassifierModel)
		assert.Equal(t, "facebook/bart-large-cnn", cfg.Models.HF.SummarizerModel)
		assert.Equal(t, 3, cfg.Models.HF.Retries)

		// check feedback, report and delivery defaults
		assert.Equal(t, "data/feedback.csv", cfg.Feedback.CSVPath)
		assert.Equal(t, "feedback", cfg.Feedback.Column)
		assert.Empty(t, cfg.Feedback.Feeds)
		assert.Equal(t, 30*time.Second, cfg.Feedback.FeedTimeout)
		assert.Equal(t, ".", cfg.Report.OutputDir)
		assert.False(t, cfg.Report.SortByPriority)
		assert.Equal(t, "smtp.gmail.com", cfg.Delivery.SMTP.Host)
		assert.Equal(t, 587, cfg.Delivery.SMTP.Port)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.InDelta(t, 0.3, cfg.LLM.Temperature, 0.001)
		assert.Equal(t, "md", cfg.Schedule.Format)
		assert.Empty(t, cfg.Schedule.Cron)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_SLACK_WEBHOOK", "https://hooks.slack.com/services/T/B/X")
		cfg, err := Load(writeConfig(t, "delivery:\n  slack:\n    webhook_url: ${TEST_SLACK_WEBHOOK}\n"))
		require.NoError(t, err)
		assert.Equal(t, "https://hooks.slack.com/services/T/B/X", cfg.Delivery.Slack.WebhookURL)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "models:\n  backend: magic\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "validate config")
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		setDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "short server timeout", modify: func(c *Config) { c.Server.Timeout = time.Millisecond },
			errMsg: "server timeout must be at least 1 second"},
		{name: "unknown backend", modify: func(c *Config) { c.Models.Backend = "local" },
			errMsg: "models.backend must be hf or llm"},
		{name: "llm backend without model", modify: func(c *Config) { c.Models.Backend = "llm" },
			errMsg: "llm.model is required"},
		{name: "llm backend with model", modify: func(c *Config) { c.Models.Backend = "llm"; c.LLM.Model = "gpt-4o-mini" }},
		{name: "negative cache", modify: func(c *Config) { c.Models.CacheSize = -1 },
			errMsg: "cache_size must be non-negative"},
		{name: "summary bounds", modify: func(c *Config) { c.Models.Summary.MinLength = 200 },
			errMsg: "min_length must not exceed max_length"},
		{name: "unknown provider", modify: func(c *Config) { c.LLM.Provider = "mistral" },
			errMsg: "llm.provider must be openai, anthropic or gemini"},
		{name: "temperature out of range", modify: func(c *Config) { c.LLM.Temperature = 3 },
			errMsg: "llm.temperature must be between 0 and 2"},
		{name: "archive without bucket", modify: func(c *Config) { c.Report.Archive.Enabled = true; c.Report.Archive.Endpoint = "s3:9000" },
			errMsg: "endpoint and bucket are required"},
		{name: "schedule bad format", modify: func(c *Config) { c.Schedule.Cron = "0 9 * * 1"; c.Schedule.Format = "pdf" },
			errMsg: "schedule.format must be json or md"},
		{name: "schedule slack without webhook", modify: func(c *Config) { c.Schedule.Cron = "0 9 * * 1"; c.Schedule.Slack = true },
			errMsg: "webhook_url is required"},
		{name: "schedule without destination", modify: func(c *Config) { c.Schedule.Cron = "0 9 * * 1" },
			errMsg: "schedule requires slack or email_to"},
		{name: "schedule with email", modify: func(c *Config) { c.Schedule.Cron = "0 9 * * 1"; c.Schedule.EmailTo = "a@example.com" }},
		{name: "schedule bad cron", modify: func(c *Config) { c.Schedule.Cron = "every monday"; c.Schedule.EmailTo = "a@example.com" },
			errMsg: "is not a 5-field cron expression"},
		{name: "schedule six field cron", modify: func(c *Config) { c.Schedule.Cron = "0 0 9 * * 1"; c.Schedule.EmailTo = "a@example.com" },
			errMsg: "is not a 5-field cron expression"},
		{name: "schedule descriptor", modify: func(c *Config) { c.Schedule.Cron = "@weekly"; c.Schedule.EmailTo = "a@example.com" },
			errMsg: "is not a 5-field cron expression"},
		{name: "schedule bad timezone", modify: func(c *Config) {
			c.Schedule.Cron = "0 9 * * 1"
			c.Schedule.EmailTo = "a@example.com"
			c.Schedule.Timezone = "Mars/Olympus"
		}, errMsg: "schedule.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Getters(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Listen: ":9090", Timeout: 45 * time.Second},
		LLM:      LLMConfig{Provider: "anthropic", Model: "claude-3-5-haiku-latest"},
		Delivery: DeliveryConfig{SMTP: SMTPConfig{From: "bot@example.com"}},
	}

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)
	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, "bot@example.com", cfg.GetDeliveryConfig().SMTP.From)
	assert.False(t, LLMConfig{}.Enabled())
}

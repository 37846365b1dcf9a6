package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Feedback FeedbackConfig `yaml:"feedback" json:"feedback" jsonschema:"description=Feedback data source"`
	Models   ModelsConfig   `yaml:"models" json:"models" jsonschema:"description=Classification and summarization models"`
	LLM      LLMConfig      `yaml:"llm" json:"llm" jsonschema:"description=Hosted LLM configuration for insights and llm backend"`
	Report   ReportConfig   `yaml:"report" json:"report" jsonschema:"description=Report generation settings"`
	Delivery DeliveryConfig `yaml:"delivery" json:"delivery" jsonschema:"description=Report delivery settings"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduled weekly report"`
	Quotes   []string       `yaml:"quotes" json:"quotes" jsonschema:"description=Rotating quotes shown by the UI"`
}

// ServerConfig holds http server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8000,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5m,description=HTTP server timeout (covers report generation)"`
}

// DatabaseConfig holds history database settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:feedtriage.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// FeedbackConfig defines csv file with customer feedback
type FeedbackConfig struct {
	CSVPath     string        `yaml:"csv_path" json:"csv_path" jsonschema:"default=data/feedback.csv,description=Path to feedback csv file"`
	Column      string        `yaml:"column" json:"column" jsonschema:"default=feedback,description=Name of the feedback column"`
	Feeds       []string      `yaml:"feeds" json:"feeds" jsonschema:"description=RSS/Atom feeds with customer reviews (loaded after csv rows)"`
	FeedTimeout time.Duration `yaml:"feed_timeout" json:"feed_timeout" jsonschema:"default=30s,description=Timeout of a single feed request"`
}

// ModelsConfig selects and configures label ranking and summarization backend
type ModelsConfig struct {
	Backend   string        `yaml:"backend" json:"backend" jsonschema:"default=hf,enum=hf,enum=llm,description=Backend for zero-shot classification and summarization"`
	CacheSize int           `yaml:"cache_size" json:"cache_size" jsonschema:"default=0,minimum=0,description=Size of classification cache (0 disables it)"`
	Summary   SummaryConfig `yaml:"summary" json:"summary" jsonschema:"description=Summary length bounds"`
	HF        HFConfig      `yaml:"hf" json:"hf" jsonschema:"description=Hugging Face inference API settings"`
}

// SummaryConfig bounds summary length, in tokens
type SummaryConfig struct {
	MinLength int `yaml:"min_length" json:"min_length" jsonschema:"default=15,minimum=1,description=Minimum summary length in tokens"`
	MaxLength int `yaml:"max_length" json:"max_length" jsonschema:"default=100,minimum=1,description=Maximum summary length in tokens"`
}

// HFConfig holds Hugging Face inference API settings
type HFConfig struct {
	Endpoint        string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api-inference.huggingface.co/models,description=Inference API base URL"`
	Token           string        `yaml:"token" json:"token" jsonschema:"description=API token (can use environment variable)"`
	ClassifierModel string        `yaml:"classifier_model" json:"classifier_model" jsonschema:"default=facebook/bart-large-mnli,description=Zero-shot classification model"`
	SummarizerModel string        `yaml:"summarizer_model" json:"summarizer_model" jsonschema:"default=facebook/bart-large-cnn,description=Summarization model"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	Retries         int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Maximum attempts per request"`
	RetryDelay      time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Initial delay between attempts"`
}

// LLMConfig holds hosted LLM configuration
type LLMConfig struct {
	Provider     string        `yaml:"provider" json:"provider" jsonschema:"default=openai,enum=openai,enum=anthropic,enum=gemini,description=LLM provider"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=API endpoint override (OpenAI-compatible for openai provider)"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini or claude-3-5-haiku-latest)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout per attempt"`
	Retries      int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Maximum attempts per request"`
	RetryDelay   time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Initial delay between attempts"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for insights (optional)"`
}

// Enabled returns true if LLM is configured
func (c LLMConfig) Enabled() bool {
	return c.Model != ""
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	OutputDir      string        `yaml:"output_dir" json:"output_dir" jsonschema:"default=.,description=Directory for generated reports"`
	SortByPriority bool          `yaml:"sort_by_priority" json:"sort_by_priority" jsonschema:"default=false,description=Order report items by descending priority score"`
	Archive        ArchiveConfig `yaml:"archive" json:"archive" jsonschema:"description=S3-compatible archive for generated reports"`
}

// ArchiveConfig defines S3-compatible storage for report copies
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable report archive"`
	Endpoint  string `yaml:"endpoint" json:"endpoint" jsonschema:"description=S3 endpoint host:port"`
	Region    string `yaml:"region" json:"region" jsonschema:"default=us-east-1,description=S3 region"`
	AccessKey string `yaml:"access_key" json:"access_key" jsonschema:"description=S3 access key"`
	SecretKey string `yaml:"secret_key" json:"secret_key" jsonschema:"description=S3 secret key"`
	Bucket    string `yaml:"bucket" json:"bucket" jsonschema:"description=Bucket name"`
	Prefix    string `yaml:"prefix" json:"prefix" jsonschema:"default=reports,description=Object key prefix"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl" jsonschema:"default=true,description=Use TLS"`
}

// DeliveryConfig holds email and slack delivery settings
type DeliveryConfig struct {
	SMTP  SMTPConfig  `yaml:"smtp" json:"smtp" jsonschema:"description=SMTP relay"`
	Slack SlackConfig `yaml:"slack" json:"slack" jsonschema:"description=Slack webhook"`
}

// SMTPConfig defines smtp relay and default credentials
type SMTPConfig struct {
	Host     string        `yaml:"host" json:"host" jsonschema:"default=smtp.gmail.com,description=SMTP host"`
	Port     int           `yaml:"port" json:"port" jsonschema:"default=587,description=SMTP port"`
	From     string        `yaml:"from" json:"from" jsonschema:"description=Default sender address"`
	Password string        `yaml:"password" json:"password" jsonschema:"description=Default sender password (can use environment variable)"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=SMTP timeout"`
}

// SlackConfig defines default slack webhook
type SlackConfig struct {
	WebhookURL string        `yaml:"webhook_url" json:"webhook_url" jsonschema:"description=Default incoming webhook URL"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Webhook request timeout"`
}

// ScheduleConfig defines periodic report generation and delivery
type ScheduleConfig struct {
	Cron     string `yaml:"cron" json:"cron" jsonschema:"description=5-field cron expression like 0 9 * * 1 (empty disables schedule)"`
	Timezone string `yaml:"timezone" json:"timezone" jsonschema:"default=Local,description=Timezone of cron expression"`
	Format   string `yaml:"format" json:"format" jsonschema:"default=md,enum=json,enum=md,description=Report format"`
	Slack    bool   `yaml:"slack" json:"slack" jsonschema:"default=false,description=Post report to default slack webhook"`
	EmailTo  string `yaml:"email_to" json:"email_to" jsonschema:"description=Send report to this email address"`
	Subject  string `yaml:"subject" json:"subject" jsonschema:"default=Weekly Feedback Report,description=Email subject"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// setDefaults fills all unset values
func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8000"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 5 * time.Minute
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:feedtriage.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// feedback source
	if cfg.Feedback.CSVPath == "" {
		cfg.Feedback.CSVPath = "data/feedback.csv"
	}
	if cfg.Feedback.Column == "" {
		cfg.Feedback.Column = "feedback"
	}
	if cfg.Feedback.FeedTimeout == 0 {
		cfg.Feedback.FeedTimeout = 30 * time.Second
	}

	// models
	if cfg.Models.Backend == "" {
		cfg.Models.Backend = "hf"
	}
	if cfg.Models.Summary.MinLength == 0 {
		cfg.Models.Summary.MinLength = 15
	}
	if cfg.Models.Summary.MaxLength == 0 {
		cfg.Models.Summary.MaxLength = 100
	}
	if cfg.Models.HF.Endpoint == "" {
		cfg.Models.HF.Endpoint = "https://api-inference.huggingface.co/models"
	}
	if cfg.Models.HF.ClassifierModel == "" {
		cfg.Models.HF.ClassifierModel = "facebook/bart-large-mnli"
	}
	if cfg.Models.HF.SummarizerModel == "" {
		cfg.Models.HF.SummarizerModel = "facebook/bart-large-cnn"
	}
	if cfg.Models.HF.Timeout == 0 {
		cfg.Models.HF.Timeout = 60 * time.Second
	}
	if cfg.Models.HF.Retries == 0 {
		cfg.Models.HF.Retries = 3
	}
	if cfg.Models.HF.RetryDelay == 0 {
		cfg.Models.HF.RetryDelay = time.Second
	}

	// llm
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 500
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.Retries == 0 {
		cfg.LLM.Retries = 3
	}
	if cfg.LLM.RetryDelay == 0 {
		cfg.LLM.RetryDelay = time.Second
	}

	// report
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "."
	}
	if cfg.Report.Archive.Region == "" {
		cfg.Report.Archive.Region = "us-east-1"
	}
	if cfg.Report.Archive.Prefix == "" {
		cfg.Report.Archive.Prefix = "reports"
	}

	// delivery
	if cfg.Delivery.SMTP.Host == "" {
		cfg.Delivery.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.Delivery.SMTP.Port == 0 {
		cfg.Delivery.SMTP.Port = 587
	}
	if cfg.Delivery.SMTP.Timeout == 0 {
		cfg.Delivery.SMTP.Timeout = 30 * time.Second
	}
	if cfg.Delivery.Slack.Timeout == 0 {
		cfg.Delivery.Slack.Timeout = 30 * time.Second
	}

	// schedule
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "Local"
	}
	if cfg.Schedule.Format == "" {
		cfg.Schedule.Format = "md"
	}
	if cfg.Schedule.Subject == "" {
		cfg.Schedule.Subject = "Weekly Feedback Report"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	// validate models config
	switch cfg.Models.Backend {
	case "hf":
	case "llm":
		if !cfg.LLM.Enabled() {
			return fmt.Errorf("llm.model is required for llm models backend")
		}
	default:
		return fmt.Errorf("models.backend must be hf or llm, got %q", cfg.Models.Backend)
	}
	if cfg.Models.CacheSize < 0 {
		return fmt.Errorf("models.cache_size must be non-negative")
	}
	if cfg.Models.Summary.MinLength > cfg.Models.Summary.MaxLength {
		return fmt.Errorf("models.summary.min_length must not exceed max_length")
	}

	// validate LLM config
	switch cfg.LLM.Provider {
	case "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("llm.provider must be openai, anthropic or gemini, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	// validate report config
	if a := cfg.Report.Archive; a.Enabled && (a.Endpoint == "" || a.Bucket == "") {
		return fmt.Errorf("report.archive endpoint and bucket are required when archive is enabled")
	}

	// validate schedule config
	if cfg.Schedule.Cron != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(strings.TrimSpace(cfg.Schedule.Cron)); err != nil {
			return fmt.Errorf("schedule.cron %q is not a 5-field cron expression: %w", cfg.Schedule.Cron, err)
		}
		if tz := cfg.Schedule.Timezone; tz != "" && tz != "Local" {
			if _, err := time.LoadLocation(tz); err != nil {
				return fmt.Errorf("schedule.timezone %q: %w", tz, err)
			}
		}
		if f := strings.ToLower(cfg.Schedule.Format); f != "json" && f != "md" {
			return fmt.Errorf("schedule.format must be json or md, got %q", cfg.Schedule.Format)
		}
		if cfg.Schedule.Slack && cfg.Delivery.Slack.WebhookURL == "" {
			return fmt.Errorf("delivery.slack.webhook_url is required for scheduled slack delivery")
		}
		if !cfg.Schedule.Slack && cfg.Schedule.EmailTo == "" {
			return fmt.Errorf("schedule requires slack or email_to destination")
		}
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetDeliveryConfig returns default delivery settings
func (c *Config) GetDeliveryConfig() DeliveryConfig {
	return c.Delivery
}

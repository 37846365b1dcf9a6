package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Server: ServerConfig{Listen: ":8000", Timeout: 30 * time.Second}}
		setDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  func() *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: valid,
		},
		{
			name: "missing server listen",
			config: func() *Config {
				cfg := valid()
				cfg.Server.Listen = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "server.listen is required",
		},
		{
			name: "missing server timeout",
			config: func() *Config {
				cfg := valid()
				cfg.Server.Timeout = 0
				return cfg
			},
			wantErr: true,
			errMsg:  "server.timeout is required",
		},
		{
			name: "missing csv path",
			config: func() *Config {
				cfg := valid()
				cfg.Feedback.CSVPath = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "feedback.csv_path is required",
		},
		{
			name: "hf backend without classifier model",
			config: func() *Config {
				cfg := valid()
				cfg.Models.HF.ClassifierModel = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "models.hf.classifier_model is required",
		},
		{
			name: "llm backend ignores hf settings",
			config: func() *Config {
				cfg := valid()
				cfg.Models.Backend = "llm"
				cfg.Models.HF.Endpoint = ""
				return cfg
			},
		},
		{
			name: "archive without bucket",
			config: func() *Config {
				cfg := valid()
				cfg.Report.Archive.Enabled = true
				return cfg
			},
			wantErr: true,
			errMsg:  "report.archive.bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyAgainstEmbeddedSchema(tt.config())
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEmbeddedSchema(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &schema))

	props := schemaProperties(schema)
	require.NotNil(t, props)
	for _, key := range []string{"server", "database", "feedback", "models", "llm", "report", "delivery", "schedule", "quotes"} {
		assert.Contains(t, props, key)
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "models")
	assert.Contains(t, string(data), "sort_by_priority")
}

package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON and make sure every top-level key is known to the schema
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if props := schemaProperties(schema); props != nil {
		for key := range configMap {
			if _, ok := props[key]; !ok {
				return fmt.Errorf("validation failed: unknown config section %q", key)
			}
		}
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// schemaProperties returns properties of the Config definition, nil if not found
func schemaProperties(schema map[string]any) map[string]any {
	defs, ok := schema["$defs"].(map[string]any)
	if !ok {
		return nil
	}
	cfgDef, ok := defs["Config"].(map[string]any)
	if !ok {
		return nil
	}
	props, _ := cfgDef["properties"].(map[string]any)
	return props
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	// check server config
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}

	// check feedback source
	if cfg.Feedback.CSVPath == "" {
		return fmt.Errorf("feedback.csv_path is required")
	}

	// check hf settings when used
	if cfg.Models.Backend == "hf" {
		if cfg.Models.HF.Endpoint == "" {
			return fmt.Errorf("models.hf.endpoint is required for hf backend")
		}
		if cfg.Models.HF.ClassifierModel == "" {
			return fmt.Errorf("models.hf.classifier_model is required for hf backend")
		}
	}

	// check archive if enabled
	if cfg.Report.Archive.Enabled && cfg.Report.Archive.Bucket == "" {
		return fmt.Errorf("report.archive.bucket is required when archive is enabled")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "AEGIS_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the validated default configuration.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults. Unknown fields are
// rejected so that typos do not silently fall back to defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty document is a valid, all-defaults configuration.
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention AEGIS_SECTION_FIELD (e.g., AEGIS_GUARDRAIL_INPUT_MAX_TEXT_LENGTH).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Guardrail overrides
	if i, ok := envInt("GUARDRAIL_INPUT_MAX_TEXT_LENGTH"); ok {
		cfg.Guardrail.Input.MaxTextLength = i
	}
	if i, ok := envInt("GUARDRAIL_INPUT_MAX_IMAGE_URL_LENGTH"); ok {
		cfg.Guardrail.Input.MaxImageURLLength = i
	}
	if i, ok := envInt("GUARDRAIL_OUTPUT_MAX_DEPTH"); ok {
		cfg.Guardrail.Output.MaxDepth = i
	}
	if val := env("GUARDRAIL_OUTPUT_ALLOWLIST_FIELDS"); val != "" {
		cfg.Guardrail.Output.AllowlistFields = splitList(val)
	}

	// Prompt overrides
	if val := env("PROMPTS_CATALOG_PATH"); val != "" {
		cfg.Prompts.CatalogPath = val
	}

	// Telemetry overrides
	if val := env("TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := env("TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if b, ok := envBool("TELEMETRY_LOGGING_REDACT_PII"); ok {
		cfg.Telemetry.Logging.RedactPII = b
	}
	if b, ok := envBool("TELEMETRY_METRICS_ENABLED"); ok {
		cfg.Telemetry.Metrics.Enabled = b
	}
	if val := env("TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
	if b, ok := envBool("TELEMETRY_TRACING_ENABLED"); ok {
		cfg.Telemetry.Tracing.Enabled = b
	}
	if val := env("TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := env("TELEMETRY_TRACING_SAMPLER"); val != "" {
		cfg.Telemetry.Tracing.Sampler = val
	}
	if val := env("TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
	if b, ok := envBool("TELEMETRY_TRACING_OTLP_INSECURE"); ok {
		cfg.Telemetry.Tracing.OTLP.Insecure = b
	}
	if val := env("TELEMETRY_TRACING_OTLP_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Telemetry.Tracing.OTLP.Timeout = d
		}
	}
}

func env(name string) string {
	return os.Getenv(envPrefix + name)
}

func envInt(name string) (int, bool) {
	val := env(name)
	if val == "" {
		return 0, false
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return i, true
}

func envBool(name string) (bool, bool) {
	val := env(name)
	if val == "" {
		return false, false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return b, true
}

// splitList splits a comma-separated override into trimmed, non-empty items.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config provides configuration management for aegis.
//
// Configuration is loaded from YAML with environment variable overrides,
// validated up front, and exposed either as an explicit *Config or through a
// process-wide singleton initialized once at startup.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("aegis.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("aegis.yaml")
//
// Loading starts from Default(), so omitted fields keep their defaults
// (including booleans that default to true such as telemetry.metrics.enabled).
// Unknown YAML fields are rejected.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention AEGIS_SECTION_FIELD:
//
//   - AEGIS_GUARDRAIL_INPUT_MAX_TEXT_LENGTH overrides guardrail.input.max_text_length
//   - AEGIS_GUARDRAIL_OUTPUT_ALLOWLIST_FIELDS overrides guardrail.output.allowlist_fields (comma separated)
//   - AEGIS_PROMPTS_CATALOG_PATH overrides prompts.catalog_path
//   - AEGIS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Example Configuration
//
//	guardrail:
//	  input:
//	    max_text_length: 2000
//	    max_image_url_length: 2048
//	    extra_patterns:
//	      - id: wallet-drain
//	        pattern: "send\\s+all\\s+funds"
//	  output:
//	    max_depth: 64
//	    allowlist_fields: ["support"]
//
//	prompts:
//	  catalog_path: ./prompts.yaml
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//
// # Validation
//
// Validation collects every problem into a ValidationError:
//
//	configuration validation failed with 2 errors:
//	  - guardrail.input.max_text_length: must be positive
//	  - telemetry.logging.level: invalid log level "loud" (must be debug, info, warn, or error)
package config

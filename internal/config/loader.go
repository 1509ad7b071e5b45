package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"
)

//go:embed schema/napcast.v1.schema.json
var embeddedSchema string

const embeddedSchemaURL = "napcast.v1.schema.json"

// LoadAndValidate loads and validates the configuration.
// An empty schemaPath validates against the schema compiled into the binary.
// Environment variables override file values and defaults fill the rest.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("config: failed to apply environment overrides: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadDefaults returns the default configuration with environment overrides
// applied. It is used when no config file exists.
func LoadDefaults() (*Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("config: failed to apply environment overrides: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	if schemaPath == "" {
		return jsonschema.CompileString(embeddedSchemaURL, embeddedSchema)
	}
	return jsonschema.Compile(schemaPath)
}

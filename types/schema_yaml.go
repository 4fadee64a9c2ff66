package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseSchema decodes a YAML schema document and validates it.
func ParseSchema(data []byte) (Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return Schema{}, fmt.Errorf("invalid schema: %w", err)
	}
	return schema, nil
}

// LoadSchemaFile reads and parses a YAML schema file.
func LoadSchemaFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseSchema(data)
}

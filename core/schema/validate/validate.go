// Package validate wraps JSON Schema compilation and per-record checks for
// the timeline wire format.
package validate

import (
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// Compile builds a schema from raw JSON Schema bytes (typically the embedded
// record schema).
func Compile(schemaBytes []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(schemaBytes)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// JSON validates a single JSON document against the compiled schema.
func JSON(schema *jsonschema.Schema, data []byte) error {
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}

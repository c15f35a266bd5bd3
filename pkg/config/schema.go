package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "transmock.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Schema returns the JSON Schema the configuration file is checked against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// ValidateDocument checks a raw YAML document against the schema.
func ValidateDocument(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// Convert to JSON and back so the validator sees JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			result := &ValidationResult{}
			collectSchemaErrors(verr, result)
			return fmt.Errorf("%w:\n%s", ErrInvalidConfig, result.Error())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, result *ValidationResult) {
	if len(err.Causes) == 0 {
		result.AddError(pointerToPath(err.InstanceLocation), err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, result)
	}
}

// pointerToPath turns a JSON pointer such as /mock/ports/0 into mock.ports.0.
func pointerToPath(ptr string) string {
	var b bytes.Buffer
	for i, c := range []byte(ptr) {
		switch {
		case c == '/' && i == 0:
		case c == '/':
			b.WriteByte('.')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

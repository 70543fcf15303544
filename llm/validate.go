package llm

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance used across the module.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Validate checks s against its `validate` struct tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// RegisterCustomValidation adds a tag to the shared validator.
func RegisterCustomValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

// ValidateAgainstSchema checks a JSON document against a JSON schema given as
// a string, bytes, a decoded map, or any value that marshals to one (for
// example an *jsonschema.Schema). It understands the subset of the
// vocabulary the module's documents use: type, properties, required, items.
func ValidateAgainstSchema(document []byte, schema any) error {
	var data any
	if err := json.Unmarshal(document, &data); err != nil {
		return fmt.Errorf("failed to parse document JSON: %w", err)
	}

	var schemaMap map[string]any
	switch s := schema.(type) {
	case string:
		if err := json.Unmarshal([]byte(s), &schemaMap); err != nil {
			return fmt.Errorf("failed to parse schema JSON string: %w", err)
		}
	case []byte:
		if err := json.Unmarshal(s, &schemaMap); err != nil {
			return fmt.Errorf("failed to parse schema JSON bytes: %w", err)
		}
	case map[string]any:
		schemaMap = s
	default:
		schemaBytes, err := json.Marshal(schema)
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		if err := json.Unmarshal(schemaBytes, &schemaMap); err != nil {
			return fmt.Errorf("failed to parse schema JSON: %w", err)
		}
	}

	return validateJSONAgainstSchema(data, schemaMap)
}

func validateJSONAgainstSchema(data any, schema map[string]any) error {
	schemaType, ok := schema["type"].(string)
	if !ok {
		return fmt.Errorf("schema missing 'type' field")
	}

	switch schemaType {
	case "object":
		return validateObject(data, schema)
	case "array":
		return validateArray(data, schema)
	case "string", "number", "integer", "boolean":
		return validatePrimitive(data, schemaType)
	default:
		return fmt.Errorf("unsupported schema type: %s", schemaType)
	}
}

func validateObject(data any, schema map[string]any) error {
	dataMap, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %s", jsonTypeName(data))
	}

	for _, req := range requiredFields(schema) {
		if _, exists := dataMap[req]; !exists {
			return fmt.Errorf("missing required field: %s", req)
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for key, propSchema := range properties {
		propData, exists := dataMap[key]
		if !exists {
			continue
		}
		sub, ok := propSchema.(map[string]any)
		if !ok {
			return fmt.Errorf("invalid schema for field '%s'", key)
		}
		if err := validateJSONAgainstSchema(propData, sub); err != nil {
			return fmt.Errorf("invalid field '%s': %w", key, err)
		}
	}

	return nil
}

func requiredFields(schema map[string]any) []string {
	raw, _ := schema["required"].([]any)
	fields := make([]string, 0, len(raw))
	for _, r := range raw {
		if name, ok := r.(string); ok {
			fields = append(fields, name)
		}
	}
	return fields
}

func validateArray(data any, schema map[string]any) error {
	dataSlice, ok := data.([]any)
	if !ok {
		return fmt.Errorf("expected array, got %s", jsonTypeName(data))
	}

	items, ok := schema["items"].(map[string]any)
	if !ok {
		return nil
	}

	for i, item := range dataSlice {
		if err := validateJSONAgainstSchema(item, items); err != nil {
			return fmt.Errorf("invalid item at index %d: %w", i, err)
		}
	}

	return nil
}

func validatePrimitive(data any, expectedType string) error {
	switch expectedType {
	case "string":
		if _, ok := data.(string); !ok {
			return fmt.Errorf("expected string, got %s", jsonTypeName(data))
		}
	case "number":
		if _, ok := data.(float64); !ok {
			return fmt.Errorf("expected number, got %s", jsonTypeName(data))
		}
	case "integer":
		f, ok := data.(float64)
		if !ok || f != float64(int64(f)) {
			return fmt.Errorf("expected integer, got %s", jsonTypeName(data))
		}
	case "boolean":
		if _, ok := data.(bool); !ok {
			return fmt.Errorf("expected boolean, got %s", jsonTypeName(data))
		}
	}
	return nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poemSchema = `{
  "type": "object",
  "properties": {
    "theme": {"type": "string"},
    "lines": {"type": "integer"},
    "stanzas": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"text": {"type": "string"}},
        "required": ["text"]
      }
    }
  },
  "required": ["theme", "stanzas"]
}`

func TestValidateAgainstSchema(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "valid", doc: `{"theme":"海","lines":8,"stanzas":[{"text":"浪"}]}`},
		{name: "optional field absent", doc: `{"theme":"海","stanzas":[]}`},
		{name: "missing required", doc: `{"theme":"海"}`, wantErr: "missing required field: stanzas"},
		{name: "null array", doc: `{"theme":"海","stanzas":null}`, wantErr: "expected array, got null"},
		{name: "wrong primitive", doc: `{"theme":3,"stanzas":[]}`, wantErr: "expected string"},
		{name: "fractional integer", doc: `{"theme":"海","lines":1.5,"stanzas":[]}`, wantErr: "expected integer"},
		{name: "bad item", doc: `{"theme":"海","stanzas":[{}]}`, wantErr: "invalid item at index 0"},
		{name: "not an object", doc: `[]`, wantErr: "expected object, got array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgainstSchema([]byte(tt.doc), poemSchema)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAgainstSchemaAcceptsStructSchemas(t *testing.T) {
	schema := struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
	}{
		Type:       "object",
		Properties: map[string]any{"theme": map[string]any{"type": "string"}},
	}
	assert.NoError(t, ValidateAgainstSchema([]byte(`{"theme":"雪"}`), schema))
	assert.Error(t, ValidateAgainstSchema([]byte(`not json`), schema))
}

func TestValidate(t *testing.T) {
	type request struct {
		Theme  string `validate:"required"`
		Length int    `validate:"min=4,max=20"`
	}

	assert.NoError(t, Validate(&request{Theme: "秋", Length: 4}))
	assert.Error(t, Validate(&request{Length: 8}))
	assert.Error(t, Validate(&request{Theme: "秋", Length: 21}))
}

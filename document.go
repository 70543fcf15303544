package aipoet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/teilomillet/aipoet/llm"
)

// TimestampLayout formats Document.GeneratedAt.
const TimestampLayout = "2006-01-02 15:04:05"

// Document is the persisted comparison.
type Document struct {
	Theme       string             `json:"theme"`
	Comparisons []ComparisonResult `json:"comparisons"`
	GeneratedAt string             `json:"generated_at,omitempty"`
}

func NewDocument(theme string, results []ComparisonResult, now time.Time) *Document {
	return &Document{
		Theme:       theme,
		Comparisons: results,
		GeneratedAt: now.Format(TimestampLayout),
	}
}

// ValidationError reports a document that does not match OutputSchema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("output validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var outputSchema = sync.OnceValue(func() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	return r.Reflect(&Document{})
})

// OutputSchema is the JSON schema every written document satisfies. Fields
// tagged omitempty are optional.
func OutputSchema() *jsonschema.Schema {
	return outputSchema()
}

// Validate checks d against OutputSchema.
func (d *Document) Validate() error {
	raw, err := json.Marshal(d)
	if err != nil {
		return &ValidationError{Err: err}
	}
	return ValidateDocumentJSON(raw)
}

// ValidateDocumentJSON checks raw JSON against OutputSchema.
func ValidateDocumentJSON(raw []byte) error {
	if err := llm.ValidateAgainstSchema(raw, OutputSchema()); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

var filenameReplacer = strings.NewReplacer("/", "_", "\\", "_")

// OutputFilename is poetry_comparison_<theme>.json with path separators in
// theme replaced by underscores.
func OutputFilename(theme string) string {
	return "poetry_comparison_" + filenameReplacer.Replace(theme) + ".json"
}

// Encode renders d as indented UTF-8 JSON without HTML escaping.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument validates d and writes it under dir. The returned path is
// the intended one even when nothing was written.
func WriteDocument(d *Document, dir string) (string, error) {
	path := filepath.Join(dir, OutputFilename(d.Theme))

	if err := d.Validate(); err != nil {
		return path, err
	}

	data, err := d.Encode()
	if err != nil {
		return path, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

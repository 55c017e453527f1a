// Package schemas provides JSON Schema validation for presentation documents
// and uploaded-image manifests.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/campaign-deck/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields returns the failing field paths in order
func (ve *ValidationError) Fields() []string {
	out := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		out = append(out, e.Field)
	}
	return out
}

// compiled holds the embedded schemas, compiled once with the common
// definitions registered so cross-file $refs resolve without network access.
type compiled struct {
	presentation *gojsonschema.Schema
	uploads      *gojsonschema.Schema
}

var loadEmbedded = sync.OnceValues(func() (*compiled, error) {
	common, err := schemafiles.FS.ReadFile(schemafiles.Common)
	if err != nil {
		return nil, &SchemaLoadError{Path: schemafiles.Common, Message: "embedded schema missing", Cause: err}
	}

	compile := func(name string) (*gojsonschema.Schema, error) {
		data, err := schemafiles.FS.ReadFile(name)
		if err != nil {
			return nil, &SchemaLoadError{Path: name, Message: "embedded schema missing", Cause: err}
		}
		sl := gojsonschema.NewSchemaLoader()
		if err := sl.AddSchemas(gojsonschema.NewBytesLoader(common)); err != nil {
			return nil, &SchemaLoadError{Path: schemafiles.Common, Message: "invalid common definitions", Cause: err}
		}
		schema, err := sl.Compile(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, &SchemaLoadError{Path: name, Message: "failed to compile", Cause: err}
		}
		return schema, nil
	}

	var c compiled
	if c.presentation, err = compile(schemafiles.Presentation); err != nil {
		return nil, err
	}
	if c.uploads, err = compile(schemafiles.Uploads); err != nil {
		return nil, err
	}
	return &c, nil
})

// ValidatePresentation validates a presentation document against the embedded schema
func ValidatePresentation(data []byte) error {
	c, err := loadEmbedded()
	if err != nil {
		return err
	}
	return validateWith(c.presentation, gojsonschema.NewBytesLoader(data), schemafiles.Presentation)
}

// ValidateUploads validates an uploaded-image manifest against the embedded schema
func ValidateUploads(data []byte) error {
	c, err := loadEmbedded()
	if err != nil {
		return err
	}
	return validateWith(c.uploads, gojsonschema.NewBytesLoader(data), schemafiles.Uploads)
}

func validateWith(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader, name string) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return &SchemaLoadError{
			Path:    name,
			Message: "document could not be loaded",
			Cause:   err,
		}
	}
	return resultError(result)
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	// Resolve absolute paths to handle relative paths correctly
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaAbsPath))
	documentLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(jsonAbsPath))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return resultError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return resultError(result)
}

// resultError converts a failed result into a ValidationError, or nil if valid
func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidatePresentation_Generic(t *testing.T) {
	doc := `{
		"title": "Q1 Report",
		"brandStyle": "corporate",
		"language": "es",
		"slides": [
			{"type": "title", "title": "Q1 Report"},
			{"type": "agenda", "agendaPoints": ["Results", "Next Steps"]},
			{"type": "kpiHighlights", "kpiHighlights": [{"title": "Reach", "points": ["+12%"]}]},
			{"type": "quiz"}
		]
	}`
	assert.NoError(t, ValidatePresentation([]byte(doc)))
}

func TestValidatePresentation_Fixed(t *testing.T) {
	doc := `{
		"title": "Spring",
		"brandStyle": "fixed-report",
		"fixedTemplateContent": {
			"slide1_Title": {"title": "Spring Campaign"},
			"slide2_Agenda": null,
			"slide4_KPICharts": {"headerKpis": [{"label": "Reach", "value": "1.2M"}], "primaryCharts": {"items": [{"label": "Mobile", "value": "64%"}]}},
			"slide8_ConsiderationStage": {"regionTable": {"columns": ["Clicks"], "rows": [{"label": "North", "values": ["10"]}]}}
		}
	}`
	assert.NoError(t, ValidatePresentation([]byte(doc)))
}

func TestValidatePresentation_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "fixed report without content",
			doc:   `{"title": "X", "brandStyle": "fixed-report"}`,
			field: "fixedTemplateContent",
		},
		{
			name:  "fixed report with null content",
			doc:   `{"title": "X", "brandStyle": "fixed-report", "fixedTemplateContent": null}`,
			field: "fixedTemplateContent",
		},
		{
			name:  "generic without slides",
			doc:   `{"title": "X", "brandStyle": "modern", "slides": []}`,
			field: "slides",
		},
		{
			name:  "unknown brand style",
			doc:   `{"title": "X", "brandStyle": "neon", "slides": [{"type": "title"}]}`,
			field: "brandStyle",
		},
		{
			name:  "slide without type",
			doc:   `{"title": "X", "brandStyle": "corporate", "slides": [{"title": "A"}]}`,
			field: "type",
		},
		{
			name:  "wrong list type",
			doc:   `{"title": "X", "brandStyle": "corporate", "slides": [{"type": "agenda", "agendaPoints": "Results"}]}`,
			field: "agendaPoints",
		},
		{
			name:  "unsupported language",
			doc:   `{"title": "X", "brandStyle": "corporate", "language": "fr", "slides": [{"type": "title"}]}`,
			field: "language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresentation([]byte(tt.doc))
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidatePresentation_MalformedJSON(t *testing.T) {
	err := ValidatePresentation([]byte("{ invalid json }"))
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateUploads(t *testing.T) {
	assert.NoError(t, ValidateUploads([]byte(`[{"name": "ad1.png", "mimeType": "image/png", "dataUrl": "data:image/png;base64,AAAA"}]`)))

	err := ValidateUploads([]byte(`[{"name": "", "dataUrl": "https://example.com/a.png"}]`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", simpleSchema)

	assert.NoError(t, ValidateJSON(schemaPath, writeFile(t, dir, "valid.json", `{"name": "deck"}`)))

	err := ValidateJSON(schemaPath, writeFile(t, dir, "missing.json", `{"age": 3}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"(root)"}, validationErr.Fields())

	err = ValidateJSON(schemaPath, writeFile(t, dir, "type.json", `{"name": 3}`))
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"name"}, validationErr.Fields())
}

func TestValidateJSON_NotFound(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", simpleSchema)

	err := ValidateJSON(filepath.Join(dir, "nope.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", simpleSchema)
	malformed := writeFile(t, dir, "malformed.json", "{ invalid json }")

	err := ValidateJSON(schemaPath, malformed)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(simpleSchema, `{"name": "test"}`))

	err := ValidateJSONString(simpleSchema, `{"age": 30}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "title", Message: "is required"},
			{Field: "slides.0.type", Message: "must be a string"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. title: is required")
	assert.Contains(t, msg, "2. slides.0.type")
}

func TestSchemaLoadError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := &SchemaLoadError{Path: "x.json", Message: "missing", Cause: cause}
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "x.json")
}

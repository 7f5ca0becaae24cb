package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["keywords"],
	"additionalProperties": false,
	"properties": {
		"keywords": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		},
		"language": {"type": "string", "enum": ["en", "id"]}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_Valid(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)
	jsonPath := writeFile(t, dir, "batch.json", `{"keywords": ["coffee"], "language": "en"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_MissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)
	jsonPath := writeFile(t, dir, "batch.json", `{"language": "en"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_TypeMismatch(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)
	jsonPath := writeFile(t, dir, "batch.json", `{"keywords": "coffee"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, validationErr.Error(), "keywords")
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "batch.json", `{"keywords": ["coffee"]}`)

	err := ValidateJSON(filepath.Join(dir, "missing_schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentDocument(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)

	err := ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_InvalidSchemaSyntax(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", `{not json`)
	jsonPath := writeFile(t, dir, "batch.json", `{"keywords": ["coffee"]}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok, "error should be SchemaLoadError type")
}

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"keywords": ["coffee", "tea"]}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"keywords": []}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_ListsEveryViolation(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"keywords": [], "language": "fr"}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestResolveSchemaPath_FindsRelativeFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schema.json", testSchema)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	resolved := ResolveSchemaPath("schema.json")
	assert.NotEmpty(t, resolved)
}

func TestResolveSchemaPath_MissingFile(t *testing.T) {
	assert.Empty(t, ResolveSchemaPath(filepath.Join("no-such-dir", "no-such-schema.json")))
}

package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talav/ccdd/config"
	"github.com/talav/ccdd/diag"
)

const minimalSpecJSON = `{
	"openapi": "3.1.0",
	"info": {"title": "Widgets", "version": "1.0.0"},
	"paths": {
		"/widgets": {
			"post": {
				"operationId": "createWidget",
				"requestBody": {
					"content": {
						"application/json": {
							"schema": {
								"type": "object",
								"properties": {"name": {"type": "string"}},
								"required": ["name"]
							}
						}
					}
				},
				"responses": {
					"201": {"description": "created"}
				}
			}
		}
	}
}`

func TestLoad_MinimalSpecLiftsInlineRequestBody(t *testing.T) {
	loader := NewLoader()

	result, err := loader.Load([]byte(minimalSpecJSON), "https://example.com/openapi.json")
	require.NoError(t, err)
	require.NotNil(t, result.Spec)

	require.Len(t, result.Spec.Structs, 1)
	assert.Equal(t, "Inline_createWidget_Request", result.Spec.Structs[0].Name)
}

func TestLoad_InvalidDocumentFailsValidation(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load([]byte(`{"openapi": "3.1.0", "info": {"title": "x", "version": "1"}, "paths": {"bad": {}}}`), "")
	require.Error(t, err)
}

func TestLoad_DuplicateOperationIDFailsCrossCuttingValidation(t *testing.T) {
	loader := NewLoader()

	doc := `{
		"openapi": "3.1.0",
		"info": {"title": "Widgets", "version": "1.0.0"},
		"paths": {
			"/widgets": {"get": {"operationId": "dup", "responses": {"200": {"description": "ok"}}}},
			"/widgets/{id}": {"get": {"operationId": "dup", "responses": {"200": {"description": "ok"}}}}
		}
	}`

	_, err := loader.Load([]byte(doc), "")
	assert.Error(t, err)
}

func TestLoad_SkipCrossCuttingValidationBypassesOperationIDCheck(t *testing.T) {
	loader := NewLoader(SkipCrossCuttingValidation())

	doc := `{
		"openapi": "3.1.0",
		"info": {"title": "Widgets", "version": "1.0.0"},
		"paths": {
			"/widgets": {"get": {"operationId": "dup", "responses": {"200": {"description": "ok"}}}},
			"/widgets/{id}": {"get": {"operationId": "dup", "responses": {"200": {"description": "ok"}}}}
		}
	}`

	_, err := loader.Load([]byte(doc), "")
	assert.NoError(t, err)
}

func TestLoadYAML_DecodesAndLoadsEquivalentDocument(t *testing.T) {
	loader := NewLoader()

	yamlDoc := []byte(`
openapi: "3.1.0"
info:
  title: Widgets
  version: "1.0.0"
paths:
  /widgets:
    get:
      operationId: listWidgets
      responses:
        "200":
          description: ok
`)

	result, err := loader.LoadYAML(yamlDoc, "")
	require.NoError(t, err)
	require.Len(t, result.Spec.Paths, 1)
	assert.Equal(t, "/widgets", result.Spec.Paths[0].Pattern)
}

func TestWithGuardConfig_MergesIntoLoader(t *testing.T) {
	cfg := config.NewGuardConfig("ENUM_GUARD", "JSON_GUARD", "UTILS_GUARD")

	loader := NewLoader(WithGuardConfig(cfg))
	assert.Equal(t, cfg, loader.GuardConfig)
}

func TestLoad_WarningsSurfaceFromLift(t *testing.T) {
	loader := NewLoader()

	doc := `{
		"openapi": "3.1.0",
		"info": {"title": "Widgets", "version": "1.0.0"},
		"paths": {
			"/widgets": {
				"post": {
					"operationId": "createWidget",
					"requestBody": {
						"content": {
							"application/json": {
								"schema": {
									"allOf": [
										{"type": "object", "properties": {"a": {"type": "string"}}}
									]
								}
							}
						}
					},
					"responses": {"201": {"description": "created"}}
				}
			}
		}
	}`

	result, err := loader.Load([]byte(doc), "")
	require.NoError(t, err)
	assert.True(t, result.Warnings.Has(diag.WarnCompositionNotLowered))
}

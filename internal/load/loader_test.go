package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromJSON_SmokeExample(t *testing.T) {
	raw := []byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{"/x":{"get":{"responses":{"200":{"description":"ok"}}}}}}`)

	spec, warnings, err := LoadFromJSON(raw, "https://example.com/api.json", nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, spec.Paths, 1)
	assert.Equal(t, "/x", spec.Paths[0].Pattern)

	item := spec.Paths[0].Item
	require.Len(t, item.Operations, 1)
	assert.Equal(t, "get", item.Operations[0].Verb)

	op := item.Operations[0].Operation
	require.Len(t, op.Responses, 1)
	assert.Equal(t, "200", op.Responses[0].Code)
	assert.Equal(t, "ok", op.Responses[0].Response.Description)
}

func TestLoadFromJSON_StandaloneSchemaDocument(t *testing.T) {
	raw := []byte(`{"type":"object","properties":{"name":{"type":"string"}}}`)

	spec, _, err := LoadFromJSON(raw, "https://example.com/schema.json", nil)
	require.NoError(t, err)
	assert.True(t, spec.IsSchemaDocument)
	require.Len(t, spec.RawSchemas, 1)
}

func TestLoadFromJSON_BoolRootIsStandaloneSchema(t *testing.T) {
	spec, _, err := LoadFromJSON([]byte(`true`), "https://example.com/schema.json", nil)
	require.NoError(t, err)
	assert.True(t, spec.IsSchemaDocument)
}

func TestLoadFromJSON_MissingOpenAPIFieldFails(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"paths":{}}`), "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrMissingOpenAPIField)
}

func TestLoadFromJSON_SwaggerRejected(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"swagger":"2.0","paths":{}}`), "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrSwaggerUnsupported)
}

func TestLoadFromJSON_UnsupportedVersionFails(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"openapi":"2.0","info":{"title":"t","version":"1"},"paths":{}}`), "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoadFromJSON_SupportedVersion32(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"openapi":"3.2.0","info":{"title":"t","version":"1"},"paths":{}}`), "https://example.com/api.json", nil)
	assert.NoError(t, err)
}

func TestLoadFromJSON_PathMustStartWithSlash(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{"bad":{}}}`), "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrPathMustStartWithSlash)
}

func TestLoadFromJSON_WebhookRouteNeedNotStartWithSlash(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1"},"webhooks":{"newPet":{"post":{"responses":{"200":{"description":"ok"}}}}}}`), "https://example.com/api.json", nil)
	assert.NoError(t, err)
}

func TestLoadFromJSON_LicenseRequiresName(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1","license":{"url":"https://example.com"}},"paths":{}}`), "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrLicenseNameRequired)
}

func TestLoadFromJSON_LicenseIdentifierAndURLExclusive(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1","license":{"name":"MIT","identifier":"MIT","url":"https://example.com"}},"paths":{}}`), "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrLicenseMutuallyExclusive)
}

func TestLoadFromJSON_InvalidResponseCodeFails(t *testing.T) {
	_, _, err := LoadFromJSON([]byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{"/x":{"get":{"responses":{"abc":{"description":"ok"}}}}}}`), "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrInvalidResponseCode)
}

func TestLoadFromJSON_DuplicateParameterFails(t *testing.T) {
	raw := []byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{"/x/{id}":{"get":{
		"parameters":[{"name":"id","in":"path","required":true},{"name":"id","in":"path","required":true}],
		"responses":{"200":{"description":"ok"}}}}}}`)

	_, _, err := LoadFromJSON(raw, "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrDuplicateParameter)
}

func TestLoadFromJSON_QuerystringRequiresContent(t *testing.T) {
	raw := []byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{"/x":{"get":{
		"parameters":[{"name":"filter","in":"querystring","schema":{"type":"object"}}],
		"responses":{"200":{"description":"ok"}}}}}}`)

	_, _, err := LoadFromJSON(raw, "https://example.com/api.json", nil)
	assert.ErrorIs(t, err, ErrSchemaAndContentExclusive)
}

func TestLoadFromJSON_ComponentsSchemasPreserveOrder(t *testing.T) {
	raw := []byte(`{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{},
		"components":{"schemas":{"B":{"type":"string"},"A":{"type":"integer"}}}}`)

	spec, _, err := LoadFromJSON(raw, "https://example.com/api.json", nil)
	require.NoError(t, err)
	require.Len(t, spec.Components.Schemas, 2)
	assert.Equal(t, "B", spec.Components.Schemas[0].Name)
	assert.Equal(t, "A", spec.Components.Schemas[1].Name)
}

func TestIsSupportedVersion(t *testing.T) {
	cases := map[string]bool{
		"3.1.0": true, "3.2.3": true, "3.1": true,
		"3.0.0": false, "2.0": false, "4.1.0": false, "3.1.x": false,
	}

	for version, want := range cases {
		assert.Equal(t, want, isSupportedVersion(version), version)
	}
}

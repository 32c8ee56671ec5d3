package metaschema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBundled_CompilesWithoutError(t *testing.T) {
	v, err := NewBundled()
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestValidate_MinimalValidDocumentPasses(t *testing.T) {
	v, err := NewBundled()
	require.NoError(t, err)

	doc := []byte(`{
		"openapi": "3.1.0",
		"info": {"title": "Widgets", "version": "1.0.0"},
		"paths": {
			"/widgets": {
				"get": {
					"responses": {
						"200": {"description": "ok"}
					}
				}
			}
		}
	}`)

	assert.NoError(t, v.Validate(context.Background(), doc))
}

func TestValidate_MissingInfoFails(t *testing.T) {
	v, err := NewBundled()
	require.NoError(t, err)

	doc := []byte(`{"openapi": "3.1.0"}`)

	assert.Error(t, v.Validate(context.Background(), doc))
}

func TestValidate_BadOpenAPIVersionPatternFails(t *testing.T) {
	v, err := NewBundled()
	require.NoError(t, err)

	doc := []byte(`{"openapi": "2.0", "info": {"title": "Widgets", "version": "1.0.0"}}`)

	assert.Error(t, v.Validate(context.Background(), doc))
}

func TestValidate_PathNotStartingWithSlashIsIgnoredByPatternProperties(t *testing.T) {
	// patternProperties on "paths" only constrains keys that start with
	// "/"; internal/load itself is the authority for the leading-slash
	// rule (ErrPathMustStartWithSlash), so this meta-schema does not
	// duplicate that check.
	v, err := NewBundled()
	require.NoError(t, err)

	doc := []byte(`{
		"openapi": "3.1.0",
		"info": {"title": "Widgets", "version": "1.0.0"},
		"paths": {"widgets": {"get": {"responses": {"200": {"description": "ok"}}}}}
	}`)

	assert.NoError(t, v.Validate(context.Background(), doc))
}

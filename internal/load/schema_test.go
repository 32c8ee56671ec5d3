package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talav/ccdd/diag"
	"github.com/talav/ccdd/internal/jsonv"
)

func decodeSchema(t *testing.T, src string) any {
	t.Helper()

	v, err := jsonv.Decode([]byte(src))
	require.NoError(t, err)

	return v
}

func TestLowerSchema_BoolSchema(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `true`), &warnings)
	require.NoError(t, err)
	assert.True(t, s.IsBool)
	assert.True(t, s.BoolValue)
}

func TestLowerSchema_TypeArrayWithNull(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":["string","null"]}`), &warnings)
	require.NoError(t, err)
	assert.Equal(t, "string", s.Type)
	assert.Equal(t, []string{"string", "null"}, s.Types)
	assert.True(t, s.Nullable)
}

func TestLowerSchema_ExclusiveMinimumNumericForm(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"integer","exclusiveMinimum":5}`), &warnings)
	require.NoError(t, err)
	require.NotNil(t, s.Minimum)
	assert.Equal(t, 5.0, s.Minimum.Value)
	assert.True(t, s.Minimum.Exclusive)
}

func TestLowerSchema_ExclusiveMinimumLegacyBooleanForm(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"integer","minimum":5,"exclusiveMinimum":true}`), &warnings)
	require.NoError(t, err)
	require.NotNil(t, s.Minimum)
	assert.Equal(t, 5.0, s.Minimum.Value)
	assert.True(t, s.Minimum.Exclusive)
}

func TestLowerSchema_MinimumWithoutExclusive(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"integer","minimum":5}`), &warnings)
	require.NoError(t, err)
	require.NotNil(t, s.Minimum)
	assert.Equal(t, 5.0, s.Minimum.Value)
	assert.False(t, s.Minimum.Exclusive)
}

func TestLowerSchema_PropertiesPreserveOrder(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"object","properties":{"z":{"type":"string"},"a":{"type":"integer"}}}`), &warnings)
	require.NoError(t, err)
	require.Len(t, s.Properties, 2)
	assert.Equal(t, "z", s.Properties[0].Name)
	assert.Equal(t, "a", s.Properties[1].Name)
}

func TestLowerSchema_RefCapturesLocalName(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"$ref":"#/components/schemas/Pet"}`), &warnings)
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/Pet", s.Ref)
	assert.Equal(t, "Pet", s.RefName)
}

func TestLowerSchema_UnrecognizedKeywordPreservedAndWarned(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"string","unknownThing":42}`), &warnings)
	require.NoError(t, err)
	require.Contains(t, s.Extensions, "unknownThing")
	assert.True(t, warnings.Has(diag.WarnUnrecognizedKeyword))
}

func TestLowerSchema_SpecExtensionPreservedWithoutWarning(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"string","x-internal":true}`), &warnings)
	require.NoError(t, err)
	require.Contains(t, s.Extensions, "x-internal")
	assert.False(t, warnings.Has(diag.WarnUnrecognizedKeyword))
}

func TestLowerSchema_RecognizedKeywordsProduceNoExtensionsOrWarnings(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"string","minLength":1,"maxLength":10,"pattern":"^a"}`), &warnings)
	require.NoError(t, err)
	assert.Nil(t, s.Extensions)
	assert.Empty(t, warnings)
}

func TestLowerSchema_AdditionalPropertiesBooleanForm(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"object","additionalProperties":false}`), &warnings)
	require.NoError(t, err)
	require.NotNil(t, s.AdditionalProperties)
	require.NotNil(t, s.AdditionalProperties.Allow)
	assert.False(t, *s.AdditionalProperties.Allow)
}

func TestLowerSchema_AdditionalPropertiesSchemaForm(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"type":"object","additionalProperties":{"type":"string"}}`), &warnings)
	require.NoError(t, err)
	require.NotNil(t, s.AdditionalProperties)
	require.NotNil(t, s.AdditionalProperties.Schema)
	assert.Equal(t, "string", s.AdditionalProperties.Schema.Type)
}

func TestLowerSchema_AllOfRecursesAndThreadsWarnings(t *testing.T) {
	var warnings diag.Warnings

	s, err := LowerSchema(decodeSchema(t, `{"allOf":[{"type":"string","weird":1},{"type":"integer"}]}`), &warnings)
	require.NoError(t, err)
	require.Len(t, s.AllOf, 2)
	assert.Equal(t, "string", s.AllOf[0].Type)
	assert.Equal(t, "integer", s.AllOf[1].Type)
	assert.True(t, warnings.Has(diag.WarnUnrecognizedKeyword))
}

func TestLocalRefName(t *testing.T) {
	cases := map[string]string{
		"#/components/schemas/Pet":     "Pet",
		"#/components/schemas/My~1Pet": "My/Pet",
		"#/components/schemas/A~0B":    "A~B",
		"other.json#/components/schemas/Pet": "",
		"":                             "",
	}

	for ref, want := range cases {
		assert.Equal(t, want, localRefName(ref), ref)
	}
}

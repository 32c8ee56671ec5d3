package lift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talav/ccdd/diag"
	"github.com/talav/ccdd/internal/model"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Inline_getPet_Request":  "Inline_getPet_Request",
		"weird name!":            "weird_name_",
		"":                       "InlineSchema",
		"a/b:c":                 "a_b_c",
	}

	for input, want := range cases {
		assert.Equal(t, want, sanitizeName(input), input)
	}
}

func TestNamer_DedupesWithCounterSuffix(t *testing.T) {
	n := newNamer(nil)

	first := n.unique("Inline_getPet_Request")
	second := n.unique("Inline_getPet_Request")
	third := n.unique("Inline_getPet_Request")

	assert.Equal(t, "Inline_getPet_Request", first)
	assert.Equal(t, "Inline_getPet_Request_1", second)
	assert.Equal(t, "Inline_getPet_Request_2", third)
}

func TestNamer_SeededNamesAreReserved(t *testing.T) {
	n := newNamer([]string{"Pet"})

	assert.Equal(t, "Pet_1", n.unique("Pet"))
}

func requestBodyOperation(opID string, schema *model.SchemaRef) *model.Operation {
	return &model.Operation{
		OperationID: opID,
		RequestBody: schema,
		RequestBodyMediaTypes: []model.MediaType{
			{Name: "application/json", Schema: schema},
		},
	}
}

func TestLift_InlineRequestBodyPromotedToNamedStruct(t *testing.T) {
	inline := &model.SchemaRef{
		Type: "object",
		Properties: []model.NamedSchema{
			{Name: "name", Schema: &model.SchemaRef{Type: "string"}},
		},
		Required: []string{"name"},
	}

	op := requestBodyOperation("createPet", inline)

	spec := &model.Spec{
		Paths: []model.PathEntry{
			{Pattern: "/pets", Item: &model.Path{
				Operations: []model.OperationEntry{{Verb: "post", Operation: op}},
			}},
		},
	}

	var warnings diag.Warnings
	Lift(spec, &warnings)

	require.NotNil(t, op.RequestBody)
	assert.Equal(t, "#/components/schemas/Inline_createPet_Request", op.RequestBody.Ref)
	assert.Equal(t, "Inline_createPet_Request", op.RequestBody.RefName)

	require.Len(t, spec.Structs, 1)
	assert.Equal(t, "Inline_createPet_Request", spec.Structs[0].Name)
	require.Len(t, spec.Structs[0].Fields, 1)
	assert.Equal(t, "name", spec.Structs[0].Fields[0].Name)
	assert.True(t, spec.Structs[0].Fields[0].Required)
	assert.Equal(t, model.FieldString, spec.Structs[0].Fields[0].Kind)

	require.NotNil(t, spec.Components)
	require.Len(t, spec.Components.Schemas, 1)
	assert.Equal(t, "Inline_createPet_Request", spec.Components.Schemas[0].Name)

	// The media-type entry sharing the same *SchemaRef pointer is rewritten too.
	assert.Equal(t, "Inline_createPet_Request", op.RequestBodyMediaTypes[0].Schema.RefName)
}

func TestLift_RefSchemaIsNotPromoted(t *testing.T) {
	ref := &model.SchemaRef{Ref: "#/components/schemas/Pet", RefName: "Pet"}
	op := requestBodyOperation("getPet", ref)

	spec := &model.Spec{
		Paths: []model.PathEntry{
			{Pattern: "/pets/{id}", Item: &model.Path{
				Operations: []model.OperationEntry{{Verb: "get", Operation: op}},
			}},
		},
	}

	var warnings diag.Warnings
	Lift(spec, &warnings)

	assert.Equal(t, "Pet", op.RequestBody.RefName)
	assert.Empty(t, spec.Structs)
}

func TestLift_CompositionSchemaPreservedAsRawJSONWithWarning(t *testing.T) {
	comp := &model.SchemaRef{
		AllOf: []*model.SchemaRef{
			{Ref: "#/components/schemas/Base", RefName: "Base"},
			{Type: "object", Properties: []model.NamedSchema{{Name: "extra", Schema: &model.SchemaRef{Type: "string"}}}},
		},
	}

	op := requestBodyOperation("createWidget", comp)

	spec := &model.Spec{
		Paths: []model.PathEntry{
			{Pattern: "/widgets", Item: &model.Path{
				Operations: []model.OperationEntry{{Verb: "post", Operation: op}},
			}},
		},
	}

	var warnings diag.Warnings
	Lift(spec, &warnings)

	require.Len(t, spec.RawSchemas, 1)
	assert.Equal(t, "Inline_createWidget_Request", spec.RawSchemas[0].Name)
	assert.Empty(t, spec.Structs)
	assert.True(t, warnings.Has(diag.WarnCompositionNotLowered))
}

func TestLift_ArrayBodyLiftsItemSchemaWithItemSuffix(t *testing.T) {
	arr := &model.SchemaRef{
		Type: "array",
		Items: &model.SchemaRef{
			Type: "object",
			Properties: []model.NamedSchema{{Name: "id", Schema: &model.SchemaRef{Type: "integer"}}},
		},
	}

	op := requestBodyOperation("bulkCreatePets", arr)

	spec := &model.Spec{
		Paths: []model.PathEntry{
			{Pattern: "/pets/bulk", Item: &model.Path{
				Operations: []model.OperationEntry{{Verb: "post", Operation: op}},
			}},
		},
	}

	var warnings diag.Warnings
	Lift(spec, &warnings)

	assert.Equal(t, "array", op.RequestBody.Type)
	require.NotNil(t, op.RequestBody.Items)
	assert.Equal(t, "Inline_bulkCreatePets_Request_Item", op.RequestBody.Items.RefName)
	require.Len(t, spec.Structs, 1)
	assert.Equal(t, "Inline_bulkCreatePets_Request_Item", spec.Structs[0].Name)
}

func TestLift_NestedInlineObjectPropertyIsPromotedWithParentPrefixedName(t *testing.T) {
	inline := &model.SchemaRef{
		Type: "object",
		Properties: []model.NamedSchema{
			{Name: "owner", Schema: &model.SchemaRef{
				Type: "object",
				Properties: []model.NamedSchema{
					{Name: "email", Schema: &model.SchemaRef{Type: "string"}},
				},
			}},
		},
	}

	op := requestBodyOperation("createPet", inline)

	spec := &model.Spec{
		Paths: []model.PathEntry{
			{Pattern: "/pets", Item: &model.Path{
				Operations: []model.OperationEntry{{Verb: "post", Operation: op}},
			}},
		},
	}

	var warnings diag.Warnings
	Lift(spec, &warnings)

	require.Len(t, spec.Structs, 2)
	assert.Equal(t, "Inline_createPet_Request", spec.Structs[0].Name)
	assert.Equal(t, "Inline_createPet_Request_owner", spec.Structs[1].Name)

	ownerField := spec.Structs[0].Fields[0]
	assert.Equal(t, model.FieldObject, ownerField.Kind)
	assert.Equal(t, "Inline_createPet_Request_owner", ownerField.RefType)
}

func TestLift_QuerystringParameterSchemaIsLifted(t *testing.T) {
	inline := &model.SchemaRef{
		Type: "object",
		Properties: []model.NamedSchema{
			{Name: "filter", Schema: &model.SchemaRef{Type: "string"}},
		},
	}

	op := &model.Operation{
		OperationID: "listPets",
		Parameters: []*model.Parameter{
			{Name: "q", In: "querystring", Schema: inline},
		},
	}

	spec := &model.Spec{
		Paths: []model.PathEntry{
			{Pattern: "/pets", Item: &model.Path{
				Operations: []model.OperationEntry{{Verb: "get", Operation: op}},
			}},
		},
	}

	var warnings diag.Warnings
	Lift(spec, &warnings)

	assert.Equal(t, "Inline_Querystring_q", op.Parameters[0].Schema.RefName)
	require.Len(t, spec.Structs, 1)
	assert.Equal(t, "Inline_Querystring_q", spec.Structs[0].Name)
}

package lift

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/talav/ccdd/diag"
	"github.com/talav/ccdd/internal/model"
)

// Lift walks every operation reachable from spec (paths, webhooks,
// component path items, and both top-level and nested callbacks) and
// promotes each anonymous object-like request body, response body, or
// querystring parameter schema into a named components/schemas entry,
// rewriting the attachment's SchemaRef in place to a $ref (§4.H).
//
// Struct-lowering of properties recurses: an inline object nested inside a
// lifted schema's properties is itself promoted (named
// "<parent>_<property>") rather than left anonymous, since every
// FieldObject/FieldArray-of-object Field needs a RefType to point at.
func Lift(spec *model.Spec, warnings *diag.Warnings) {
	if spec == nil {
		return
	}

	nmr := newNamer(existingNames(spec))

	for i := range spec.Paths {
		liftPathItem(spec, spec.Paths[i].Item, nmr, warnings)
	}

	for i := range spec.Webhooks {
		liftPathItem(spec, spec.Webhooks[i].Item, nmr, warnings)
	}

	if spec.Components == nil {
		return
	}

	for i := range spec.Components.PathItems {
		liftPathItem(spec, spec.Components.PathItems[i].Item, nmr, warnings)
	}

	for i := range spec.Components.Callbacks {
		liftCallback(spec, spec.Components.Callbacks[i].Callback, nmr, warnings)
	}
}

func existingNames(spec *model.Spec) []string {
	names := make([]string, 0, len(spec.Structs)+len(spec.RawSchemas))
	for _, s := range spec.Structs {
		names = append(names, s.Name)
	}

	for _, s := range spec.RawSchemas {
		names = append(names, s.Name)
	}

	if spec.Components != nil {
		for _, s := range spec.Components.Schemas {
			names = append(names, s.Name)
		}
	}

	return names
}

func liftPathItem(spec *model.Spec, item *model.Path, nmr *namer, warnings *diag.Warnings) {
	if item == nil {
		return
	}

	for i := range item.Operations {
		liftOperation(spec, item.Operations[i].Operation, nmr, warnings)
	}

	for i := range item.AdditionalOperations {
		liftOperation(spec, item.AdditionalOperations[i].Operation, nmr, warnings)
	}
}

func liftCallback(spec *model.Spec, cb *model.Callback, nmr *namer, warnings *diag.Warnings) {
	if cb == nil {
		return
	}

	for i := range cb.Expressions {
		liftPathItem(spec, cb.Expressions[i].Item, nmr, warnings)
	}
}

func liftOperation(spec *model.Spec, op *model.Operation, nmr *namer, warnings *diag.Warnings) {
	if op == nil {
		return
	}

	if op.RequestBody != nil {
		liftAttachment(spec, op.RequestBody, func(isItem bool) string {
			return baseRequestName(op.OperationID, isItem)
		}, nmr, warnings)
	}

	for i := range op.Responses {
		resp := op.Responses[i].Response
		if resp == nil || resp.Schema == nil {
			continue
		}

		code := op.Responses[i].Code
		liftAttachment(spec, resp.Schema, func(isItem bool) string {
			return baseResponseName(op.OperationID, code, isItem)
		}, nmr, warnings)
	}

	for _, p := range op.Parameters {
		if p == nil || p.In != "querystring" || p.Schema == nil {
			continue
		}

		liftAttachment(spec, p.Schema, func(bool) string {
			return baseQuerystringName(p.Name)
		}, nmr, warnings)
	}

	for i := range op.Callbacks {
		liftCallback(spec, op.Callbacks[i].Callback, nmr, warnings)
	}
}

// liftAttachment inspects one primary attachment point. If it (or, for an
// array body, its item schema) is anonymous and object-like, the target is
// promoted to a named component and rewritten in place to a $ref.
func liftAttachment(spec *model.Spec, root *model.SchemaRef, baseName func(isItem bool) string, nmr *namer, warnings *diag.Warnings) {
	if root == nil {
		return
	}

	target := root
	isItem := false

	if root.Type == "array" && isObjectLike(root.Items) {
		target = root.Items
		isItem = true
	}

	if !isObjectLike(target) {
		return
	}

	name := nmr.unique(baseName(isItem))
	promote(spec, name, target, nmr, warnings)

	*target = model.SchemaRef{Ref: "#/components/schemas/" + name, RefName: name}
}

// promote lowers s into the IR appropriate to its shape and registers it
// under name in Components.Schemas: a StructFields entry for a plain
// object, or a preserved raw-JSON entry (plus a WarnCompositionNotLowered
// advisory) for a composition schema the struct lowering cannot flatten
// (§4.H).
func promote(spec *model.Spec, name string, s *model.SchemaRef, nmr *namer, warnings *diag.Warnings) {
	if spec.Components == nil {
		spec.Components = &model.Components{}
	}

	lifted := *s
	spec.Components.Schemas = append(spec.Components.Schemas, model.NamedSchema{
		Name:   name,
		Schema: &lifted,
	})

	if isComposition(s) {
		spec.RawSchemas = append(spec.RawSchemas, model.RawSchema{Name: name, JSON: schemaToRawJSON(s)})

		if warnings != nil {
			warnings.Append(diag.NewWarning(diag.WarnCompositionNotLowered, "",
				"composition schema "+name+" preserved as raw JSON, not lowered to a struct"))
		}

		return
	}

	idx := len(spec.Structs)
	spec.Structs = append(spec.Structs, model.StructFields{Name: name})
	sf := structFieldsFor(spec, s, name, nmr, warnings)
	spec.Structs[idx] = sf
}

func structFieldsFor(spec *model.Spec, s *model.SchemaRef, name string, nmr *namer, warnings *diag.Warnings) model.StructFields {
	sf := model.StructFields{Name: name, Deprecated: s.Deprecated}

	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	for _, prop := range s.Properties {
		sf.Fields = append(sf.Fields, fieldFor(spec, prop.Name, prop.Schema, required[prop.Name], name, nmr, warnings))
	}

	return sf
}

func fieldFor(spec *model.Spec, propName string, propSchema *model.SchemaRef, required bool, parentName string, nmr *namer, warnings *diag.Warnings) model.Field {
	f := model.Field{Name: propName, JSONName: propName, Required: required}

	if propSchema == nil {
		f.Kind = model.FieldPrimitive
		return f
	}

	f.Nullable = propSchema.Nullable

	if propSchema.HasDefault {
		f.HasDefault = true
		f.DefaultLiteral = defaultLiteral(propSchema.Default)
	}

	hint := parentName + "_" + propName

	switch {
	case propSchema.Ref != "":
		f.Kind = model.FieldObject
		f.RefType = propSchema.RefName
	case propSchema.Type == "array":
		f.Kind = model.FieldArray
		f.ItemKind, f.ItemRefType = itemKindFor(spec, propSchema.Items, hint+"_Item", nmr, warnings)
	case isObjectLike(propSchema):
		name := nmr.unique(hint)
		promote(spec, name, propSchema, nmr, warnings)
		f.Kind = model.FieldObject
		f.RefType = name
	case propSchema.Type == "string" && len(propSchema.Enum) > 0:
		f.Kind = model.FieldEnum
		f.EnumValues = enumStrings(propSchema.Enum)
	case propSchema.Type == "string":
		f.Kind = model.FieldString
	default:
		f.Kind = model.FieldPrimitive
	}

	f.Validation = validationFor(propSchema)

	return f
}

func itemKindFor(spec *model.Spec, items *model.SchemaRef, hint string, nmr *namer, warnings *diag.Warnings) (model.FieldKind, string) {
	if items == nil {
		return model.FieldPrimitive, ""
	}

	switch {
	case items.Ref != "":
		return model.FieldObject, items.RefName
	case isObjectLike(items):
		name := nmr.unique(hint)
		promote(spec, name, items, nmr, warnings)

		return model.FieldObject, name
	case items.Type == "string" && len(items.Enum) > 0:
		return model.FieldEnum, ""
	default:
		return model.FieldPrimitive, ""
	}
}

func validationFor(s *model.SchemaRef) model.Validation {
	return model.Validation{
		Min:         s.Minimum,
		Max:         s.Maximum,
		MinLen:      s.MinLength,
		MaxLen:      s.MaxLength,
		Pattern:     s.Pattern,
		MinItems:    s.MinItems,
		MaxItems:    s.MaxItems,
		UniqueItems: s.UniqueItems,
	}
}

func enumStrings(enum []any) []string {
	out := make([]string, 0, len(enum))

	for _, e := range enum {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// defaultLiteral formats a decoded JSON default value as the literal text
// §4.I's generated default() kernel writes verbatim for primitives and
// duplicates for strings.
func defaultLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		if val {
			return "true"
		}

		return "false"
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}

		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return "NULL"
	default:
		return fmt.Sprint(val)
	}
}

// isObjectLike reports whether s is an anonymous (non-$ref) schema that
// the lifter should promote: a composition schema, an object with
// properties, or a bare "type": "object".
func isObjectLike(s *model.SchemaRef) bool {
	if s == nil || s.IsBool || s.Ref != "" || s.DynamicRef != "" {
		return false
	}

	if isComposition(s) {
		return true
	}

	return s.Type == "object" || len(s.Properties) > 0
}

func isComposition(s *model.SchemaRef) bool {
	return s != nil && (len(s.AllOf) > 0 || len(s.AnyOf) > 0 || len(s.OneOf) > 0 || s.Not != nil)
}

// schemaToRawJSON best-effort reconstructs a JSON Schema document for a
// composition schema, for composition-aware emission (§4.H). It does not
// preserve the document's original bytes (LowerSchema does not thread raw
// source text through recursive calls, see DESIGN.md); it serializes the
// already-lowered IR back to JSON, which is sufficient for callers that
// only read the composition shape rather than byte-for-byte round-trip it.
func schemaToRawJSON(s *model.SchemaRef) string {
	b, err := json.Marshal(schemaToAny(s))
	if err != nil {
		return "{}"
	}

	return string(b)
}

func schemaToAny(s *model.SchemaRef) map[string]any {
	if s == nil {
		return nil
	}

	m := map[string]any{}

	if s.Ref != "" {
		m["$ref"] = s.Ref
		return m
	}

	if s.Type != "" {
		m["type"] = s.Type
	}

	if len(s.AllOf) > 0 {
		m["allOf"] = schemaListToAny(s.AllOf)
	}

	if len(s.AnyOf) > 0 {
		m["anyOf"] = schemaListToAny(s.AnyOf)
	}

	if len(s.OneOf) > 0 {
		m["oneOf"] = schemaListToAny(s.OneOf)
	}

	if s.Not != nil {
		m["not"] = schemaToAny(s.Not)
	}

	if len(s.Properties) > 0 {
		props := map[string]any{}
		for _, p := range s.Properties {
			props[p.Name] = schemaToAny(p.Schema)
		}

		m["properties"] = props
	}

	return m
}

func schemaListToAny(list []*model.SchemaRef) []any {
	out := make([]any, 0, len(list))

	for _, s := range list {
		out = append(out, schemaToAny(s))
	}

	return out
}

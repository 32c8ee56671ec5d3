package load

import (
	"github.com/iancoleman/orderedmap"

	"github.com/talav/ccdd/diag"
	"github.com/talav/ccdd/internal/genir"
	"github.com/talav/ccdd/internal/jsonv"
	"github.com/talav/ccdd/internal/model"
	"github.com/talav/ccdd/internal/resolve"
)

// LowerSchema constructs a *model.SchemaRef from a decoded JSON value,
// implementing §4.G. Schema bodies are always a finite tree (cycles only
// arise through $ref, which is stored verbatim rather than followed), so
// lowering is a single unguarded recursive descent. Any non-extension
// keyword outside the recognized JSON Schema/OpenAPI vocabulary is
// preserved in Extensions (JSON Schema permits unknown keywords) and
// reported via warnings as diag.WarnUnrecognizedKeyword.
func LowerSchema(v any, warnings *diag.Warnings) (*model.SchemaRef, error) {
	if b, ok := v.(bool); ok {
		return &model.SchemaRef{IsBool: true, BoolValue: b}, nil
	}

	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.SchemaRef{}, nil
	}

	s := &model.SchemaRef{}

	if ref, ok := jsonv.GetString(om, "$ref"); ok {
		s.Ref = ref
		s.RefName = localRefName(ref)
	}

	if dref, ok := jsonv.GetString(om, "$dynamicRef"); ok {
		s.DynamicRef = dref
	}

	s.Anchor, _ = jsonv.GetString(om, "$anchor")
	s.DynamicAnchor, _ = jsonv.GetString(om, "$dynamicAnchor")
	s.ID, _ = jsonv.GetString(om, "$id")

	if typeVal, ok := jsonv.Get(om, "type"); ok {
		s.Type, s.Types, s.Nullable = lowerTypeField(typeVal)
	}

	s.Title, _ = jsonv.GetString(om, "title")
	s.Description, _ = jsonv.GetString(om, "description")
	s.Format, _ = jsonv.GetString(om, "format")
	s.ContentMediaType, _ = jsonv.GetString(om, "contentMediaType")
	s.ContentEncoding, _ = jsonv.GetString(om, "contentEncoding")
	s.Pattern, _ = jsonv.GetString(om, "pattern")

	if s.Pattern != "" {
		if _, err := genir.DecomposePattern(s.Pattern); err != nil {
			return nil, err
		}
	}

	if itemsVal, ok := jsonv.Get(om, "items"); ok {
		items, err := LowerSchema(itemsVal, warnings)
		if err != nil {
			return nil, err
		}

		s.Items = items
	}

	if propsVal, ok := jsonv.Get(om, "properties"); ok {
		if propsOm, ok := jsonv.AsObject(propsVal); ok {
			for _, name := range propsOm.Keys() {
				raw, _ := propsOm.Get(name)

				ps, err := LowerSchema(raw, warnings)
				if err != nil {
					return nil, err
				}

				s.Properties = append(s.Properties, model.NamedSchema{Name: name, Schema: ps})
			}
		}
	}

	if reqVal, ok := jsonv.Get(om, "required"); ok {
		if reqArr, ok := jsonv.AsArray(reqVal); ok {
			for _, r := range reqArr {
				if str, ok := jsonv.AsString(r); ok {
					s.Required = append(s.Required, str)
				}
			}
		}
	}

	if patPropsVal, ok := jsonv.Get(om, "patternProperties"); ok {
		if patPropsOm, ok := jsonv.AsObject(patPropsVal); ok {
			for _, name := range patPropsOm.Keys() {
				raw, _ := patPropsOm.Get(name)

				ps, err := LowerSchema(raw, warnings)
				if err != nil {
					return nil, err
				}

				s.PatternProperties = append(s.PatternProperties, model.NamedSchema{Name: name, Schema: ps})
			}
		}
	}

	if addlVal, ok := jsonv.Get(om, "additionalProperties"); ok {
		additional, err := lowerAdditional(addlVal, warnings)
		if err != nil {
			return nil, err
		}

		s.AdditionalProperties = additional
	}

	var err error

	if s.AllOf, err = lowerSchemaList(om, "allOf", warnings); err != nil {
		return nil, err
	}

	if s.AnyOf, err = lowerSchemaList(om, "anyOf", warnings); err != nil {
		return nil, err
	}

	if s.OneOf, err = lowerSchemaList(om, "oneOf", warnings); err != nil {
		return nil, err
	}

	if notVal, ok := jsonv.Get(om, "not"); ok {
		if s.Not, err = LowerSchema(notVal, warnings); err != nil {
			return nil, err
		}
	}

	if ifVal, ok := jsonv.Get(om, "if"); ok {
		if s.If, err = LowerSchema(ifVal, warnings); err != nil {
			return nil, err
		}
	}

	if thenVal, ok := jsonv.Get(om, "then"); ok {
		if s.Then, err = LowerSchema(thenVal, warnings); err != nil {
			return nil, err
		}
	}

	if elseVal, ok := jsonv.Get(om, "else"); ok {
		if s.Else, err = LowerSchema(elseVal, warnings); err != nil {
			return nil, err
		}
	}

	if enumVal, ok := jsonv.Get(om, "enum"); ok {
		if enumArr, ok := jsonv.AsArray(enumVal); ok {
			s.Enum = enumArr
		}
	}

	if constVal, ok := jsonv.Get(om, "const"); ok {
		s.Const, s.HasConst = constVal, true
	}

	if defVal, ok := jsonv.Get(om, "default"); ok {
		s.Default, s.HasDefault = defVal, true
	}

	if exVal, ok := jsonv.Get(om, "example"); ok {
		s.Example, s.HasExample = exVal, true
	}

	if exsVal, ok := jsonv.Get(om, "examples"); ok {
		if exsArr, ok := jsonv.AsArray(exsVal); ok {
			s.Examples = exsArr
		}
	}

	s.Deprecated, _ = jsonv.GetBool(om, "deprecated")
	s.ReadOnly, _ = jsonv.GetBool(om, "readOnly")
	s.WriteOnly, _ = jsonv.GetBool(om, "writeOnly")
	s.UniqueItems, _ = jsonv.GetBool(om, "uniqueItems")

	s.Minimum = lowerBound(om, "minimum", "exclusiveMinimum")
	s.Maximum = lowerBound(om, "maximum", "exclusiveMaximum")
	s.MultipleOf = lowerFloatPtr(om, "multipleOf")
	s.MinLength = lowerIntPtr(om, "minLength")
	s.MaxLength = lowerIntPtr(om, "maxLength")
	s.MinItems = lowerIntPtr(om, "minItems")
	s.MaxItems = lowerIntPtr(om, "maxItems")
	s.MinProperties = lowerIntPtr(om, "minProperties")
	s.MaxProperties = lowerIntPtr(om, "maxProperties")

	if discVal, ok := jsonv.Get(om, "discriminator"); ok {
		s.Discriminator = lowerDiscriminator(discVal)
	}

	if xmlVal, ok := jsonv.Get(om, "xml"); ok {
		s.XML = lowerXML(xmlVal)
	}

	if edVal, ok := jsonv.Get(om, "externalDocs"); ok {
		s.ExternalDocs = parseExternalDocs(edVal)
	}

	s.Extensions = extractSchemaExtensions(om, recognizedSchemaKeys, warnings)

	return s, nil
}

// recognizedSchemaKeys is every keyword LowerSchema handles explicitly.
// Anything else is preserved in Extensions and, unless it is an "x-"
// specification extension, reported via warnings (§4.G step 4).
var recognizedSchemaKeys = map[string]bool{
	"$ref": true, "$dynamicRef": true, "$anchor": true, "$dynamicAnchor": true, "$id": true, "type": true,
	"title": true, "description": true, "format": true,
	"contentMediaType": true, "contentEncoding": true, "pattern": true,
	"items": true, "properties": true, "required": true,
	"patternProperties": true, "additionalProperties": true,
	"allOf": true, "anyOf": true, "oneOf": true,
	"not": true, "if": true, "then": true, "else": true,
	"enum": true, "const": true, "default": true,
	"example": true, "examples": true,
	"deprecated": true, "readOnly": true, "writeOnly": true, "uniqueItems": true,
	"minimum": true, "maximum": true, "exclusiveMinimum": true, "exclusiveMaximum": true,
	"multipleOf": true, "minLength": true, "maxLength": true,
	"minItems": true, "maxItems": true,
	"minProperties": true, "maxProperties": true,
	"discriminator": true, "xml": true, "externalDocs": true,
}

// extractSchemaExtensions splits om into recognized keys, "x-*" spec
// extensions, and unrecognized JSON Schema keywords. JSON Schema permits
// unknown keywords, so they are preserved verbatim rather than dropped;
// each one also produces a WarnUnrecognizedKeyword advisory.
func extractSchemaExtensions(om *orderedmap.OrderedMap, known map[string]bool, warnings *diag.Warnings) map[string]any {
	var extensions map[string]any

	for _, key := range om.Keys() {
		if known[key] {
			continue
		}

		value, _ := om.Get(key)

		if extensions == nil {
			extensions = make(map[string]any)
		}

		extensions[key] = value

		if len(key) >= 2 && key[0] == 'x' && key[1] == '-' {
			continue
		}

		if warnings != nil {
			warnings.Append(diag.NewWarning(diag.WarnUnrecognizedKeyword, "", "unrecognized schema keyword: "+key))
		}
	}

	return extensions
}

func lowerSchemaList(om *orderedmap.OrderedMap, key string, warnings *diag.Warnings) ([]*model.SchemaRef, error) {
	val, ok := jsonv.Get(om, key)
	if !ok {
		return nil, nil
	}

	arr, ok := jsonv.AsArray(val)
	if !ok {
		return nil, nil
	}

	out := make([]*model.SchemaRef, 0, len(arr))

	for _, item := range arr {
		s, err := LowerSchema(item, warnings)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// localRefName resolves the component name a local "#/components/<bucket>
// /<name>" $ref targets, JSON-pointer-unescaped. Non-local or malformed
// refs yield an empty name; resolution is deferred to internal/resolve.
func localRefName(ref string) string {
	base, fragment := resolve.SplitFragment(ref)
	if base != "" || fragment == "" {
		return ""
	}

	idx := -1
	for i := len(fragment) - 1; i >= 0; i-- {
		if fragment[i] == '/' {
			idx = i

			break
		}
	}

	if idx < 0 {
		return resolve.UnescapeJSONPointerToken(fragment)
	}

	return resolve.UnescapeJSONPointerToken(fragment[idx+1:])
}

// lowerTypeField implements §4.G step 2: type may be a string or an array
// that may include "null" (setting nullable), choosing the first non-null
// entry as the representative type.
func lowerTypeField(v any) (representative string, types []string, nullable bool) {
	if str, ok := jsonv.AsString(v); ok {
		return str, []string{str}, false
	}

	arr, ok := jsonv.AsArray(v)
	if !ok {
		return "", nil, false
	}

	for _, item := range arr {
		str, ok := jsonv.AsString(item)
		if !ok {
			continue
		}

		types = append(types, str)

		if str == "null" {
			nullable = true
		} else if representative == "" {
			representative = str
		}
	}

	return representative, types, nullable
}

func lowerAdditional(v any, warnings *diag.Warnings) (*model.Additional, error) {
	if b, ok := v.(bool); ok {
		return &model.Additional{Allow: &b}, nil
	}

	s, err := LowerSchema(v, warnings)
	if err != nil {
		return nil, err
	}

	return &model.Additional{Schema: s}, nil
}

// lowerBound merges the legacy 3.0 boolean exclusiveMinimum/Maximum form
// and the 3.1+ numeric form into one Bound (§4.G "Exclusive-min/max").
func lowerBound(om *orderedmap.OrderedMap, minKey, exclKey string) *model.Bound {
	excl, hasExcl := jsonv.Get(om, exclKey)

	if hasExcl {
		if exclNum, ok := jsonv.AsFloat64(excl); ok {
			return &model.Bound{Value: exclNum, Exclusive: true}
		}
	}

	minVal, hasMin := jsonv.Get(om, minKey)
	if !hasMin {
		return nil
	}

	num, ok := jsonv.AsFloat64(minVal)
	if !ok {
		return nil
	}

	exclusive := false

	if hasExcl {
		exclusive, _ = jsonv.AsBool(excl)
	}

	return &model.Bound{Value: num, Exclusive: exclusive}
}

func lowerFloatPtr(om *orderedmap.OrderedMap, key string) *float64 {
	v, ok := jsonv.Get(om, key)
	if !ok {
		return nil
	}

	n, ok := jsonv.AsFloat64(v)
	if !ok {
		return nil
	}

	return &n
}

func lowerIntPtr(om *orderedmap.OrderedMap, key string) *int {
	v, ok := jsonv.Get(om, key)
	if !ok {
		return nil
	}

	n, ok := jsonv.AsFloat64(v)
	if !ok {
		return nil
	}

	i := int(n)

	return &i
}

func lowerDiscriminator(v any) *model.Discriminator {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return nil
	}

	d := &model.Discriminator{}
	d.PropertyName, _ = jsonv.GetString(om, "propertyName")
	d.DefaultMapping, _ = jsonv.GetString(om, "defaultMapping")

	if mapVal, ok := jsonv.Get(om, "mapping"); ok {
		if mapOm, ok := jsonv.AsObject(mapVal); ok {
			for _, key := range mapOm.Keys() {
				raw, _ := mapOm.Get(key)

				if str, ok := jsonv.AsString(raw); ok {
					d.Mapping = append(d.Mapping, model.MappingEntry{Key: key, SchemaName: str})
				}
			}
		}
	}

	d.Extensions = jsonv.ExtractExtensions(om, nil)

	return d
}

func lowerXML(v any) *model.XML {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return nil
	}

	x := &model.XML{}
	x.NodeType, _ = jsonv.GetString(om, "nodeType")
	x.Name, _ = jsonv.GetString(om, "name")
	x.Namespace, _ = jsonv.GetString(om, "namespace")
	x.Prefix, _ = jsonv.GetString(om, "prefix")
	x.Attribute, _ = jsonv.GetBool(om, "attribute")
	x.Wrapped, _ = jsonv.GetBool(om, "wrapped")
	x.Extensions = jsonv.ExtractExtensions(om, nil)

	return x
}

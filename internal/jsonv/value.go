// Package jsonv decodes JSON documents into an order-preserving form and
// offers small helpers for splitting recognized keys from extensions
// (§4.F step 5, §9 "Union-like tagged nodes").
package jsonv

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// Decode parses data into an order-preserving value tree. Objects decode
// to *orderedmap.OrderedMap (preserving source key order, recursively),
// arrays to []any, and scalars to the usual encoding/json types (nil,
// bool, json.Number, string). This is the entry point for every loader
// function that needs to inspect object key order (§5 "OpenAPI list
// ordering preserves source JSON object key order").
func Decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("jsonv: decode: %w", errEmptyInput)
	}

	switch trimmed[0] {
	case '{':
		return DecodeObject(trimmed)

	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("jsonv: decode array: %w", err)
		}

		out := make([]any, len(raws))
		for i, raw := range raws {
			v, err := Decode(raw)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	default:
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("jsonv: decode scalar: %w", err)
		}

		return v, nil
	}
}

var errEmptyInput = fmt.Errorf("empty input")

// DecodeObject parses data, requiring the root value to be a JSON object.
// Nested objects anywhere in the tree (including inside arrays) are
// likewise decoded as *orderedmap.OrderedMap.
func DecodeObject(data []byte) (*orderedmap.OrderedMap, error) {
	om := orderedmap.New()
	if err := om.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("jsonv: decode object: %w", err)
	}

	for _, key := range om.Keys() {
		child, _ := om.Get(key)
		om.Set(key, reorderNested(child))
	}

	return om, nil
}

// reorderNested fixes up values orderedmap.UnmarshalJSON leaves as plain
// map[string]any when they appear inside an array (the library only
// special-cases object-valued map fields, not array elements).
func reorderNested(v any) any {
	switch val := v.(type) {
	case map[string]any:
		raw, err := json.Marshal(val)
		if err != nil {
			return val
		}

		om, err := DecodeObject(raw)
		if err != nil {
			return val
		}

		return om

	case []any:
		for i, item := range val {
			val[i] = reorderNested(item)
		}

		return val

	default:
		return v
	}
}

// AsObject type-asserts v as an ordered object, returning ok=false for
// any other JSON type (including nil).
func AsObject(v any) (*orderedmap.OrderedMap, bool) {
	om, ok := v.(*orderedmap.OrderedMap)

	return om, ok
}

// AsArray type-asserts v as a JSON array.
func AsArray(v any) ([]any, bool) {
	arr, ok := v.([]any)

	return arr, ok
}

// AsString type-asserts v as a JSON string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)

	return s, ok
}

// AsBool type-asserts v as a JSON boolean.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)

	return b, ok
}

// AsFloat64 reads v as a number, accepting both float64 (from plain
// interface{} decoding) and json.Number (from UseNumber decoding).
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}

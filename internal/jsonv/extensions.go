package jsonv

import "github.com/iancoleman/orderedmap"

// ExtractExtensions splits om into recognized keys (present in known) and
// "x-*" specification extensions, returning the latter as a plain map
// (extension ordering is not load-bearing downstream). This is the
// loader-side inverse of the teacher's MarshalWithExtensions helper: that
// function inlined an Extensions map back into an object at emit time;
// this one pulls one back out at parse time (§4.F step 5).
func ExtractExtensions(om *orderedmap.OrderedMap, known map[string]bool) map[string]any {
	var extensions map[string]any

	for _, key := range om.Keys() {
		if known[key] {
			continue
		}

		if len(key) < 2 || key[0] != 'x' || key[1] != '-' {
			continue
		}

		if extensions == nil {
			extensions = make(map[string]any)
		}

		value, _ := om.Get(key)
		extensions[key] = value
	}

	return extensions
}

// Get is a convenience wrapper returning (value, true) for a present key,
// or (nil, false) otherwise.
func Get(om *orderedmap.OrderedMap, key string) (any, bool) {
	if om == nil {
		return nil, false
	}

	return om.Get(key)
}

// GetString reads a string-valued key, returning ("", false) if absent or
// not a string.
func GetString(om *orderedmap.OrderedMap, key string) (string, bool) {
	v, ok := Get(om, key)
	if !ok {
		return "", false
	}

	return AsString(v)
}

// GetBool reads a bool-valued key.
func GetBool(om *orderedmap.OrderedMap, key string) (bool, bool) {
	v, ok := Get(om, key)
	if !ok {
		return false, false
	}

	return AsBool(v)
}

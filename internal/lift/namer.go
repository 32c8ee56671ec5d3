// Package lift implements the inline schema lifter (§4.H): promoting an
// anonymous object-like schema found in a request body, response body, or
// querystring parameter into a named component, so the emission IR only
// ever has to deal with named structs.
package lift

import (
	"strconv"
	"strings"
)

// baseRequestName builds the base name for a request body's primary inline
// schema: "Inline_<opId>_Request", with an "_Item" suffix for the element
// type of an array body (§4.H).
func baseRequestName(opID string, isArrayItem bool) string {
	name := "Inline_" + opID + "_Request"
	if isArrayItem {
		name += "_Item"
	}

	return name
}

// baseResponseName builds the base name for a response body's primary
// inline schema: "Inline_<opId>_Response_<statusOrDefault>", with an
// "_Item" suffix for the element type of an array body (§4.H).
func baseResponseName(opID, status string, isArrayItem bool) string {
	name := "Inline_" + opID + "_Response_" + status
	if isArrayItem {
		name += "_Item"
	}

	return name
}

// baseQuerystringName builds the base name for a querystring parameter's
// inline schema: "Inline_Querystring_<paramName>" (§4.H).
func baseQuerystringName(paramName string) string {
	return "Inline_Querystring_" + paramName
}

// sanitizeName maps every character outside [A-Za-z0-9._-] to '_'. An
// empty result falls back to "InlineSchema" (§4.H).
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	if b.Len() == 0 {
		return "InlineSchema"
	}

	return b.String()
}

// namer resolves collisions between inline-lifted names and the names
// already in use by struct-lowered and raw composition schemas, by
// appending "_<counter>" starting at 1 (§4.H).
type namer struct {
	used map[string]bool
}

// newNamer seeds the collision table with every name already claimed by a
// defined struct or raw composition schema, so newly lifted names never
// shadow them.
func newNamer(existing ...[]string) *namer {
	n := &namer{used: make(map[string]bool)}

	for _, names := range existing {
		for _, name := range names {
			n.used[name] = true
		}
	}

	return n
}

// unique sanitizes base and returns the first name in {base, base_1,
// base_2, ...} not already claimed, reserving it for future calls.
func (n *namer) unique(base string) string {
	name := sanitizeName(base)

	if !n.used[name] {
		n.used[name] = true

		return name
	}

	for counter := 1; ; counter++ {
		candidate := name + "_" + strconv.Itoa(counter)
		if !n.used[candidate] {
			n.used[candidate] = true

			return candidate
		}
	}
}

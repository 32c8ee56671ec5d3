package genir

import (
	"strings"

	"github.com/talav/ccdd/cst"
	"github.com/talav/ccdd/ctok"
	"github.com/talav/ccdd/internal/model"
)

// DriftKind classifies one disagreement Reconcile found between the
// schema-derived IR and a hand-maintained C header.
type DriftKind int

const (
	// StructMissingFromSource: the IR names a struct the header never
	// defines.
	StructMissingFromSource DriftKind = iota

	// FieldMissingFromSource: the header's struct definition is missing a
	// field the IR expects.
	FieldMissingFromSource

	// FieldMissingFromIR: the header's struct declares a field the IR
	// does not know about.
	FieldMissingFromIR
)

// Drift is one detected disagreement between a StructFields entry and the
// matching struct definition (by name) found in the header.
type Drift struct {
	Kind       DriftKind
	StructName string
	FieldName  string
}

// Reconcile compares structs against the struct definitions found among
// nodes (a CST built over src) and reports where they disagree.
//
// This is grounded on sync_code.c, which re-derives each struct's field
// list from a hand-maintained header by scanning brace/semicolon state
// before regenerating that struct's companion implementation file from
// scratch. This module never emits C text, so there is nothing to
// regenerate; Reconcile keeps only the "read the header's current shape"
// half of that tool and reports disagreements instead of silently
// overwriting them, leaving the decision of what to do about a drift to
// the caller.
func Reconcile(nodes []cst.Node, src ctok.Span, structs []model.StructFields) []Drift {
	headerFields := make(map[string][]string, len(nodes))

	for _, node := range nodes {
		if node.Kind != cst.Struct {
			continue
		}

		text := src.Sub(node.ByteStart, node.ByteStart+node.ByteLen).String()

		name, body, ok := extractStructNameAndBody(text)
		if !ok {
			continue // forward declaration, no body to compare
		}

		if _, seen := headerFields[name]; seen {
			continue // keep the first (defining) occurrence
		}

		headerFields[name] = parseStructMembers(body)
	}

	var drifts []Drift

	for _, sf := range structs {
		fields, ok := headerFields[sf.Name]
		if !ok {
			drifts = append(drifts, Drift{Kind: StructMissingFromSource, StructName: sf.Name})
			continue
		}

		inHeader := make(map[string]bool, len(fields))
		for _, f := range fields {
			inHeader[f] = true
		}

		inIR := make(map[string]bool, len(sf.Fields))
		for _, f := range sf.Fields {
			inIR[f.Name] = true

			if !inHeader[f.Name] {
				drifts = append(drifts, Drift{Kind: FieldMissingFromSource, StructName: sf.Name, FieldName: f.Name})
			}
		}

		for _, f := range fields {
			if !inIR[f] {
				drifts = append(drifts, Drift{Kind: FieldMissingFromIR, StructName: sf.Name, FieldName: f})
			}
		}
	}

	return drifts
}

// extractStructNameAndBody splits a Struct node's source text (everything
// from "struct" through the trailing ";") into the struct's tag name and
// its brace-delimited body. It returns ok=false for a bodyless forward
// declaration like "struct Foo;".
func extractStructNameAndBody(text string) (name, body string, ok bool) {
	openIdx := strings.IndexByte(text, '{')
	if openIdx < 0 {
		return "", "", false
	}

	header := strings.TrimSpace(text[:openIdx])
	header = strings.TrimPrefix(header, "struct")
	header = strings.TrimSpace(header)

	fields := strings.Fields(header)
	if len(fields) == 0 {
		return "", "", false
	}

	name = fields[0]

	closeIdx := matchingBrace(text, openIdx)
	if closeIdx < 0 {
		return "", "", false
	}

	return name, text[openIdx+1 : closeIdx], true
}

// matchingBrace returns the index of the '}' that closes the '{' at
// openIdx, tracking nesting depth so a nested struct/union definition
// inside the body does not end the scan early.
func matchingBrace(text string, openIdx int) int {
	depth := 0

	for i := openIdx; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// parseStructMembers extracts one field name per top-level "type name;"
// (or "type *name;", "type name[n];") member declaration in body. Depth
// tracking keeps a nested inline struct/union's own members from being
// mistaken for the enclosing struct's fields; only the nested type's own
// declarator (the final identifier in its segment) is counted, mirroring
// sync_code.c's line-oriented member scan.
func parseStructMembers(body string) []string {
	var names []string

	for _, seg := range splitTopLevel(body, ';') {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		if idx := strings.IndexByte(seg, '['); idx >= 0 {
			seg = seg[:idx]
		}

		fields := strings.Fields(seg)
		if len(fields) == 0 {
			continue
		}

		last := strings.TrimLeft(fields[len(fields)-1], "*")
		if last != "" {
			names = append(names, last)
		}
	}

	return names
}

// splitTopLevel splits s on sep, skipping any sep byte found inside a
// nested '{'/'}' pair.
func splitTopLevel(s string, sep byte) []string {
	var parts []string

	depth := 0
	last := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}

	parts = append(parts, s[last:])

	return parts
}

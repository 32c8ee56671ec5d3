package resolve

import (
	"strings"

	"github.com/talav/ccdd/internal/model"
)

// bucketLists returns the ordered (name, value) list for the named
// components bucket, or nil if spec has no components or the bucket name
// is unrecognized.
func bucketLists(spec *model.Spec, bucket string) []namedValue {
	if spec == nil || spec.Components == nil {
		return nil
	}

	c := spec.Components

	switch bucket {
	case "schemas":
		out := make([]namedValue, len(c.Schemas))
		for i, e := range c.Schemas {
			out[i] = namedValue{e.Name, e.Schema}
		}

		return out

	case "responses":
		out := make([]namedValue, len(c.Responses))
		for i, e := range c.Responses {
			out[i] = namedValue{e.Name, e.Response}
		}

		return out

	case "parameters":
		out := make([]namedValue, len(c.Parameters))
		for i, e := range c.Parameters {
			out[i] = namedValue{e.Name, e.Parameter}
		}

		return out

	case "requestBodies":
		out := make([]namedValue, len(c.RequestBodies))
		for i, e := range c.RequestBodies {
			out[i] = namedValue{e.Name, e}
		}

		return out

	case "headers":
		out := make([]namedValue, len(c.Headers))
		for i, e := range c.Headers {
			out[i] = namedValue{e.Name, e.Header}
		}

		return out

	case "securitySchemes":
		out := make([]namedValue, len(c.SecuritySchemes))
		for i, e := range c.SecuritySchemes {
			out[i] = namedValue{e.Name, e.Scheme}
		}

		return out

	case "examples":
		out := make([]namedValue, len(c.Examples))
		for i, e := range c.Examples {
			out[i] = namedValue{e.Name, e.Example}
		}

		return out

	case "links":
		out := make([]namedValue, len(c.Links))
		for i, e := range c.Links {
			out[i] = namedValue{e.Name, e.Link}
		}

		return out

	case "callbacks":
		out := make([]namedValue, len(c.Callbacks))
		for i, e := range c.Callbacks {
			out[i] = namedValue{e.Name, e.Callback}
		}

		return out

	case "pathItems":
		out := make([]namedValue, len(c.PathItems))
		for i, e := range c.PathItems {
			out[i] = namedValue{e.Pattern, e.Item}
		}

		return out

	default:
		return nil
	}
}

type namedValue struct {
	name  string
	value any
}

// FindComponent performs JSON-pointer unescape on the last segment of ref
// and linearly searches the named components bucket of spec (§4.E
// "find_component").
func FindComponent(spec *model.Spec, ref, bucket string) (any, bool) {
	_, fragment := SplitFragment(ref)

	segments := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	if len(segments) == 0 {
		return nil, false
	}

	name := UnescapeJSONPointerToken(segments[len(segments)-1])

	for _, nv := range bucketLists(spec, bucket) {
		if nv.name == name {
			return nv.value, true
		}
	}

	return nil, false
}

// ResolveRef implements §4.E's resolve_ref: it resolves ref against
// spec.DocumentURI, looks the normalized base up in registry when the ref
// carries one, and returns the target spec together with the resolved
// (base-stripped) ref string the caller should pass to FindComponent.
// ok is false when ref's base URI is not registered.
func ResolveRef(spec *model.Spec, registry *DocRegistry, ref string) (target *model.Spec, resolvedRef string, ok bool) {
	base, fragment := SplitFragment(ref)
	if base == "" {
		return spec, "#" + fragment, true
	}

	normalized, err := NormalizeURI(spec.DocumentURI, base)
	if err != nil {
		return nil, "", false
	}

	if registry == nil {
		return nil, "", false
	}

	found, ok := registry.Lookup(normalized)
	if !ok {
		return nil, "", false
	}

	return found, "#" + fragment, true
}

// AnchorTable holds a document's `$anchor`/`$dynamicAnchor`/`$id` lookup
// tables, used by dynamic-ref resolution (§4.E "Dynamic refs"). Names is
// the final fallback named in the same passage: every top-level
// components/schemas entry, keyed by its declared name. Build one with
// [BuildAnchorTable] rather than populating the maps by hand.
type AnchorTable struct {
	Static  map[string]*model.SchemaRef
	Dynamic map[string]*model.SchemaRef
	IDs     map[string]*model.SchemaRef
	Names   map[string]*model.SchemaRef
}

// NewAnchorTable creates an empty AnchorTable.
func NewAnchorTable() *AnchorTable {
	return &AnchorTable{
		Static:  make(map[string]*model.SchemaRef),
		Dynamic: make(map[string]*model.SchemaRef),
		IDs:     make(map[string]*model.SchemaRef),
		Names:   make(map[string]*model.SchemaRef),
	}
}

// ResolveDynamicRef searches the dynamic anchor table first, falling
// back to the static one (§4.E "Dynamic refs ($dynamicRef) search anchor
// tables (dynamic first, static fallback)").
func (t *AnchorTable) ResolveDynamicRef(anchor string) (*model.SchemaRef, bool) {
	if s, ok := t.Dynamic[anchor]; ok {
		return s, true
	}

	s, ok := t.Static[anchor]

	return s, ok
}

// ResolveStaticRef searches the static anchor table, then the dynamic
// one, then the $id table, then the name table (§4.E "plain $ref searches
// static anchor table, dynamic fallback, then $id table, then name
// table").
func (t *AnchorTable) ResolveStaticRef(anchor string) (*model.SchemaRef, bool) {
	if s, ok := t.Static[anchor]; ok {
		return s, true
	}

	if s, ok := t.Dynamic[anchor]; ok {
		return s, true
	}

	if s, ok := t.IDs[anchor]; ok {
		return s, true
	}

	s, ok := t.Names[anchor]

	return s, ok
}

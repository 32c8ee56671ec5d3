package resolve

import "github.com/talav/ccdd/internal/model"

// BuildAnchorTable walks every schema reachable from spec — component
// schemas and every inline schema attached to a parameter, media type,
// header, or response, across paths, webhooks, component path items, and
// callbacks — and indexes each one that carries "$anchor", "$dynamicAnchor",
// or "$id" (§4.E "Dynamic refs"). It also populates Names, the name-table
// fallback ResolveStaticRef consults last (spec.md:123), from the
// top-level components/schemas entries.
func BuildAnchorTable(spec *model.Spec) *AnchorTable {
	t := NewAnchorTable()
	if spec == nil {
		return t
	}

	if spec.Components != nil {
		for _, e := range spec.Components.Schemas {
			t.Names[e.Name] = e.Schema
			walkSchema(t, e.Schema)
		}
	}

	walkPaths(t, spec.Paths)
	walkPaths(t, spec.Webhooks)

	if spec.Components != nil {
		walkPaths(t, spec.Components.PathItems)

		for _, e := range spec.Components.Parameters {
			walkParameter(t, e.Parameter)
		}

		for _, e := range spec.Components.Responses {
			walkResponse(t, e.Response)
		}

		for _, e := range spec.Components.RequestBodies {
			walkMediaTypes(t, e.Content)
		}

		for _, e := range spec.Components.Headers {
			walkHeader(t, e.Header)
		}
	}

	return t
}

func walkPaths(t *AnchorTable, entries []model.PathEntry) {
	for _, pe := range entries {
		walkPathItem(t, pe.Item)
	}
}

func walkPathItem(t *AnchorTable, item *model.Path) {
	if item == nil {
		return
	}

	for _, p := range item.Parameters {
		walkParameter(t, p)
	}

	for _, op := range item.Operations {
		walkOperation(t, op.Operation)
	}

	for _, op := range item.AdditionalOperations {
		walkOperation(t, op.Operation)
	}
}

func walkOperation(t *AnchorTable, op *model.Operation) {
	if op == nil {
		return
	}

	for _, p := range op.Parameters {
		walkParameter(t, p)
	}

	walkSchema(t, op.RequestBody)
	walkMediaTypes(t, op.RequestBodyMediaTypes)

	for _, e := range op.Responses {
		walkResponse(t, e.Response)
	}

	for _, e := range op.Callbacks {
		if e.Callback == nil {
			continue
		}

		for _, expr := range e.Callback.Expressions {
			walkPathItem(t, expr.Item)
		}
	}
}

func walkParameter(t *AnchorTable, p *model.Parameter) {
	if p == nil {
		return
	}

	walkSchema(t, p.Schema)
	walkMediaTypes(t, p.ContentMediaTypes)
}

func walkResponse(t *AnchorTable, r *model.Response) {
	if r == nil {
		return
	}

	walkSchema(t, r.Schema)
	walkMediaTypes(t, r.ContentMediaTypes)

	for _, e := range r.Headers {
		walkHeader(t, e.Header)
	}
}

func walkHeader(t *AnchorTable, h *model.Header) {
	if h == nil {
		return
	}

	walkSchema(t, h.Schema)
	walkMediaTypes(t, h.ContentMediaTypes)
}

func walkMediaTypes(t *AnchorTable, mts []model.MediaType) {
	for _, mt := range mts {
		walkSchema(t, mt.Schema)
		walkSchema(t, mt.ItemSchema)
	}
}

// walkSchema indexes s, if it carries an anchor keyword, then recurses into
// every subschema location JSON Schema defines.
func walkSchema(t *AnchorTable, s *model.SchemaRef) {
	if s == nil || s.IsBool {
		return
	}

	if s.Anchor != "" {
		t.Static[s.Anchor] = s
	}

	if s.DynamicAnchor != "" {
		t.Dynamic[s.DynamicAnchor] = s
	}

	if s.ID != "" {
		t.IDs[s.ID] = s
	}

	walkSchema(t, s.Items)
	walkSchema(t, s.Not)
	walkSchema(t, s.If)
	walkSchema(t, s.Then)
	walkSchema(t, s.Else)

	if s.AdditionalProperties != nil {
		walkSchema(t, s.AdditionalProperties.Schema)
	}

	for _, p := range s.Properties {
		walkSchema(t, p.Schema)
	}

	for _, p := range s.PatternProperties {
		walkSchema(t, p.Schema)
	}

	for _, sub := range s.AllOf {
		walkSchema(t, sub)
	}

	for _, sub := range s.AnyOf {
		walkSchema(t, sub)
	}

	for _, sub := range s.OneOf {
		walkSchema(t, sub)
	}
}

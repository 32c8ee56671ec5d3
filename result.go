package openapi

import (
	"github.com/talav/ccdd/cst"
	"github.com/talav/ccdd/ctok"
	"github.com/talav/ccdd/diag"
	"github.com/talav/ccdd/internal/genir"
	"github.com/talav/ccdd/internal/model"
)

// Result is what Load/LoadYAML return: the generator IR for one document,
// plus the advisory warnings accumulated while building it.
type Result struct {
	// Spec is the fully loaded, lifted document IR: resolved and lowered
	// schemas, with every inline request/response/querystring schema
	// promoted to a named struct (§4.H).
	Spec *model.Spec

	// Warnings contains informational, non-fatal issues (unrecognized
	// schema keywords, composition schemas the lifter could not flatten
	// into a struct, ...). These are advisory only and do not indicate
	// failure.
	Warnings diag.Warnings
}

// Reconcile compares r.Spec.Structs against the struct definitions found
// in an existing hand-maintained C header (nodes, built by cst.Build over
// src) and reports where they disagree. See internal/genir.Reconcile.
func (r *Result) Reconcile(nodes []cst.Node, src ctok.Span) []genir.Drift {
	return genir.Reconcile(nodes, src, r.Spec.Structs)
}

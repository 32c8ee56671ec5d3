// Package resolve implements $ref/$dynamicRef resolution across a
// document and a registry of sibling documents (§4.E).
package resolve

import "github.com/talav/ccdd/internal/model"

// DocRegistry is an ordered table of (base_uri, spec) pairs allowing
// cross-document $ref resolution (§3 "DocRegistry"). The registry holds
// non-owning handles: specs must outlive any registry entry referencing
// them (§5 "Shared-resource policy"). The registry is not safe for
// concurrent mutation; callers serialize calls to Add (§5).
type DocRegistry struct {
	entries []docEntry
}

type docEntry struct {
	baseURI string
	spec    *model.Spec
}

// NewDocRegistry creates an empty registry.
func NewDocRegistry() *DocRegistry {
	return &DocRegistry{}
}

// Add registers spec under baseURI, the normalized document URI a $ref
// elsewhere may target. Re-adding the same baseURI replaces the prior
// entry.
func (r *DocRegistry) Add(baseURI string, spec *model.Spec) {
	for i, e := range r.entries {
		if e.baseURI == baseURI {
			r.entries[i].spec = spec

			return
		}
	}

	r.entries = append(r.entries, docEntry{baseURI: baseURI, spec: spec})
}

// Lookup returns the spec registered under baseURI, if any.
func (r *DocRegistry) Lookup(baseURI string) (*model.Spec, bool) {
	for _, e := range r.entries {
		if e.baseURI == baseURI {
			return e.spec, true
		}
	}

	return nil, false
}

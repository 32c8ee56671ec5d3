package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/talav/ccdd/config"
	"github.com/talav/ccdd/internal/lift"
	"github.com/talav/ccdd/internal/load"
	"github.com/talav/ccdd/internal/metaschema"
	"github.com/talav/ccdd/internal/resolve"
	"github.com/talav/ccdd/internal/validate"
)

// Loader holds the configuration a document is loaded with: the cross-
// document registry refs resolve against, the guard-macro naming the
// emission IR carries forward, and the optional meta-schema/validation
// strictness toggles. All fields are set via functional options; direct
// modification after construction is not recommended.
//
// Create instances using [NewLoader].
type Loader struct {
	registry *resolve.DocRegistry

	// GuardConfig names the preprocessor guards the emission IR attaches
	// to generated kernels (§4.I). Default: no guards.
	GuardConfig config.GuardConfig

	metaSchema       *metaschema.Validator
	skipCrossCutting bool
}

// Option configures a Loader using the functional options pattern. Options
// are applied in order, with later options potentially overriding earlier
// ones.
type Option func(*Loader)

// NewLoader creates a new [Loader].
//
// Example:
//
//	loader := openapi.NewLoader(
//	    openapi.WithGuardConfig(config.NewGuardConfig("HAVE_ENUM_STRINGS", "HAVE_JSON", "")),
//	    openapi.WithBundledMetaSchemaValidation(),
//	)
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		registry:    resolve.NewDocRegistry(),
		GuardConfig: config.DefaultGuardConfig(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithDocRegistry makes the loader resolve cross-document $ref/$dynamicRef
// against reg instead of a private, per-Loader registry. Use this to load
// several related documents (a main spec plus shared component files) into
// one shared registry before resolving any $refs between them.
func WithDocRegistry(reg *resolve.DocRegistry) Option {
	return func(l *Loader) {
		l.registry = reg
	}
}

// WithGuardConfig merges cfg into the loader's guard configuration,
// preserving already-set fields cfg leaves empty (config.MergeGuardConfig).
//
// Example:
//
//	openapi.WithGuardConfig(config.NewGuardConfig("ENUM_GUARD", "JSON_GUARD", "UTILS_GUARD"))
func WithGuardConfig(cfg config.GuardConfig) Option {
	return func(l *Loader) {
		l.GuardConfig = config.MergeGuardConfig(l.GuardConfig, cfg)
	}
}

// WithMetaSchemaValidation validates every document Load/LoadYAML is given
// against schemaJSON (a JSON Schema document) before internal/load ever
// runs, so a malformed document fails with a precise JSON-pointer location
// instead of whatever partial parse internal/load manages before erroring.
func WithMetaSchemaValidation(schemaJSON []byte) Option {
	return func(l *Loader) {
		v, err := metaschema.New(schemaJSON)
		if err == nil {
			l.metaSchema = v
		}
	}
}

// WithBundledMetaSchemaValidation is [WithMetaSchemaValidation] using the
// condensed OpenAPI 3.1/3.2 meta-schema bundled with this module.
func WithBundledMetaSchemaValidation() Option {
	return func(l *Loader) {
		v, err := metaschema.NewBundled()
		if err == nil {
			l.metaSchema = v
		}
	}
}

// SkipCrossCuttingValidation disables the §4.J cross-cutting validators
// (operationId uniqueness, path templating, path collisions, querystring
// usage, tag parents, server variables) that Load otherwise runs between
// parsing and lifting. Useful for inspecting a document that is known to
// be semantically invalid, e.g. while building tooling around Result.
func SkipCrossCuttingValidation() Option {
	return func(l *Loader) {
		l.skipCrossCutting = true
	}
}

// Load parses raw as a JSON OpenAPI (or standalone JSON Schema) document
// retrieved from retrievalURI, runs the §4.J cross-cutting validators
// (unless disabled), lifts every inline request/response/querystring
// schema into a named struct (§4.H), and registers the result in the
// loader's DocRegistry under its self URI so later documents can $ref it.
func (l *Loader) Load(raw []byte, retrievalURI string) (*Result, error) {
	if l.metaSchema != nil {
		if err := l.metaSchema.Validate(context.Background(), raw); err != nil {
			return nil, fmt.Errorf("openapi: meta-schema validation: %w", err)
		}
	}

	spec, warnings, err := load.LoadFromJSON(raw, retrievalURI, l.registry)
	if err != nil {
		return nil, err
	}

	if !l.skipCrossCutting {
		if err := validate.All(spec, l.registry); err != nil {
			return nil, err
		}
	}

	lift.Lift(spec, &warnings)

	if spec.SelfURI != "" {
		l.registry.Add(spec.SelfURI, spec)
	}

	return &Result{Spec: spec, Warnings: warnings}, nil
}

// LoadYAML decodes raw as YAML and loads the resulting document the same
// way Load does.
//
// Key order is not preserved for a YAML-sourced document: gopkg.in/yaml.v3
// decodes a mapping node into a plain map[string]any, and converting that
// back to JSON bytes (the only input internal/load accepts) sorts keys
// alphabetically. Load a JSON document directly when §5's order-
// preservation invariant matters to the caller.
func (l *Loader) LoadYAML(raw []byte, retrievalURI string) (*Result, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("openapi: decode YAML: %w", err)
	}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: re-encode YAML document as JSON: %w", err)
	}

	return l.Load(jsonBytes, retrievalURI)
}

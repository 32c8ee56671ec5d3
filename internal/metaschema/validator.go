// Package metaschema validates a raw OpenAPI document against a bundled
// meta-schema before the document is lowered to the generator IR (the
// optional WithMetaSchemaValidation load option).
//
// This inverts Talav-openapi/internal/export/validator.go's direction: the
// teacher validates an exported/projected document against a version-
// specific meta-schema after generation; here the *input* document is
// validated before internal/load ever runs, so loader errors on a
// malformed document come with a precise JSON-pointer location instead of
// whatever partial parse internal/load managed before failing.
package metaschema

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed openapi-3.1.json
var bundledSchemaJSON []byte

// Validator checks a raw OpenAPI document against a compiled meta-schema.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles schemaJSON (a JSON Schema document, draft 2020-12) into a
// Validator. Pass a caller-supplied schema to validate against something
// other than the bundled one (e.g. a future OpenAPI point release's
// official meta-schema).
func New(schemaJSON []byte) (*Validator, error) {
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return nil, fmt.Errorf("metaschema: unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	const resourceName = "openapi-meta-schema.json"
	if err := compiler.AddResource(resourceName, schemaDoc); err != nil {
		return nil, fmt.Errorf("metaschema: add schema resource: %w", err)
	}

	schema, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("metaschema: compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// NewBundled compiles the meta-schema bundled with this module: a
// condensed OpenAPI 3.1/3.2 structural schema covering the document
// shapes internal/load itself parses (info, paths, components, ...).
// Schema-node bodies are intentionally left as "any object or boolean"
// here (§4.G's own keyword-level rules are enforced by internal/load's
// lowering pass, not duplicated in this meta-schema).
func NewBundled() (*Validator, error) {
	return New(bundledSchemaJSON)
}

// Validate parses specJSON and validates it against v's compiled schema.
func (v *Validator) Validate(ctx context.Context, specJSON []byte) error {
	var data any
	if err := json.Unmarshal(specJSON, &data); err != nil {
		return fmt.Errorf("metaschema: unmarshal document: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return v.schema.Validate(data)
}

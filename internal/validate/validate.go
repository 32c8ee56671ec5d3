// Package validate implements the post-parse cross-cutting invariants of
// §4.J: operation ID uniqueness, path templating, path collisions,
// querystring usage, tag-parent acyclicity, and server URL variables.
package validate

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/talav/ccdd/internal/model"
	"github.com/talav/ccdd/internal/resolve"
)

var pathParamPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// Sentinel errors. The root package re-exports these (see its errors.go)
// so callers never need to import this internal package to use errors.Is.
var (
	ErrDuplicateOperationID           = errors.New("duplicate operationId")
	ErrUnmatchedPathParameter         = errors.New("path template parameter has no required path parameter")
	ErrDuplicatePathParameter         = errors.New("duplicate path template parameter")
	ErrPathCollision                  = errors.New("colliding path templates")
	ErrQuerystringConflict            = errors.New("querystring parameter conflicts with query parameters")
	ErrQuerystringNeedsContent        = errors.New("querystring parameter requires content")
	ErrUndefinedTagParent             = errors.New("tag parent is not a defined tag")
	ErrTagCycle                       = errors.New("tag parent graph has a cycle")
	ErrUndefinedServerVariable        = errors.New("undefined server variable")
	ErrServerVariableDefaultNotInEnum = errors.New("server variable default is not listed in enum")
	ErrServerVariableUsedTwice        = errors.New("server variable used more than once")
	ErrUnresolvedParameterRef         = errors.New("parameter $ref does not resolve to a components/parameters entry")
)

// All runs every validator over spec, returning the first error
// encountered (§7 "the loader aborts at first error"). The validators run
// in the fixed order below; this order is not load-bearing for
// correctness, only for which single error is reported first.
//
// PathTemplating and QuerystringUsage dereference "$ref"-only Parameter
// objects against registry before inspecting Name/In/Required/
// ContentMediaTypes (§4.E), so a required path parameter declared only as
// a components/parameters $ref is still seen by those checks.
func All(spec *model.Spec, registry *resolve.DocRegistry) error {
	if err := OperationIDUniqueness(spec); err != nil {
		return err
	}

	if err := PathTemplating(spec, registry); err != nil {
		return err
	}

	if err := PathCollisions(spec); err != nil {
		return err
	}

	if err := QuerystringUsage(spec, registry); err != nil {
		return err
	}

	if err := TagParents(spec); err != nil {
		return err
	}

	return ServerVariables(spec)
}

// resolveParameter dereferences p if it is a bare Reference Object
// (p.Ref != ""), returning the target components/parameters entry instead
// of the wrapper, which otherwise carries none of Name/In/Required/Schema/
// ContentMediaTypes (§4.E "resolve_ref" + "find_component").
func resolveParameter(spec *model.Spec, registry *resolve.DocRegistry, p *model.Parameter) (*model.Parameter, error) {
	if p == nil || p.Ref == "" {
		return p, nil
	}

	target, resolvedRef, ok := resolve.ResolveRef(spec, registry, p.Ref)
	if !ok {
		return nil, fmt.Errorf("%w: %q", resolve.ErrDocumentNotRegistered, p.Ref)
	}

	found, ok := resolve.FindComponent(target, resolvedRef, "parameters")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedParameterRef, p.Ref)
	}

	resolved, ok := found.(*model.Parameter)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedParameterRef, p.Ref)
	}

	return resolved, nil
}

func resolveParameters(spec *model.Spec, registry *resolve.DocRegistry, params []*model.Parameter) ([]*model.Parameter, error) {
	out := make([]*model.Parameter, 0, len(params))

	for _, p := range params {
		resolved, err := resolveParameter(spec, registry, p)
		if err != nil {
			return nil, err
		}

		out = append(out, resolved)
	}

	return out, nil
}

// OperationIDUniqueness gathers every operationId across paths, webhooks,
// component path items not referenced elsewhere, component callbacks not
// referenced elsewhere, and nested callbacks, rejecting duplicates (§4.J
// "Operation ID uniqueness").
func OperationIDUniqueness(spec *model.Spec) error {
	seen := make(map[string]bool)

	check := func(opID string) error {
		if opID == "" {
			return nil
		}

		if seen[opID] {
			return fmt.Errorf("%w: %q", ErrDuplicateOperationID, opID)
		}

		seen[opID] = true

		return nil
	}

	walkOperations := func(entries []model.PathEntry) error {
		for _, pe := range entries {
			if pe.Item == nil {
				continue
			}

			for _, op := range allOperations(pe.Item) {
				if err := check(op.Operation.OperationID); err != nil {
					return err
				}

				for _, cb := range op.Operation.Callbacks {
					if cb.Callback == nil {
						continue
					}

					for _, expr := range cb.Callback.Expressions {
						if expr.Item == nil {
							continue
						}

						for _, nested := range allOperations(expr.Item) {
							if err := check(nested.Operation.OperationID); err != nil {
								return err
							}
						}
					}
				}
			}
		}

		return nil
	}

	if err := walkOperations(spec.Paths); err != nil {
		return err
	}

	if err := walkOperations(spec.Webhooks); err != nil {
		return err
	}

	if spec.Components != nil {
		if err := walkOperations(spec.Components.PathItems); err != nil {
			return err
		}

		for _, cb := range spec.Components.Callbacks {
			if cb.Callback == nil {
				continue
			}

			for _, expr := range cb.Callback.Expressions {
				if expr.Item == nil {
					continue
				}

				for _, op := range allOperations(expr.Item) {
					if err := check(op.Operation.OperationID); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func allOperations(item *model.Path) []model.OperationEntry {
	out := make([]model.OperationEntry, 0, len(item.Operations)+len(item.AdditionalOperations))
	out = append(out, item.Operations...)
	out = append(out, item.AdditionalOperations...)

	return out
}

// PathTemplating checks that every "{name}" in a route corresponds to a
// required path parameter on the path item or operation, and that no
// template name repeats (§4.J "Path templating").
func PathTemplating(spec *model.Spec, registry *resolve.DocRegistry) error {
	for _, pe := range spec.Paths {
		if pe.Item == nil {
			continue
		}

		names, err := templateNames(pe.Pattern)
		if err != nil {
			return err
		}

		pathParams, err := resolveParameters(spec, registry, pe.Item.Parameters)
		if err != nil {
			return err
		}

		for _, op := range allOperations(pe.Item) {
			opParams, err := resolveParameters(spec, registry, op.Operation.Parameters)
			if err != nil {
				return err
			}

			if err := checkTemplateParams(pe.Pattern, names, pathParams, opParams); err != nil {
				return err
			}
		}

		if len(pe.Item.Operations) == 0 && len(pe.Item.AdditionalOperations) == 0 {
			if err := checkTemplateParams(pe.Pattern, names, pathParams, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

func templateNames(route string) ([]string, error) {
	matches := pathParamPattern.FindAllStringSubmatch(route, -1)

	names := make([]string, 0, len(matches))
	seen := make(map[string]bool)

	for _, m := range matches {
		name := m[1]
		if seen[name] {
			return nil, fmt.Errorf("%w: %q in %q", ErrDuplicatePathParameter, name, route)
		}

		seen[name] = true
		names = append(names, name)
	}

	return names, nil
}

func checkTemplateParams(route string, names []string, pathParams, opParams []*model.Parameter) error {
	defined := make(map[string]bool)

	for _, p := range pathParams {
		if p.In == "path" && p.Required {
			defined[p.Name] = true
		}
	}

	for _, p := range opParams {
		if p.In == "path" && p.Required {
			defined[p.Name] = true
		}
	}

	for _, name := range names {
		if !defined[name] {
			return fmt.Errorf("%w: %q in %q", ErrUnmatchedPathParameter, name, route)
		}
	}

	return nil
}

// PathCollisions checks that two routes normalizing to the same template
// (each "{name}" replaced by "{}") are identical (§4.J "Path collision").
func PathCollisions(spec *model.Spec) error {
	seen := make(map[string]string)

	for _, pe := range spec.Paths {
		normalized := pathParamPattern.ReplaceAllString(pe.Pattern, "{}")

		if existing, ok := seen[normalized]; ok && existing != pe.Pattern {
			return fmt.Errorf("%w: %q and %q", ErrPathCollision, existing, pe.Pattern)
		}

		seen[normalized] = pe.Pattern
	}

	return nil
}

// QuerystringUsage enforces at most one "in: querystring" parameter per
// operation-effective parameter set, that it cannot coexist with any
// "in: query" parameter, and that it carries content (§4.J "Querystring
// usage"). It applies to every path/operation pair and, separately, to
// every callback expression's path items.
func QuerystringUsage(spec *model.Spec, registry *resolve.DocRegistry) error {
	for _, pe := range spec.Paths {
		if pe.Item == nil {
			continue
		}

		if err := checkPathItemQuerystrings(spec, registry, pe.Item); err != nil {
			return err
		}
	}

	for _, pe := range spec.Webhooks {
		if pe.Item == nil {
			continue
		}

		if err := checkPathItemQuerystrings(spec, registry, pe.Item); err != nil {
			return err
		}
	}

	return nil
}

func checkPathItemQuerystrings(spec *model.Spec, registry *resolve.DocRegistry, item *model.Path) error {
	for _, op := range allOperations(item) {
		effective := append(append([]*model.Parameter{}, item.Parameters...), op.Operation.Parameters...)

		resolved, err := resolveParameters(spec, registry, effective)
		if err != nil {
			return err
		}

		if err := checkParamSetQuerystring(resolved); err != nil {
			return err
		}

		for _, cb := range op.Operation.Callbacks {
			if cb.Callback == nil {
				continue
			}

			for _, expr := range cb.Callback.Expressions {
				if expr.Item == nil {
					continue
				}

				if err := checkPathItemQuerystrings(spec, registry, expr.Item); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func checkParamSetQuerystring(params []*model.Parameter) error {
	querystringCount := 0
	queryCount := 0

	for _, p := range params {
		switch p.In {
		case "querystring":
			querystringCount++

			if len(p.ContentMediaTypes) == 0 {
				return fmt.Errorf("%w: %q", ErrQuerystringNeedsContent, p.Name)
			}
		case "query":
			queryCount++
		}
	}

	if querystringCount > 1 || (querystringCount == 1 && queryCount > 0) {
		return ErrQuerystringConflict
	}

	return nil
}

// TagParents checks that every tag's parent names a defined tag and that
// the parent graph is acyclic (§4.J "Tag parents").
func TagParents(spec *model.Spec) error {
	defined := make(map[string]model.Tag, len(spec.Tags))
	for _, t := range spec.Tags {
		defined[t.Name] = t
	}

	for _, t := range spec.Tags {
		if t.Parent == "" {
			continue
		}

		if _, ok := defined[t.Parent]; !ok {
			return fmt.Errorf("%w: %q references %q", ErrUndefinedTagParent, t.Name, t.Parent)
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(spec.Tags))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("%w: at %q", ErrTagCycle, name)
		}

		state[name] = visiting

		if t, ok := defined[name]; ok && t.Parent != "" {
			if err := visit(t.Parent); err != nil {
				return err
			}
		}

		state[name] = visited

		return nil
	}

	for _, t := range spec.Tags {
		if err := visit(t.Name); err != nil {
			return err
		}
	}

	return nil
}

// ServerVariables checks that every "{var}" in a server URL is defined,
// mentioned at most once, and that each variable's default is within its
// enum when present (§4.J "Server URL variables").
func ServerVariables(spec *model.Spec) error {
	for _, s := range spec.Servers {
		if err := checkServerVariables(s); err != nil {
			return err
		}
	}

	for _, pe := range spec.Paths {
		if pe.Item == nil {
			continue
		}

		for _, s := range pe.Item.Servers {
			if err := checkServerVariables(s); err != nil {
				return err
			}
		}

		for _, op := range allOperations(pe.Item) {
			for _, s := range op.Operation.Servers {
				if err := checkServerVariables(s); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func checkServerVariables(s model.Server) error {
	names := pathParamPattern.FindAllStringSubmatch(s.URL, -1)

	uses := make(map[string]int)
	for _, m := range names {
		uses[m[1]]++
	}

	for name, count := range uses {
		if count > 1 {
			return fmt.Errorf("%w: %q in %q", ErrServerVariableUsedTwice, name, s.URL)
		}
	}

	defined := make(map[string]model.ServerVariable, len(s.Variables))
	for _, v := range s.Variables {
		defined[v.Name] = v.Variable
	}

	for name := range uses {
		if _, ok := defined[name]; !ok {
			return fmt.Errorf("%w: %q in %q", ErrUndefinedServerVariable, name, s.URL)
		}
	}

	for _, v := range s.Variables {
		if len(v.Variable.Enum) == 0 {
			continue
		}

		inEnum := false

		for _, e := range v.Variable.Enum {
			if e == v.Variable.Default {
				inEnum = true

				break
			}
		}

		if !inEnum {
			return fmt.Errorf("%w: %q default %q", ErrServerVariableDefaultNotInEnum, v.Name, v.Variable.Default)
		}
	}

	return nil
}

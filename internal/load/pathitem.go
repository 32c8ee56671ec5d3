package load

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/talav/ccdd/diag"
	"github.com/talav/ccdd/internal/jsonv"
	"github.com/talav/ccdd/internal/model"
)

// fixedVerbs is the closed verb set §4.F collects into Path.Operations;
// every other method name on a path item goes to AdditionalOperations.
var fixedVerbs = []string{
	"get", "post", "put", "delete", "patch", "head", "options", "trace", "query",
}

var responseCodePattern = regexp.MustCompile(`^([1-5])XX$`)

// parsePathEntries parses an object of route -> path-item into an ordered
// []model.PathEntry, enforcing the leading-"/" rule only when
// requireSlash is set (true for "paths", false for "webhooks" and
// component path items, §4.F).
func parsePathEntries(om *orderedmap.OrderedMap, requireSlash bool, warnings *diag.Warnings) ([]model.PathEntry, error) {
	if om == nil {
		return nil, nil
	}

	entries := make([]model.PathEntry, 0, len(om.Keys()))

	for _, route := range om.Keys() {
		raw, _ := om.Get(route)

		if requireSlash && !strings.HasPrefix(route, "/") {
			return nil, fmt.Errorf("%w: %q", ErrPathMustStartWithSlash, route)
		}

		item, err := parsePathItem(route, raw, warnings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", route, err)
		}

		entries = append(entries, model.PathEntry{Pattern: route, Item: item})
	}

	return entries, nil
}

func parsePathItem(route string, v any, warnings *diag.Warnings) (*model.Path, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Path{Route: route}, nil
	}

	item := &model.Path{Route: route}
	item.Ref, _ = jsonv.GetString(om, "$ref")
	item.Summary, _ = jsonv.GetString(om, "summary")
	item.Description, _ = jsonv.GetString(om, "description")

	if paramsVal, ok := jsonv.Get(om, "parameters"); ok {
		params, err := parseParameterList(paramsVal, warnings)
		if err != nil {
			return nil, err
		}

		item.Parameters = params
	}

	if serversVal, ok := jsonv.Get(om, "servers"); ok {
		item.Servers = parseServers(serversVal)
	}

	verbSet := make(map[string]bool, len(fixedVerbs))
	for _, verb := range fixedVerbs {
		verbSet[verb] = true

		opVal, ok := jsonv.Get(om, verb)
		if !ok {
			continue
		}

		op, err := parseOperation(verb, opVal, warnings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", verb, err)
		}

		item.Operations = append(item.Operations, model.OperationEntry{Verb: verb, Operation: op})
	}

	if addlVal, ok := jsonv.Get(om, "additionalOperations"); ok {
		if addlOm, ok := jsonv.AsObject(addlVal); ok {
			for _, verb := range addlOm.Keys() {
				opVal, _ := addlOm.Get(verb)

				op, err := parseOperation(verb, opVal, warnings)
				if err != nil {
					return nil, fmt.Errorf("additionalOperations.%s: %w", verb, err)
				}

				item.AdditionalOperations = append(item.AdditionalOperations, model.OperationEntry{Verb: verb, Operation: op})
			}
		}
	}

	known := make(map[string]bool, len(verbSet)+8)
	for k := range verbSet {
		known[k] = true
	}

	for _, k := range []string{"$ref", "summary", "description", "parameters", "servers", "additionalOperations"} {
		known[k] = true
	}

	item.Extensions = jsonv.ExtractExtensions(om, known)

	return item, nil
}

func parseParameterList(v any, warnings *diag.Warnings) ([]*model.Parameter, error) {
	arr, ok := jsonv.AsArray(v)
	if !ok {
		return nil, nil
	}

	type key struct{ name, in string }

	seen := make(map[key]bool, len(arr))

	params := make([]*model.Parameter, 0, len(arr))

	for _, item := range arr {
		p, err := parseParameter(item, warnings)
		if err != nil {
			return nil, err
		}

		k := key{p.Name, p.In}
		if seen[k] {
			return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParameter, p.Name, p.In)
		}

		seen[k] = true
		params = append(params, p)
	}

	return params, nil
}

func parseParameter(v any, warnings *diag.Warnings) (*model.Parameter, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Parameter{}, nil
	}

	p := &model.Parameter{}
	p.Ref, _ = jsonv.GetString(om, "$ref")
	p.Name, _ = jsonv.GetString(om, "name")
	p.In, _ = jsonv.GetString(om, "in")
	p.Description, _ = jsonv.GetString(om, "description")
	p.Required, _ = jsonv.GetBool(om, "required")
	p.Deprecated, _ = jsonv.GetBool(om, "deprecated")
	p.Style, _ = jsonv.GetString(om, "style")
	p.AllowReserved, _ = jsonv.GetBool(om, "allowReserved")
	p.AllowEmptyValue, _ = jsonv.GetBool(om, "allowEmptyValue")

	if explodeVal, ok := jsonv.GetBool(om, "explode"); ok {
		p.Explode, p.ExplodeSet = explodeVal, true
	}

	schemaVal, hasSchema := jsonv.Get(om, "schema")
	contentVal, hasContent := jsonv.Get(om, "content")

	if hasSchema && hasContent {
		return nil, ErrSchemaAndContentExclusive
	}

	if hasSchema {
		schema, err := LowerSchema(schemaVal, warnings)
		if err != nil {
			return nil, err
		}

		p.Schema = schema
	}

	if hasContent {
		mts, err := parseMediaTypeMap(contentVal, warnings)
		if err != nil {
			return nil, err
		}

		p.ContentMediaTypes = mts
	}

	if p.In == "querystring" && !hasContent {
		return nil, ErrSchemaAndContentExclusive
	}

	if exVal, ok := jsonv.Get(om, "example"); ok {
		p.Example, p.HasExample = exVal, true
	}

	if exsVal, ok := jsonv.Get(om, "examples"); ok {
		if exsOm, ok := jsonv.AsObject(exsVal); ok {
			for _, name := range exsOm.Keys() {
				raw, _ := exsOm.Get(name)
				p.Examples = append(p.Examples, model.ExampleEntry{Name: name, Example: parseExample(raw)})
			}
		}
	}

	return p, nil
}

// parseMediaTypeMap parses a "content" object into an ordered []MediaType,
// preserving declaration order (specificity ranking is applied by callers
// selecting a primary attachment, not here).
func parseMediaTypeMap(v any, warnings *diag.Warnings) ([]model.MediaType, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return nil, nil
	}

	mts := make([]model.MediaType, 0, len(om.Keys()))

	for _, name := range om.Keys() {
		raw, _ := om.Get(name)

		mt, err := parseMediaType(name, raw, warnings)
		if err != nil {
			return nil, err
		}

		mts = append(mts, mt)
	}

	return mts, nil
}

func parseMediaType(name string, v any, warnings *diag.Warnings) (model.MediaType, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return model.MediaType{Name: name}, nil
	}

	mt := model.MediaType{Name: name}
	mt.Ref, _ = jsonv.GetString(om, "$ref")

	if schemaVal, ok := jsonv.Get(om, "schema"); ok {
		schema, err := LowerSchema(schemaVal, warnings)
		if err != nil {
			return model.MediaType{}, err
		}

		mt.Schema = schema
	}

	if itemSchemaVal, ok := jsonv.Get(om, "itemSchema"); ok {
		itemSchema, err := LowerSchema(itemSchemaVal, warnings)
		if err != nil {
			return model.MediaType{}, err
		}

		mt.ItemSchema = itemSchema
	}

	if encVal, ok := jsonv.Get(om, "encoding"); ok {
		if encOm, ok := jsonv.AsObject(encVal); ok {
			for _, propName := range encOm.Keys() {
				raw, _ := encOm.Get(propName)
				mt.Encoding = append(mt.Encoding, model.EncodingEntry{PropertyName: propName, Encoding: parseEncoding(raw, warnings)})
			}
		}
	}

	if prefixEncVal, ok := jsonv.Get(om, "prefixEncoding"); ok {
		if prefixArr, ok := jsonv.AsArray(prefixEncVal); ok {
			for i, raw := range prefixArr {
				mt.PrefixEncoding = append(mt.PrefixEncoding, model.EncodingEntry{
					PropertyName: fmt.Sprintf("%d", i),
					Encoding:     parseEncoding(raw, warnings),
				})
			}
		}
	}

	if itemEncVal, ok := jsonv.Get(om, "itemEncoding"); ok {
		enc := parseEncoding(itemEncVal, warnings)
		mt.ItemEncoding = &enc
	}

	if exVal, ok := jsonv.Get(om, "example"); ok {
		mt.Example, mt.HasExample = exVal, true
	}

	if exsVal, ok := jsonv.Get(om, "examples"); ok {
		if exsOm, ok := jsonv.AsObject(exsVal); ok {
			for _, exName := range exsOm.Keys() {
				raw, _ := exsOm.Get(exName)
				mt.Examples = append(mt.Examples, model.ExampleEntry{Name: exName, Example: parseExample(raw)})
			}
		}
	}

	return mt, nil
}

func parseEncoding(v any, warnings *diag.Warnings) model.Encoding {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return model.Encoding{}
	}

	e := model.Encoding{}
	e.ContentType, _ = jsonv.GetString(om, "contentType")
	e.Style, _ = jsonv.GetString(om, "style")
	e.Explode, _ = jsonv.GetBool(om, "explode")
	e.AllowReserved, _ = jsonv.GetBool(om, "allowReserved")

	if headersVal, ok := jsonv.Get(om, "headers"); ok {
		if headersOm, ok := jsonv.AsObject(headersVal); ok {
			for _, name := range headersOm.Keys() {
				raw, _ := headersOm.Get(name)

				h, err := parseHeader(raw, warnings)
				if err == nil {
					e.Headers = append(e.Headers, model.HeaderEntry{Name: name, Header: h})
				}
			}
		}
	}

	return e
}

func parseHeader(v any, warnings *diag.Warnings) (*model.Header, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Header{}, nil
	}

	h := &model.Header{}
	h.Description, _ = jsonv.GetString(om, "description")
	h.Required, _ = jsonv.GetBool(om, "required")
	h.Deprecated, _ = jsonv.GetBool(om, "deprecated")

	schemaVal, hasSchema := jsonv.Get(om, "schema")
	contentVal, hasContent := jsonv.Get(om, "content")

	if hasSchema && hasContent {
		return nil, ErrSchemaAndContentExclusive
	}

	if hasSchema {
		schema, err := LowerSchema(schemaVal, warnings)
		if err != nil {
			return nil, err
		}

		h.Schema = schema
	}

	if hasContent {
		mts, err := parseMediaTypeMap(contentVal, warnings)
		if err != nil {
			return nil, err
		}

		h.ContentMediaTypes = mts
	}

	if exVal, ok := jsonv.Get(om, "example"); ok {
		h.Example, h.HasExample = exVal, true
	}

	return h, nil
}

func parseExample(v any) *model.Example {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Example{}
	}

	e := &model.Example{}
	e.Summary, _ = jsonv.GetString(om, "summary")
	e.Description, _ = jsonv.GetString(om, "description")
	e.ExternalValue, _ = jsonv.GetString(om, "externalValue")

	if val, ok := jsonv.Get(om, "value"); ok {
		e.Value, e.HasValue = val, true
	}

	return e
}

func parseLink(v any) *model.Link {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Link{}
	}

	l := &model.Link{}
	l.OperationRef, _ = jsonv.GetString(om, "operationRef")
	l.OperationID, _ = jsonv.GetString(om, "operationId")
	l.Description, _ = jsonv.GetString(om, "description")

	if paramsVal, ok := jsonv.Get(om, "parameters"); ok {
		if paramsOm, ok := jsonv.AsObject(paramsVal); ok {
			for _, name := range paramsOm.Keys() {
				raw, _ := paramsOm.Get(name)
				l.Parameters = append(l.Parameters, model.NamedValue{Name: name, Value: raw})
			}
		}
	}

	if rbVal, ok := jsonv.Get(om, "requestBody"); ok {
		l.RequestBody = rbVal
	}

	if serverVal, ok := jsonv.Get(om, "server"); ok {
		s := parseServer(serverVal)
		l.Server = &s
	}

	return l
}

func parseResponse(code string, v any, warnings *diag.Warnings) (*model.Response, error) {
	if !isValidResponseCode(code) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResponseCode, code)
	}

	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Response{Code: code}, nil
	}

	r := &model.Response{Code: code}
	r.Ref, _ = jsonv.GetString(om, "$ref")
	r.Summary, _ = jsonv.GetString(om, "summary")
	r.Description, _ = jsonv.GetString(om, "description")

	if contentVal, ok := jsonv.Get(om, "content"); ok {
		mts, err := parseMediaTypeMap(contentVal, warnings)
		if err != nil {
			return nil, err
		}

		r.ContentMediaTypes = mts

		if primary := selectPrimaryMediaType(mts); primary != nil {
			r.Schema = primary.Schema
		}
	}

	if headersVal, ok := jsonv.Get(om, "headers"); ok {
		if headersOm, ok := jsonv.AsObject(headersVal); ok {
			for _, name := range headersOm.Keys() {
				raw, _ := headersOm.Get(name)

				h, err := parseHeader(raw, warnings)
				if err != nil {
					return nil, err
				}

				r.Headers = append(r.Headers, model.HeaderEntry{Name: name, Header: h})
			}
		}
	}

	if linksVal, ok := jsonv.Get(om, "links"); ok {
		if linksOm, ok := jsonv.AsObject(linksVal); ok {
			for _, name := range linksOm.Keys() {
				raw, _ := linksOm.Get(name)
				r.Links = append(r.Links, model.LinkEntry{Name: name, Link: parseLink(raw)})
			}
		}
	}

	if exVal, ok := jsonv.Get(om, "example"); ok {
		r.Example, r.HasExample = exVal, true
	}

	if exsVal, ok := jsonv.Get(om, "examples"); ok {
		if exsOm, ok := jsonv.AsObject(exsVal); ok {
			for _, name := range exsOm.Keys() {
				raw, _ := exsOm.Get(name)
				r.Examples = append(r.Examples, model.ExampleEntry{Name: name, Example: parseExample(raw)})
			}
		}
	}

	r.Extensions = jsonv.ExtractExtensions(om, map[string]bool{
		"$ref": true, "summary": true, "description": true,
		"content": true, "headers": true, "links": true,
		"example": true, "examples": true,
	})

	return r, nil
}

// isValidResponseCode checks code is "default", a three-digit status, or
// an "NXX" wildcard with N in [1,5] (§4.F).
func isValidResponseCode(code string) bool {
	if code == "default" {
		return true
	}

	if len(code) == 3 {
		allDigits := true

		for _, c := range code {
			if c < '0' || c > '9' {
				allDigits = false

				break
			}
		}

		if allDigits && code[0] >= '1' && code[0] <= '5' {
			return true
		}
	}

	return responseCodePattern.MatchString(code)
}

func parseNamedRequestBody(v any, warnings *diag.Warnings) (model.NamedRequestBody, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return model.NamedRequestBody{}, nil
	}

	rb := model.NamedRequestBody{}
	rb.Ref, _ = jsonv.GetString(om, "$ref")
	rb.Description, _ = jsonv.GetString(om, "description")
	rb.Required, _ = jsonv.GetBool(om, "required")

	if contentVal, ok := jsonv.Get(om, "content"); ok {
		mts, err := parseMediaTypeMap(contentVal, warnings)
		if err != nil {
			return model.NamedRequestBody{}, err
		}

		rb.Content = mts
	}

	return rb, nil
}

func parseSecurityScheme(v any) *model.SecurityScheme {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.SecurityScheme{}
	}

	s := &model.SecurityScheme{}
	s.Type, _ = jsonv.GetString(om, "type")
	s.Description, _ = jsonv.GetString(om, "description")
	s.ParamName, _ = jsonv.GetString(om, "name")
	s.In, _ = jsonv.GetString(om, "in")
	s.Scheme, _ = jsonv.GetString(om, "scheme")
	s.BearerFormat, _ = jsonv.GetString(om, "bearerFormat")
	s.OpenIDConnectURL, _ = jsonv.GetString(om, "openIdConnectUrl")

	if flowsVal, ok := jsonv.Get(om, "flows"); ok {
		s.Flows = parseOAuthFlows(flowsVal)
	}

	return s
}

func parseOAuthFlows(v any) *model.OAuthFlows {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return nil
	}

	f := &model.OAuthFlows{}

	if val, ok := jsonv.Get(om, "implicit"); ok {
		f.Implicit = parseOAuthFlow(val)
	}

	if val, ok := jsonv.Get(om, "password"); ok {
		f.Password = parseOAuthFlow(val)
	}

	if val, ok := jsonv.Get(om, "clientCredentials"); ok {
		f.ClientCredentials = parseOAuthFlow(val)
	}

	if val, ok := jsonv.Get(om, "authorizationCode"); ok {
		f.AuthorizationCode = parseOAuthFlow(val)
	}

	return f
}

func parseOAuthFlow(v any) *model.OAuthFlow {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return nil
	}

	f := &model.OAuthFlow{}
	f.AuthorizationURL, _ = jsonv.GetString(om, "authorizationUrl")
	f.TokenURL, _ = jsonv.GetString(om, "tokenUrl")
	f.RefreshURL, _ = jsonv.GetString(om, "refreshUrl")

	if scopesVal, ok := jsonv.Get(om, "scopes"); ok {
		if scopesOm, ok := jsonv.AsObject(scopesVal); ok {
			for _, name := range scopesOm.Keys() {
				raw, _ := scopesOm.Get(name)

				desc, _ := jsonv.AsString(raw)
				f.Scopes = append(f.Scopes, model.ScopeEntry{Name: name, Description: desc})
			}
		}
	}

	return f
}

func parseCallback(v any, warnings *diag.Warnings) (*model.Callback, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Callback{}, nil
	}

	cb := &model.Callback{}

	for _, expr := range om.Keys() {
		raw, _ := om.Get(expr)

		item, err := parsePathItem(expr, raw, warnings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", expr, err)
		}

		cb.Expressions = append(cb.Expressions, model.CallbackExpression{Expr: expr, Item: item})
	}

	return cb, nil
}

func parseOperation(verb string, v any, warnings *diag.Warnings) (*model.Operation, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return &model.Operation{Verb: verb}, nil
	}

	op := &model.Operation{Verb: verb}
	op.OperationID, _ = jsonv.GetString(om, "operationId")
	op.Summary, _ = jsonv.GetString(om, "summary")
	op.Description, _ = jsonv.GetString(om, "description")
	op.Deprecated, _ = jsonv.GetBool(om, "deprecated")

	if paramsVal, ok := jsonv.Get(om, "parameters"); ok {
		params, err := parseParameterList(paramsVal, warnings)
		if err != nil {
			return nil, err
		}

		op.Parameters = params
	}

	if secVal, ok := jsonv.Get(om, "security"); ok {
		op.Security = parseSecurityRequirements(secVal)
		op.HasSecurityOverride = true
	}

	if rbVal, ok := jsonv.Get(om, "requestBody"); ok {
		rbOm, ok := jsonv.AsObject(rbVal)
		if ok {
			op.RequestBodyRef, _ = jsonv.GetString(rbOm, "$ref")
			op.RequestBodyRequired, _ = jsonv.GetBool(rbOm, "required")

			if contentVal, ok := jsonv.Get(rbOm, "content"); ok {
				mts, err := parseMediaTypeMap(contentVal, warnings)
				if err != nil {
					return nil, err
				}

				op.RequestBodyMediaTypes = mts

				if primary := selectPrimaryMediaType(mts); primary != nil {
					op.RequestBody = primary.Schema
				}
			}
		}
	}

	if respVal, ok := jsonv.Get(om, "responses"); ok {
		if respOm, ok := jsonv.AsObject(respVal); ok {
			for _, code := range respOm.Keys() {
				raw, _ := respOm.Get(code)

				resp, err := parseResponse(code, raw, warnings)
				if err != nil {
					return nil, err
				}

				op.Responses = append(op.Responses, model.ResponseEntry{Code: code, Response: resp})
			}
		}
	}

	if cbVal, ok := jsonv.Get(om, "callbacks"); ok {
		if cbOm, ok := jsonv.AsObject(cbVal); ok {
			for _, name := range cbOm.Keys() {
				raw, _ := cbOm.Get(name)

				cb, err := parseCallback(raw, warnings)
				if err != nil {
					return nil, fmt.Errorf("callbacks.%s: %w", name, err)
				}

				op.Callbacks = append(op.Callbacks, model.CallbackEntry{Name: name, Callback: cb})
			}
		}
	}

	if tagsVal, ok := jsonv.Get(om, "tags"); ok {
		if tagsArr, ok := jsonv.AsArray(tagsVal); ok {
			for _, t := range tagsArr {
				if str, ok := jsonv.AsString(t); ok {
					op.Tags = append(op.Tags, str)
				}
			}
		}
	}

	if serversVal, ok := jsonv.Get(om, "servers"); ok {
		op.Servers = parseServers(serversVal)
	}

	if edVal, ok := jsonv.Get(om, "externalDocs"); ok {
		op.ExternalDocs = parseExternalDocs(edVal)
	}

	op.Extensions = jsonv.ExtractExtensions(om, map[string]bool{
		"operationId": true, "summary": true, "description": true, "deprecated": true,
		"parameters": true, "security": true, "requestBody": true, "responses": true,
		"callbacks": true, "tags": true, "servers": true, "externalDocs": true,
	})

	return op, nil
}

// specificityRank ranks a media-type pattern for primary-attachment
// selection: exact match is most specific, then "type/*", then "*/*"
// (§4.F, §9).
func specificityRank(name string) int {
	if name == "*/*" {
		return 0
	}

	if strings.HasSuffix(name, "/*") {
		return 1
	}

	return 2
}

// tieBreakRank prefers application/json and +json suffixes over form and
// multipart types when specificity is equal (§9).
func tieBreakRank(name string) int {
	switch {
	case name == "application/json" || strings.HasSuffix(name, "+json"):
		return 3
	case name == "application/x-www-form-urlencoded":
		return 2
	case name == "multipart/form-data":
		return 1
	default:
		return 0
	}
}

// selectPrimaryMediaType picks the most specific media type for primary
// attachment to the enclosing parameter/body/response, per §4.F. All
// media types remain retained in the caller's ContentMediaTypes list.
func selectPrimaryMediaType(mts []model.MediaType) *model.MediaType {
	if len(mts) == 0 {
		return nil
	}

	best := 0

	for i := 1; i < len(mts); i++ {
		if betterMediaType(mts[i], mts[best]) {
			best = i
		}
	}

	return &mts[best]
}

func betterMediaType(a, b model.MediaType) bool {
	ra, rb := specificityRank(a.Name), specificityRank(b.Name)
	if ra != rb {
		return ra > rb
	}

	return tieBreakRank(a.Name) > tieBreakRank(b.Name)
}

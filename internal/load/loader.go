// Package load implements the OpenAPI document decision tree of §4.F:
// standalone-JSON-Schema detection, version validation, URI computation,
// and ordered parsing of every top-level section into the internal/model
// IR.
package load

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talav/ccdd/diag"
	"github.com/talav/ccdd/internal/jsonv"
	"github.com/talav/ccdd/internal/model"
	"github.com/talav/ccdd/internal/resolve"
)

// openAPIIndicatorKeys are the top-level keys whose presence marks a
// document as an OpenAPI document even without an explicit "openapi" or
// "swagger" field (§4.F step 1).
var openAPIIndicatorKeys = []string{
	"info", "paths", "components", "servers", "webhooks",
	"tags", "security", "externalDocs", "$self", "jsonSchemaDialect",
}

// LoadFromJSON implements load_from_json (§4.F). raw is the undecoded
// document text; retrievalURI is the URI the document was retrieved from
// (used to compute document_uri); reg lets cross-document $ref resolution
// register this document under its own document URI once it is parsed.
func LoadFromJSON(raw []byte, retrievalURI string, reg *resolve.DocRegistry) (*model.Spec, diag.Warnings, error) {
	var warnings diag.Warnings

	root, err := jsonv.Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("load: %w: %w", ErrNotJSON, err)
	}

	if isStandaloneSchemaDocument(root) {
		spec := &model.Spec{
			IsSchemaDocument: true,
			RetrievalURI:     retrievalURI,
			RawSchemas:       []model.RawSchema{{Name: "", JSON: string(raw)}},
		}
		spec.SelfURI, spec.DocumentURI = computeURIs(root, retrievalURI)

		if reg != nil {
			reg.Add(spec.DocumentURI, spec)
		}

		return spec, warnings, nil
	}

	om, ok := jsonv.AsObject(root)
	if !ok {
		return nil, nil, fmt.Errorf("load: %w", ErrMissingOpenAPIField)
	}

	if _, hasSwagger := jsonv.Get(om, "swagger"); hasSwagger {
		return nil, nil, fmt.Errorf("load: %w", ErrSwaggerUnsupported)
	}

	version, hasVersion := jsonv.GetString(om, "openapi")
	if !hasVersion {
		return nil, nil, fmt.Errorf("load: %w", ErrMissingOpenAPIField)
	}

	if !isSupportedVersion(version) {
		return nil, nil, fmt.Errorf("load: %w: %q", ErrUnsupportedVersion, version)
	}

	spec := &model.Spec{OpenAPIVersion: version, RetrievalURI: retrievalURI}
	spec.SelfURI, spec.DocumentURI = computeURIs(root, retrievalURI)

	if v, ok := jsonv.GetString(om, "jsonSchemaDialect"); ok {
		spec.JSONSchemaDialect = v
	}

	var err2 error

	if infoVal, ok := jsonv.Get(om, "info"); ok {
		if spec.Info, err2 = parseInfo(infoVal); err2 != nil {
			return nil, nil, fmt.Errorf("load: info: %w", err2)
		}
	}

	spec.Extensions = jsonv.ExtractExtensions(om, nil)

	if edVal, ok := jsonv.Get(om, "externalDocs"); ok {
		spec.ExternalDocs = parseExternalDocs(edVal)
	}

	if tagsVal, ok := jsonv.Get(om, "tags"); ok {
		spec.Tags = parseTags(tagsVal)
	}

	if secVal, ok := jsonv.Get(om, "security"); ok {
		spec.Security = parseSecurityRequirements(secVal)
	}

	if serversVal, ok := jsonv.Get(om, "servers"); ok {
		spec.Servers = parseServers(serversVal)
	}

	if pathsVal, ok := jsonv.Get(om, "paths"); ok {
		pathsOm, _ := jsonv.AsObject(pathsVal)

		entries, err3 := parsePathEntries(pathsOm, true, &warnings)
		if err3 != nil {
			return nil, nil, fmt.Errorf("load: paths: %w", err3)
		}

		spec.Paths = entries
	}

	if webhooksVal, ok := jsonv.Get(om, "webhooks"); ok {
		webhooksOm, _ := jsonv.AsObject(webhooksVal)

		entries, err3 := parsePathEntries(webhooksOm, false, &warnings)
		if err3 != nil {
			return nil, nil, fmt.Errorf("load: webhooks: %w", err3)
		}

		spec.Webhooks = entries
	}

	if compVal, ok := jsonv.Get(om, "components"); ok {
		components, err3 := parseComponents(compVal, &warnings)
		if err3 != nil {
			return nil, nil, fmt.Errorf("load: components: %w", err3)
		}

		spec.Components = components
	}

	if reg != nil {
		reg.Add(spec.DocumentURI, spec)
	}

	return spec, warnings, nil
}

// isStandaloneSchemaDocument implements §4.F step 1: root is a boolean, or
// lacks every OpenAPI indicator key and carries neither "openapi" nor
// "swagger".
func isStandaloneSchemaDocument(root any) bool {
	if _, isBool := root.(bool); isBool {
		return true
	}

	om, ok := jsonv.AsObject(root)
	if !ok {
		return true
	}

	if _, ok := jsonv.Get(om, "openapi"); ok {
		return false
	}

	if _, ok := jsonv.Get(om, "swagger"); ok {
		return false
	}

	for _, key := range openAPIIndicatorKeys {
		if _, ok := jsonv.Get(om, key); ok {
			return false
		}
	}

	return true
}

// isSupportedVersion checks the "openapi" field matches 3.1.x or 3.2.x
// (§4.F step 2, §6 "OpenAPI supported versions").
func isSupportedVersion(version string) bool {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return false
	}

	if parts[0] != "3" {
		return false
	}

	if parts[1] != "1" && parts[1] != "2" {
		return false
	}

	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return false
		}
	}

	return true
}

// computeURIs implements §4.F step 3: self_uri from "$self" (when
// present), and document_uri as self_uri resolved against retrieval_uri,
// truncated at its fragment.
func computeURIs(root any, retrievalURI string) (selfURI, documentURI string) {
	if om, ok := jsonv.AsObject(root); ok {
		selfURI, _ = jsonv.GetString(om, "$self")
	}

	documentURI, err := resolve.NormalizeURI(retrievalURI, selfURI)
	if err != nil {
		documentURI = retrievalURI
	}

	return selfURI, documentURI
}

func parseExternalDocs(v any) *model.ExternalDocs {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return nil
	}

	ed := &model.ExternalDocs{}
	ed.Description, _ = jsonv.GetString(om, "description")
	ed.URL, _ = jsonv.GetString(om, "url")

	return ed
}

func parseTags(v any) []model.Tag {
	arr, ok := jsonv.AsArray(v)
	if !ok {
		return nil
	}

	tags := make([]model.Tag, 0, len(arr))

	for _, item := range arr {
		om, ok := jsonv.AsObject(item)
		if !ok {
			continue
		}

		var t model.Tag
		t.Name, _ = jsonv.GetString(om, "name")
		t.Description, _ = jsonv.GetString(om, "description")
		t.Parent, _ = jsonv.GetString(om, "parent")
		t.Kind, _ = jsonv.GetString(om, "kind")

		if edVal, ok := jsonv.Get(om, "externalDocs"); ok {
			t.ExternalDocs = parseExternalDocs(edVal)
		}

		t.Extensions = jsonv.ExtractExtensions(om, nil)
		tags = append(tags, t)
	}

	return tags
}

func parseSecurityRequirements(v any) []model.SecurityRequirement {
	arr, ok := jsonv.AsArray(v)
	if !ok {
		return nil
	}

	reqs := make([]model.SecurityRequirement, 0, len(arr))

	for _, item := range arr {
		om, ok := jsonv.AsObject(item)
		if !ok {
			continue
		}

		req := model.SecurityRequirement{}

		for _, name := range om.Keys() {
			scopesVal, _ := om.Get(name)

			var scopes []string

			if scopesArr, ok := jsonv.AsArray(scopesVal); ok {
				for _, s := range scopesArr {
					if str, ok := jsonv.AsString(s); ok {
						scopes = append(scopes, str)
					}
				}
			}

			req.Schemes = append(req.Schemes, model.SecuritySchemeRef{Name: name, Scopes: scopes})
		}

		reqs = append(reqs, req)
	}

	return reqs
}

func parseServers(v any) []model.Server {
	arr, ok := jsonv.AsArray(v)
	if !ok {
		return nil
	}

	servers := make([]model.Server, 0, len(arr))
	for _, item := range arr {
		servers = append(servers, parseServer(item))
	}

	return servers
}

func parseServer(v any) model.Server {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return model.Server{}
	}

	s := model.Server{}
	s.URL, _ = jsonv.GetString(om, "url")
	s.Description, _ = jsonv.GetString(om, "description")

	if varsVal, ok := jsonv.Get(om, "variables"); ok {
		if varsOm, ok := jsonv.AsObject(varsVal); ok {
			for _, name := range varsOm.Keys() {
				raw, _ := varsOm.Get(name)

				varOm, ok := jsonv.AsObject(raw)
				if !ok {
					continue
				}

				sv := model.ServerVariable{}
				sv.Default, _ = jsonv.GetString(varOm, "default")
				sv.Description, _ = jsonv.GetString(varOm, "description")

				if enumVal, ok := jsonv.Get(varOm, "enum"); ok {
					if enumArr, ok := jsonv.AsArray(enumVal); ok {
						for _, e := range enumArr {
							if str, ok := jsonv.AsString(e); ok {
								sv.Enum = append(sv.Enum, str)
							}
						}
					}
				}

				s.Variables = append(s.Variables, model.ServerVariableEntry{Name: name, Variable: sv})
			}
		}
	}

	return s
}

func parseInfo(v any) (model.Info, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return model.Info{}, nil
	}

	info := model.Info{}
	info.Title, _ = jsonv.GetString(om, "title")
	info.Summary, _ = jsonv.GetString(om, "summary")
	info.Description, _ = jsonv.GetString(om, "description")
	info.TermsOfService, _ = jsonv.GetString(om, "termsOfService")
	info.Version, _ = jsonv.GetString(om, "version")

	if cVal, ok := jsonv.Get(om, "contact"); ok {
		if cOm, ok := jsonv.AsObject(cVal); ok {
			c := &model.Contact{}
			c.Name, _ = jsonv.GetString(cOm, "name")
			c.URL, _ = jsonv.GetString(cOm, "url")
			c.Email, _ = jsonv.GetString(cOm, "email")
			info.Contact = c
		}
	}

	if lVal, ok := jsonv.Get(om, "license"); ok {
		lOm, ok := jsonv.AsObject(lVal)
		if !ok {
			return model.Info{}, nil
		}

		lic := &model.License{}
		lic.Name, _ = jsonv.GetString(lOm, "name")
		lic.Identifier, _ = jsonv.GetString(lOm, "identifier")
		lic.URL, _ = jsonv.GetString(lOm, "url")

		if lic.Name == "" {
			return model.Info{}, ErrLicenseNameRequired
		}

		if lic.Identifier != "" && lic.URL != "" {
			return model.Info{}, ErrLicenseMutuallyExclusive
		}

		info.License = lic
	}

	info.Extensions = jsonv.ExtractExtensions(om, nil)

	return info, nil
}

func parseComponents(v any, warnings *diag.Warnings) (*model.Components, error) {
	om, ok := jsonv.AsObject(v)
	if !ok {
		return nil, nil
	}

	c := &model.Components{}

	if schemasVal, ok := jsonv.Get(om, "schemas"); ok {
		if schemasOm, ok := jsonv.AsObject(schemasVal); ok {
			for _, name := range schemasOm.Keys() {
				raw, _ := schemasOm.Get(name)

				schema, err := LowerSchema(raw, warnings)
				if err != nil {
					return nil, fmt.Errorf("schemas.%s: %w", name, err)
				}

				c.Schemas = append(c.Schemas, model.NamedSchema{Name: name, Schema: schema})
			}
		}
	}

	if responsesVal, ok := jsonv.Get(om, "responses"); ok {
		if responsesOm, ok := jsonv.AsObject(responsesVal); ok {
			for _, name := range responsesOm.Keys() {
				raw, _ := responsesOm.Get(name)

				resp, err := parseResponse(name, raw, warnings)
				if err != nil {
					return nil, fmt.Errorf("responses.%s: %w", name, err)
				}

				c.Responses = append(c.Responses, model.NamedResponse{Name: name, Response: resp})
			}
		}
	}

	if paramsVal, ok := jsonv.Get(om, "parameters"); ok {
		if paramsOm, ok := jsonv.AsObject(paramsVal); ok {
			for _, name := range paramsOm.Keys() {
				raw, _ := paramsOm.Get(name)

				p, err := parseParameter(raw, warnings)
				if err != nil {
					return nil, fmt.Errorf("parameters.%s: %w", name, err)
				}

				c.Parameters = append(c.Parameters, model.NamedParameter{Name: name, Parameter: p})
			}
		}
	}

	if rbVal, ok := jsonv.Get(om, "requestBodies"); ok {
		if rbOm, ok := jsonv.AsObject(rbVal); ok {
			for _, name := range rbOm.Keys() {
				raw, _ := rbOm.Get(name)

				rb, err := parseNamedRequestBody(raw, warnings)
				if err != nil {
					return nil, fmt.Errorf("requestBodies.%s: %w", name, err)
				}

				rb.Name = name
				c.RequestBodies = append(c.RequestBodies, rb)
			}
		}
	}

	if headersVal, ok := jsonv.Get(om, "headers"); ok {
		if headersOm, ok := jsonv.AsObject(headersVal); ok {
			for _, name := range headersOm.Keys() {
				raw, _ := headersOm.Get(name)

				h, err := parseHeader(raw, warnings)
				if err != nil {
					return nil, fmt.Errorf("headers.%s: %w", name, err)
				}

				c.Headers = append(c.Headers, model.HeaderEntry{Name: name, Header: h})
			}
		}
	}

	if schemesVal, ok := jsonv.Get(om, "securitySchemes"); ok {
		if schemesOm, ok := jsonv.AsObject(schemesVal); ok {
			for _, name := range schemesOm.Keys() {
				raw, _ := schemesOm.Get(name)
				scheme := parseSecurityScheme(raw)
				c.SecuritySchemes = append(c.SecuritySchemes, model.NamedSecurityScheme{Name: name, Scheme: scheme})
			}
		}
	}

	if examplesVal, ok := jsonv.Get(om, "examples"); ok {
		if examplesOm, ok := jsonv.AsObject(examplesVal); ok {
			for _, name := range examplesOm.Keys() {
				raw, _ := examplesOm.Get(name)
				c.Examples = append(c.Examples, model.ExampleEntry{Name: name, Example: parseExample(raw)})
			}
		}
	}

	if linksVal, ok := jsonv.Get(om, "links"); ok {
		if linksOm, ok := jsonv.AsObject(linksVal); ok {
			for _, name := range linksOm.Keys() {
				raw, _ := linksOm.Get(name)
				c.Links = append(c.Links, model.LinkEntry{Name: name, Link: parseLink(raw)})
			}
		}
	}

	if callbacksVal, ok := jsonv.Get(om, "callbacks"); ok {
		if callbacksOm, ok := jsonv.AsObject(callbacksVal); ok {
			for _, name := range callbacksOm.Keys() {
				raw, _ := callbacksOm.Get(name)

				cb, err := parseCallback(raw, warnings)
				if err != nil {
					return nil, fmt.Errorf("callbacks.%s: %w", name, err)
				}

				c.Callbacks = append(c.Callbacks, model.CallbackEntry{Name: name, Callback: cb})
			}
		}
	}

	if pathItemsVal, ok := jsonv.Get(om, "pathItems"); ok {
		if pathItemsOm, ok := jsonv.AsObject(pathItemsVal); ok {
			entries, err := parsePathEntries(pathItemsOm, false, warnings)
			if err != nil {
				return nil, fmt.Errorf("pathItems: %w", err)
			}

			c.PathItems = entries
		}
	}

	return c, nil
}

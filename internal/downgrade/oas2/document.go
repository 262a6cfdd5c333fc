package oas2

import (
	"net/url"
	"sort"

	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
	"github.com/shlomiassaf/openapi/internal/upgrade/common"
)

// ConvertDocument lowers an emended document into a Swagger 2.0 raw tree
// (§4.F). The x-samchon-emended marker is dropped; components/paths/security
// schemes are rewritten into their 2.0 shapes.
func ConvertDocument(doc *oas.Document) (rawtree.Object, []oas.Diagnostic) {
	var diags oas.Diagnostics

	out := rawtree.Object{
		"swagger": "2.0",
		"info":    convertInfo(doc.Info),
	}

	if len(doc.Servers) > 0 {
		applyServer(out, doc.Servers[0])
	}
	if len(doc.Tags) > 0 {
		out["tags"] = convertTags(doc.Tags)
	}
	if len(doc.Security) > 0 {
		out["security"] = convertSecurityRequirements(doc.Security)
	}

	out["definitions"] = convertSchemas(doc.Components.Schemas)
	if len(doc.Components.SecuritySchemes) > 0 {
		out["securityDefinitions"] = convertSecuritySchemes(doc.Components.SecuritySchemes, &diags)
	}

	out["paths"] = convertPaths(doc.Paths)

	if len(doc.Webhooks) > 0 {
		diags.Add(oas.UnsupportedConstruct, "/webhooks", "webhooks have no Swagger 2.0 representation and were dropped")
	}

	return out, diags.Items()
}

func convertInfo(info *oas.Info) rawtree.Object {
	if info == nil {
		return rawtree.Object{}
	}
	out := rawtree.Object{"title": info.Title, "version": info.Version}
	if info.Description != "" {
		out["description"] = info.Description
	}
	if info.TermsOfService != "" {
		out["termsOfService"] = info.TermsOfService
	}
	if info.Contact != nil {
		out["contact"] = rawtree.Object{"name": info.Contact.Name, "url": info.Contact.URL, "email": info.Contact.Email}
	}
	if info.License != nil {
		out["license"] = rawtree.Object{"name": info.License.Name, "url": info.License.URL}
	}
	return out
}

// applyServer lowers the first emended server into Swagger 2.0's
// host/basePath/schemes triple (§4.F), the inverse of buildServers.
func applyServer(out rawtree.Object, server oas.Server) {
	u, err := url.Parse(server.URL)
	if err != nil || u.Host == "" {
		return
	}
	out["host"] = u.Host
	basePath := u.Path
	if basePath == "" {
		basePath = "/"
	}
	out["basePath"] = basePath
	if u.Scheme != "" {
		out["schemes"] = rawtree.Array{u.Scheme}
	}
}

func convertTags(tags []oas.Tag) rawtree.Array {
	out := make(rawtree.Array, 0, len(tags))
	for _, t := range tags {
		entry := rawtree.Object{"name": t.Name}
		if t.Description != "" {
			entry["description"] = t.Description
		}
		out = append(out, entry)
	}
	return out
}

func convertSecurityRequirements(reqs []oas.SecurityRequirement) rawtree.Array {
	out := make(rawtree.Array, 0, len(reqs))
	for _, r := range reqs {
		entry := rawtree.Object{}
		for name, scopes := range r {
			scopeArr := make(rawtree.Array, len(scopes))
			for i, sc := range scopes {
				scopeArr[i] = sc
			}
			entry[name] = scopeArr
		}
		out = append(out, entry)
	}
	return out
}

func convertSchemas(schemas map[string]*oas.Schema) rawtree.Object {
	out := rawtree.Object{}
	for name, s := range schemas {
		out[name] = ConvertSchema(s)
	}
	return out
}

func convertSecuritySchemes(schemes map[string]oas.SecurityScheme, diags *oas.Diagnostics) rawtree.Object {
	out := rawtree.Object{}
	for name, scheme := range schemes {
		switch scheme.Type {
		case "http":
			if scheme.Scheme != "basic" {
				diags.Add(oas.UnknownSecurityScheme, "/components/securitySchemes/"+name, "http scheme "+scheme.Scheme+" has no Swagger 2.0 representation")
				continue
			}
			out[name] = rawtree.Object{"type": "basic", "description": scheme.Description}
		case "apiKey":
			out[name] = rawtree.Object{"type": "apiKey", "name": scheme.Name, "in": scheme.In, "description": scheme.Description}
		case "oauth2":
			entry, ok := convertOAuth2(scheme, name, diags)
			if ok {
				out[name] = entry
			}
		default:
			diags.Add(oas.UnknownSecurityScheme, "/components/securitySchemes/"+name, "security scheme type "+scheme.Type+" has no Swagger 2.0 representation")
		}
	}
	return out
}

// convertOAuth2 picks one flow to represent, in the deterministic order
// implicit, authorizationCode, password, clientCredentials, since Swagger
// 2.0's oauth2 scheme carries exactly one flow per definition.
func convertOAuth2(scheme oas.SecurityScheme, name string, diags *oas.Diagnostics) (rawtree.Object, bool) {
	order := []string{"implicit", "authorizationCode", "password", "clientCredentials"}
	for _, key := range order {
		flow, ok := scheme.Flows[key]
		if !ok {
			continue
		}
		flowName, ok := common.FlowKeyToSwagger2(key)
		if !ok {
			continue
		}
		scopes := rawtree.Object{}
		for k, v := range flow.Scopes {
			scopes[k] = v
		}
		entry := rawtree.Object{"type": "oauth2", "flow": flowName, "scopes": scopes}
		if flow.AuthorizationURL != "" {
			entry["authorizationUrl"] = flow.AuthorizationURL
		}
		if flow.TokenURL != "" {
			entry["tokenUrl"] = flow.TokenURL
		}
		if scheme.Description != "" {
			entry["description"] = scheme.Description
		}
		return entry, true
	}
	diags.Add(oas.UnknownSecurityScheme, "/components/securitySchemes/"+name, "no flow on this oauth2 scheme has a Swagger 2.0 representation")
	return nil, false
}

func convertPaths(paths map[string]*oas.Path) rawtree.Object {
	out := rawtree.Object{}
	for name, p := range paths {
		if p == nil {
			// an unresolved path-item $ref (§7.2): nothing to emit for it.
			continue
		}
		out[name] = convertPathItem(p)
	}
	return out
}

func convertPathItem(p *oas.Path) rawtree.Object {
	item := rawtree.Object{}
	for _, entry := range p.Operations() {
		item[entry.Method] = convertOperation(entry.Op)
	}
	return item
}

func convertOperation(op *oas.Operation) rawtree.Object {
	out := rawtree.Object{"operationId": op.OperationID, "responses": convertResponses(op.Responses)}
	if op.Summary != "" {
		out["summary"] = op.Summary
	}
	if op.Description != "" {
		out["description"] = op.Description
	}
	if op.Deprecated {
		out["deprecated"] = true
	}
	if len(op.Tags) > 0 {
		tags := make(rawtree.Array, len(op.Tags))
		for i, t := range op.Tags {
			tags[i] = t
		}
		out["tags"] = tags
	}
	if len(op.Security) > 0 {
		out["security"] = convertSecurityRequirements(op.Security)
	}

	var params rawtree.Array
	for _, p := range op.Parameters {
		params = append(params, convertParameter(p))
	}
	if op.RequestBody != nil {
		params = append(params, convertRequestBody(op.RequestBody)...)
	}
	if len(params) > 0 {
		out["parameters"] = params
	}

	return out
}

// convertParameter inlines the parameter's schema fields directly onto the
// parameter object, since non-body Swagger 2.0 parameters carry type/format/
// items/enum alongside name/in rather than nested under a schema key (the
// inverse of how internal/upgrade/swagger2 reads them).
func convertParameter(p oas.Parameter) rawtree.Object {
	out := ConvertSchema(p.Schema)
	out["name"] = p.Name
	out["in"] = string(p.In)
	if p.Required || p.In == oas.InPath {
		out["required"] = true
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	return out
}

// convertRequestBody lowers an emended RequestBody back into Swagger 2.0
// parameters: a single `in: body` parameter for a JSON media type, or one
// `in: formData` parameter per property for a urlencoded media type (the
// inverse of buildFormDataRequestBody).
func convertRequestBody(rb *oas.RequestBody) rawtree.Array {
	if mto, ok := rb.Content["application/x-www-form-urlencoded"]; ok && mto.Schema != nil && mto.Schema.Kind == oas.KindObject {
		required := map[string]bool{}
		for _, name := range mto.Schema.Required {
			required[name] = true
		}
		params := make(rawtree.Array, 0, len(mto.Schema.Properties))
		for _, prop := range mto.Schema.Properties {
			entry := ConvertSchema(prop.Schema)
			entry["name"] = prop.Name
			entry["in"] = "formData"
			if required[prop.Name] {
				entry["required"] = true
			}
			params = append(params, entry)
		}
		return params
	}

	mediaTypes := make([]string, 0, len(rb.Content))
	for mediaType := range rb.Content {
		mediaTypes = append(mediaTypes, mediaType)
	}
	sort.Strings(mediaTypes)

	var schema *oas.Schema
	var others []string
	if mto, ok := rb.Content["application/json"]; ok {
		schema = mto.Schema
		for _, mediaType := range mediaTypes {
			if mediaType != "application/json" {
				others = append(others, mediaType)
			}
		}
	} else if len(mediaTypes) > 0 {
		schema = rb.Content[mediaTypes[0]].Schema
		others = mediaTypes[1:]
	}

	body := rawtree.Object{"name": "body", "in": "body", "schema": ConvertSchema(schema)}
	if rb.Required {
		body["required"] = true
	}
	if rb.Description != "" {
		body["description"] = rb.Description
	}
	// A single `in: body` parameter can only carry one schema; content types
	// other than the one chosen above are recorded rather than silently
	// dropped (§4.F).
	if len(others) > 0 {
		annotations := make(rawtree.Array, len(others))
		for i, ct := range others {
			annotations[i] = ct
		}
		body["x-nestia-content-type"] = annotations
	}
	return rawtree.Array{body}
}

func convertResponses(responses map[string]oas.Response) rawtree.Object {
	out := rawtree.Object{}
	for status, resp := range responses {
		out[status] = convertResponse(resp)
	}
	return out
}

// convertResponse flattens the emended content map back into a bare
// `schema` field (§4.F, the inverse of the 2.0 upgrader's response wrapping).
// The application/json schema is kept when present; otherwise one entry of
// the content map is kept, and which one is not defined.
func convertResponse(resp oas.Response) rawtree.Object {
	out := rawtree.Object{"description": resp.Description}
	if mto, ok := resp.Content["application/json"]; ok {
		out["schema"] = ConvertSchema(mto.Schema)
	} else {
		for _, mto := range resp.Content {
			out["schema"] = ConvertSchema(mto.Schema)
			break
		}
	}
	if len(resp.Headers) > 0 {
		headers := rawtree.Object{}
		for name, h := range resp.Headers {
			headers[name] = ConvertSchema(h.Schema)
		}
		out["headers"] = headers
	}
	return out
}

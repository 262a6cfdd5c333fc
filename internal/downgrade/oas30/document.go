package oas30

import (
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// ConvertDocument lowers an emended document into an OpenAPI 3.0 raw tree
// (§4.E). The x-samchon-emended marker is dropped since the output is no
// longer the emended dialect.
func ConvertDocument(doc *oas.Document) (rawtree.Object, []oas.Diagnostic) {
	var diags oas.Diagnostics

	out := rawtree.Object{
		"openapi": "3.0.3",
		"info":    convertInfo(doc.Info),
	}
	if len(doc.Servers) > 0 {
		out["servers"] = convertServers(doc.Servers)
	}
	if len(doc.Tags) > 0 {
		out["tags"] = convertTags(doc.Tags)
	}
	if len(doc.Security) > 0 {
		out["security"] = convertSecurityRequirements(doc.Security)
	}

	out["paths"] = convertPaths(doc.Paths)
	out["components"] = convertComponents(doc.Components)

	if len(doc.Webhooks) > 0 {
		diags.Add(oas.UnsupportedConstruct, "/webhooks", "webhooks have no OpenAPI 3.0 representation and were dropped")
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

func convertServers(servers []oas.Server) rawtree.Array {
	out := make(rawtree.Array, 0, len(servers))
	for _, s := range servers {
		entry := rawtree.Object{"url": s.URL}
		if s.Description != "" {
			entry["description"] = s.Description
		}
		out = append(out, entry)
	}
	return out
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
			if scopes == nil {
				entry[name] = rawtree.Array{}
			} else {
				scopeArr := make(rawtree.Array, len(scopes))
				for i, sc := range scopes {
					scopeArr[i] = sc
				}
				entry[name] = scopeArr
			}
		}
		out = append(out, entry)
	}
	return out
}

func convertComponents(comp oas.Components) rawtree.Object {
	out := rawtree.Object{}

	schemas := rawtree.Object{}
	for name, s := range comp.Schemas {
		schemas[name] = ConvertSchema(s)
	}
	out["schemas"] = schemas

	if len(comp.SecuritySchemes) > 0 {
		secSchemes := rawtree.Object{}
		for name, scheme := range comp.SecuritySchemes {
			secSchemes[name] = convertSecurityScheme(scheme)
		}
		out["securitySchemes"] = secSchemes
	}

	return out
}

func convertSecurityScheme(scheme oas.SecurityScheme) rawtree.Object {
	out := rawtree.Object{"type": scheme.Type}
	if scheme.Description != "" {
		out["description"] = scheme.Description
	}
	switch scheme.Type {
	case "apiKey":
		out["name"] = scheme.Name
		out["in"] = scheme.In
	case "http":
		out["scheme"] = scheme.Scheme
		if scheme.BearerFormat != "" {
			out["bearerFormat"] = scheme.BearerFormat
		}
	case "openIdConnect":
		out["openIdConnectUrl"] = scheme.OpenIDConnectURL
	case "oauth2":
		flows := rawtree.Object{}
		for key, flow := range scheme.Flows {
			entry := rawtree.Object{}
			if flow.AuthorizationURL != "" {
				entry["authorizationUrl"] = flow.AuthorizationURL
			}
			if flow.TokenURL != "" {
				entry["tokenUrl"] = flow.TokenURL
			}
			if flow.RefreshURL != "" {
				entry["refreshUrl"] = flow.RefreshURL
			}
			scopes := rawtree.Object{}
			for k, v := range flow.Scopes {
				scopes[k] = v
			}
			entry["scopes"] = scopes
			flows[key] = entry
		}
		out["flows"] = flows
	}
	return out
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
	if p.Summary != "" {
		item["summary"] = p.Summary
	}
	if p.Description != "" {
		item["description"] = p.Description
	}
	if len(p.Servers) > 0 {
		item["servers"] = convertServers(p.Servers)
	}
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
	if len(op.Servers) > 0 {
		out["servers"] = convertServers(op.Servers)
	}
	if len(op.Parameters) > 0 {
		params := make(rawtree.Array, 0, len(op.Parameters))
		for _, p := range op.Parameters {
			params = append(params, convertParameter(p))
		}
		out["parameters"] = params
	}
	if op.RequestBody != nil {
		out["requestBody"] = convertRequestBody(op.RequestBody)
	}
	return out
}

func convertParameter(p oas.Parameter) rawtree.Object {
	out := rawtree.Object{
		"name":   p.Name,
		"in":     string(p.In),
		"schema": ConvertSchema(p.Schema),
	}
	if p.Required {
		out["required"] = true
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Deprecated {
		out["deprecated"] = true
	}
	return out
}

func convertRequestBody(rb *oas.RequestBody) rawtree.Object {
	out := rawtree.Object{}
	if rb.Description != "" {
		out["description"] = rb.Description
	}
	if rb.Required {
		out["required"] = true
	}
	content := rawtree.Object{}
	for mt, mto := range rb.Content {
		content[mt] = rawtree.Object{"schema": ConvertSchema(mto.Schema)}
	}
	out["content"] = content
	if rb.NestiaEncrypted != nil {
		out["x-nestia-encrypted"] = *rb.NestiaEncrypted
	}
	return out
}

func convertResponses(responses map[string]oas.Response) rawtree.Object {
	out := rawtree.Object{}
	for status, resp := range responses {
		out[status] = convertResponse(resp)
	}
	return out
}

func convertResponse(resp oas.Response) rawtree.Object {
	out := rawtree.Object{"description": resp.Description}
	if len(resp.Content) > 0 {
		content := rawtree.Object{}
		for mt, mto := range resp.Content {
			content[mt] = rawtree.Object{"schema": ConvertSchema(mto.Schema)}
		}
		out["content"] = content
	}
	if len(resp.Headers) > 0 {
		headers := rawtree.Object{}
		for name, h := range resp.Headers {
			headers[name] = convertParameter(h)
		}
		out["headers"] = headers
	}
	if resp.NestiaEncrypted != nil {
		out["x-nestia-encrypted"] = *resp.NestiaEncrypted
	}
	return out
}

package emit

import (
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// ConvertDocument renders an emended Document as its own raw tree: a plain
// OpenAPI 3.1 document carrying the x-samchon-emended marker, the document
// side of the round trip internal/sniff.IsEmended recognizes.
func ConvertDocument(doc *oas.Document) rawtree.Object {
	out := rawtree.Object{
		"openapi":         "3.1.0",
		"info":            convertInfo(doc.Info),
		oas.EmendedMarker: true,
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
	if len(doc.Webhooks) > 0 {
		out["webhooks"] = convertPaths(doc.Webhooks)
	}
	out["components"] = convertComponents(doc.Components)

	return out
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
	out := make(rawtree.Array, len(servers))
	for i, s := range servers {
		entry := rawtree.Object{"url": s.URL}
		if s.Description != "" {
			entry["description"] = s.Description
		}
		out[i] = entry
	}
	return out
}

func convertTags(tags []oas.Tag) rawtree.Array {
	out := make(rawtree.Array, len(tags))
	for i, t := range tags {
		entry := rawtree.Object{"name": t.Name}
		if t.Description != "" {
			entry["description"] = t.Description
		}
		out[i] = entry
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
	out := rawtree.Object{"responses": convertResponses(op.Responses)}
	if op.OperationID != "" {
		out["operationId"] = op.OperationID
	}
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
		params := make(rawtree.Array, len(op.Parameters))
		for i, p := range op.Parameters {
			params[i] = convertParameter(p)
		}
		out["parameters"] = params
	}
	if op.RequestBody != nil {
		out["requestBody"] = convertRequestBody(op.RequestBody)
	}
	return out
}

func convertParameter(p oas.Parameter) rawtree.Object {
	out := rawtree.Object{"name": p.Name, "in": string(p.In)}
	if p.Schema != nil {
		out["schema"] = ConvertSchema(p.Schema)
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
	out := rawtree.Object{"content": convertContent(rb.Content)}
	if rb.Required {
		out["required"] = true
	}
	if rb.Description != "" {
		out["description"] = rb.Description
	}
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
		out["content"] = convertContent(resp.Content)
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

func convertContent(content map[string]oas.MediaTypeObject) rawtree.Object {
	out := rawtree.Object{}
	for mediaType, mto := range content {
		entry := rawtree.Object{}
		if mto.Schema != nil {
			entry["schema"] = ConvertSchema(mto.Schema)
		}
		out[mediaType] = entry
	}
	return out
}

func convertComponents(c oas.Components) rawtree.Object {
	out := rawtree.Object{}
	if len(c.Schemas) > 0 {
		schemas := rawtree.Object{}
		for name, s := range c.Schemas {
			schemas[name] = ConvertSchema(s)
		}
		out["schemas"] = schemas
	}
	if len(c.Parameters) > 0 {
		params := rawtree.Object{}
		for name, p := range c.Parameters {
			params[name] = convertParameter(p)
		}
		out["parameters"] = params
	}
	if len(c.RequestBodies) > 0 {
		bodies := rawtree.Object{}
		for name, rb := range c.RequestBodies {
			bodies[name] = convertRequestBody(&rb)
		}
		out["requestBodies"] = bodies
	}
	if len(c.Responses) > 0 {
		responses := rawtree.Object{}
		for name, resp := range c.Responses {
			responses[name] = convertResponse(resp)
		}
		out["responses"] = responses
	}
	if len(c.Headers) > 0 {
		headers := rawtree.Object{}
		for name, h := range c.Headers {
			headers[name] = convertParameter(h)
		}
		out["headers"] = headers
	}
	if len(c.SecuritySchemes) > 0 {
		schemes := rawtree.Object{}
		for name, s := range c.SecuritySchemes {
			schemes[name] = convertSecurityScheme(s)
		}
		out["securitySchemes"] = schemes
	}
	if len(c.PathItems) > 0 {
		out["pathItems"] = convertPaths(c.PathItems)
	}
	return out
}

func convertSecurityScheme(s oas.SecurityScheme) rawtree.Object {
	out := rawtree.Object{"type": s.Type}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Type {
	case "apiKey":
		out["name"] = s.Name
		out["in"] = s.In
	case "http":
		out["scheme"] = s.Scheme
		if s.BearerFormat != "" {
			out["bearerFormat"] = s.BearerFormat
		}
	case "openIdConnect":
		out["openIdConnectUrl"] = s.OpenIDConnectURL
	case "oauth2":
		flows := rawtree.Object{}
		for key, flow := range s.Flows {
			entry := rawtree.Object{"scopes": convertScopes(flow.Scopes)}
			if flow.AuthorizationURL != "" {
				entry["authorizationUrl"] = flow.AuthorizationURL
			}
			if flow.TokenURL != "" {
				entry["tokenUrl"] = flow.TokenURL
			}
			if flow.RefreshURL != "" {
				entry["refreshUrl"] = flow.RefreshURL
			}
			flows[key] = entry
		}
		out["flows"] = flows
	}
	return out
}

func convertScopes(scopes map[string]string) rawtree.Object {
	out := rawtree.Object{}
	for k, v := range scopes {
		out[k] = v
	}
	return out
}

// Package oas30 upgrades an OpenAPI 3.0 document envelope into the emended
// grammar (§4.D, source grammar: OpenAPI 3.0).
package oas30

import (
	"strings"

	"github.com/shlomiassaf/openapi/internal/normalize/oas30"
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
	"github.com/shlomiassaf/openapi/internal/upgrade/common"
)

var methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// ConvertDocument rewrites an OpenAPI 3.0 document into the emended grammar.
// Unlike Swagger 2.0, request bodies and parameters are already shaped the
// way the emended dialect wants them; the upgrader's job is mostly
// dereferencing components-level indirection and merging path-level
// parameters into each operation (invariant 5).
func ConvertDocument(raw rawtree.Object) (*oas.Document, []oas.Diagnostic, error) {
	var diags oas.Diagnostics

	components, _ := rawtree.GetObject(raw, "components")

	doc := &oas.Document{
		OpenAPI: "3.1.0",
		Info:    convertInfo(raw),
		Servers: convertServers(raw),
		Tags:    convertTags(raw),
		Emended: true,
	}

	doc.Components = convertComponents(components, &diags)
	doc.Security = convertSecurityRequirements(raw)
	doc.Paths = convertPaths(raw, components, &diags)

	common.CheckDanglingRefs(doc, &diags)

	return doc, diags.Items(), nil
}

func convertInfo(raw rawtree.Object) *oas.Info {
	info, ok := rawtree.GetObject(raw, "info")
	if !ok {
		return &oas.Info{}
	}
	out := &oas.Info{
		Title:          rawtree.GetString(info, "title"),
		Version:        rawtree.GetString(info, "version"),
		Description:    rawtree.GetString(info, "description"),
		TermsOfService: rawtree.GetString(info, "termsOfService"),
	}
	if c, ok := rawtree.GetObject(info, "contact"); ok {
		out.Contact = &oas.Contact{Name: rawtree.GetString(c, "name"), URL: rawtree.GetString(c, "url"), Email: rawtree.GetString(c, "email")}
	}
	if l, ok := rawtree.GetObject(info, "license"); ok {
		out.License = &oas.License{Name: rawtree.GetString(l, "name"), URL: rawtree.GetString(l, "url")}
	}
	return out
}

func convertServers(raw rawtree.Object) []oas.Server {
	arr, ok := rawtree.GetArray(raw, "servers")
	if !ok {
		return nil
	}
	return decodeServers(arr)
}

func decodeServers(arr rawtree.Array) []oas.Server {
	var out []oas.Server
	for _, item := range arr {
		if obj, ok := rawtree.AsObject(item); ok {
			out = append(out, oas.Server{URL: rawtree.GetString(obj, "url"), Description: rawtree.GetString(obj, "description")})
		}
	}
	return out
}

func convertTags(raw rawtree.Object) []oas.Tag {
	arr, ok := rawtree.GetArray(raw, "tags")
	if !ok {
		return nil
	}
	var out []oas.Tag
	for _, item := range arr {
		if obj, ok := rawtree.AsObject(item); ok {
			out = append(out, oas.Tag{Name: rawtree.GetString(obj, "name"), Description: rawtree.GetString(obj, "description")})
		}
	}
	return out
}

func convertComponents(components rawtree.Object, diags *oas.Diagnostics) oas.Components {
	comp := oas.Components{Schemas: map[string]*oas.Schema{}}
	if components == nil {
		return comp
	}

	if schemas, ok := rawtree.GetObject(components, "schemas"); ok {
		for name, v := range schemas {
			if obj, ok := rawtree.AsObject(v); ok {
				comp.Schemas[name] = oas30.ConvertSchema(obj)
			}
		}
	}

	if secSchemes, ok := rawtree.GetObject(components, "securitySchemes"); ok {
		comp.SecuritySchemes = map[string]oas.SecurityScheme{}
		for name, v := range secSchemes {
			obj, ok := rawtree.AsObject(v)
			if !ok {
				continue
			}
			scheme, ok := convertSecurityScheme(obj)
			if !ok {
				diags.Add(oas.UnknownSecurityScheme, "/components/securitySchemes/"+name, "unrecognized security scheme type")
				continue
			}
			comp.SecuritySchemes[name] = scheme
		}
	}

	return comp
}

func convertSecurityScheme(raw rawtree.Object) (oas.SecurityScheme, bool) {
	typ := rawtree.GetString(raw, "type")
	switch typ {
	case "apiKey", "http", "openIdConnect":
		scheme := oas.SecurityScheme{
			Type:             typ,
			Description:      rawtree.GetString(raw, "description"),
			Name:             rawtree.GetString(raw, "name"),
			In:               rawtree.GetString(raw, "in"),
			Scheme:           rawtree.GetString(raw, "scheme"),
			BearerFormat:     rawtree.GetString(raw, "bearerFormat"),
			OpenIDConnectURL: rawtree.GetString(raw, "openIdConnectUrl"),
		}
		return scheme, true
	case "oauth2":
		flows := map[string]oas.OAuthFlow{}
		if flowsRaw, ok := rawtree.GetObject(raw, "flows"); ok {
			for _, key := range []string{"implicit", "password", "clientCredentials", "authorizationCode"} {
				if f, ok := rawtree.GetObject(flowsRaw, key); ok {
					flows[key] = convertOAuthFlow(f)
				}
			}
		}
		return oas.SecurityScheme{Type: "oauth2", Description: rawtree.GetString(raw, "description"), Flows: flows}, true
	default:
		return oas.SecurityScheme{}, false
	}
}

func convertOAuthFlow(raw rawtree.Object) oas.OAuthFlow {
	flow := oas.OAuthFlow{
		AuthorizationURL: rawtree.GetString(raw, "authorizationUrl"),
		TokenURL:         rawtree.GetString(raw, "tokenUrl"),
		RefreshURL:       rawtree.GetString(raw, "refreshUrl"),
	}
	if scopes, ok := rawtree.GetObject(raw, "scopes"); ok {
		flow.Scopes = map[string]string{}
		for k, v := range scopes {
			if s, ok := v.(string); ok {
				flow.Scopes[k] = s
			}
		}
	}
	return flow
}

func convertSecurityRequirements(raw rawtree.Object) []oas.SecurityRequirement {
	arr, ok := rawtree.GetArray(raw, "security")
	if !ok {
		return nil
	}
	return decodeSecurityRequirements(arr)
}

func decodeSecurityRequirements(arr rawtree.Array) []oas.SecurityRequirement {
	var out []oas.SecurityRequirement
	for _, item := range arr {
		obj, ok := rawtree.AsObject(item)
		if !ok {
			continue
		}
		req := oas.SecurityRequirement{}
		for name, v := range obj {
			if scopes, ok := rawtree.AsArray(v); ok {
				req[name] = rawtree.StringSlice(scopes)
			} else {
				req[name] = nil
			}
		}
		out = append(out, req)
	}
	return out
}

func convertPaths(raw, components rawtree.Object, diags *oas.Diagnostics) map[string]*oas.Path {
	rawPaths, ok := rawtree.GetObject(raw, "paths")
	if !ok {
		return nil
	}

	compParams, _ := rawtree.GetObject(components, "parameters")
	compRequestBodies, _ := rawtree.GetObject(components, "requestBodies")
	compResponses, _ := rawtree.GetObject(components, "responses")
	compHeaders, _ := rawtree.GetObject(components, "headers")

	out := map[string]*oas.Path{}
	for pathName, v := range rawPaths {
		pathItem, ok := rawtree.AsObject(v)
		if !ok {
			continue
		}
		out[pathName] = convertPathItem(pathName, pathItem, compParams, compRequestBodies, compResponses, compHeaders, diags)
	}
	return out
}

func convertPathItem(pathName string, pathItem, compParams, compRequestBodies, compResponses, compHeaders rawtree.Object, diags *oas.Diagnostics) *oas.Path {
	path := &oas.Path{
		Summary:     rawtree.GetString(pathItem, "summary"),
		Description: rawtree.GetString(pathItem, "description"),
	}
	if servers, ok := rawtree.GetArray(pathItem, "servers"); ok {
		path.Servers = decodeServers(servers)
	}

	pathParams, _ := rawtree.GetArray(pathItem, "parameters")

	for _, method := range methods {
		opRaw, ok := rawtree.GetObject(pathItem, method)
		if !ok {
			continue
		}
		op := convertOperation(method, pathName, opRaw, pathParams, compParams, compRequestBodies, compResponses, compHeaders, diags)
		path.Set(method, op)
	}
	return path
}

// convertOperation merges path-level and operation-level parameters
// (invariant 5) after dereferencing every $ref against components.
func convertOperation(method, pathName string, opRaw rawtree.Object, pathParams rawtree.Array, compParams, compRequestBodies, compResponses, compHeaders rawtree.Object, diags *oas.Diagnostics) *oas.Operation {
	op := &oas.Operation{
		OperationID: rawtree.GetString(opRaw, "operationId"),
		Summary:     rawtree.GetString(opRaw, "summary"),
		Description: rawtree.GetString(opRaw, "description"),
		Deprecated:  rawtree.IsTrue(opRaw, "deprecated"),
		Responses:   map[string]oas.Response{},
	}
	if op.OperationID == "" {
		op.OperationID = common.SynthesizeOperationID(method, pathName)
	}
	if tags, ok := rawtree.GetArray(opRaw, "tags"); ok {
		op.Tags = rawtree.StringSlice(tags)
	}
	if sec, ok := rawtree.GetArray(opRaw, "security"); ok {
		op.Security = decodeSecurityRequirements(sec)
	}
	if servers, ok := rawtree.GetArray(opRaw, "servers"); ok {
		op.Servers = decodeServers(servers)
	}

	opParams, _ := rawtree.GetArray(opRaw, "parameters")
	var merged rawtree.Array
	merged = append(merged, pathParams...)
	merged = append(merged, opParams...)

	for _, item := range merged {
		obj, ok := rawtree.AsObject(item)
		if !ok {
			continue
		}
		if ref := rawtree.GetString(obj, "$ref"); ref != "" {
			resolved, ok := resolveLocalRef(compParams, "#/components/parameters/", ref)
			if !ok {
				diags.Add(oas.DanglingReference, "/paths/"+pathName+"/"+method, "unresolved parameter reference: "+ref)
				continue
			}
			obj = resolved
		}
		schemaRaw, _ := rawtree.GetObject(obj, "schema")
		op.Parameters = append(op.Parameters, oas.Parameter{
			Name:        rawtree.GetString(obj, "name"),
			In:          oas.ParamLocation(rawtree.GetString(obj, "in")),
			Required:    rawtree.IsTrue(obj, "required"),
			Description: rawtree.GetString(obj, "description"),
			Deprecated:  rawtree.IsTrue(obj, "deprecated"),
			Schema:      oas30.ConvertSchema(schemaRaw),
		})
	}

	if rbRaw, ok := rawtree.GetObject(opRaw, "requestBody"); ok {
		if ref := rawtree.GetString(rbRaw, "$ref"); ref != "" {
			resolved, ok := resolveLocalRef(compRequestBodies, "#/components/requestBodies/", ref)
			if !ok {
				diags.Add(oas.DanglingReference, "/paths/"+pathName+"/"+method+"/requestBody", "unresolved requestBody reference: "+ref)
			} else {
				rbRaw = resolved
			}
		}
		op.RequestBody = convertRequestBody(rbRaw)
	}

	convertResponses(opRaw, compResponses, compHeaders, op, diags, pathName, method)

	return op
}

func convertRequestBody(raw rawtree.Object) *oas.RequestBody {
	rb := &oas.RequestBody{
		Description: rawtree.GetString(raw, "description"),
		Required:    rawtree.IsTrue(raw, "required"),
		Content:     map[string]oas.MediaTypeObject{},
	}
	if content, ok := rawtree.GetObject(raw, "content"); ok {
		for mt, v := range content {
			if mtObj, ok := rawtree.AsObject(v); ok {
				schemaRaw, _ := rawtree.GetObject(mtObj, "schema")
				rb.Content[mt] = oas.MediaTypeObject{Schema: oas30.ConvertSchema(schemaRaw)}
			}
		}
	}
	if v, ok := rawtree.GetBool(raw, "x-nestia-encrypted"); ok {
		rb.NestiaEncrypted = &v
	}
	return rb
}

func convertResponses(opRaw rawtree.Object, compResponses, compHeaders rawtree.Object, op *oas.Operation, diags *oas.Diagnostics, pathName, method string) {
	responses, ok := rawtree.GetObject(opRaw, "responses")
	if !ok {
		return
	}
	for status, v := range responses {
		obj, ok := rawtree.AsObject(v)
		if !ok {
			continue
		}
		if ref := rawtree.GetString(obj, "$ref"); ref != "" {
			resolved, ok := resolveLocalRef(compResponses, "#/components/responses/", ref)
			if !ok {
				diags.Add(oas.DanglingReference, "/paths/"+pathName+"/"+method+"/responses/"+status, "unresolved response reference: "+ref)
				continue
			}
			obj = resolved
		}
		op.Responses[status] = convertResponse(obj, compHeaders)
	}
}

func convertResponse(obj rawtree.Object, compHeaders rawtree.Object) oas.Response {
	resp := oas.Response{Description: rawtree.GetString(obj, "description"), Content: map[string]oas.MediaTypeObject{}}
	if content, ok := rawtree.GetObject(obj, "content"); ok {
		for mt, v := range content {
			if mtObj, ok := rawtree.AsObject(v); ok {
				schemaRaw, _ := rawtree.GetObject(mtObj, "schema")
				resp.Content[mt] = oas.MediaTypeObject{Schema: oas30.ConvertSchema(schemaRaw)}
			}
		}
	}
	if headers, ok := rawtree.GetObject(obj, "headers"); ok {
		resp.Headers = map[string]oas.Parameter{}
		for name, v := range headers {
			hObj, ok := rawtree.AsObject(v)
			if !ok {
				continue
			}
			if ref := rawtree.GetString(hObj, "$ref"); ref != "" {
				if resolved, ok := resolveLocalRef(compHeaders, "#/components/headers/", ref); ok {
					hObj = resolved
				}
			}
			schemaRaw, _ := rawtree.GetObject(hObj, "schema")
			resp.Headers[name] = oas.Parameter{
				Name:        name,
				In:          oas.InHeader,
				Required:    rawtree.IsTrue(hObj, "required"),
				Description: rawtree.GetString(hObj, "description"),
				Schema:      oas30.ConvertSchema(schemaRaw),
			}
		}
	}
	if v, ok := rawtree.GetBool(obj, "x-nestia-encrypted"); ok {
		resp.NestiaEncrypted = &v
	}
	return resp
}

func resolveLocalRef(pool rawtree.Object, prefix, ref string) (rawtree.Object, bool) {
	if !strings.HasPrefix(ref, prefix) {
		return nil, false
	}
	name := strings.TrimPrefix(ref, prefix)
	v, ok := rawtree.Get(pool, name)
	if !ok {
		return nil, false
	}
	return rawtree.AsObject(v)
}

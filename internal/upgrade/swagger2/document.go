// Package swagger2 upgrades a Swagger 2.0 document envelope into the emended
// grammar (§4.D, source grammar: Swagger 2.0).
package swagger2

import (
	"fmt"
	"strings"

	"github.com/shlomiassaf/openapi/internal/normalize/swagger2"
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
	"github.com/shlomiassaf/openapi/internal/upgrade/common"
)

var methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// ConvertDocument rewrites a Swagger 2.0 document into the emended grammar.
func ConvertDocument(raw rawtree.Object) (*oas.Document, []oas.Diagnostic, error) {
	var diags oas.Diagnostics

	doc := &oas.Document{
		OpenAPI: "3.1.0",
		Info:    convertInfo(raw),
		Servers: buildServers(raw),
		Tags:    convertTags(raw),
		Emended: true,
	}

	globalParams, _ := rawtree.GetObject(raw, "parameters")
	globalResponses, _ := rawtree.GetObject(raw, "responses")

	doc.Components = convertComponents(raw, &diags)
	doc.Security = convertSecurityRequirements(raw)
	doc.Paths = convertPaths(raw, globalParams, globalResponses, &diags)

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

// buildServers lifts Swagger 2.0's single host/basePath/schemes triple into a
// one-element servers list carrying only a url (§4.D).
func buildServers(raw rawtree.Object) []oas.Server {
	host := rawtree.GetString(raw, "host")
	if host == "" {
		return nil
	}
	basePath := rawtree.GetString(raw, "basePath")
	if basePath == "" {
		basePath = "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	scheme := "https"
	if schemes, ok := rawtree.GetArray(raw, "schemes"); ok {
		if s := rawtree.StringSlice(schemes); len(s) > 0 {
			scheme = s[0]
		}
	}

	return []oas.Server{{URL: fmt.Sprintf("%s://%s%s", scheme, host, basePath)}}
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

func convertComponents(raw rawtree.Object, diags *oas.Diagnostics) oas.Components {
	comp := oas.Components{Schemas: map[string]*oas.Schema{}}

	if defs, ok := rawtree.GetObject(raw, "definitions"); ok {
		for name, v := range defs {
			if obj, ok := rawtree.AsObject(v); ok {
				comp.Schemas[name] = swagger2.ConvertSchema(obj)
			}
		}
	}

	if secDefs, ok := rawtree.GetObject(raw, "securityDefinitions"); ok {
		comp.SecuritySchemes = map[string]oas.SecurityScheme{}
		for name, v := range secDefs {
			obj, ok := rawtree.AsObject(v)
			if !ok {
				continue
			}
			scheme, ok := convertSecurityScheme(obj)
			if !ok {
				diags.Add(oas.UnknownSecurityScheme, "/securityDefinitions/"+name, "unrecognized security scheme type")
				continue
			}
			comp.SecuritySchemes[name] = scheme
		}
	}

	return comp
}

func convertSecurityScheme(raw rawtree.Object) (oas.SecurityScheme, bool) {
	typ := rawtree.GetString(raw, "type")
	desc := rawtree.GetString(raw, "description")
	switch typ {
	case "basic":
		return oas.SecurityScheme{Type: "http", Scheme: "basic", Description: desc}, true
	case "apiKey":
		return oas.SecurityScheme{Type: "apiKey", Name: rawtree.GetString(raw, "name"), In: rawtree.GetString(raw, "in"), Description: desc}, true
	case "oauth2":
		flow := rawtree.GetString(raw, "flow")
		key, ok := common.FlowKeyFromSwagger2(flow)
		if !ok {
			return oas.SecurityScheme{}, false
		}
		scopes := map[string]string{}
		if scopesObj, ok := rawtree.GetObject(raw, "scopes"); ok {
			for k, v := range scopesObj {
				if s, ok := v.(string); ok {
					scopes[k] = s
				}
			}
		}
		return oas.SecurityScheme{
			Type:        "oauth2",
			Description: desc,
			Flows: map[string]oas.OAuthFlow{
				key: {
					AuthorizationURL: rawtree.GetString(raw, "authorizationUrl"),
					TokenURL:         rawtree.GetString(raw, "tokenUrl"),
					Scopes:           scopes,
				},
			},
		}, true
	default:
		return oas.SecurityScheme{}, false
	}
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

func convertPaths(raw rawtree.Object, globalParams, globalResponses rawtree.Object, diags *oas.Diagnostics) map[string]*oas.Path {
	rawPaths, ok := rawtree.GetObject(raw, "paths")
	if !ok {
		return nil
	}

	out := map[string]*oas.Path{}
	for pathName, v := range rawPaths {
		pathItem, ok := rawtree.AsObject(v)
		if !ok {
			continue
		}

		pathParams, _ := rawtree.GetArray(pathItem, "parameters")

		path := &oas.Path{}
		for _, method := range methods {
			opRaw, ok := rawtree.GetObject(pathItem, method)
			if !ok {
				continue
			}
			op, err := convertOperation(method, pathName, opRaw, pathParams, globalParams, globalResponses, diags)
			if err != nil {
				diags.Add(oas.MalformedOperation, "/paths/"+pathName+"/"+method, err.Error())
				continue
			}
			path.Set(method, op)
		}
		out[pathName] = path
	}
	return out
}

// convertOperation implements the per-operation state machine (§4.D):
// collect -> dereference -> partition -> emit.
func convertOperation(method, pathName string, opRaw rawtree.Object, pathParams, globalParams, globalResponses rawtree.Object, diags *oas.Diagnostics) (*oas.Operation, error) {
	// collect
	opParams, _ := rawtree.GetArray(opRaw, "parameters")
	var rawParams rawtree.Array
	rawParams = append(rawParams, pathParams...)
	rawParams = append(rawParams, opParams...)

	// dereference
	dereferenced := make([]rawtree.Object, 0, len(rawParams))
	for _, item := range rawParams {
		obj, ok := rawtree.AsObject(item)
		if !ok {
			continue
		}
		if ref := rawtree.GetString(obj, "$ref"); ref != "" {
			resolved, ok := resolveLocalRef(globalParams, "#/parameters/", ref)
			if !ok {
				diags.Add(oas.DanglingReference, "/paths/"+pathName+"/"+method, "unresolved parameter reference: "+ref)
				continue
			}
			obj = resolved
		}
		dereferenced = append(dereferenced, obj)
	}

	// partition
	var general []rawtree.Object
	var bodyParam rawtree.Object
	var formDataParams []rawtree.Object
	for _, obj := range dereferenced {
		switch rawtree.GetString(obj, "in") {
		case "body":
			if bodyParam != nil {
				return nil, fmt.Errorf("more than one body parameter")
			}
			bodyParam = obj
		case "formData":
			formDataParams = append(formDataParams, obj)
		default:
			general = append(general, obj)
		}
	}

	// emit
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

	for _, obj := range general {
		op.Parameters = append(op.Parameters, oas.Parameter{
			Name:        rawtree.GetString(obj, "name"),
			In:          oas.ParamLocation(rawtree.GetString(obj, "in")),
			Required:    rawtree.IsTrue(obj, "required"),
			Description: rawtree.GetString(obj, "description"),
			Schema:      swagger2.ConvertSchema(obj),
		})
	}

	switch {
	case bodyParam != nil:
		schemaRaw, _ := rawtree.GetObject(bodyParam, "schema")
		op.RequestBody = &oas.RequestBody{
			Description: rawtree.GetString(bodyParam, "description"),
			Required:    rawtree.IsTrue(bodyParam, "required"),
			Content: map[string]oas.MediaTypeObject{
				"application/json": {Schema: swagger2.ConvertSchema(schemaRaw)},
			},
		}
	case len(formDataParams) > 0:
		op.RequestBody = buildFormDataRequestBody(formDataParams)
	}

	convertResponses(opRaw, globalResponses, op, diags, pathName, method)

	return op, nil
}

// buildFormDataRequestBody folds Swagger 2.0 `in: formData` parameters into a
// single synthetic object schema, matching the transformation
// speakeasy-api/openapi's swagger upgrader documents for the same case
// (formData -> requestBody with a urlencoded schema).
func buildFormDataRequestBody(params []rawtree.Object) *oas.RequestBody {
	obj := &oas.Schema{Kind: oas.KindObject}
	for _, p := range params {
		name := rawtree.GetString(p, "name")
		obj.SetProperty(name, swagger2.ConvertSchema(p))
		if rawtree.IsTrue(p, "required") {
			obj.Required = append(obj.Required, name)
		}
	}
	return &oas.RequestBody{
		Required: len(obj.Required) > 0,
		Content: map[string]oas.MediaTypeObject{
			"application/x-www-form-urlencoded": {Schema: obj},
		},
	}
}

func convertResponses(opRaw rawtree.Object, globalResponses rawtree.Object, op *oas.Operation, diags *oas.Diagnostics, pathName, method string) {
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
			resolved, ok := resolveLocalRef(globalResponses, "#/responses/", ref)
			if !ok {
				diags.Add(oas.DanglingReference, "/paths/"+pathName+"/"+method+"/responses/"+status, "unresolved response reference: "+ref)
				continue
			}
			obj = resolved
		}
		op.Responses[status] = convertResponse(obj)
	}
}

// convertResponse wraps Swagger 2.0's bare `schema` form into the emended
// content-map shape (§4.D).
func convertResponse(obj rawtree.Object) oas.Response {
	resp := oas.Response{Description: rawtree.GetString(obj, "description")}
	if schemaRaw, ok := rawtree.GetObject(obj, "schema"); ok {
		resp.Content = map[string]oas.MediaTypeObject{
			"application/json": {Schema: swagger2.ConvertSchema(schemaRaw)},
		}
	}
	if headers, ok := rawtree.GetObject(obj, "headers"); ok {
		resp.Headers = map[string]oas.Parameter{}
		for name, v := range headers {
			if h, ok := rawtree.AsObject(v); ok {
				resp.Headers[name] = oas.Parameter{
					Name:        name,
					In:          oas.InHeader,
					Description: rawtree.GetString(h, "description"),
					Schema:      swagger2.ConvertSchema(h),
				}
			}
		}
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

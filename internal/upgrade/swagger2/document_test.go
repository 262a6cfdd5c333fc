package swagger2

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/shlomiassaf/openapi/internal/oas"
)

const petStoreSwagger2 = `
swagger: "2.0"
host: api.example.com
basePath: /v1
schemes: [https]
info:
  title: Pet Store
  version: "1.0"
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          type: integer
      responses:
        "200":
          description: ok
          schema:
            type: array
            items:
              $ref: "#/definitions/Pet"
    post:
      consumes: [multipart/form-data]
      parameters:
        - name: name
          in: formData
          type: string
          required: true
        - name: tag
          in: formData
          type: string
      responses:
        "201":
          description: created
  /pets/{id}:
    put:
      parameters:
        - name: id
          in: path
          required: true
          type: string
        - name: body
          in: body
          required: true
          schema:
            $ref: "#/definitions/Pet"
      responses:
        "200":
          description: ok
definitions:
  Pet:
    type: object
    required: [name]
    properties:
      name:
        type: string
      tag:
        type: string
securityDefinitions:
  apiKeyAuth:
    type: apiKey
    name: X-API-Key
    in: header
`

func parseYAML(t *testing.T, s string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestConvertDocumentServersAndSchemas(t *testing.T) {
	raw := parseYAML(t, petStoreSwagger2)
	doc, diags, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}

	if len(doc.Servers) != 1 || doc.Servers[0].URL != "https://api.example.com/v1" {
		t.Errorf("Servers = %+v, want a single https://api.example.com/v1 entry", doc.Servers)
	}

	pet, ok := doc.Components.Schemas["Pet"]
	if !ok || pet.Kind != oas.KindObject {
		t.Fatalf("Components.Schemas[Pet] = %+v, want an object schema", pet)
	}
}

func TestConvertDocumentFormDataFoldsToRequestBody(t *testing.T) {
	raw := parseYAML(t, petStoreSwagger2)
	doc, _, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}

	post := doc.Paths["/pets"].Post
	if post == nil || post.RequestBody == nil {
		t.Fatal("expected POST /pets to have a request body folded from formData parameters")
	}
	mto, ok := post.RequestBody.Content["application/x-www-form-urlencoded"]
	if !ok {
		t.Fatal("expected application/x-www-form-urlencoded content")
	}
	if mto.Schema.Kind != oas.KindObject || len(mto.Schema.Properties) != 2 {
		t.Errorf("formData schema = %+v, want an object with 2 properties", mto.Schema)
	}
	if len(mto.Schema.Required) != 1 || mto.Schema.Required[0] != "name" {
		t.Errorf("formData schema.Required = %v, want [name]", mto.Schema.Required)
	}
}

func TestConvertDocumentBodyParamPromotedToRequestBody(t *testing.T) {
	raw := parseYAML(t, petStoreSwagger2)
	doc, _, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}

	put := doc.Paths["/pets/{id}"].Put
	if put == nil || put.RequestBody == nil {
		t.Fatal("expected PUT /pets/{id} to have a request body promoted from the body parameter")
	}
	if len(put.Parameters) != 1 || put.Parameters[0].Name != "id" {
		t.Errorf("Parameters = %+v, want only the path parameter id (body param must not remain in Parameters)", put.Parameters)
	}
}

func TestConvertDocumentMultipleBodyParamsIsMalformed(t *testing.T) {
	raw := parseYAML(t, `
swagger: "2.0"
info: {title: x, version: "1"}
paths:
  /x:
    post:
      parameters:
        - {name: a, in: body, schema: {type: string}}
        - {name: b, in: body, schema: {type: string}}
      responses:
        "200": {description: ok}
`)
	doc, diags, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	if doc.Paths["/x"].Post != nil {
		t.Error("operation with two body parameters should be dropped")
	}
	found := false
	for _, d := range diags {
		if d.Kind == oas.MalformedOperation {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %+v, want a MalformedOperation entry", diags)
	}
}

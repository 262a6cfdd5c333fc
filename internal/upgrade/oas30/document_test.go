package oas30

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/shlomiassaf/openapi/internal/oas"
)

const petStoreOpenAPI30 = `
openapi: 3.0.3
info:
  title: Pet Store
  version: "1.0"
servers:
  - url: https://api.example.com/v1
paths:
  /pets:
    parameters:
      - name: traceId
        in: header
        schema: {type: string}
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema: {type: integer}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
      responses:
        "201":
          description: created
components:
  schemas:
    Pet:
      type: object
      nullable: true
      required: [name]
      properties:
        name:
          type: string
  securitySchemes:
    apiKeyAuth:
      type: apiKey
      name: X-API-Key
      in: header
    oauth:
      type: oauth2
      flows:
        authorizationCode:
          authorizationUrl: https://example.com/auth
          tokenUrl: https://example.com/token
          scopes:
            read: read access
`

func parseYAML(t *testing.T, s string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestConvertDocumentMergesPathLevelParameters(t *testing.T) {
	raw := parseYAML(t, petStoreOpenAPI30)
	doc, diags, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}

	get := doc.Paths["/pets"].Get
	if get == nil {
		t.Fatal("expected GET /pets")
	}
	names := map[string]bool{}
	for _, p := range get.Parameters {
		names[p.Name] = true
	}
	if !names["traceId"] || !names["limit"] {
		t.Errorf("Parameters = %+v, want both the path-level traceId and operation-level limit merged", get.Parameters)
	}
}

func TestConvertDocumentNullableSchemaBecomesOneOf(t *testing.T) {
	raw := parseYAML(t, petStoreOpenAPI30)
	doc, _, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	pet := doc.Components.Schemas["Pet"]
	if pet.Kind != oas.KindOneOf {
		t.Fatalf("Pet.Kind = %v, want KindOneOf (object + null)", pet.Kind)
	}
	var sawObject, sawNull bool
	for _, b := range pet.Branches {
		if b.Kind == oas.KindObject {
			sawObject = true
		}
		if b.IsNull() {
			sawNull = true
		}
	}
	if !sawObject || !sawNull {
		t.Errorf("Branches = %+v, want an object branch and a null branch", pet.Branches)
	}
}

func TestConvertDocumentRequestBodyDereferenced(t *testing.T) {
	raw := parseYAML(t, petStoreOpenAPI30)
	doc, _, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	post := doc.Paths["/pets"].Post
	if post == nil || post.RequestBody == nil {
		t.Fatal("expected POST /pets to carry a request body")
	}
	mto, ok := post.RequestBody.Content["application/json"]
	if !ok || mto.Schema.Kind != oas.KindReference {
		t.Errorf("request body schema = %+v, want a $ref to Pet", mto.Schema)
	}
}

func TestConvertDocumentOAuth2FlowsConverted(t *testing.T) {
	raw := parseYAML(t, petStoreOpenAPI30)
	doc, _, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	scheme, ok := doc.Components.SecuritySchemes["oauth"]
	if !ok || scheme.Type != "oauth2" {
		t.Fatalf("SecuritySchemes[oauth] = %+v, want an oauth2 scheme", scheme)
	}
	flow, ok := scheme.Flows["authorizationCode"]
	if !ok || flow.TokenURL != "https://example.com/token" {
		t.Errorf("Flows[authorizationCode] = %+v, want tokenUrl https://example.com/token", flow)
	}
	if flow.Scopes["read"] != "read access" {
		t.Errorf("Scopes = %v, want read: read access", flow.Scopes)
	}
}

func TestConvertDocumentOperationIDSynthesized(t *testing.T) {
	raw := parseYAML(t, `
openapi: 3.0.3
info: {title: x, version: "1"}
paths:
  /pets:
    post:
      responses:
        "201": {description: created}
`)
	doc, _, err := ConvertDocument(raw)
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	post := doc.Paths["/pets"].Post
	if post.OperationID == "" {
		t.Error("expected a synthesized operationId when the source omits one")
	}
}

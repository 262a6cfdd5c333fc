package oas2

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
	swagger2up "github.com/shlomiassaf/openapi/internal/upgrade/swagger2"
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
    post:
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
definitions:
  Pet:
    type: object
    required: [name]
    properties:
      name:
        type: string
      tag:
        type: string
`

func upgradeFixture(t *testing.T) *oas.Document {
	t.Helper()
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(petStoreSwagger2), &raw); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	doc, _, err := swagger2up.ConvertDocument(raw)
	if err != nil {
		t.Fatalf("upgrade ConvertDocument: %v", err)
	}
	return doc
}

func TestConvertDocumentRoundTripsHostBasePathSchemes(t *testing.T) {
	doc := upgradeFixture(t)
	out, diags := ConvertDocument(doc)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}

	if out["host"] != "api.example.com" {
		t.Errorf("host = %v, want api.example.com", out["host"])
	}
	if out["basePath"] != "/v1" {
		t.Errorf("basePath = %v, want /v1", out["basePath"])
	}
	schemes, _ := out["schemes"].([]any)
	if len(schemes) != 1 || schemes[0] != "https" {
		t.Errorf("schemes = %v, want [https]", out["schemes"])
	}
}

func TestConvertDocumentDecomposesFormDataRequestBody(t *testing.T) {
	doc := upgradeFixture(t)
	out, _ := ConvertDocument(doc)

	paths, _ := out["paths"].(map[string]any)
	pets, _ := paths["/pets"].(map[string]any)
	post, _ := pets["post"].(map[string]any)
	params, _ := post["parameters"].([]any)

	if len(params) != 2 {
		t.Fatalf("parameters = %+v, want 2 formData entries decomposed from the request body", params)
	}

	seen := map[string]bool{}
	for _, p := range params {
		param, _ := p.(map[string]any)
		if param["in"] != "formData" {
			t.Errorf("parameter %+v: in = %v, want formData", param, param["in"])
		}
		name, _ := param["name"].(string)
		seen[name] = true
	}
	if !seen["name"] || !seen["tag"] {
		t.Errorf("decomposed formData parameter names = %v, want name and tag", seen)
	}
}

func TestConvertRequestBodyAnnotatesOtherContentTypes(t *testing.T) {
	rb := &oas.RequestBody{
		Content: map[string]oas.MediaTypeObject{
			"application/json": {Schema: &oas.Schema{Kind: oas.KindString}},
			"application/xml":  {Schema: &oas.Schema{Kind: oas.KindString}},
			"text/plain":       {Schema: &oas.Schema{Kind: oas.KindString}},
		},
	}
	params := convertRequestBody(rb)
	if len(params) != 1 {
		t.Fatalf("params = %+v, want a single in: body parameter", params)
	}
	body := params[0]
	if body["in"] != "body" {
		t.Fatalf("in = %v, want body", body["in"])
	}
	annotations, ok := body["x-nestia-content-type"].(rawtree.Array)
	if !ok {
		t.Fatalf("x-nestia-content-type = %v (%T), want a rawtree.Array", body["x-nestia-content-type"], body["x-nestia-content-type"])
	}
	seen := map[string]bool{}
	for _, a := range annotations {
		seen[a.(string)] = true
	}
	if len(seen) != 2 || !seen["application/xml"] || !seen["text/plain"] {
		t.Errorf("x-nestia-content-type = %v, want [application/xml text/plain]", annotations)
	}
}

func TestConvertRequestBodyNoAnnotationForSingleContentType(t *testing.T) {
	rb := &oas.RequestBody{
		Content: map[string]oas.MediaTypeObject{
			"application/json": {Schema: &oas.Schema{Kind: oas.KindString}},
		},
	}
	params := convertRequestBody(rb)
	if _, ok := params[0]["x-nestia-content-type"]; ok {
		t.Errorf("x-nestia-content-type = %v, want unset when there is only one content type", params[0]["x-nestia-content-type"])
	}
}

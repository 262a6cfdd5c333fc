package emit

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/sniff"
	"github.com/shlomiassaf/openapi/internal/upgrade/swagger2"
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
      responses:
        "200":
          description: ok
          schema:
            $ref: "#/definitions/Pet"
definitions:
  Pet:
    type: object
    required: [name]
    properties:
      name:
        type: string
      tag:
        type: string
        x-nullable: true
`

func upgradeFixture(t *testing.T) *oas.Document {
	t.Helper()
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(petStoreSwagger2), &raw); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	doc, _, err := swagger2.ConvertDocument(raw)
	if err != nil {
		t.Fatalf("upgrade ConvertDocument: %v", err)
	}
	return doc
}

func TestConvertDocumentReSniffsAsEmended(t *testing.T) {
	doc := upgradeFixture(t)
	out := ConvertDocument(doc)

	v, err := sniff.Sniff(out)
	if err != nil {
		t.Fatalf("Sniff(emitted document): %v", err)
	}
	if v != sniff.Emended {
		t.Errorf("Sniff() = %v, want Emended", v)
	}
}

func TestConvertDocumentPreservesNativeOneOfForNullableBranch(t *testing.T) {
	doc := upgradeFixture(t)
	out := ConvertDocument(doc)

	schemas, _ := out["components"].(map[string]any)["schemas"].(map[string]any)
	pet, _ := schemas["Pet"].(map[string]any)
	props, _ := pet["properties"].(map[string]any)
	tag, _ := props["tag"].(map[string]any)

	branches, ok := tag["oneOf"].([]any)
	if !ok || len(branches) != 2 {
		t.Fatalf("tag = %+v, want a native oneOf of [string, null] with nothing folded", tag)
	}
	if _, hasNullable := tag["nullable"]; hasNullable {
		t.Error("emit must never fold a null branch back into a nullable flag")
	}
}

func TestConvertDocumentResponseSchemaRefPreserved(t *testing.T) {
	doc := upgradeFixture(t)
	out := ConvertDocument(doc)

	paths, _ := out["paths"].(map[string]any)
	pets, _ := paths["/pets"].(map[string]any)
	get, _ := pets["get"].(map[string]any)
	responses, _ := get["responses"].(map[string]any)
	ok200, _ := responses["200"].(map[string]any)
	content, _ := ok200["content"].(map[string]any)
	mt, _ := content["application/json"].(map[string]any)
	schema, _ := mt["schema"].(map[string]any)

	if schema["$ref"] != "#/components/schemas/Pet" {
		t.Errorf("response schema = %+v, want a $ref to #/components/schemas/Pet", schema)
	}
}

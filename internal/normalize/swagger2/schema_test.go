package swagger2

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/shlomiassaf/openapi/internal/oas"
)

func parseSchema(t *testing.T, s string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestConvertSchemaXNullableFoldsToOneOf(t *testing.T) {
	raw := parseSchema(t, `
type: string
x-nullable: true
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindOneOf {
		t.Fatalf("Kind = %v, want KindOneOf for x-nullable: true", s.Kind)
	}
	var sawNull bool
	for _, b := range s.Branches {
		if b.IsNull() {
			sawNull = true
		}
	}
	if !sawNull {
		t.Errorf("Branches = %+v, want a null branch", s.Branches)
	}
}

func TestConvertSchemaXOneOfEscapeHatch(t *testing.T) {
	raw := parseSchema(t, `
x-oneOf:
  - type: string
  - type: integer
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindOneOf || len(s.Branches) != 2 {
		t.Fatalf("Kind/Branches = %v/%d, want a 2-branch OneOf from x-oneOf", s.Kind, len(s.Branches))
	}
}

func TestConvertSchemaXNullableNotLeakedAsExtension(t *testing.T) {
	raw := parseSchema(t, `
type: string
x-nullable: true
x-custom: kept
`)
	s := ConvertSchema(raw)
	var str *oas.Schema
	for _, b := range s.Branches {
		if b.Kind == oas.KindString {
			str = b
		}
	}
	if str == nil {
		t.Fatal("expected a string branch")
	}
	if _, ok := s.Attributes.Extensions["x-nullable"]; ok {
		t.Error("x-nullable is a structural escape hatch and must not survive as an Extension")
	}
}

func TestRewriteRefDefinitionsToComponents(t *testing.T) {
	got := RewriteRef("#/definitions/Pet")
	if got != "#/components/schemas/Pet" {
		t.Errorf("RewriteRef() = %v, want #/components/schemas/Pet", got)
	}
}

func TestRewriteRefPassesThroughNonDefinitions(t *testing.T) {
	got := RewriteRef("#/parameters/Limit")
	if got != "#/parameters/Limit" {
		t.Errorf("RewriteRef() = %v, want unchanged", got)
	}
}

func TestConvertSchemaAdditionalPropertiesSchema(t *testing.T) {
	raw := parseSchema(t, `
type: object
additionalProperties:
  type: string
`)
	s := ConvertSchema(raw)
	ap, ok := s.AdditionalProperties.(*oas.Schema)
	if !ok || ap.Kind != oas.KindString {
		t.Errorf("AdditionalProperties = %+v, want a string schema", s.AdditionalProperties)
	}
}

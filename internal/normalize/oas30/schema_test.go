package oas30

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

func TestConvertSchemaNullableFoldsToOneOf(t *testing.T) {
	raw := parseSchema(t, `
type: string
nullable: true
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindOneOf {
		t.Fatalf("Kind = %v, want KindOneOf for a nullable string", s.Kind)
	}
	var sawString, sawNull bool
	for _, b := range s.Branches {
		switch {
		case b.Kind == oas.KindString:
			sawString = true
		case b.IsNull():
			sawNull = true
		}
	}
	if !sawString || !sawNull {
		t.Errorf("Branches = %+v, want a string branch and a null branch", s.Branches)
	}
}

func TestConvertSchemaEnumExpandsToConstants(t *testing.T) {
	raw := parseSchema(t, `
type: string
enum: [a, b, c]
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindOneOf || len(s.Branches) != 3 {
		t.Fatalf("Kind/Branches = %v/%d, want a 3-branch OneOf of constants", s.Kind, len(s.Branches))
	}
	for _, b := range s.Branches {
		if b.Kind != oas.KindConstant {
			t.Errorf("branch Kind = %v, want KindConstant", b.Kind)
		}
	}
}

func TestConvertSchemaAllOfObjectsMerge(t *testing.T) {
	raw := parseSchema(t, `
allOf:
  - type: object
    required: [name]
    properties:
      name: {type: string}
  - type: object
    required: [age]
    properties:
      age: {type: integer}
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindObject {
		t.Fatalf("Kind = %v, want a merged KindObject", s.Kind)
	}
	if len(s.Properties) != 2 {
		t.Errorf("Properties = %+v, want name and age", s.Properties)
	}
	if len(s.Required) != 2 {
		t.Errorf("Required = %v, want [name age]", s.Required)
	}
}

func TestConvertSchemaAllOfNonObjectFallsBackToOneOf(t *testing.T) {
	raw := parseSchema(t, `
allOf:
  - type: string
  - type: integer
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindOneOf {
		t.Fatalf("Kind = %v, want KindOneOf fallback when allOf branches aren't all objects", s.Kind)
	}
	if len(s.Branches) != 2 {
		t.Errorf("Branches = %+v, want 2", s.Branches)
	}
}

func TestConvertSchemaConstDiscardsType(t *testing.T) {
	raw := parseSchema(t, `
type: string
const: fixed
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindConstant {
		t.Fatalf("Kind = %v, want KindConstant", s.Kind)
	}
	if s.ConstantValue != "fixed" {
		t.Errorf("ConstantValue = %v, want fixed", s.ConstantValue)
	}
}

func TestConvertSchemaRef(t *testing.T) {
	raw := parseSchema(t, `
$ref: "#/components/schemas/Pet"
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindReference || s.Ref != "#/components/schemas/Pet" {
		t.Errorf("Kind/Ref = %v/%v, want a reference to #/components/schemas/Pet", s.Kind, s.Ref)
	}
}

func TestConvertSchemaArrayOfObjects(t *testing.T) {
	raw := parseSchema(t, `
type: array
items:
  type: object
  properties:
    id: {type: integer}
`)
	s := ConvertSchema(raw)
	if s.Kind != oas.KindArray {
		t.Fatalf("Kind = %v, want KindArray", s.Kind)
	}
	if s.Items == nil || s.Items.Kind != oas.KindObject {
		t.Errorf("Items = %+v, want an object schema", s.Items)
	}
}

package oas30

import (
	"testing"

	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

func TestConvertSchemaNullableRoundtrip(t *testing.T) {
	// emended: oneOf[string, null] -> 3.0: {type: string, nullable: true} (§8 scenario 1).
	union := &oas.Schema{
		Kind: oas.KindOneOf,
		Branches: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindNull},
		},
	}
	out := ConvertSchema(union)
	if out["type"] != "string" {
		t.Errorf("type = %v, want string", out["type"])
	}
	if out["nullable"] != true {
		t.Errorf("nullable = %v, want true", out["nullable"])
	}
	if _, ok := out["oneOf"]; ok {
		t.Errorf("oneOf = %v, want absent once only one non-null branch remains", out["oneOf"])
	}
}

func TestConvertSchemaAllNullOneOfCollapsesToBareNullable(t *testing.T) {
	union := &oas.Schema{
		Kind:     oas.KindOneOf,
		Branches: []*oas.Schema{{Kind: oas.KindNull}},
	}
	out := ConvertSchema(union)
	if out["nullable"] != true {
		t.Errorf("nullable = %v, want true", out["nullable"])
	}
	if _, ok := out["type"]; ok {
		t.Errorf("type = %v, want unset when zero non-null branches remain", out["type"])
	}
}

func TestConvertSchemaMultiBranchOneOfKeepsOneOfAndNullable(t *testing.T) {
	union := &oas.Schema{
		Kind: oas.KindOneOf,
		Branches: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindInteger},
			{Kind: oas.KindNull},
		},
	}
	out := ConvertSchema(union)
	if out["nullable"] != true {
		t.Errorf("nullable = %v, want true", out["nullable"])
	}
	branches, ok := out["oneOf"].(rawtree.Array)
	if !ok || len(branches) != 2 {
		t.Errorf("oneOf = %v, want 2 remaining non-null branches preserved", out["oneOf"])
	}
}

func TestConvertSchemaConstantExpandsToSingleValueEnum(t *testing.T) {
	out := ConvertSchema(&oas.Schema{Kind: oas.KindConstant, ConstantValue: "a"})
	if out["type"] != "string" {
		t.Errorf("type = %v, want string", out["type"])
	}
	enum, ok := out["enum"].(rawtree.Array)
	if !ok || len(enum) != 1 || enum[0] != "a" {
		t.Errorf("enum = %v, want [a]", out["enum"])
	}
}

func TestConvertSchemaClosedTupleBecomesArrayWithOneOfItems(t *testing.T) {
	// §8 scenario 5: prefixItems + additionalItems:false -> array/oneOf-items/minItems=maxItems=2.
	tuple := &oas.Schema{
		Kind: oas.KindTuple,
		PrefixItems: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindInteger},
		},
		AdditionalItems: false,
	}
	out := ConvertSchema(tuple)
	if out["type"] != "array" {
		t.Errorf("type = %v, want array", out["type"])
	}
	items, ok := out["items"].(rawtree.Object)
	if !ok {
		t.Fatalf("items = %v, want an object", out["items"])
	}
	if _, ok := items["oneOf"]; !ok {
		t.Errorf("items = %v, want a oneOf of the two prefix schemas", items)
	}
	if out["minItems"] != 2 || out["maxItems"] != 2 {
		t.Errorf("minItems/maxItems = %v/%v, want 2/2", out["minItems"], out["maxItems"])
	}
}

func TestConvertSchemaReferenceDropsSiblingAttributes(t *testing.T) {
	s := &oas.Schema{
		Kind:       oas.KindReference,
		Ref:        "#/components/schemas/Pet",
		Attributes: oas.Attributes{Title: "ignored"},
	}
	out := ConvertSchema(s)
	if len(out) != 1 || out["$ref"] != "#/components/schemas/Pet" {
		t.Errorf("ConvertSchema(ref) = %v, want bare {$ref: ...}", out)
	}
}

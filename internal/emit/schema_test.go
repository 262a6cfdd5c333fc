package emit

import (
	"testing"

	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

func TestConvertSchemaOneOfStaysNativeNeverFoldsToNullable(t *testing.T) {
	union := &oas.Schema{
		Kind: oas.KindOneOf,
		Branches: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindNull},
		},
	}
	out := ConvertSchema(union)
	branches, ok := out["oneOf"].(rawtree.Array)
	if !ok || len(branches) != 2 {
		t.Fatalf("oneOf = %v, want both branches kept native", out["oneOf"])
	}
	if _, hasNullable := out["nullable"]; hasNullable {
		t.Error("emit must never fold a null branch into a nullable flag")
	}
}

func TestConvertSchemaConstantStaysConst(t *testing.T) {
	out := ConvertSchema(&oas.Schema{Kind: oas.KindConstant, ConstantValue: "a"})
	if out["const"] != "a" {
		t.Errorf("const = %v, want \"a\"", out["const"])
	}
	if _, hasEnum := out["enum"]; hasEnum {
		t.Error("emit must keep const native, not re-expand it into an enum")
	}
}

func TestConvertSchemaTupleUsesPrefixItemsAndItemsForAdditional(t *testing.T) {
	tuple := &oas.Schema{
		Kind: oas.KindTuple,
		PrefixItems: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindInteger},
		},
		AdditionalItems: false,
	}
	out := ConvertSchema(tuple)
	prefix, ok := out["prefixItems"].(rawtree.Array)
	if !ok || len(prefix) != 2 {
		t.Fatalf("prefixItems = %v, want 2 entries", out["prefixItems"])
	}
	if out["items"] != false {
		t.Errorf("items = %v, want false (closed tuple, 2020-12 additionalItems form)", out["items"])
	}
}

func TestConvertSchemaNullTypeStaysStandalone(t *testing.T) {
	out := ConvertSchema(&oas.Schema{Kind: oas.KindNull})
	if out["type"] != "null" {
		t.Errorf("type = %v, want \"null\"", out["type"])
	}
}

func TestConvertSchemaExclusiveBoundsUseNumericForm(t *testing.T) {
	min := 1.0
	out := ConvertSchema(&oas.Schema{
		Kind:    oas.KindInteger,
		Numeric: oas.NumericRange{Minimum: &min, ExclusiveMinimum: true},
	})
	if out["exclusiveMinimum"] != 1.0 {
		t.Errorf("exclusiveMinimum = %v, want numeric 1.0 (3.1 form), not a boolean flag", out["exclusiveMinimum"])
	}
	if _, hasMinimum := out["minimum"]; hasMinimum {
		t.Error("minimum must not coexist with exclusiveMinimum once folded to the 3.1 numeric form")
	}
}

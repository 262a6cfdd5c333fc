package oas2

import (
	"testing"

	"github.com/shlomiassaf/openapi/internal/oas"
)

func TestConvertSchemaClosedTupleSetsBothBounds(t *testing.T) {
	tuple := &oas.Schema{
		Kind: oas.KindTuple,
		PrefixItems: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindInteger},
		},
		AdditionalItems: false,
	}
	out := ConvertSchema(tuple)
	if out["minItems"] != 2 || out["maxItems"] != 2 {
		t.Errorf("minItems/maxItems = %v/%v, want 2/2 (closed tuple)", out["minItems"], out["maxItems"])
	}
}

func TestConvertSchemaOpenTupleKeepsMinItemsOnly(t *testing.T) {
	tuple := &oas.Schema{
		Kind: oas.KindTuple,
		PrefixItems: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindInteger},
		},
		AdditionalItems: true,
	}
	out := ConvertSchema(tuple)
	if out["minItems"] != 2 {
		t.Errorf("minItems = %v, want 2 regardless of additionalItems", out["minItems"])
	}
	if _, ok := out["maxItems"]; ok {
		t.Errorf("maxItems = %v, want unset for an open tuple (additionalItems: true)", out["maxItems"])
	}
}

func TestConvertSchemaOpenTupleWithSchemaAdditionalItemsKeepsMinItemsOnly(t *testing.T) {
	tuple := &oas.Schema{
		Kind: oas.KindTuple,
		PrefixItems: []*oas.Schema{
			{Kind: oas.KindString},
		},
		AdditionalItems: &oas.Schema{Kind: oas.KindString},
	}
	out := ConvertSchema(tuple)
	if out["minItems"] != 1 {
		t.Errorf("minItems = %v, want 1", out["minItems"])
	}
	if _, ok := out["maxItems"]; ok {
		t.Errorf("maxItems = %v, want unset when additionalItems is a schema, not false", out["maxItems"])
	}
}

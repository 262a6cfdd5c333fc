package oas30

import (
	"testing"

	"github.com/shlomiassaf/openapi/internal/oas"
)

func buildNullableOneOf() *oas.Schema {
	return &oas.Schema{
		Kind: oas.KindOneOf,
		Branches: []*oas.Schema{
			{Kind: oas.KindString},
			oas.NullSchema(),
		},
	}
}

func TestConvertSchemaFoldsNullBranchToNullable(t *testing.T) {
	out := ConvertSchema(buildNullableOneOf())
	if out["type"] != "string" {
		t.Errorf("type = %v, want string", out["type"])
	}
	if out["nullable"] != true {
		t.Errorf("nullable = %v, want true", out["nullable"])
	}
	if _, ok := out["oneOf"]; ok {
		t.Errorf("out = %+v, want no surviving oneOf after a single non-null branch folds to nullable", out)
	}
}

func TestConvertSchemaTupleLosesPositionalTyping(t *testing.T) {
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
		t.Fatalf("type = %v, want array", out["type"])
	}
	if _, ok := out["items"]; !ok {
		t.Fatal("expected a single items schema folding the prefix items")
	}
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

func TestConvertSchemaOpenTupleWithExplicitMaxItems(t *testing.T) {
	max := 5
	tuple := &oas.Schema{
		Kind: oas.KindTuple,
		PrefixItems: []*oas.Schema{
			{Kind: oas.KindString},
			{Kind: oas.KindInteger},
		},
		AdditionalItems: true,
		MaxItems:        &max,
	}
	out := ConvertSchema(tuple)
	if out["minItems"] != 2 {
		t.Errorf("minItems = %v, want 2", out["minItems"])
	}
	if out["maxItems"] != 5 {
		t.Errorf("maxItems = %v, want the tuple's own explicit maxItems of 5", out["maxItems"])
	}
}

func TestConvertDocumentDropsWebhooksWithDiagnostic(t *testing.T) {
	doc := &oas.Document{
		Info:       &oas.Info{Title: "x", Version: "1"},
		Components: oas.Components{Schemas: map[string]*oas.Schema{}},
		Paths:      map[string]*oas.Path{},
		Webhooks: map[string]*oas.Path{
			"petCreated": {Post: &oas.Operation{Responses: map[string]oas.Response{}}},
		},
	}
	out, diags := ConvertDocument(doc)
	if _, ok := out["webhooks"]; ok {
		t.Error("OpenAPI 3.0 output should not carry a webhooks key")
	}
	found := false
	for _, d := range diags {
		if d.Kind == oas.UnsupportedConstruct {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %+v, want an UnsupportedConstruct entry for the dropped webhooks", diags)
	}
}

func TestConvertDocumentOpenAPIVersionIs303(t *testing.T) {
	doc := &oas.Document{
		Info:       &oas.Info{Title: "x", Version: "1"},
		Components: oas.Components{Schemas: map[string]*oas.Schema{}},
		Paths:      map[string]*oas.Path{},
	}
	out, _ := ConvertDocument(doc)
	if out["openapi"] != "3.0.3" {
		t.Errorf("openapi = %v, want 3.0.3", out["openapi"])
	}
}

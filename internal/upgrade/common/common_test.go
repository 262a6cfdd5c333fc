package common

import (
	"testing"

	"github.com/shlomiassaf/openapi/internal/oas"
)

func TestSynthesizeOperationIDUsesLastConcretePathSegment(t *testing.T) {
	cases := []struct {
		method, path, want string
	}{
		{"get", "/pets", "getPets"},
		{"get", "/pets/{id}", "getPets"},
		{"post", "/pets/{id}/photos", "postPhotos"},
		{"delete", "/user-profiles/{id}", "deleteUserprofiles"},
	}
	for _, c := range cases {
		if got := SynthesizeOperationID(c.method, c.path); got != c.want {
			t.Errorf("SynthesizeOperationID(%q, %q) = %q, want %q", c.method, c.path, got, c.want)
		}
	}
}

func TestFlowKeyRoundtripsThroughSwagger2Names(t *testing.T) {
	cases := map[string]string{
		"implicit":    "implicit",
		"accessCode":  "authorizationCode",
		"password":    "password",
		"application": "clientCredentials",
	}
	for swaggerName, emendedKey := range cases {
		got, ok := FlowKeyFromSwagger2(swaggerName)
		if !ok || got != emendedKey {
			t.Errorf("FlowKeyFromSwagger2(%q) = %q, %v, want %q, true", swaggerName, got, ok, emendedKey)
		}
		back, ok := FlowKeyToSwagger2(emendedKey)
		if !ok || back != swaggerName {
			t.Errorf("FlowKeyToSwagger2(%q) = %q, %v, want %q, true", emendedKey, back, ok, swaggerName)
		}
	}
	if _, ok := FlowKeyFromSwagger2("bogus"); ok {
		t.Error("FlowKeyFromSwagger2(bogus) = true, want false")
	}
}

func TestWalkSchemaRefsVisitsEveryNestedReference(t *testing.T) {
	schema := &oas.Schema{
		Kind: oas.KindObject,
		Properties: []oas.Property{
			{Name: "owner", Schema: &oas.Schema{Kind: oas.KindReference, Ref: "#/components/schemas/Owner"}},
			{Name: "tags", Schema: &oas.Schema{
				Kind:  oas.KindArray,
				Items: &oas.Schema{Kind: oas.KindReference, Ref: "#/components/schemas/Tag"},
			}},
		},
		AdditionalProperties: &oas.Schema{Kind: oas.KindReference, Ref: "#/components/schemas/Extra"},
	}

	var seen []string
	WalkSchemaRefs(schema, func(ref string) { seen = append(seen, ref) })

	want := map[string]bool{
		"#/components/schemas/Owner": true,
		"#/components/schemas/Tag":   true,
		"#/components/schemas/Extra": true,
	}
	if len(seen) != len(want) {
		t.Fatalf("WalkSchemaRefs visited %v, want %d refs", seen, len(want))
	}
	for _, ref := range seen {
		if !want[ref] {
			t.Errorf("WalkSchemaRefs visited unexpected ref %q", ref)
		}
	}
}

func TestCheckDanglingRefsRecordsUnresolvedComponentSchema(t *testing.T) {
	doc := &oas.Document{
		Components: oas.Components{
			Schemas: map[string]*oas.Schema{
				"Pet": {Kind: oas.KindReference, Ref: "#/components/schemas/Missing"},
			},
		},
	}
	var diags oas.Diagnostics
	CheckDanglingRefs(doc, &diags)

	if len(diags.Items()) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one dangling-reference entry", diags.Items())
	}
	if diags.Items()[0].Kind != oas.DanglingReference {
		t.Errorf("diagnostic kind = %v, want DanglingReference", diags.Items()[0].Kind)
	}
}

func TestCheckDanglingRefsAcceptsResolvedSchema(t *testing.T) {
	doc := &oas.Document{
		Components: oas.Components{
			Schemas: map[string]*oas.Schema{
				"Pet":   {Kind: oas.KindReference, Ref: "#/components/schemas/Owner"},
				"Owner": {Kind: oas.KindString},
			},
		},
	}
	var diags oas.Diagnostics
	CheckDanglingRefs(doc, &diags)

	if len(diags.Items()) != 0 {
		t.Errorf("diagnostics = %v, want none for a resolved reference", diags.Items())
	}
}

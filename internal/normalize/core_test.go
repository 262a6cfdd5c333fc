package normalize

import (
	"testing"

	"github.com/shlomiassaf/openapi/internal/oas"
)

func TestFinalizeEmptyAccumulatorYieldsUnknown(t *testing.T) {
	result := Finalize(Accumulator{}, oas.Attributes{Title: "empty"})
	if result.Kind != oas.KindUnknown {
		t.Errorf("Finalize(empty) kind = %v, want Unknown", result.Kind)
	}
	if result.Title != "empty" {
		t.Errorf("Finalize(empty) title = %q, want attrs merged in even for Unknown", result.Title)
	}
}

func TestFinalizeSingleBranchUnwraps(t *testing.T) {
	var acc Accumulator
	acc.AddBranch(&oas.Schema{Kind: oas.KindString})
	result := Finalize(acc, oas.Attributes{})
	if result.Kind != oas.KindString {
		t.Errorf("Finalize(single branch) kind = %v, want String, not wrapped in OneOf", result.Kind)
	}
}

func TestFinalizeNullableAppendsSyntheticNullBranch(t *testing.T) {
	var acc Accumulator
	acc.AddBranch(&oas.Schema{Kind: oas.KindString})
	acc.MarkNullable()
	result := Finalize(acc, oas.Attributes{})
	if result.Kind != oas.KindOneOf || len(result.Branches) != 2 {
		t.Fatalf("Finalize(nullable string) = %+v, want oneOf[string, null]", result)
	}
	if !result.Branches[1].IsNull() {
		t.Errorf("Finalize(nullable string) second branch = %v, want Null", result.Branches[1].Kind)
	}
}

func TestFinalizeNullableDoesNotDuplicateExistingNullBranch(t *testing.T) {
	var acc Accumulator
	acc.AddBranch(&oas.Schema{Kind: oas.KindString})
	acc.AddBranch(oas.NullSchema())
	acc.MarkNullable()
	result := Finalize(acc, oas.Attributes{})
	nullCount := 0
	for _, b := range result.Branches {
		if b.IsNull() {
			nullCount++
		}
	}
	if nullCount != 1 {
		t.Errorf("Finalize() produced %d null branches, want exactly 1", nullCount)
	}
}

func TestAddBranchFlattensNestedOneOf(t *testing.T) {
	var acc Accumulator
	nested := &oas.Schema{Kind: oas.KindOneOf, Branches: []*oas.Schema{
		{Kind: oas.KindString}, {Kind: oas.KindInteger},
	}}
	acc.AddBranch(nested)
	result := Finalize(acc, oas.Attributes{})
	if result.Kind != oas.KindOneOf {
		t.Fatalf("Finalize() kind = %v, want OneOf", result.Kind)
	}
	for _, b := range result.Branches {
		if b.Kind == oas.KindOneOf {
			t.Errorf("Finalize() produced a nested OneOf branch, want flattened (invariant 4)")
		}
	}
}

func TestMergeAllOfObjectsLeftBiasedPropertyWins(t *testing.T) {
	a := &oas.Schema{Kind: oas.KindObject, Required: []string{"name"}}
	a.SetProperty("name", &oas.Schema{Kind: oas.KindString})
	b := &oas.Schema{Kind: oas.KindObject, Required: []string{"age"}}
	b.SetProperty("name", &oas.Schema{Kind: oas.KindInteger})
	b.SetProperty("age", &oas.Schema{Kind: oas.KindInteger})

	merged, ok := MergeAllOfObjects([]*oas.Schema{a, b})
	if !ok {
		t.Fatal("MergeAllOfObjects() ok = false, want true for all-object branches")
	}
	if merged.PropertyMap()["name"].Kind != oas.KindString {
		t.Error("merged \"name\" should keep the first (left) branch's schema")
	}
	if len(merged.Required) != 2 {
		t.Errorf("merged.Required = %v, want union of both branches' required lists", merged.Required)
	}
}

func TestMergeAllOfObjectsRejectsNonObjectBranch(t *testing.T) {
	a := &oas.Schema{Kind: oas.KindObject}
	b := &oas.Schema{Kind: oas.KindString}
	if _, ok := MergeAllOfObjects([]*oas.Schema{a, b}); ok {
		t.Error("MergeAllOfObjects() ok = true, want false when a branch is not Object-shaped")
	}
}

func TestConstantsFromEnumCarriesAttributesOnEachBranch(t *testing.T) {
	attrs := oas.Attributes{Description: "status code"}
	branches := ConstantsFromEnum([]any{"a", "b"}, attrs)
	if len(branches) != 2 {
		t.Fatalf("ConstantsFromEnum() = %d branches, want 2", len(branches))
	}
	for _, b := range branches {
		if b.Kind != oas.KindConstant || b.Description != "status code" {
			t.Errorf("branch = %+v, want Constant carrying the attribute bag", b)
		}
	}
}

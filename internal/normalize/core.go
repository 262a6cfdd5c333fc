// Package normalize holds the logic shared by all three per-grammar schema
// normalizers (§4.C): attribute hoisting, union accumulation/finalization,
// and allOf object-merge. The per-grammar ConvertSchema entry points live in
// the swagger2, oas30, and oas31 subpackages, each importing this package for
// the shared contract.
package normalize

import (
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// MaxDepth bounds recursive descent into a schema tree (§5 resource bounds).
// A document nested deeper than this degrades to an Unknown branch rather
// than recursing further; no diagnostic is recorded for the cut. This is a bounded
// approximation of the "explicit-stack traversal" the spec allows once
// nesting exceeds ~1000 levels, chosen because pathological (not organic)
// inputs are the only ones that ever reach it.
const MaxDepth = 1000

// namedAttributeKeys are hoisted as named Attributes fields rather than
// left in Extensions, and are never dialect escape hatches.
var namedAttributeKeys = map[string]bool{
	"title":       true,
	"description": true,
	"deprecated":  true,
}

// HoistAttributes extracts title/description/deprecated plus preserved x-*
// keys (excluding dialectEscapeHatches) from obj (§4.C.1).
func HoistAttributes(obj rawtree.Object, dialectEscapeHatches map[string]bool) oas.Attributes {
	attrs := oas.Attributes{
		Title:       rawtree.GetString(obj, "title"),
		Description: rawtree.GetString(obj, "description"),
		Deprecated:  rawtree.IsTrue(obj, "deprecated"),
	}
	exclude := dialectEscapeHatches
	if exclude == nil {
		exclude = map[string]bool{}
	}
	keys := rawtree.ExtensionKeys(obj, exclude)
	if len(keys) > 0 {
		attrs.Extensions = make(map[string]any, len(keys))
		for _, k := range keys {
			attrs.Extensions[k] = obj[k]
		}
	}
	return attrs
}

// Accumulator implements union accumulation (§4.C.2): an ordered branch list
// plus a nullable flag, both built up by a grammar-specific visit function and
// collapsed by Finalize (§4.C.3).
type Accumulator struct {
	branches []*oas.Schema
	nullable bool
}

// AddBranch appends a converted branch, flattening it if it is itself a
// OneOf, and folding a Null branch into the nullable flag instead of keeping
// it as a literal branch (Finalize re-synthesizes it at most once).
func (a *Accumulator) AddBranch(s *oas.Schema) {
	if s == nil {
		return
	}
	if s.Kind == oas.KindOneOf {
		for _, b := range s.Branches {
			a.AddBranch(b)
		}
		return
	}
	if s.IsNull() {
		a.nullable = true
		return
	}
	a.branches = append(a.branches, s)
}

// MarkNullable records a nullability signal (nullable:true, x-nullable:true,
// a "null" type-array element) that isn't itself a branch.
func (a *Accumulator) MarkNullable() {
	a.nullable = true
}

// Finalize implements §4.C.3: append a synthetic Null branch if nullable and
// not already present, collapse to Unknown/single-branch/OneOf, then merge
// attrs into the result.
func Finalize(acc Accumulator, attrs oas.Attributes) *oas.Schema {
	branches := acc.branches
	if acc.nullable {
		branches = append(branches, oas.NullSchema())
	}

	var result *oas.Schema
	switch len(branches) {
	case 0:
		result = oas.UnknownSchema(oas.Attributes{})
	case 1:
		result = branches[0]
	default:
		result = &oas.Schema{Kind: oas.KindOneOf, Branches: oas.FlattenOneOf(nil, branches...)}
	}

	result.Attributes = result.Attributes.Merge(attrs)
	return result
}

// ConstantsFromEnum expands a primitive-with-enum schema into one Constant
// branch per enum value (§4.C.2), each carrying attrs.
func ConstantsFromEnum(enum rawtree.Array, attrs oas.Attributes) []*oas.Schema {
	out := make([]*oas.Schema, 0, len(enum))
	for _, v := range enum {
		out = append(out, &oas.Schema{
			Kind:          oas.KindConstant,
			Attributes:    attrs,
			ConstantValue: v,
		})
	}
	return out
}

// MergeAllOfObjects implements §4.C.4: when every branch is Object-shaped, it
// returns a single Object whose properties are the left-biased merge of the
// branches (first writer for a given name wins) and whose required list is
// the union. ok is false when any branch is not Object-shaped, signaling the
// caller should fall back to emitting a OneOf instead (§9 open question,
// resolved in DESIGN.md).
func MergeAllOfObjects(branches []*oas.Schema) (merged *oas.Schema, ok bool) {
	for _, b := range branches {
		if b == nil || b.Kind != oas.KindObject {
			return nil, false
		}
	}

	out := &oas.Schema{Kind: oas.KindObject}
	seenRequired := map[string]bool{}
	for _, b := range branches {
		for _, prop := range b.Properties {
			if _, exists := out.PropertyMap()[prop.Name]; exists {
				continue // left-biased: first branch to define a property wins.
			}
			out.SetProperty(prop.Name, prop.Schema)
		}
		for _, r := range b.Required {
			if !seenRequired[r] {
				seenRequired[r] = true
				out.Required = append(out.Required, r)
			}
		}
		if out.AdditionalProperties == nil {
			out.AdditionalProperties = b.AdditionalProperties
		}
	}
	return out, true
}

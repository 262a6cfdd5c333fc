// Package oas30 normalizes OpenAPI 3.0 JSON Schema fragments into the
// emended grammar (§4.C, source grammar: OpenAPI 3.0).
package oas30

import (
	"github.com/shlomiassaf/openapi/internal/normalize"
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// RefPrefix is the reference form OpenAPI 3.0/3.1 documents use.
const RefPrefix = "#/components/schemas/"

// ConvertSchema lowers a single OpenAPI 3.0 schema fragment into the emended
// grammar. It is a total function: every input, however malformed, produces
// some *oas.Schema (possibly Unknown).
func ConvertSchema(raw rawtree.Object) *oas.Schema {
	return convert(raw, 0)
}

func convert(raw rawtree.Object, depth int) *oas.Schema {
	if raw == nil {
		return oas.UnknownSchema(oas.Attributes{})
	}
	if depth > normalize.MaxDepth {
		return oas.UnknownSchema(oas.Attributes{})
	}

	attrs := normalize.HoistAttributes(raw, nil)

	// const discards any concomitant type field (§4.C.5).
	if v, ok := rawtree.Get(raw, "const"); ok {
		return &oas.Schema{Kind: oas.KindConstant, Attributes: attrs, ConstantValue: v}
	}

	// OpenAPI 3.0 already uses #/components/schemas/, so no rewrite is needed
	// here (unlike swagger2's #/definitions/ -> #/components/schemas/ remap).
	if ref := rawtree.GetString(raw, "$ref"); ref != "" {
		return &oas.Schema{Kind: oas.KindReference, Attributes: attrs, Ref: ref}
	}

	var acc normalize.Accumulator

	if rawtree.IsTrue(raw, "nullable") {
		acc.MarkNullable()
	}

	for _, key := range []string{"oneOf", "anyOf"} {
		if arr, ok := rawtree.GetArray(raw, key); ok {
			visitBranches(&acc, arr, depth)
		}
	}

	if allOf, ok := rawtree.GetArray(raw, "allOf"); ok {
		visitAllOf(&acc, allOf, depth)
	}

	if typ := rawtree.GetString(raw, "type"); typ != "" {
		visitTyped(&acc, raw, typ, attrs, depth)
	}

	return normalize.Finalize(acc, attrs)
}

func visitBranches(acc *normalize.Accumulator, arr rawtree.Array, depth int) {
	for _, item := range arr {
		if obj, ok := rawtree.AsObject(item); ok {
			acc.AddBranch(convert(obj, depth+1))
		}
	}
}

// visitAllOf implements §4.C.4: merge object-shaped branches into one Object;
// fall back to a OneOf branch set otherwise.
func visitAllOf(acc *normalize.Accumulator, arr rawtree.Array, depth int) {
	var branches []*oas.Schema
	for _, item := range arr {
		if obj, ok := rawtree.AsObject(item); ok {
			branches = append(branches, convert(obj, depth+1))
		}
	}
	if merged, ok := normalize.MergeAllOfObjects(branches); ok {
		acc.AddBranch(merged)
		return
	}
	for _, b := range branches {
		acc.AddBranch(b)
	}
}

func visitTyped(acc *normalize.Accumulator, raw rawtree.Object, typ string, attrs oas.Attributes, depth int) {
	if enum, ok := rawtree.GetArray(raw, "enum"); ok && len(enum) > 0 && isPrimitiveType(typ) {
		for _, c := range normalize.ConstantsFromEnum(enum, attrs) {
			acc.AddBranch(c)
		}
		return
	}

	switch typ {
	case "null":
		acc.MarkNullable()
	case "boolean":
		acc.AddBranch(&oas.Schema{Kind: oas.KindBoolean, Attributes: attrs})
	case "integer":
		acc.AddBranch(&oas.Schema{Kind: oas.KindInteger, Attributes: attrs, Numeric: numericRange(raw)})
	case "number":
		acc.AddBranch(&oas.Schema{Kind: oas.KindNumber, Attributes: attrs, Numeric: numericRange(raw)})
	case "string":
		acc.AddBranch(&oas.Schema{Kind: oas.KindString, Attributes: attrs, String: stringConstraints(raw)})
	case "array":
		acc.AddBranch(convertArray(raw, attrs, depth))
	case "object":
		acc.AddBranch(convertObject(raw, attrs, depth))
	}
}

func isPrimitiveType(t string) bool {
	switch t {
	case "boolean", "integer", "number", "string":
		return true
	}
	return false
}

func numericRange(raw rawtree.Object) oas.NumericRange {
	r := oas.NumericRange{ExclusiveMinimum: rawtree.IsTrue(raw, "exclusiveMinimum"), ExclusiveMaximum: rawtree.IsTrue(raw, "exclusiveMaximum")}
	if v, ok := rawtree.GetFloat(raw, "minimum"); ok {
		r.Minimum = &v
	}
	if v, ok := rawtree.GetFloat(raw, "maximum"); ok {
		r.Maximum = &v
	}
	if v, ok := rawtree.GetFloat(raw, "multipleOf"); ok {
		r.MultipleOf = &v
	}
	return r
}

func stringConstraints(raw rawtree.Object) oas.StringConstraints {
	s := oas.StringConstraints{Format: rawtree.GetString(raw, "format"), Pattern: rawtree.GetString(raw, "pattern")}
	if v, ok := rawtree.GetFloat(raw, "minLength"); ok {
		i := int(v)
		s.MinLength = &i
	}
	if v, ok := rawtree.GetFloat(raw, "maxLength"); ok {
		i := int(v)
		s.MaxLength = &i
	}
	return s
}

// convertArray builds the Array schema (§4.C.2, §4.C.5): OpenAPI 3.0 has no
// prefixItems, so this normalizer never yields a Tuple; callers that need 3.1
// tuple syntax use oas31.ConvertSchema.
func convertArray(raw rawtree.Object, attrs oas.Attributes, depth int) *oas.Schema {
	s := &oas.Schema{Kind: oas.KindArray, Attributes: attrs}
	if v, ok := rawtree.GetFloat(raw, "minItems"); ok {
		i := int(v)
		s.MinItems = &i
	}
	if v, ok := rawtree.GetFloat(raw, "maxItems"); ok {
		i := int(v)
		s.MaxItems = &i
	}
	if items, ok := rawtree.GetObject(raw, "items"); ok {
		s.Items = convert(items, depth+1)
	} else {
		s.Items = oas.UnknownSchema(oas.Attributes{})
	}
	return s
}

func convertObject(raw rawtree.Object, attrs oas.Attributes, depth int) *oas.Schema {
	s := &oas.Schema{Kind: oas.KindObject, Attributes: attrs}
	if props, ok := rawtree.GetObject(raw, "properties"); ok {
		for name, v := range props {
			if obj, ok := rawtree.AsObject(v); ok {
				s.SetProperty(name, convert(obj, depth+1))
			}
		}
	}
	if req, ok := rawtree.GetArray(raw, "required"); ok {
		s.Required = rawtree.StringSlice(req)
	}
	if ap, ok := rawtree.Get(raw, "additionalProperties"); ok {
		switch v := ap.(type) {
		case bool:
			s.AdditionalProperties = v
		case rawtree.Object:
			s.AdditionalProperties = convert(v, depth+1)
		}
	}
	return s
}

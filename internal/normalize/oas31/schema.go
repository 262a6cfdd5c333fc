// Package oas31 normalizes OpenAPI 3.1 (JSON Schema 2020-12) fragments into
// the emended grammar (§4.C, source grammar: OpenAPI 3.1).
package oas31

import (
	"github.com/shlomiassaf/openapi/internal/normalize"
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// RefPrefix is the reference form 3.1 documents use; identical to 3.0's.
const RefPrefix = "#/components/schemas/"

// ConvertSchema lowers a single OpenAPI 3.1 schema fragment into the emended
// grammar (§4.C). Total: any input produces some *oas.Schema.
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

	if v, ok := rawtree.Get(raw, "const"); ok {
		return &oas.Schema{Kind: oas.KindConstant, Attributes: attrs, ConstantValue: v}
	}

	// $recursiveRef is demoted to $ref (§4.C.2, §9); a 3.1 document may carry
	// either keyword but never needs both honored distinctly in the emended
	// dialect, since the emended form has a single reference kind.
	if ref := rawtree.GetString(raw, "$ref"); ref != "" {
		return &oas.Schema{Kind: oas.KindReference, Attributes: attrs, Ref: ref}
	}
	if ref := rawtree.GetString(raw, "$recursiveRef"); ref != "" {
		return &oas.Schema{Kind: oas.KindReference, Attributes: attrs, Ref: ref}
	}

	var acc normalize.Accumulator

	for _, key := range []string{"oneOf", "anyOf"} {
		if arr, ok := rawtree.GetArray(raw, key); ok {
			visitBranches(&acc, arr, depth)
		}
	}

	if allOf, ok := rawtree.GetArray(raw, "allOf"); ok {
		visitAllOf(&acc, allOf, depth)
	}

	visitType(&acc, raw, attrs, depth)

	return normalize.Finalize(acc, attrs)
}

func visitBranches(acc *normalize.Accumulator, arr rawtree.Array, depth int) {
	for _, item := range arr {
		if obj, ok := rawtree.AsObject(item); ok {
			acc.AddBranch(convert(obj, depth+1))
		}
	}
}

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

// visitType handles the 3.1-specific `type` keyword, which may be a single
// string or, per §4.B, an array of types expanded into one visit per type
// (§4.C.2).
func visitType(acc *normalize.Accumulator, raw rawtree.Object, attrs oas.Attributes, depth int) {
	typeVal, hasType := rawtree.Get(raw, "type")
	if !hasType {
		return
	}

	switch t := typeVal.(type) {
	case string:
		visitOneType(acc, raw, t, attrs, depth)
	case rawtree.Array:
		for _, item := range t {
			if s, ok := item.(string); ok {
				visitOneType(acc, raw, s, attrs, depth)
			}
		}
	}
}

func visitOneType(acc *normalize.Accumulator, raw rawtree.Object, typ string, attrs oas.Attributes, depth int) {
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
		acc.AddBranch(convertArrayOrTuple(raw, attrs, depth))
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

// numericRange converts 3.1's numeric exclusiveMinimum/Maximum into the
// emended boolean-flag form (§4.B: "the emended grammar uses 3.0-style
// exclusive bounds... to keep the downstream consumer simple"), the same
// collapse the teacher's oas_converter.go performs for exclusiveMin/Max when
// downgrading 3.1 to 3.0 — generalized here to the upgrade direction.
func numericRange(raw rawtree.Object) oas.NumericRange {
	var r oas.NumericRange
	if v, ok := rawtree.GetFloat(raw, "minimum"); ok {
		r.Minimum = &v
	}
	if v, ok := rawtree.GetFloat(raw, "maximum"); ok {
		r.Maximum = &v
	}
	if v, ok := rawtree.GetFloat(raw, "exclusiveMinimum"); ok {
		r.Minimum = &v
		r.ExclusiveMinimum = true
	}
	if v, ok := rawtree.GetFloat(raw, "exclusiveMaximum"); ok {
		r.Maximum = &v
		r.ExclusiveMaximum = true
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

// convertArrayOrTuple implements the tuple-recognition edge case (§4.C.5): a
// 3.1 tuple is `prefixItems`, or an `items` that is itself a list; when both
// prefixItems and a single items are present, prefixItems wins and items
// becomes additionalItems.
func convertArrayOrTuple(raw rawtree.Object, attrs oas.Attributes, depth int) *oas.Schema {
	prefixItems, hasPrefixItems := rawtree.GetArray(raw, "prefixItems")

	itemsVal, hasItems := rawtree.Get(raw, "items")
	itemsIsList := false
	var itemsList rawtree.Array
	if hasItems {
		if list, ok := rawtree.AsArray(itemsVal); ok {
			itemsIsList = true
			itemsList = list
		}
	}

	if hasPrefixItems || itemsIsList {
		s := &oas.Schema{Kind: oas.KindTuple, Attributes: attrs}
		if v, ok := rawtree.GetFloat(raw, "minItems"); ok {
			i := int(v)
			s.MinItems = &i
		}
		if v, ok := rawtree.GetFloat(raw, "maxItems"); ok {
			i := int(v)
			s.MaxItems = &i
		}

		switch {
		case hasPrefixItems:
			for _, item := range prefixItems {
				if obj, ok := rawtree.AsObject(item); ok {
					s.PrefixItems = append(s.PrefixItems, convert(obj, depth+1))
				}
			}
			// prefixItems wins; a sibling single-schema `items` (3.0-style
			// tuple idiom) demotes to additionalItems.
			if hasItems && !itemsIsList {
				if obj, ok := rawtree.AsObject(itemsVal); ok {
					s.AdditionalItems = convert(obj, depth+1)
				}
			} else {
				s.AdditionalItems = additionalItemsOf(raw, depth)
			}
		case itemsIsList:
			for _, item := range itemsList {
				if obj, ok := rawtree.AsObject(item); ok {
					s.PrefixItems = append(s.PrefixItems, convert(obj, depth+1))
				}
			}
			s.AdditionalItems = additionalItemsOf(raw, depth)
		}
		return s
	}

	s := &oas.Schema{Kind: oas.KindArray, Attributes: attrs}
	if v, ok := rawtree.GetFloat(raw, "minItems"); ok {
		i := int(v)
		s.MinItems = &i
	}
	if v, ok := rawtree.GetFloat(raw, "maxItems"); ok {
		i := int(v)
		s.MaxItems = &i
	}
	if hasItems {
		if obj, ok := rawtree.AsObject(itemsVal); ok {
			s.Items = convert(obj, depth+1)
		} else {
			s.Items = oas.UnknownSchema(oas.Attributes{})
		}
	} else {
		s.Items = oas.UnknownSchema(oas.Attributes{})
	}
	return s
}

func additionalItemsOf(raw rawtree.Object, depth int) any {
	ai, ok := rawtree.Get(raw, "additionalItems")
	if !ok {
		return nil
	}
	switch v := ai.(type) {
	case bool:
		return v
	case rawtree.Object:
		return convert(v, depth+1)
	}
	return nil
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

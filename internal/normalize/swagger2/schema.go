// Package swagger2 normalizes Swagger 2.0 JSON Schema fragments into the
// emended grammar (§4.C, source grammar: Swagger 2.0).
package swagger2

import (
	"strings"

	"github.com/shlomiassaf/openapi/internal/normalize"
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// DefinitionsRefPrefix is the reference form Swagger 2.0 documents use.
const DefinitionsRefPrefix = "#/definitions/"

// ComponentsRefPrefix is the emended reference form every $ref is rewritten
// to (§4.C.2).
const ComponentsRefPrefix = "#/components/schemas/"

// escapeHatches names the Swagger-2.0-only vendor keys that are structural
// (consumed by the normalizer) rather than opaque, so HoistAttributes must
// not carry them into Extensions (§4.C.1, §9).
var escapeHatches = map[string]bool{
	"x-nullable": true,
	"x-oneOf":    true,
	"x-anyOf":    true,
}

// ConvertSchema lowers a single Swagger 2.0 schema fragment into the emended
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

	attrs := normalize.HoistAttributes(raw, escapeHatches)

	if ref := rawtree.GetString(raw, "$ref"); ref != "" {
		return &oas.Schema{Kind: oas.KindReference, Attributes: attrs, Ref: RewriteRef(ref)}
	}

	var acc normalize.Accumulator

	if rawtree.IsTrue(raw, "nullable") || rawtree.IsTrue(raw, "x-nullable") {
		acc.MarkNullable()
	}

	// x-oneOf / x-anyOf are the Swagger-2.0 escape hatches for constructs the
	// 2.0 core lacks (§4.B); anyOf is narrowed to oneOf semantics (§9).
	for _, key := range []string{"x-oneOf", "x-anyOf", "oneOf", "anyOf"} {
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

// convertObject implements §9's open question resolution: the source author
// sometimes misspells "properties" as "properites" in one branch of Swagger
// 2.0 object conversion. This normalizer only ever reads "properties"; the
// typo is not reproduced.
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

// RewriteRef rewrites a Swagger 2.0 `#/definitions/X` reference into the
// emended `#/components/schemas/X` form (§4.C.2). Non-definitions refs (which
// should not occur in a well-formed 2.0 document) pass through verbatim,
// which is the dangling-reference policy (§7.2) applied at the document
// level where the diagnostic is actually recorded.
func RewriteRef(ref string) string {
	if strings.HasPrefix(ref, DefinitionsRefPrefix) {
		return ComponentsRefPrefix + strings.TrimPrefix(ref, DefinitionsRefPrefix)
	}
	return ref
}

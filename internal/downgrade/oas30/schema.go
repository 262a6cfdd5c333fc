// Package oas30 downgrades emended schemas back into OpenAPI 3.0 JSON Schema
// fragments (§4.E). Downgrade is necessarily lossy in places 3.0's dialect
// cannot express (tuples, bare null) — each loss is noted at its conversion
// site rather than silently dropped.
package oas30

import (
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// ConvertSchema lowers an emended schema into an OpenAPI 3.0 fragment.
func ConvertSchema(s *oas.Schema) rawtree.Object {
	if s == nil {
		return rawtree.Object{}
	}

	out := rawtree.Object{}
	attachAttributes(out, s.Attributes)

	switch s.Kind {
	case oas.KindUnknown:
		// empty schema matches anything, the closest 3.0 analogue to Unknown.
	case oas.KindNull:
		// 3.0 has no standalone null type; approximate with an unconstrained,
		// nullable schema (§8 nullable roundtrip case).
		out["nullable"] = true
	case oas.KindConstant:
		convertConstant(out, s.ConstantValue)
	case oas.KindBoolean:
		out["type"] = "boolean"
	case oas.KindInteger:
		out["type"] = "integer"
		applyNumeric(out, s.Numeric)
	case oas.KindNumber:
		out["type"] = "number"
		applyNumeric(out, s.Numeric)
	case oas.KindString:
		out["type"] = "string"
		applyString(out, s.String)
	case oas.KindArray:
		out["type"] = "array"
		out["items"] = ConvertSchema(s.Items)
		applyItemBounds(out, s.MinItems, s.MaxItems)
	case oas.KindTuple:
		convertTuple(out, s)
	case oas.KindObject:
		out["type"] = "object"
		convertObject(out, s)
	case oas.KindReference:
		return refObject(s)
	case oas.KindOneOf:
		convertOneOf(out, s)
	}

	return out
}

// refObject returns a bare {$ref: ...} fragment; sibling keywords next to a
// $ref are not honored by 3.0 validators so attributes are dropped rather
// than attached (mirrors the teacher's processNode handling of $ref nodes).
func refObject(s *oas.Schema) rawtree.Object {
	return rawtree.Object{"$ref": s.Ref}
}

func attachAttributes(out rawtree.Object, attrs oas.Attributes) {
	if attrs.Title != "" {
		out["title"] = attrs.Title
	}
	if attrs.Description != "" {
		out["description"] = attrs.Description
	}
	if attrs.Deprecated {
		out["deprecated"] = true
	}
	for k, v := range attrs.Extensions {
		out[k] = v
	}
}

// convertConstant re-expands a Constant into a single-value enum, inferring
// the matching JSON Schema "type" from the constant's decoded Go type.
func convertConstant(out rawtree.Object, value any) {
	out["enum"] = rawtree.Array{value}
	switch value.(type) {
	case bool:
		out["type"] = "boolean"
	case string:
		out["type"] = "string"
	case float64, int:
		out["type"] = "number"
	case nil:
		out["nullable"] = true
	}
}

func applyNumeric(out rawtree.Object, n oas.NumericRange) {
	if n.Minimum != nil {
		out["minimum"] = *n.Minimum
		if n.ExclusiveMinimum {
			out["exclusiveMinimum"] = true
		}
	}
	if n.Maximum != nil {
		out["maximum"] = *n.Maximum
		if n.ExclusiveMaximum {
			out["exclusiveMaximum"] = true
		}
	}
	if n.MultipleOf != nil {
		out["multipleOf"] = *n.MultipleOf
	}
}

func applyString(out rawtree.Object, s oas.StringConstraints) {
	if s.Format != "" {
		out["format"] = s.Format
	}
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	if s.MinLength != nil {
		out["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
}

func applyItemBounds(out rawtree.Object, minItems, maxItems *int) {
	if minItems != nil {
		out["minItems"] = *minItems
	}
	if maxItems != nil {
		out["maxItems"] = *maxItems
	}
}

// convertTuple lowers a fixed-length Tuple into the closest OpenAPI 3.0
// idiom: an array whose single "items" schema is the oneOf of the prefix
// schemas, bounded to the tuple's length. Positional typing is lost (§8
// tuple downgrade loss case) since 3.0 has no prefixItems equivalent.
func convertTuple(out rawtree.Object, s *oas.Schema) {
	out["type"] = "array"

	branches := make(rawtree.Array, 0, len(s.PrefixItems))
	for _, item := range s.PrefixItems {
		branches = append(branches, ConvertSchema(item))
	}

	switch {
	case len(branches) == 1:
		out["items"] = branches[0]
	case len(branches) > 1:
		out["items"] = rawtree.Object{"oneOf": branches}
	default:
		out["items"] = rawtree.Object{}
	}

	n := len(s.PrefixItems)
	out["minItems"] = n
	if s.AdditionalItems == false {
		out["maxItems"] = n
	} else if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
}

func convertObject(out rawtree.Object, s *oas.Schema) {
	if len(s.Properties) > 0 {
		props := rawtree.Object{}
		for _, p := range s.Properties {
			props[p.Name] = ConvertSchema(p.Schema)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	switch ap := s.AdditionalProperties.(type) {
	case bool:
		out["additionalProperties"] = ap
	case *oas.Schema:
		out["additionalProperties"] = ConvertSchema(ap)
	}
}

// convertOneOf hoists a synthetic Null branch back into the 3.0 `nullable`
// flag (§4.E, the inverse of §4.C.3's Null-branch synthesis) and re-emits any
// remaining branches as a oneOf, or inlines the single surviving branch.
func convertOneOf(out rawtree.Object, s *oas.Schema) {
	var nullable bool
	var rest []*oas.Schema
	for _, b := range s.Branches {
		if b.IsNull() {
			nullable = true
			continue
		}
		rest = append(rest, b)
	}

	switch len(rest) {
	case 0:
		out["nullable"] = true
	case 1:
		for k, v := range ConvertSchema(rest[0]) {
			out[k] = v
		}
		if nullable {
			out["nullable"] = true
		}
	default:
		branches := make(rawtree.Array, 0, len(rest))
		for _, b := range rest {
			branches = append(branches, ConvertSchema(b))
		}
		out["oneOf"] = branches
		if nullable {
			out["nullable"] = true
		}
	}
}

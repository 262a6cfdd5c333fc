// Package oas2 downgrades emended schemas and documents back into Swagger 2.0
// (§4.F). Swagger 2.0's schema core lacks oneOf/anyOf/const/nullable
// natively; the downgrade leans on the same x-oneOf/x-anyOf/x-nullable
// vendor escape hatches internal/normalize/swagger2 recognizes on the way
// in, so a round trip through upgrade then downgrade is stable.
package oas2

import (
	"strings"

	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

const (
	componentsRefPrefix  = "#/components/schemas/"
	definitionsRefPrefix = "#/definitions/"
)

// ConvertSchema lowers an emended schema into a Swagger 2.0 fragment.
func ConvertSchema(s *oas.Schema) rawtree.Object {
	if s == nil {
		return rawtree.Object{}
	}

	out := rawtree.Object{}
	attachAttributes(out, s.Attributes)

	switch s.Kind {
	case oas.KindUnknown:
	case oas.KindNull:
		out["x-nullable"] = true
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
		return rawtree.Object{"$ref": RewriteRefOut(s.Ref)}
	case oas.KindOneOf:
		convertOneOf(out, s)
	}

	return out
}

// RewriteRefOut rewrites an emended `#/components/schemas/X` reference back
// into the Swagger 2.0 `#/definitions/X` form, the inverse of
// internal/normalize/swagger2.RewriteRef.
func RewriteRefOut(ref string) string {
	if strings.HasPrefix(ref, componentsRefPrefix) {
		return definitionsRefPrefix + strings.TrimPrefix(ref, componentsRefPrefix)
	}
	return ref
}

func attachAttributes(out rawtree.Object, attrs oas.Attributes) {
	if attrs.Title != "" {
		out["title"] = attrs.Title
	}
	if attrs.Description != "" {
		out["description"] = attrs.Description
	}
	for k, v := range attrs.Extensions {
		out[k] = v
	}
}

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
		out["x-nullable"] = true
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

// convertTuple mirrors oas30's lossy tuple downgrade, using the x-oneOf
// escape hatch in place of a native oneOf keyword since Swagger 2.0's core
// has neither (§8 tuple downgrade loss case).
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
		out["items"] = rawtree.Object{"x-oneOf": branches}
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

// convertOneOf hoists a synthetic Null branch into the x-nullable vendor
// flag and re-emits remaining branches under x-oneOf, the inverse of
// internal/normalize/swagger2's x-oneOf/x-nullable ingestion.
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
		out["x-nullable"] = true
	case 1:
		for k, v := range ConvertSchema(rest[0]) {
			out[k] = v
		}
		if nullable {
			out["x-nullable"] = true
		}
	default:
		branches := make(rawtree.Array, 0, len(rest))
		for _, b := range rest {
			branches = append(branches, ConvertSchema(b))
		}
		out["x-oneOf"] = branches
		if nullable {
			out["x-nullable"] = true
		}
	}
}

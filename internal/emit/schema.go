// Package emit serializes an emended Document back into its own raw tree —
// the canonical OpenAPI 3.1 dialect itself, as opposed to the lossy 3.0/2.0
// downgrades in internal/downgrade. Unlike those, emit is lossless: every
// Schema Kind maps onto a native 3.1/JSON-Schema-2020-12 construct (oneOf,
// prefixItems, const) with nothing folded or approximated.
package emit

import (
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

func ConvertSchema(s *oas.Schema) rawtree.Object {
	if s == nil {
		return rawtree.Object{}
	}

	out := rawtree.Object{}
	applyAttributes(out, s.Attributes)

	switch s.Kind {
	case oas.KindUnknown:
		// no constraints at all

	case oas.KindNull:
		out["type"] = "null"

	case oas.KindConstant:
		out["const"] = s.ConstantValue

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
		if s.Items != nil {
			out["items"] = ConvertSchema(s.Items)
		}
		applyLengthBounds(out, s.MinItems, s.MaxItems)

	case oas.KindTuple:
		out["type"] = "array"
		prefix := make(rawtree.Array, len(s.PrefixItems))
		for i, item := range s.PrefixItems {
			prefix[i] = ConvertSchema(item)
		}
		out["prefixItems"] = prefix
		applyAdditionalItems(out, s.AdditionalItems)
		applyLengthBounds(out, s.MinItems, s.MaxItems)

	case oas.KindObject:
		out["type"] = "object"
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
		applyAdditionalProperties(out, s.AdditionalProperties)

	case oas.KindReference:
		out["$ref"] = s.Ref

	case oas.KindOneOf:
		branches := make(rawtree.Array, len(s.Branches))
		for i, b := range s.Branches {
			branches[i] = ConvertSchema(b)
		}
		out["oneOf"] = branches
	}

	return out
}

func applyAttributes(out rawtree.Object, attrs oas.Attributes) {
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

func applyNumeric(out rawtree.Object, n oas.NumericRange) {
	if n.Minimum != nil {
		out["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		out["maximum"] = *n.Maximum
	}
	if n.ExclusiveMinimum && n.Minimum != nil {
		out["exclusiveMinimum"] = *n.Minimum
		delete(out, "minimum")
	}
	if n.ExclusiveMaximum && n.Maximum != nil {
		out["exclusiveMaximum"] = *n.Maximum
		delete(out, "maximum")
	}
	if n.MultipleOf != nil {
		out["multipleOf"] = *n.MultipleOf
	}
}

func applyString(out rawtree.Object, c oas.StringConstraints) {
	if c.Format != "" {
		out["format"] = c.Format
	}
	if c.MinLength != nil {
		out["minLength"] = *c.MinLength
	}
	if c.MaxLength != nil {
		out["maxLength"] = *c.MaxLength
	}
	if c.Pattern != "" {
		out["pattern"] = c.Pattern
	}
}

func applyLengthBounds(out rawtree.Object, min, max *int) {
	if min != nil {
		out["minItems"] = *min
	}
	if max != nil {
		out["maxItems"] = *max
	}
}

func applyAdditionalItems(out rawtree.Object, additional any) {
	switch v := additional.(type) {
	case bool:
		out["items"] = v
	case *oas.Schema:
		out["items"] = ConvertSchema(v)
	}
}

func applyAdditionalProperties(out rawtree.Object, additional any) {
	switch v := additional.(type) {
	case bool:
		out["additionalProperties"] = v
	case *oas.Schema:
		out["additionalProperties"] = ConvertSchema(v)
	}
}

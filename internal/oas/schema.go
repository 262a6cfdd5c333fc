// Package oas defines the emended OpenAPI 3.1 data model: the single canonical
// shape every source grammar (Swagger 2.0, OpenAPI 3.0, OpenAPI 3.1) is rewritten
// into, and that 3.0/2.0 downgraders rewrite back out of.
package oas

// Kind tags the variant a Schema holds. Schema is a closed sum type; every
// conversion site must switch on Kind exhaustively rather than sniff fields.
type Kind int

const (
	KindUnknown Kind = iota
	KindConstant
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindArray
	KindTuple
	KindObject
	KindReference
	KindOneOf
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	case KindOneOf:
		return "oneOf"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Attributes carries the bag hoisted off a source schema before union
// accumulation (§4.C.1) and reattached to the finalized result.
type Attributes struct {
	Title       string
	Description string
	Deprecated  bool
	// Extensions holds preserved x-* keys, excluding the dialect escape hatches
	// (x-nullable, x-oneOf, x-anyOf).
	Extensions map[string]any
}

// Merge copies non-zero fields of other into a, without overwriting a's own
// non-zero values. Used when attribute bags from nested recursion need to be
// combined with attributes collected at the current level.
func (a Attributes) Merge(other Attributes) Attributes {
	out := a
	if out.Title == "" {
		out.Title = other.Title
	}
	if out.Description == "" {
		out.Description = other.Description
	}
	if other.Deprecated {
		out.Deprecated = true
	}
	if len(other.Extensions) > 0 {
		if out.Extensions == nil {
			out.Extensions = make(map[string]any, len(other.Extensions))
		}
		for k, v := range other.Extensions {
			if _, exists := out.Extensions[k]; !exists {
				out.Extensions[k] = v
			}
		}
	}
	return out
}

// NumericRange holds the bounds shared by Integer and Number schemas. Unset
// bounds are nil; the emended dialect always uses boolean exclusive flags
// (3.0-style) regardless of source grammar, per §4.B.
type NumericRange struct {
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
}

// StringConstraints holds the bounds specific to String schemas.
type StringConstraints struct {
	Format    string
	MinLength *int
	MaxLength *int
	Pattern   string
}

// Property is a named entry in an Object schema's properties map. A plain map
// would lose the ordering the emended dialect explicitly does not guarantee
// (§5), but a slice keeps construction order-independent-but-deterministic for
// tests; callers that need a map can call Schema.PropertyMap().
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is the emended grammar's central sum type (§3). Exactly one Kind's
// fields are meaningful at a time; callers must switch on Kind.
type Schema struct {
	Kind Kind
	Attributes

	// KindConstant
	ConstantValue any

	// KindInteger, KindNumber
	Numeric NumericRange

	// KindString
	String StringConstraints

	// KindArray
	Items *Schema

	// KindArray, KindTuple: shared length bounds
	MinItems *int
	MaxItems *int

	// KindTuple
	PrefixItems []*Schema
	// AdditionalItems is either a bool (allowed/disallowed) or a *Schema
	// (schema every element past PrefixItems must satisfy). nil means
	// "unconstrained", mirroring JSON Schema's default.
	AdditionalItems any

	// KindObject
	Properties []Property
	Required   []string
	// AdditionalProperties is bool or *Schema, nil meaning unconstrained.
	AdditionalProperties any

	// KindReference
	Ref string

	// KindOneOf: flattened, never containing a nested KindOneOf (invariant 4).
	Branches []*Schema
}

// PropertyMap returns Properties as a map for convenience lookups. Order is
// not preserved; do not rely on map iteration for deterministic output.
func (s *Schema) PropertyMap() map[string]*Schema {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	out := make(map[string]*Schema, len(s.Properties))
	for _, p := range s.Properties {
		out[p.Name] = p.Schema
	}
	return out
}

// SetProperty inserts or replaces a property, preserving first-seen order for
// existing keys and appending new ones.
func (s *Schema) SetProperty(name string, schema *Schema) {
	for i, p := range s.Properties {
		if p.Name == name {
			s.Properties[i].Schema = schema
			return
		}
	}
	s.Properties = append(s.Properties, Property{Name: name, Schema: schema})
}

// IsNull reports whether s is the Null singleton.
func (s *Schema) IsNull() bool {
	return s != nil && s.Kind == KindNull
}

// NullSchema returns a fresh Null schema, used when union finalization needs
// to append a synthetic null branch (§4.C.3).
func NullSchema() *Schema {
	return &Schema{Kind: KindNull}
}

// UnknownSchema returns a fresh Unknown schema carrying only attrs, used for
// empty unions and unrecognized constructs (§4.C.5).
func UnknownSchema(attrs Attributes) *Schema {
	return &Schema{Kind: KindUnknown, Attributes: attrs}
}

// FlattenOneOf appends branches to dst, inlining any branch that is itself a
// OneOf so the result never nests (invariant 4, §4.C.3).
func FlattenOneOf(dst []*Schema, branches ...*Schema) []*Schema {
	for _, b := range branches {
		if b == nil {
			continue
		}
		if b.Kind == KindOneOf {
			dst = FlattenOneOf(dst, b.Branches...)
			continue
		}
		dst = append(dst, b)
	}
	return dst
}

// Package common holds logic shared across the three per-grammar document
// upgraders (§4.D): operation id synthesis, the oauth2 flow name remap, and
// the post-upgrade dangling-reference sweep (§7.2).
package common

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shlomiassaf/openapi/internal/oas"
)

// SynthesizeOperationID builds a stable operation id for an operation that
// omits one (used by all three upgraders), title-casing the last non-parameter path segment
// the same way Hossein-Roshandel/webswags title-cases a derived service name
// (cases.Title(language.English, cases.Compact)).
func SynthesizeOperationID(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	last := ""
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		last = seg
		break
	}
	titled := cases.Title(language.English, cases.Compact).String(last)
	titled = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == ' ' {
			return -1
		}
		return r
	}, titled)
	return strings.ToLower(method) + titled
}

// swagger2Flows maps Swagger 2.0 oauth2 flow names to the emended flow-set
// keys (§4.D).
var swagger2Flows = map[string]string{
	"implicit":    "implicit",
	"accessCode":  "authorizationCode",
	"password":    "password",
	"application": "clientCredentials",
}

// FlowKeyFromSwagger2 converts a Swagger 2.0 oauth2 flow name into its
// emended key.
func FlowKeyFromSwagger2(flow string) (string, bool) {
	k, ok := swagger2Flows[flow]
	return k, ok
}

// FlowKeyToSwagger2 is the inverse, used by the 2.0 downgrader (§4.F) with a
// deterministic reverse order when multiple flows are present.
func FlowKeyToSwagger2(key string) (string, bool) {
	for swagger2Name, emendedKey := range swagger2Flows {
		if emendedKey == key {
			return swagger2Name, true
		}
	}
	return "", false
}

// SchemaRefPrefix is the only reference form an emended document's Schema may
// carry (invariant 3 / 6, §3).
const SchemaRefPrefix = "#/components/schemas/"

// WalkSchemaRefs calls fn with every $ref string reachable from s.
func WalkSchemaRefs(s *oas.Schema, fn func(ref string)) {
	if s == nil {
		return
	}
	switch s.Kind {
	case oas.KindReference:
		fn(s.Ref)
	case oas.KindArray:
		WalkSchemaRefs(s.Items, fn)
	case oas.KindTuple:
		for _, p := range s.PrefixItems {
			WalkSchemaRefs(p, fn)
		}
		if sub, ok := s.AdditionalItems.(*oas.Schema); ok {
			WalkSchemaRefs(sub, fn)
		}
	case oas.KindObject:
		for _, p := range s.Properties {
			WalkSchemaRefs(p.Schema, fn)
		}
		if sub, ok := s.AdditionalProperties.(*oas.Schema); ok {
			WalkSchemaRefs(sub, fn)
		}
	case oas.KindOneOf:
		for _, b := range s.Branches {
			WalkSchemaRefs(b, fn)
		}
	}
}

// CheckDanglingRefs sweeps every schema reachable from doc and records a
// DanglingReference diagnostic for any $ref that doesn't resolve to a
// components.schemas entry (§7.2). The reference itself is left untouched in
// the output either way, matching the "emit verbatim, downstream resolves"
// policy.
func CheckDanglingRefs(doc *oas.Document, diags *oas.Diagnostics) {
	check := func(path string, s *oas.Schema) {
		WalkSchemaRefs(s, func(ref string) {
			if !strings.HasPrefix(ref, SchemaRefPrefix) {
				diags.Add(oas.DanglingReference, path, "reference outside #/components/schemas/: "+ref)
				return
			}
			name := strings.TrimPrefix(ref, SchemaRefPrefix)
			if _, ok := doc.Components.Schemas[name]; !ok {
				diags.Add(oas.DanglingReference, path, "unresolved reference: "+ref)
			}
		})
	}

	for name, s := range doc.Components.Schemas {
		check("/components/schemas/"+name, s)
	}
	for pathName, p := range doc.Paths {
		if p == nil {
			continue
		}
		for _, entry := range p.Operations() {
			checkOperation("/paths/"+pathName+"/"+entry.Method, entry.Op, check)
		}
	}
	for name, p := range doc.Webhooks {
		if p == nil {
			continue
		}
		for _, entry := range p.Operations() {
			checkOperation("/webhooks/"+name+"/"+entry.Method, entry.Op, check)
		}
	}
	for name, p := range doc.Components.PathItems {
		if p == nil {
			continue
		}
		for _, entry := range p.Operations() {
			checkOperation("/components/pathItems/"+name+"/"+entry.Method, entry.Op, check)
		}
	}
}

func checkOperation(path string, op *oas.Operation, check func(string, *oas.Schema)) {
	for _, p := range op.Parameters {
		check(path+"/parameters/"+p.Name, p.Schema)
	}
	if op.RequestBody != nil {
		for mt, content := range op.RequestBody.Content {
			check(path+"/requestBody/"+mt, content.Schema)
		}
	}
	for status, resp := range op.Responses {
		for mt, content := range resp.Content {
			check(path+"/responses/"+status+"/"+mt, content.Schema)
		}
	}
}

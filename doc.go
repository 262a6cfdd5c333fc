// Package openapi emends Swagger 2.0, OpenAPI 3.0, and OpenAPI 3.1 documents
// into a single canonical OpenAPI 3.1 dialect, and downgrades an emended
// document back into either target.
//
// The package operates on already-decoded document trees (map[string]any):
// callers own JSON/YAML parsing. Convert sniffs the source grammar, emends
// it, and reports non-fatal diagnostics alongside the result; Downgrade does
// the inverse for a chosen target version.
package openapi

import (
	"fmt"

	oas2down "github.com/shlomiassaf/openapi/internal/downgrade/oas2"
	oas30down "github.com/shlomiassaf/openapi/internal/downgrade/oas30"
	"github.com/shlomiassaf/openapi/internal/emit"
	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
	"github.com/shlomiassaf/openapi/internal/sniff"
	"github.com/shlomiassaf/openapi/internal/upgrade/oas30"
	"github.com/shlomiassaf/openapi/internal/upgrade/oas31"
	"github.com/shlomiassaf/openapi/internal/upgrade/swagger2"
)

// ErrUnrecognizedVersion is returned by Convert when the input document
// matches none of Swagger 2.0, OpenAPI 3.0, OpenAPI 3.1, or the emended
// dialect. Callers can test for it with errors.Is.
var ErrUnrecognizedVersion = oas.ErrUnrecognizedVersion

// Version names a recognized source grammar.
type Version = sniff.Version

const (
	Swagger2  = sniff.Swagger2
	OpenAPI30 = sniff.OpenAPI30
	OpenAPI31 = sniff.OpenAPI31
	Emended   = sniff.Emended
)

// DiagnosticKind tags a non-fatal event recorded during conversion.
type DiagnosticKind = oas.DiagnosticKind

const (
	DanglingReference     = oas.DanglingReference
	MalformedOperation    = oas.MalformedOperation
	UnsupportedConstruct  = oas.UnsupportedConstruct
	UnknownSecurityScheme = oas.UnknownSecurityScheme
)

// Diagnostic is one recorded non-fatal event, with a best-effort location.
type Diagnostic = oas.Diagnostic

// Document is the emended document produced by Convert and consumed by
// Downgrade.
type Document = oas.Document

// Schema is the emended schema sum type underlying every Document.
type Schema = oas.Schema

// Operation, Path, Parameter, RequestBody, and Response mirror the emended
// document's operation-level shapes, exported for callers that want to walk
// a Document without importing the internal package directly.
type Operation = oas.Operation
type Path = oas.Path
type Parameter = oas.Parameter
type RequestBody = oas.RequestBody
type Response = oas.Response
type Components = oas.Components

// Sniff reports which of the recognized grammars doc matches, following the
// fixed precedence order: the emended marker first, then OpenAPI 3.1, then
// OpenAPI 3.0, then Swagger 2.0.
func Sniff(doc map[string]any) (Version, error) {
	return sniff.Sniff(doc)
}

// IsSwagger2, IsOpenAPI30, IsOpenAPI31, and IsEmended are convenience
// predicates over Sniff.
func IsSwagger2(doc map[string]any) bool  { return sniff.IsSwagger2(doc) }
func IsOpenAPI30(doc map[string]any) bool { return sniff.IsOpenAPI30(doc) }
func IsOpenAPI31(doc map[string]any) bool { return sniff.IsOpenAPI31(doc) }
func IsEmended(doc map[string]any) bool   { return sniff.IsEmended(doc) }

// Convert sniffs doc's grammar and emends it into the canonical dialect. The
// returned diagnostics are non-fatal; a non-nil error means the document
// matched no recognized grammar at all (wraps ErrUnrecognizedVersion).
func Convert(doc map[string]any) (*Document, []Diagnostic, error) {
	v, err := sniff.Sniff(doc)
	if err != nil {
		return nil, nil, err
	}

	switch v {
	case sniff.Swagger2:
		return swagger2.ConvertDocument(doc)
	case sniff.OpenAPI30:
		return oas30.ConvertDocument(doc)
	case sniff.OpenAPI31:
		return oas31.ConvertDocument(doc)
	case sniff.Emended:
		// Already emended: re-run the 3.1 upgrader, which is idempotent over
		// the emended dialect since it is itself OpenAPI-3.1-shaped.
		return oas31.ConvertDocument(doc)
	default:
		return nil, nil, fmt.Errorf("openapi: %w", ErrUnrecognizedVersion)
	}
}

// Downgrade rewrites doc back into the requested target grammar. Only
// OpenAPI30 and Swagger2 are valid targets; any other Version is a caller
// error.
func Downgrade(doc *Document, target Version) (map[string]any, []Diagnostic, error) {
	switch target {
	case sniff.OpenAPI30:
		out, diags := oas30down.ConvertDocument(doc)
		return out, diags, nil
	case sniff.Swagger2:
		out, diags := oas2down.ConvertDocument(doc)
		return out, diags, nil
	default:
		return nil, nil, fmt.Errorf("openapi: unsupported downgrade target %v: %w", target, ErrUnrecognizedVersion)
	}
}

// Emit renders doc back into its own raw tree: a plain OpenAPI 3.1 document
// carrying the x-samchon-emended marker. Unlike Downgrade, Emit is lossless —
// every construct the emended dialect can hold maps onto a native 3.1
// keyword, with nothing folded or approximated.
func Emit(doc *Document) map[string]any {
	return emit.ConvertDocument(doc)
}

// Clone performs a deep copy of a decoded document tree, for callers that
// need to retain an unmodified copy of the input alongside a converted one.
func Clone(doc map[string]any) map[string]any {
	cloned := rawtree.Clone(doc)
	out, _ := cloned.(map[string]any)
	return out
}

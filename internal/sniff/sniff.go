// Package sniff classifies a raw decoded document as one of the four
// recognized shapes (§4.A): Swagger 2.0, OpenAPI 3.0, OpenAPI 3.1, or an
// already-emended document. It never looks past the top-level keys; deeper
// shape recognition belongs to the per-grammar normalizer.
package sniff

import (
	"fmt"
	"strings"

	"github.com/shlomiassaf/openapi/internal/oas"
	"github.com/shlomiassaf/openapi/internal/rawtree"
)

// Version is the classification result.
type Version int

const (
	Unrecognized Version = iota
	Swagger2
	OpenAPI30
	OpenAPI31
	Emended
)

func (v Version) String() string {
	switch v {
	case Swagger2:
		return "swagger2.0"
	case OpenAPI30:
		return "openapi3.0"
	case OpenAPI31:
		return "openapi3.1"
	case Emended:
		return "emended"
	default:
		return "unrecognized"
	}
}

// Sniff classifies doc in the precedence order given by §4.A.
func Sniff(doc rawtree.Object) (Version, error) {
	if doc == nil {
		return Unrecognized, fmt.Errorf("oas: empty document: %w", oas.ErrUnrecognizedVersion)
	}

	openapiVersion := rawtree.GetString(doc, "openapi")

	// Rule 1: already emended.
	if rawtree.IsTrue(doc, oas.EmendedMarker) && strings.HasPrefix(openapiVersion, "3.1") {
		return Emended, nil
	}

	// Rule 2/3: OpenAPI 3.1 / 3.0.
	if strings.HasPrefix(openapiVersion, "3.1.") {
		return OpenAPI31, nil
	}
	if strings.HasPrefix(openapiVersion, "3.0.") {
		return OpenAPI30, nil
	}

	// Rule 4: Swagger 2.0.
	if rawtree.GetString(doc, "swagger") == "2.0" {
		_, hasDefs := rawtree.Get(doc, "definitions")
		_, hasPaths := rawtree.Get(doc, "paths")
		if hasDefs || hasPaths {
			return Swagger2, nil
		}
	}

	return Unrecognized, fmt.Errorf("oas: could not classify document version: %w", oas.ErrUnrecognizedVersion)
}

// IsSwagger2 reports whether doc sniffs as Swagger 2.0.
func IsSwagger2(doc rawtree.Object) bool { return sniffIs(doc, Swagger2) }

// IsOpenAPI30 reports whether doc sniffs as OpenAPI 3.0.
func IsOpenAPI30(doc rawtree.Object) bool { return sniffIs(doc, OpenAPI30) }

// IsOpenAPI31 reports whether doc sniffs as OpenAPI 3.1 (not-yet-emended).
func IsOpenAPI31(doc rawtree.Object) bool { return sniffIs(doc, OpenAPI31) }

// IsEmended reports whether doc already carries the emended marker.
func IsEmended(doc rawtree.Object) bool { return sniffIs(doc, Emended) }

func sniffIs(doc rawtree.Object, want Version) bool {
	v, err := Sniff(doc)
	return err == nil && v == want
}

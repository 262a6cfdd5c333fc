package oas

import "errors"

// ErrUnrecognizedVersion is the sole hard failure in the error taxonomy
// (§7.1). convert and downgrade return it wrapped with context via %w so
// callers can still errors.Is against it.
var ErrUnrecognizedVersion = errors.New("oas: unrecognized document version")

// DiagnosticKind tags a non-fatal event recorded during conversion (§7).
type DiagnosticKind int

const (
	DanglingReference DiagnosticKind = iota
	MalformedOperation
	UnsupportedConstruct
	UnknownSecurityScheme
)

func (k DiagnosticKind) String() string {
	switch k {
	case DanglingReference:
		return "dangling-reference"
	case MalformedOperation:
		return "malformed-operation"
	case UnsupportedConstruct:
		return "unsupported-construct"
	case UnknownSecurityScheme:
		return "unknown-security-scheme"
	default:
		return "unknown"
	}
}

// Diagnostic is one recorded non-fatal event. Path is a best-effort JSON
// Pointer-like location ("/paths/~1pets/get") for operator-facing output.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Message string
}

// Diagnostics accumulates Diagnostic values across a conversion. It is passed
// by pointer through the upgrade/downgrade call graph rather than threaded as
// a return value at every recursion level, the same way a single
// *ConversionResult is threaded through erraggy-oastools' converter package.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) Add(kind DiagnosticKind, path, message string) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{Kind: kind, Path: path, Message: message})
}

func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

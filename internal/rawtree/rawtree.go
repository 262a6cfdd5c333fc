// Package rawtree provides accessors over the generic, already-parsed value
// trees the core consumes and produces (§1, §6): maps decoded from JSON or
// YAML, with no assumption about which of the three source grammars (or the
// emended dialect) produced them until a sniff/recognizer runs.
package rawtree

import (
	"strings"

	"github.com/mohae/deepcopy"
)

// Object is a decoded JSON/YAML object node.
type Object = map[string]any

// Array is a decoded JSON/YAML array node.
type Array = []any

// Clone performs a full deep copy of a decoded tree, the same guarantee
// mohae/deepcopy gives kin-openapi's internal schema cache. It backs the
// package-level openapi.Clone; the upgrade and downgrade passes read their
// input without mutating it and do not call Clone themselves.
func Clone(v any) any {
	if v == nil {
		return nil
	}
	return deepcopy.Copy(v)
}

// AsObject type-asserts v as an Object, returning ok=false for anything else
// (including nil), which is the common "absent" case for optional subtrees.
func AsObject(v any) (Object, bool) {
	o, ok := v.(Object)
	return o, ok
}

// AsArray type-asserts v as an Array.
func AsArray(v any) (Array, bool) {
	a, ok := v.(Array)
	return a, ok
}

// Get looks up key in obj, returning (nil, false) if obj is nil or lacks key.
func Get(obj Object, key string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// GetObject looks up key and asserts it as an Object.
func GetObject(obj Object, key string) (Object, bool) {
	v, ok := Get(obj, key)
	if !ok {
		return nil, false
	}
	return AsObject(v)
}

// GetArray looks up key and asserts it as an Array.
func GetArray(obj Object, key string) (Array, bool) {
	v, ok := Get(obj, key)
	if !ok {
		return nil, false
	}
	return AsArray(v)
}

// GetString looks up key and asserts it as a string; returns "" if absent or
// of another type.
func GetString(obj Object, key string) string {
	v, ok := Get(obj, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool looks up key and asserts it as a bool.
func GetBool(obj Object, key string) (bool, bool) {
	v, ok := Get(obj, key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// IsTrue reports whether obj[key] is the boolean true. Used for flags like
// nullable/x-nullable/deprecated/required where absence means false.
func IsTrue(obj Object, key string) bool {
	b, ok := GetBool(obj, key)
	return ok && b
}

// GetFloat looks up key and asserts it as a float64 (the universal JSON
// number representation after decoding).
func GetFloat(obj Object, key string) (float64, bool) {
	v, ok := Get(obj, key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// StringSlice decodes an Array of strings, skipping non-string elements.
func StringSlice(a Array) []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a))
	for _, v := range a {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ExtensionKeys returns every key in obj matching the `x-` vendor prefix,
// except those listed in exclude (a source grammar's structural escape
// hatches, per §4.C.1).
func ExtensionKeys(obj Object, exclude map[string]bool) []string {
	var out []string
	for k := range obj {
		if !strings.HasPrefix(k, "x-") {
			continue
		}
		if exclude[k] {
			continue
		}
		out = append(out, k)
	}
	return out
}

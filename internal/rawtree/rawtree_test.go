package rawtree

import "testing"

func TestGetFloatAcceptsIntAndFloat64(t *testing.T) {
	obj := Object{"a": 1, "b": 2.5, "c": "nope"}
	if v, ok := GetFloat(obj, "a"); !ok || v != 1 {
		t.Errorf("GetFloat(a) = %v, %v, want 1, true", v, ok)
	}
	if v, ok := GetFloat(obj, "b"); !ok || v != 2.5 {
		t.Errorf("GetFloat(b) = %v, %v, want 2.5, true", v, ok)
	}
	if _, ok := GetFloat(obj, "c"); ok {
		t.Error("GetFloat(c) = ok, want false for a non-numeric value")
	}
	if _, ok := GetFloat(obj, "missing"); ok {
		t.Error("GetFloat(missing) = ok, want false")
	}
}

func TestIsTrueRequiresBooleanTrue(t *testing.T) {
	obj := Object{"a": true, "b": false, "c": "true"}
	if !IsTrue(obj, "a") {
		t.Error("IsTrue(a) = false, want true")
	}
	if IsTrue(obj, "b") {
		t.Error("IsTrue(b) = true, want false")
	}
	if IsTrue(obj, "c") {
		t.Error("IsTrue(c) = true, want false for a string \"true\"")
	}
	if IsTrue(obj, "missing") {
		t.Error("IsTrue(missing) = true, want false")
	}
}

func TestExtensionKeysExcludesEscapeHatches(t *testing.T) {
	obj := Object{
		"x-nullable": true,
		"x-custom":   "kept",
		"title":      "not an extension",
		"x-oneOf":    []any{},
	}
	keys := ExtensionKeys(obj, map[string]bool{"x-nullable": true, "x-oneOf": true})
	if len(keys) != 1 || keys[0] != "x-custom" {
		t.Errorf("ExtensionKeys() = %v, want [x-custom]", keys)
	}
}

func TestStringSliceSkipsNonStrings(t *testing.T) {
	a := Array{"x", 1, "y", true}
	got := StringSlice(a)
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("StringSlice() = %v, want [x y]", got)
	}
}

func TestCloneIsIndependentOfSource(t *testing.T) {
	src := Object{"nested": Object{"a": 1}}
	cloned := Clone(src).(Object)
	nested := cloned["nested"].(Object)
	nested["a"] = 2
	if src["nested"].(Object)["a"] != 1 {
		t.Error("Clone did not deep-copy: mutating the clone changed the source")
	}
}

func TestAsObjectAndAsArrayRejectWrongType(t *testing.T) {
	if _, ok := AsObject("not an object"); ok {
		t.Error("AsObject(string) = true, want false")
	}
	if _, ok := AsArray("not an array"); ok {
		t.Error("AsArray(string) = true, want false")
	}
	if _, ok := AsObject(nil); ok {
		t.Error("AsObject(nil) = true, want false")
	}
}

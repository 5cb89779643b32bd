package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Int == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	id, ok := in.Primitive("int")
	if !ok || id != b.Int {
		t.Fatalf("expected int builtin, got %d ok=%v", id, ok)
	}
	if _, ok := in.Primitive("String"); ok {
		t.Fatalf("String is not a primitive")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	str := in.RegisterClass("java.lang.String")
	if again := in.RegisterClass("java.lang.String"); again != str {
		t.Fatalf("class registration must be idempotent")
	}
	arr1 := in.Array(str)
	arr2 := in.Array(str)
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
	list := in.RegisterClass("java.util.List")
	p1 := in.Parameterized(list, []TypeID{str})
	p2 := in.Parameterized(list, []TypeID{str})
	if p1 != p2 {
		t.Fatalf("parameterized types should be deduplicated")
	}
	if in.Parameterized(list, nil) != list {
		t.Fatalf("empty args must return the raw type")
	}
}

func TestTypeParamsAreDistinct(t *testing.T) {
	in := NewInterner()
	a := in.RegisterTypeParam("T", 1, 0)
	b := in.RegisterTypeParam("T", 2, 0)
	if a == b {
		t.Fatalf("type parameters with equal names must differ")
	}
	if in.TypeParamName(a) != "T" {
		t.Fatalf("unexpected name %q", in.TypeParamName(a))
	}
}

func TestLabel(t *testing.T) {
	in := NewInterner()
	list := in.RegisterClass("java.util.List")
	num := in.RegisterClass("java.lang.Number")
	tp := in.RegisterTypeParam("T", 1, 0)
	tests := []struct {
		name string
		id   TypeID
		want string
	}{
		{"primitive", in.Builtins().Long, "long"},
		{"array", in.Array(in.Builtins().Int), "int[]"},
		{"wildcard", in.Parameterized(list, []TypeID{in.Wildcard(VarianceExtends, num)}), "java.util.List<? extends java.lang.Number>"},
		{"unbounded", in.Parameterized(list, []TypeID{in.Wildcard(VarianceNone, num)}), "java.util.List<?>"},
		{"type param array", in.Array(tp), "T[]"},
		{"missing", NoTypeID, "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(in, tt.id); got != tt.want {
				t.Fatalf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}

package source

import "testing"

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to empty string, got %q ok=%v", s, ok)
	}
	a := in.Intern("compute")
	b := in.Intern("compute")
	if a == NoStringID || a != b {
		t.Fatalf("expected stable non-zero ID, got %d and %d", a, b)
	}
	if got := in.MustLookup(a); got != "compute" {
		t.Fatalf("lookup mismatch: %q", got)
	}
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatalf("unexpected ID 42")
	}
	if in.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", in.Len())
	}
}

func TestFileSetDeduplicatesPaths(t *testing.T) {
	fs := NewFileSet()
	a := fs.Add("models/a.decl.yaml")
	b := fs.Add("models/./a.decl.yaml")
	if a != b {
		t.Fatalf("expected same FileID, got %d and %d", a, b)
	}
	if got := fs.Format(Pos{File: a, Line: 3, Col: 5}); got != "models/a.decl.yaml:3:5" {
		t.Fatalf("unexpected format %q", got)
	}
	if got := fs.Format(Pos{File: 99, Line: 1, Col: 1}); got != "99:1:1" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

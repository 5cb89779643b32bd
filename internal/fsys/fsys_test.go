package fsys

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
)

func TestParsePathNormalises(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/a/b/c", "/a/b/c"},
		{"a//b/./c", "a/b/c"},
		{"/a/b/../c", "/a/c"},
		{"/../a", "/a"},
		{"../a", "../a"},
		{"", ""},
		{"/", "/"},
	}
	for _, tc := range cases {
		if got := ParsePath(tc.in).String(); got != tc.want {
			t.Fatalf("ParsePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPathOperations(t *testing.T) {
	p := ParsePath("/project/src/Widget.java")
	if p.LastSegment() != "Widget.java" || p.FileExtension() != "java" {
		t.Fatalf("unexpected last segment %q ext %q", p.LastSegment(), p.FileExtension())
	}
	parent, ok := p.Parent()
	if !ok || parent.String() != "/project/src" {
		t.Fatalf("parent = %q, %v", parent, ok)
	}
	if !p.StartsWith(ParsePath("/project")) || p.StartsWith(ParsePath("project")) {
		t.Fatalf("StartsWith mismatch")
	}
	rel, ok := ParsePath("/project").Relativize(p)
	if !ok || rel.String() != "src/Widget.java" {
		t.Fatalf("relativize = %q, %v", rel, ok)
	}
	if _, ok := ParsePath("/other").Relativize(p); ok {
		t.Fatalf("expected relativize to fail")
	}
	if !ParsePath("/project").Append("src/Widget.java").Equal(p) {
		t.Fatalf("append mismatch")
	}
	if ParsePath("/.hidden").FileExtension() != "" {
		t.Fatalf("dot file has no extension")
	}
	if _, ok := Root.Parent(); ok {
		t.Fatalf("root has no parent")
	}
}

func TestPathSegmentsAreNFC(t *testing.T) {
	composed := ParsePath("/caf\u00e9")
	decomposed := ParsePath("/cafe\u0301")
	if !composed.Equal(decomposed) {
		t.Fatalf("expected NFC-equal paths")
	}
}

func TestSupportChildrenFromMemfs(t *testing.T) {
	fs := memfs.New()
	for _, name := range []string{"/project/src/a.txt", "/project/src/b.txt"} {
		f, err := fs.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		_ = f.Close()
	}
	if err := fs.MkdirAll("/project/src/nested", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s := NewSupport(BillyEnumerator{FS: fs})
	got := s.Children("/project/src", ParsePath("/src"))
	var names []string
	for _, p := range got {
		names = append(names, p.String())
	}
	slices.Sort(names)
	want := []string{"/src/a.txt", "/src/b.txt", "/src/nested"}
	if !slices.Equal(names, want) {
		t.Fatalf("children = %v, want %v", names, want)
	}
}

type fixedEnumerator struct {
	children []Location
	err      error
}

func (e fixedEnumerator) Children(Location) ([]Location, error) { return e.children, e.err }

func TestSupportDropsUnmappableChildren(t *testing.T) {
	var dropped []Location
	s := NewSupport(fixedEnumerator{children: []Location{
		"/root/dir/ok",
		"/elsewhere/x",
		"/root/dir/deep/y",
	}})
	s.Dropped = func(l Location) { dropped = append(dropped, l) }

	got := s.Children("/root/dir", ParsePath("/p"))
	if len(got) != 1 || got[0].String() != "/p/ok" {
		t.Fatalf("children = %v", got)
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped = %v", dropped)
	}
}

func TestSupportWithoutEnumerator(t *testing.T) {
	var nilSupport *Support
	if got := nilSupport.Children("/x", Root); len(got) != 0 {
		t.Fatalf("nil support returned %v", got)
	}
	if got := NewSupport(nil).Children("/x", Root); len(got) != 0 {
		t.Fatalf("empty support returned %v", got)
	}
	failing := NewSupport(fixedEnumerator{err: errors.New("boom")})
	if got := failing.Children("/x", Root); len(got) != 0 {
		t.Fatalf("failing enumerator returned %v", got)
	}
}

package typeref

import (
	"errors"
	"testing"

	"facet/internal/types"
)

func newTestResolver() (*types.Interner, *Resolver) {
	in := types.NewInterner()
	in.RegisterClass("java.lang.String")
	in.RegisterClass("java.lang.Number")
	list := in.RegisterClass("java.util.List")
	in.SetClassTypeParams(list, []types.TypeID{in.RegisterTypeParam("E", 0, 0)})
	in.RegisterClass("demo.Widget")
	return in, NewResolver(in, Scope{Package: "demo", Imports: []string{"java.util.*"}})
}

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"int",
		"java.lang.String[]",
		"List<? extends Number>",
		"Map<String, List<?>>[][]",
		"List<? super Widget>",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			ref, err := Parse(src)
			if err != nil {
				t.Fatalf("parse %q: %v", src, err)
			}
			if got := ref.String(); got != src {
				t.Fatalf("String() = %q, want %q", got, src)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"", ErrInvalidArgument},
		{"   ", ErrInvalidArgument},
		{"List<", ErrInvalidTypeReference},
		{"List<String", ErrInvalidTypeReference},
		{"int[", ErrInvalidTypeReference},
		{"? foo", ErrInvalidTypeReference},
		{"List<? extends ?>", ErrInvalidTypeReference},
		{"a..b", ErrInvalidTypeReference},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestResolveNames(t *testing.T) {
	in, r := newTestResolver()
	tests := []struct {
		src  string
		want string
	}{
		{"int", "int"},
		{"String", "java.lang.String"},
		{"Widget", "demo.Widget"},
		{"List<String>", "java.util.List<java.lang.String>"},
		{"List<? extends Number>[]", "java.util.List<? extends java.lang.Number>[]"},
		{"java.util.List", "java.util.List"},
		{"List<int[]>", "java.util.List<int[]>"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			id, err := r.Resolve(MustParse(tt.src))
			if err != nil {
				t.Fatalf("resolve %q: %v", tt.src, err)
			}
			if got := types.Label(in, id); got != tt.want {
				t.Fatalf("resolved %q to %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestResolveLookupOrder(t *testing.T) {
	in := types.NewInterner()
	in.RegisterClass("demo.Node")
	in.RegisterClass("demo.Entry")
	in.RegisterClass("demo.String")
	in.RegisterClass("java.lang.String")
	in.RegisterClass("graph.Node")
	in.RegisterClass("graph.Entry")
	r := NewResolver(in, Scope{Package: "demo", Imports: []string{"graph.Node", "graph.*"}})

	tests := []struct {
		src  string
		want string
	}{
		{"Node", "graph.Node"},
		{"Entry", "demo.Entry"},
		{"String", "demo.String"},
	}
	for _, tt := range tests {
		id, err := r.Resolve(MustParse(tt.src))
		if err != nil {
			t.Fatalf("resolve %q: %v", tt.src, err)
		}
		if got := types.Label(in, id); got != tt.want {
			t.Fatalf("resolved %q to %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestResolveRejects(t *testing.T) {
	_, r := newTestResolver()
	other := types.NewInterner()
	tests := []struct {
		name string
		ref  *Reference
		want error
	}{
		{"nil", nil, ErrInvalidArgument},
		{"empty name", Named(""), ErrInvalidArgument},
		{"unknown", Named("Missing"), ErrInvalidTypeReference},
		{"unknown qualified", Named("x.y.Missing"), ErrInvalidTypeReference},
		{"top-level wildcard", Unbounded(), ErrInvalidTypeReference},
		{"primitive argument", MustParse("List<int>"), ErrInvalidTypeReference},
		{"primitive with args", Named("int", Named("String")), ErrInvalidTypeReference},
		{"arity", MustParse("List<String, String>"), ErrInvalidTypeReference},
		{"void array", MustParse("void[]"), ErrInvalidTypeReference},
		{"foreign", Resolved(other, other.Builtins().Int), ErrInvalidTypeReference},
		{"nil argument", Named("List", nil), ErrInvalidTypeReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := r.Resolve(tt.ref)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if id != types.NoTypeID {
				t.Fatalf("expected NoTypeID on failure, got %d", id)
			}
		})
	}
}

func TestResolvePreResolvedAndTypeParams(t *testing.T) {
	in, r := newTestResolver()
	tp := in.RegisterTypeParam("T", 7, 0)

	id, err := r.Resolve(Resolved(in, tp).ArrayOf())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := types.Label(in, id); got != "T[]" {
		t.Fatalf("got %q", got)
	}

	if _, err := r.Resolve(Named("T")); !errors.Is(err, ErrInvalidTypeReference) {
		t.Fatalf("T must be unknown outside its scope, got %v", err)
	}
	scoped := r.WithTypeParams(map[string]types.TypeID{"T": tp})
	got, err := scoped.Resolve(MustParse("List<T>"))
	if err != nil {
		t.Fatalf("scoped resolve: %v", err)
	}
	if types.Label(in, got) != "java.util.List<T>" {
		t.Fatalf("unexpected %q", types.Label(in, got))
	}
}

func TestIsIdentifier(t *testing.T) {
	for s, want := range map[string]bool{"name": true, "_x1": true, "1x": false, "": false, "a.b": false, "ünï": true} {
		if got := IsIdentifier(s); got != want {
			t.Fatalf("IsIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}

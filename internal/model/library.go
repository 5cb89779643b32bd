package model

import (
	"facet/internal/source"
	"facet/internal/types"
)

type libraryType struct {
	name       string
	kind       TypeKind
	final      bool
	typeParams []string
}

var defaultLibrary = []libraryType{
	{name: "java.lang.Object"},
	{name: "java.lang.String", final: true},
	{name: "java.lang.Number"},
	{name: "java.lang.Integer", final: true},
	{name: "java.lang.Long", final: true},
	{name: "java.lang.Boolean", final: true},
	{name: "java.lang.Iterable", kind: TypeInterface, typeParams: []string{"T"}},
	{name: "java.lang.Deprecated", kind: TypeAnnotation},
	{name: "java.util.Collection", kind: TypeInterface, typeParams: []string{"E"}},
	{name: "java.util.List", kind: TypeInterface, typeParams: []string{"E"}},
	{name: "java.util.Set", kind: TypeInterface, typeParams: []string{"E"}},
	{name: "java.util.Map", kind: TypeInterface, typeParams: []string{"K", "V"}},
}

// SeedLibrary declares the read-only library types every model can refer
// to. Types already present are left alone.
func SeedLibrary(m *Model) {
	var object types.TypeID
	for _, lt := range defaultLibrary {
		if _, exists := m.FindType(lt.name); exists {
			continue
		}
		t, err := m.NewType(lt.name, lt.kind, OriginLibrary, source.Pos{})
		if err != nil {
			continue
		}
		t.visibility = VisibilityPublic
		t.final = lt.final
		for _, name := range lt.typeParams {
			t.AddTypeParameter(name, source.Pos{})
		}
		switch {
		case lt.name == "java.lang.Object":
			object = t.classType
		case lt.kind == TypeClass:
			t.superclass = object
		}
	}
}

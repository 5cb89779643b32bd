package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"facet/internal/source"
)

// ClassInfo stores metadata for a nominal declared type.
type ClassInfo struct {
	Name       source.StringID // fully qualified
	TypeParams []TypeID
}

// TypeParamInfo stores metadata about a generic type parameter.
type TypeParamInfo struct {
	Name  source.StringID
	Owner uint32 // opaque declarator identity supplied by the caller
	Index uint32
}

// RegisterClass returns the TypeID for the fully qualified name, allocating a
// nominal slot on first use.
func (in *Interner) RegisterClass(qualifiedName string) TypeID {
	if id, ok := in.byName[qualifiedName]; ok {
		return id
	}
	in.classes = append(in.classes, ClassInfo{Name: in.names.Intern(qualifiedName)})
	slot, err := safecast.Conv[uint32](len(in.classes) - 1)
	if err != nil {
		panic(fmt.Errorf("class info overflow: %w", err))
	}
	id := in.Intern(Type{Kind: KindClass, Payload: slot})
	in.byName[qualifiedName] = id
	return id
}

// FindClass looks up a registered class by fully qualified name.
func (in *Interner) FindClass(qualifiedName string) (TypeID, bool) {
	id, ok := in.byName[qualifiedName]
	return id, ok
}

// SetClassTypeParams records the declared type parameters of a class.
func (in *Interner) SetClassTypeParams(class TypeID, params []TypeID) {
	info := in.classInfo(class)
	if info == nil {
		return
	}
	info.TypeParams = append([]TypeID(nil), params...)
}

// ClassInfo returns metadata for the provided class TypeID.
func (in *Interner) ClassInfo(id TypeID) (*ClassInfo, bool) {
	info := in.classInfo(id)
	return info, info != nil
}

// ClassName returns the fully qualified name of a class type.
func (in *Interner) ClassName(id TypeID) string {
	info := in.classInfo(id)
	if info == nil {
		return ""
	}
	return in.names.MustLookup(info.Name)
}

// SimpleName strips the package prefix from a class name.
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// RegisterTypeParam allocates a new generic parameter descriptor. Every call
// yields a distinct TypeID even for equal names.
func (in *Interner) RegisterTypeParam(name string, owner, index uint32) TypeID {
	in.params = append(in.params, TypeParamInfo{
		Name:  in.names.Intern(name),
		Owner: owner,
		Index: index,
	})
	slot, err := safecast.Conv[uint32](len(in.params) - 1)
	if err != nil {
		panic(fmt.Errorf("type param index overflow: %w", err))
	}
	return in.Intern(Type{Kind: KindTypeParam, Payload: slot})
}

// TypeParamInfo returns metadata for the provided generic parameter.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeParam {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	return &in.params[tt.Payload], true
}

// TypeParamName returns the declared name of a type parameter.
func (in *Interner) TypeParamName(id TypeID) string {
	info, ok := in.TypeParamInfo(id)
	if !ok {
		return ""
	}
	return in.names.MustLookup(info.Name)
}

func (in *Interner) classInfo(id TypeID) *ClassInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.classes) {
		return nil
	}
	return &in.classes[tt.Payload]
}

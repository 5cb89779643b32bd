package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"

	"facet/internal/source"
	"facet/internal/typeref"
	"facet/internal/types"
)

// DeclFileSuffix marks declaration model files.
const DeclFileSuffix = ".decl.yaml"

type fileDoc struct {
	Package string    `yaml:"package"`
	Imports []string  `yaml:"imports"`
	Types   []typeDoc `yaml:"types"`
}

type typeDoc struct {
	Name        string          `yaml:"name"`
	Kind        string          `yaml:"kind"`
	Library     bool            `yaml:"library"`
	Visibility  string          `yaml:"visibility"`
	Modifiers   []string        `yaml:"modifiers"`
	Doc         string          `yaml:"doc"`
	Deprecated  bool            `yaml:"deprecated"`
	Annotations []annotationDoc `yaml:"annotations"`
	TypeParams  []typeParamDoc  `yaml:"typeParams"`
	Extends     string          `yaml:"extends"`
	Implements  []string        `yaml:"implements"`
	Fields      []fieldDoc      `yaml:"fields"`
	Methods     []methodDoc     `yaml:"methods"`
}

type typeParamDoc struct {
	Name   string   `yaml:"name"`
	Bounds []string `yaml:"bounds"`
}

type fieldDoc struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Visibility  string          `yaml:"visibility"`
	Modifiers   []string        `yaml:"modifiers"`
	Initializer string          `yaml:"initializer"`
	Doc         string          `yaml:"doc"`
	Deprecated  bool            `yaml:"deprecated"`
	Annotations []annotationDoc `yaml:"annotations"`
}

type methodDoc struct {
	Name        string          `yaml:"name"`
	Returns     string          `yaml:"returns"`
	Visibility  string          `yaml:"visibility"`
	Modifiers   []string        `yaml:"modifiers"`
	Doc         string          `yaml:"doc"`
	Deprecated  bool            `yaml:"deprecated"`
	Annotations []annotationDoc `yaml:"annotations"`
	TypeParams  []typeParamDoc  `yaml:"typeParams"`
	Params      []paramDoc      `yaml:"params"`
}

type paramDoc struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Annotations []annotationDoc `yaml:"annotations"`
}

// annotationDoc accepts either "Name" or {name: Name, values: {...}}.
type annotationDoc struct {
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
}

func (a *annotationDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		a.Name = value.Value
		return nil
	}
	type plain annotationDoc
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*a = annotationDoc(p)
	return nil
}

// LoadError aggregates the problems found in one declaration file.
type LoadError struct {
	Issues []LoadIssue
}

// LoadIssue is a single positioned problem.
type LoadIssue struct {
	Pos     source.Pos
	Message string
}

func (e *LoadError) Error() string {
	if len(e.Issues) == 0 {
		return "model: invalid declaration file"
	}
	var b strings.Builder
	b.WriteString("model: declaration file is invalid:")
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n- %d:%d: %s", issue.Pos.Line, issue.Pos.Col, issue.Message)
	}
	return b.String()
}

// Load parses a declaration file into a Model. The standard library subset
// is seeded first so that source types can refer to it.
func Load(file source.FileID, data []byte) (*Model, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc fileDoc
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Issues: []LoadIssue{{Pos: source.Pos{File: file}, Message: "file is empty"}}}
		}
		return nil, fmt.Errorf("model: parse: %w", err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("model: parse: %w", err)
	}

	l := &loader{
		m:   New(doc.Package, file),
		pos: posIndex{file: file, root: &root},
	}
	l.m.Imports = append([]string(nil), doc.Imports...)
	SeedLibrary(l.m)
	l.resolver = typeref.NewResolver(l.m.types, typeref.Scope{Package: doc.Package, Imports: doc.Imports})
	l.load(&doc)
	if len(l.issues) > 0 {
		return nil, &LoadError{Issues: l.issues}
	}
	return l.m, nil
}

type loader struct {
	m        *Model
	pos      posIndex
	resolver *typeref.Resolver
	issues   []LoadIssue
}

func (l *loader) errorf(p source.Pos, format string, args ...any) {
	l.issues = append(l.issues, LoadIssue{Pos: p, Message: fmt.Sprintf(format, args...)})
}

func (l *loader) load(doc *fileDoc) {
	declared := make([]*Type, len(doc.Types))
	// first pass: names and type parameters, so that bodies may refer forward
	for i := range doc.Types {
		td := &doc.Types[i]
		at := l.pos.at("types", i)
		if td.Name == "" {
			l.errorf(at, "types[%d]: name must be provided", i)
			continue
		}
		kind, err := ParseTypeKind(td.Kind)
		if err != nil {
			l.errorf(l.pos.at("types", i, "kind"), "%v", err)
		}
		origin := OriginSource
		if td.Library {
			origin = OriginLibrary
			if !strings.Contains(td.Name, ".") {
				l.errorf(at, "library type %q must be fully qualified", td.Name)
			}
		} else if !typeref.IsIdentifier(td.Name) {
			l.errorf(at, "type name %q is not an identifier", td.Name)
			continue
		}
		t, err := l.m.NewType(td.Name, kind, origin, at)
		if err != nil {
			l.errorf(at, "%v", err)
			continue
		}
		for j, tp := range td.TypeParams {
			t.AddTypeParameter(tp.Name, l.pos.at("types", i, "typeParams", j))
		}
		declared[i] = t
	}
	for i, t := range declared {
		if t != nil {
			l.fillType(t, &doc.Types[i], i)
		}
	}
}

func (l *loader) fillType(t *Type, td *typeDoc, i int) {
	r := l.resolver.WithTypeParams(typeParamScope(t.typeParams))
	l.fillNode(&t.node, td.Doc, td.Deprecated, td.Annotations, "types", i)
	if v, err := ParseVisibility(td.Visibility); err != nil {
		l.errorf(l.pos.at("types", i, "visibility"), "%v", err)
	} else {
		t.visibility = v
	}
	for _, mod := range td.Modifiers {
		switch mod {
		case "abstract":
			t.abstract = true
		case "final":
			t.final = true
		case "static":
			t.static = true
		case "strictfp":
			t.strictfp = true
		default:
			l.errorf(l.pos.at("types", i, "modifiers"), "modifier %q is not allowed on a type", mod)
		}
	}
	l.fillTypeParams(r, t.typeParams, td.TypeParams, "types", i)
	if td.Extends != "" {
		t.superclass = l.resolve(r, td.Extends, l.pos.at("types", i, "extends"))
	}
	for j, name := range td.Implements {
		if id := l.resolve(r, name, l.pos.at("types", i, "implements", j)); id != types.NoTypeID {
			t.interfaces = append(t.interfaces, id)
		}
	}

	for j := range td.Fields {
		fd := &td.Fields[j]
		at := l.pos.at("types", i, "fields", j)
		if !typeref.IsIdentifier(fd.Name) {
			l.errorf(at, "field name %q is not an identifier", fd.Name)
			continue
		}
		if _, dup := t.FindField(fd.Name); dup {
			l.errorf(at, "duplicate field %q in %s", fd.Name, t.qualified)
			continue
		}
		typ := l.resolve(r, fd.Type, l.pos.at("types", i, "fields", j, "type"))
		f := t.AddField(fd.Name, typ, at)
		l.fillNode(&f.node, fd.Doc, fd.Deprecated, fd.Annotations, "types", i, "fields", j)
		if v, err := ParseVisibility(fd.Visibility); err != nil {
			l.errorf(at, "%v", err)
		} else {
			f.visibility = v
		}
		f.initializer = fd.Initializer
		for _, mod := range fd.Modifiers {
			switch mod {
			case "static":
				f.static = true
			case "final":
				f.final = true
			case "transient":
				f.transient = true
			case "volatile":
				f.volatile = true
			default:
				l.errorf(at, "modifier %q is not allowed on a field", mod)
			}
		}
	}

	for j := range td.Methods {
		l.fillMethod(t, r, &td.Methods[j], i, j)
	}
}

func (l *loader) fillMethod(t *Type, typeScope *typeref.Resolver, md *methodDoc, i, j int) {
	at := l.pos.at("types", i, "methods", j)
	if !typeref.IsIdentifier(md.Name) {
		l.errorf(at, "method name %q is not an identifier", md.Name)
		return
	}
	op := t.AddOperation(md.Name, at)
	for k, tp := range md.TypeParams {
		op.AddTypeParameter(tp.Name, l.pos.at("types", i, "methods", j, "typeParams", k))
	}
	r := typeScope.WithTypeParams(typeParamScope(op.typeParams))
	l.fillTypeParams(r, op.typeParams, md.TypeParams, "types", i, "methods", j)
	l.fillNode(&op.node, md.Doc, md.Deprecated, md.Annotations, "types", i, "methods", j)
	if v, err := ParseVisibility(md.Visibility); err != nil {
		l.errorf(at, "%v", err)
	} else {
		op.visibility = v
	}
	if md.Returns != "" {
		if id := l.resolve(r, md.Returns, l.pos.at("types", i, "methods", j, "returns")); id != types.NoTypeID {
			op.returnType = id
		}
	}
	for _, mod := range md.Modifiers {
		switch mod {
		case "static":
			op.static = true
		case "final":
			op.final = true
		case "abstract":
			op.abstract = true
		case "native":
			op.native = true
		case "synchronized":
			op.synchronized = true
		case "default":
			op.isDefault = true
		case "strictfp":
			op.strictfp = true
		case "varargs":
			op.varArgs = true
		default:
			l.errorf(at, "modifier %q is not allowed on a method", mod)
		}
	}
	seen := make(map[string]bool, len(md.Params))
	for k := range md.Params {
		pd := &md.Params[k]
		pat := l.pos.at("types", i, "methods", j, "params", k)
		if !typeref.IsIdentifier(pd.Name) {
			l.errorf(pat, "parameter name %q is not an identifier", pd.Name)
			continue
		}
		if seen[pd.Name] {
			l.errorf(pat, "duplicate parameter %q in %s.%s", pd.Name, t.qualified, md.Name)
			continue
		}
		seen[pd.Name] = true
		typ := l.resolve(r, pd.Type, l.pos.at("types", i, "methods", j, "params", k, "type"))
		p := op.AddParameter(pd.Name, typ, pat)
		l.fillNode(&p.node, "", false, pd.Annotations, "types", i, "methods", j, "params", k)
	}
}

func (l *loader) fillTypeParams(r *typeref.Resolver, params []*TypeParameter, docs []typeParamDoc, path ...any) {
	seen := make(map[string]bool, len(params))
	for k, tp := range params {
		at := l.pos.at(append(path, "typeParams", k)...)
		if !typeref.IsIdentifier(tp.name) {
			l.errorf(at, "type parameter name %q is not an identifier", tp.name)
		}
		if seen[tp.name] {
			l.errorf(at, "duplicate type parameter %q", tp.name)
		}
		seen[tp.name] = true
		for b, bound := range docs[k].Bounds {
			if id := l.resolve(r, bound, l.pos.at(append(path, "typeParams", k, "bounds", b)...)); id != types.NoTypeID {
				tp.upperBounds = append(tp.upperBounds, id)
			}
		}
	}
}

func (l *loader) fillNode(n *node, doc string, deprecated bool, annotations []annotationDoc, path ...any) {
	n.doc = doc
	n.deprecated = deprecated
	for k, a := range annotations {
		if a.Name == "" {
			l.errorf(l.pos.at(append(path, "annotations", k)...), "annotation name must be provided")
			continue
		}
		n.annotations = append(n.annotations, Annotation{
			Name:   a.Name,
			Values: a.Values,
			Pos:    l.pos.at(append(path, "annotations", k)...),
		})
	}
}

func (l *loader) resolve(r *typeref.Resolver, text string, at source.Pos) types.TypeID {
	if text == "" {
		l.errorf(at, "type must be provided")
		return types.NoTypeID
	}
	ref, err := typeref.Parse(text)
	if err != nil {
		l.errorf(at, "%v", err)
		return types.NoTypeID
	}
	id, err := r.Resolve(ref)
	if err != nil {
		l.errorf(at, "%v", err)
		return types.NoTypeID
	}
	return id
}

func typeParamScope(params []*TypeParameter) map[string]types.TypeID {
	scope := make(map[string]types.TypeID, len(params))
	for _, tp := range params {
		scope[tp.name] = tp.typeID
	}
	return scope
}

// posIndex maps a path of mapping keys and sequence indexes to the position
// of the YAML node it addresses. Missing tails fall back to the deepest node found.
type posIndex struct {
	file source.FileID
	root *yaml.Node
}

func (ix posIndex) at(path ...any) source.Pos {
	n := ix.root
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, step := range path {
		next := walk(n, step)
		if next == nil {
			break
		}
		n = next
	}
	if n == nil {
		return source.Pos{File: ix.file}
	}
	line, errLine := safecast.Conv[uint32](n.Line)
	col, errCol := safecast.Conv[uint32](n.Column)
	if errLine != nil || errCol != nil {
		return source.Pos{File: ix.file}
	}
	return source.Pos{File: ix.file, Line: line, Col: col}
}

func walk(n *yaml.Node, step any) *yaml.Node {
	if n == nil {
		return nil
	}
	switch s := step.(type) {
	case string:
		if n.Kind != yaml.MappingNode {
			return nil
		}
		for k := 0; k+1 < len(n.Content); k += 2 {
			if n.Content[k].Value == s {
				return n.Content[k+1]
			}
		}
	case int:
		if n.Kind == yaml.SequenceNode && s >= 0 && s < len(n.Content) {
			return n.Content[s]
		}
	}
	return nil
}

package fsys

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Location is an opaque handle of an external file-system collaborator.
type Location string

// ChildEnumerator lists the direct children of a location.
type ChildEnumerator interface {
	Children(loc Location) ([]Location, error)
}

// BillyEnumerator enumerates children of slash-separated locations inside a
// billy filesystem (osfs for real projects, memfs in tests).
type BillyEnumerator struct {
	FS billy.Filesystem
}

// Children implements ChildEnumerator.
func (e BillyEnumerator) Children(loc Location) ([]Location, error) {
	if e.FS == nil {
		return nil, fmt.Errorf("billy enumerator: no filesystem")
	}
	dir := string(loc)
	if dir == "" {
		dir = "/"
	}
	infos, err := e.FS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	out := make([]Location, 0, len(infos))
	for _, fi := range infos {
		out = append(out, Location(path.Join(dir, fi.Name())))
	}
	return out, nil
}

// Support maps collaborator locations into unit paths. A nil Support or one
// without an enumerator behaves as an empty file system.
type Support struct {
	enumerator ChildEnumerator
	// Dropped, when set, is told about children that could not be mapped.
	Dropped func(child Location)
}

// NewSupport wraps an optional enumerator.
func NewSupport(e ChildEnumerator) *Support {
	return &Support{enumerator: e}
}

// Available reports whether an enumerator is attached.
func (s *Support) Available() bool {
	return s != nil && s.enumerator != nil
}

// Children returns the paths of loc's children relative to parent. Children
// that are not located directly below loc are dropped; enumeration failures
// yield an empty result.
func (s *Support) Children(loc Location, parent Path) []Path {
	if !s.Available() {
		return nil
	}
	children, err := s.enumerator.Children(loc)
	if err != nil {
		return nil
	}
	out := make([]Path, 0, len(children))
	for _, child := range children {
		p, ok := PathFor(child, loc, parent)
		if !ok {
			if s.Dropped != nil {
				s.Dropped(child)
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

// PathFor maps child, a direct child of the parent location, to parentPath/<name>.
func PathFor(child, parent Location, parentPath Path) (Path, bool) {
	prefix := strings.TrimSuffix(string(parent), "/") + "/"
	name, ok := strings.CutPrefix(string(child), prefix)
	if !ok || name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return Path{}, false
	}
	return parentPath.Append(name), true
}

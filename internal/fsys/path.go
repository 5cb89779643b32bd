// Package fsys holds the path model compilation units hand to processors and
// the adapter over external child-enumeration collaborators.
package fsys

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Separator joins path segments.
const Separator = "/"

// Path is an immutable, normalised sequence of segments. Segments are NFC
// normalised so that differently composed names compare equal.
type Path struct {
	segments []string
	absolute bool
}

// Root is the absolute empty path "/".
var Root = Path{absolute: true}

// ParsePath splits s on '/', dropping empty and "." segments and folding "..".
// ".." above the root of an absolute path is dropped.
func ParsePath(s string) Path {
	p := Path{absolute: strings.HasPrefix(s, Separator)}
	for _, seg := range strings.Split(s, Separator) {
		p = p.appendSegment(seg)
	}
	return p
}

func (p Path) appendSegment(seg string) Path {
	seg = norm.NFC.String(seg)
	switch seg {
	case "", ".":
		return p
	case "..":
		if n := len(p.segments); n > 0 && p.segments[n-1] != ".." {
			return Path{segments: slices.Clip(p.segments[:n-1]), absolute: p.absolute}
		}
		if p.absolute {
			return p
		}
	}
	segs := make([]string, len(p.segments), len(p.segments)+1)
	copy(segs, p.segments)
	return Path{segments: append(segs, seg), absolute: p.absolute}
}

// Append resolves rel against p.
func (p Path) Append(rel string) Path {
	if strings.HasPrefix(rel, Separator) {
		return ParsePath(rel)
	}
	for _, seg := range strings.Split(rel, Separator) {
		p = p.appendSegment(seg)
	}
	return p
}

// Segments returns a copy of the segments.
func (p Path) Segments() []string { return slices.Clone(p.segments) }

// IsAbsolute reports whether p starts at the root.
func (p Path) IsAbsolute() bool { return p.absolute }

// IsEmpty reports whether p has no segments.
func (p Path) IsEmpty() bool { return len(p.segments) == 0 }

// LastSegment returns the final segment or "".
func (p Path) LastSegment() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// FileExtension returns the text after the last '.' of the last segment.
func (p Path) FileExtension() string {
	last := p.LastSegment()
	i := strings.LastIndexByte(last, '.')
	if i <= 0 {
		return ""
	}
	return last[i+1:]
}

// Parent returns p without its last segment.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return Path{}, false
	}
	return Path{segments: slices.Clip(p.segments[:len(p.segments)-1]), absolute: p.absolute}, true
}

// StartsWith reports whether prefix is an ancestor of (or equal to) p.
func (p Path) StartsWith(prefix Path) bool {
	if p.absolute != prefix.absolute || len(prefix.segments) > len(p.segments) {
		return false
	}
	return slices.Equal(p.segments[:len(prefix.segments)], prefix.segments)
}

// Relativize returns the path leading from base to p.
func (base Path) Relativize(p Path) (Path, bool) {
	if !p.StartsWith(base) {
		return Path{}, false
	}
	return Path{segments: slices.Clone(p.segments[len(base.segments):])}, true
}

// Equal compares two paths segment by segment.
func (p Path) Equal(other Path) bool {
	return p.absolute == other.absolute && slices.Equal(p.segments, other.segments)
}

func (p Path) String() string {
	joined := strings.Join(p.segments, Separator)
	if p.absolute {
		return Separator + joined
	}
	return joined
}

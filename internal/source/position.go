package source

import (
	"fmt"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileID identifies a model file registered in a FileSet.
type FileID uint32

// NoFileID marks a position without a file.
const NoFileID FileID = 0

// Pos is a 1-based line/column position inside a model file.
type Pos struct {
	File FileID
	Line uint32
	Col  uint32
}

// IsValid reports whether the position points into a file.
func (p Pos) IsValid() bool {
	return p.File != NoFileID && p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d:%d", p.File, p.Line, p.Col)
}

// FileSet maps FileIDs to paths. Safe for concurrent use; units for
// different files register into one set from parallel workers.
type FileSet struct {
	mu     sync.RWMutex
	paths  []string
	byPath map[string]FileID
}

// NewFileSet creates an empty set with FileID 0 reserved.
func NewFileSet() *FileSet {
	return &FileSet{
		paths:  []string{""},
		byPath: make(map[string]FileID),
	}
}

// Add registers path (cleaned) and returns its ID. Re-adding returns the same ID.
func (fs *FileSet) Add(path string) FileID {
	path = filepath.Clean(path)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if id, ok := fs.byPath[path]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(fs.paths))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fs.paths = append(fs.paths, path)
	fs.byPath[path] = id
	return id
}

// Path returns the registered path for id.
func (fs *FileSet) Path(id FileID) (string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if id == NoFileID || int(id) >= len(fs.paths) {
		return "", false
	}
	return fs.paths[id], true
}

// Format renders p as "path:line:col", falling back to the raw position.
func (fs *FileSet) Format(p Pos) string {
	if fs == nil {
		return p.String()
	}
	path, ok := fs.Path(p.File)
	if !ok {
		return p.String()
	}
	if p.Line == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, p.Line, p.Col)
}

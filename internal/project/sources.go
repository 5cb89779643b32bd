package project

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// DiscoverFiles returns every file below the given source directories whose
// name ends with suffix, sorted and without duplicates. Paths are slash
// separated and relative to the filesystem root.
func DiscoverFiles(fs billy.Filesystem, dirs []string, suffix string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		dir = path.Clean("/" + strings.TrimPrefix(dir, "./"))
		info, err := fs.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("source directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(info.Name(), suffix) {
				out = append(out, strings.TrimPrefix(dir, "/"))
			}
			continue
		}
		if err := walk(fs, dir, suffix, &out); err != nil {
			return nil, err
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func walk(fs billy.Filesystem, dir, suffix string, out *[]string) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := path.Join(dir, name)
		if e.IsDir() {
			if err := walk(fs, full, suffix, out); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(name, suffix) {
			*out = append(*out, strings.TrimPrefix(full, "/"))
		}
	}
	return nil
}

package driver

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"facet/internal/model"
	"facet/internal/tracking"
)

// SnapshotSuffix names tracking snapshot files.
const SnapshotSuffix = ".track"

// SnapshotPath returns where the snapshot of the declaration file src is
// stored below dir.
func SnapshotPath(dir, src string) string {
	return path.Join(dir, strings.TrimSuffix(src, model.DeclFileSuffix)+SnapshotSuffix)
}

// writeSnapshot stores snap atomically: it is encoded into a temporary file
// next to the target and renamed over it.
func writeSnapshot(fs billy.Filesystem, dir string, snap tracking.Snapshot) (out string, err error) {
	out = SnapshotPath(dir, snap.Path)
	if err := fs.MkdirAll(path.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", path.Dir(out), err)
	}
	f, err := fs.TempFile(path.Dir(out), "tmp-")
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			// временный файл мог уже исчезнуть
			_ = fs.Remove(tmp)
		}
	}()
	if err = snap.Encode(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	if err = fs.Rename(tmp, out); err != nil {
		return "", fmt.Errorf("install snapshot %s: %w", out, err)
	}
	return out, nil
}

// ReadSnapshot decodes the snapshot stored at name.
func ReadSnapshot(fs billy.Filesystem, name string) (tracking.Snapshot, error) {
	f, err := fs.Open(name)
	if err != nil {
		return tracking.Snapshot{}, err
	}
	snap, err := tracking.DecodeSnapshot(f)
	return snap, errors.Join(err, f.Close())
}

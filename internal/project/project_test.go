package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
[project]
name = "demo"
sources = ["src", "lib"]

[build]
jobs = 4
tracking-out = ".facet/tracking"

[processors]
enabled = ["Final", "Used"]

[trace]
level = "phase"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := m.Config
	if cfg.Project.Name != "demo" || !slices.Equal(cfg.Project.Sources, []string{"src", "lib"}) {
		t.Fatalf("project = %+v", cfg.Project)
	}
	if cfg.Build.Jobs != 4 || cfg.Build.MaxDiagnostics != 100 || cfg.Build.TrackingOut != ".facet/tracking" {
		t.Fatalf("build = %+v", cfg.Build)
	}
	if m.Root != filepath.Dir(path) {
		t.Fatalf("root = %s", m.Root)
	}
}

func TestLoadManifestDefaultsSources(t *testing.T) {
	path := writeManifest(t, "[project]\nname = \"demo\"\n")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !slices.Equal(m.Config.Project.Sources, []string{"."}) {
		t.Fatalf("sources = %v", m.Config.Project.Sources)
	}
}

func TestLoadManifestRejectsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"missing project", "[build]\njobs = 1\n", "missing [project]"},
		{"missing name", "[project]\nsources = [\"src\"]\n", "Project.Name must be provided"},
		{"bad level", "[project]\nname = \"x\"\n[trace]\nlevel = \"loud\"\n", "Trace.Level must be one of"},
		{"bad jobs", "[project]\nname = \"x\"\n[build]\njobs = -1\n", "Build.Jobs is out of range"},
		{"unknown key", "[project]\nname = \"x\"\ncolour = true\n", "unknown keys"},
	}
	for _, tc := range cases {
		_, err := LoadManifest(writeManifest(t, tc.content))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %q, got %v", tc.name, tc.want, err)
		}
	}
	_, err := LoadManifest(writeManifest(t, "[project]\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) == 0 {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	path := writeManifest(t, "[project]\nname = \"demo\"\n")
	root := filepath.Dir(path)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || got != root {
		t.Fatalf("FindProjectRoot = %q, %v, %v", got, ok, err)
	}
	m, ok, err := FindAndLoad(nested)
	if err != nil || !ok || m.Config.Project.Name != "demo" {
		t.Fatalf("FindAndLoad = %+v, %v, %v", m, ok, err)
	}
}

func TestFindManifestSkipsDirectories(t *testing.T) {
	path := writeManifest(t, "[project]\nname = \"demo\"\n")
	root := filepath.Dir(path)
	decoy := filepath.Join(root, "pkg", ManifestName)
	if err := os.MkdirAll(decoy, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok, err := FindManifest(filepath.Join(root, "pkg"))
	if err != nil || !ok || got != path {
		t.Fatalf("FindManifest = %q, %v, %v; want %q", got, ok, err, path)
	}
}

func TestDiscoverFiles(t *testing.T) {
	fs := memfs.New()
	for _, name := range []string{
		"src/demo/widget.decl.yaml",
		"src/demo/notes.txt",
		"src/.hidden/skip.decl.yaml",
		"lib/util.decl.yaml",
	} {
		f, err := fs.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		_ = f.Close()
	}
	got, err := DiscoverFiles(fs, []string{"src", "./lib", "src/demo"}, ".decl.yaml")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{"lib/util.decl.yaml", "src/demo/widget.decl.yaml"}
	if !slices.Equal(got, want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	if _, err := DiscoverFiles(fs, []string{"missing"}, ".decl.yaml"); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestDigest(t *testing.T) {
	a := DigestOf([]byte("a"))
	if a == DigestOf([]byte("b")) {
		t.Fatalf("different content, same digest")
	}
	if Combine(a) == Combine(a, DigestOf([]byte("x"))) {
		t.Fatalf("combine ignores extras")
	}
	if len(a.Short()) != 12 || len(a.String()) != 64 {
		t.Fatalf("unexpected digest rendering %s", a)
	}
}

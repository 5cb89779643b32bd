package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestSummary_IncludesBuildInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	want := "facet 1.2.3 (abc123def456) built 2024-01-15T10:30:00Z"
	if got := Summary(false); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestColored_KeepsSuffix(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	Version = "0.4.1-rc1"
	if got := Colored(); got != "0.4.1-rc1" {
		t.Errorf("Colored = %q", got)
	}
	Version = "weird"
	if got := Colored(); got != "weird" {
		t.Errorf("Colored = %q", got)
	}
}

func TestCurrentPrefersLinkerValues(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = " abc123 ", "2024-01-15"
	info := Current()
	if info.Tool != "facet" || info.GitCommit != "abc123" || info.BuildDate != "2024-01-15" || info.GoVersion == "" {
		t.Errorf("Current = %+v", info)
	}
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"facet/internal/project"
)

// loadProject finds facet.toml above dir. Without a manifest dir itself is the
// project root and the defaults apply.
func loadProject(dir string) (*project.Manifest, error) {
	m, ok, err := project.FindAndLoad(dir)
	if err != nil {
		return nil, err
	}
	if ok {
		return m, nil
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}
	cfg := project.Defaults()
	cfg.Project.Name = filepath.Base(root)
	return &project.Manifest{Root: root, Config: cfg}, nil
}

// applyOverrides copies explicitly set flags over the manifest values and
// revalidates the result.
func applyOverrides(cmd *cobra.Command, cfg *project.Config) error {
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		v, err := flags.GetInt("jobs")
		if err != nil {
			return err
		}
		cfg.Build.Jobs = v
	}
	if f := cmd.Root().PersistentFlags(); f.Changed("max-diagnostics") {
		v, err := f.GetInt("max-diagnostics")
		if err != nil {
			return err
		}
		cfg.Build.MaxDiagnostics = v
	}
	if flags.Changed("tracking-out") {
		v, err := flags.GetString("tracking-out")
		if err != nil {
			return err
		}
		cfg.Build.TrackingOut = v
	}
	if flags.Changed("warnings-as-errors") {
		v, err := flags.GetBool("warnings-as-errors")
		if err != nil {
			return err
		}
		cfg.Build.WarningsAsErrors = v
	}
	if flags.Changed("processors") {
		v, err := flags.GetStringSlice("processors")
		if err != nil {
			return err
		}
		cfg.Processors.Enabled = v
	}
	return cfg.Validate()
}

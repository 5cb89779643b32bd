package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"facet/internal/diag"
	"facet/internal/diagfmt"
	"facet/internal/driver"
	"facet/internal/processor"
)

var errCompileFailed = errors.New("compilation failed")

var runCmd = &cobra.Command{
	Use:   "run [flags] [project-dir]",
	Short: "Run annotation processors over every declaration file of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json|short)")
	runCmd.Flags().Int("jobs", 0, "max parallel units (0=auto)")
	runCmd.Flags().StringSlice("processors", nil, "processors to enable (default: manifest or all built-ins)")
	runCmd.Flags().String("tracking-out", "", "directory for tracking snapshots, relative to the project root")
	runCmd.Flags().Bool("warnings-as-errors", false, "treat tracking warnings as errors")
	runCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	runCmd.Flags().Bool("metrics", false, "print macro metrics in Prometheus text format")
	runCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runRun(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format %q (expected: pretty|json|short)", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	showMetrics, err := cmd.Flags().GetBool("metrics")
	if err != nil {
		return fmt.Errorf("failed to get metrics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	manifest, err := loadProject(dir)
	if err != nil {
		return err
	}
	cfg := manifest.Config
	if err := applyOverrides(cmd, &cfg); err != nil {
		return err
	}

	registry := processor.Builtins()
	if len(cfg.Processors.Enabled) > 0 {
		if registry, err = registry.Select(cfg.Processors.Enabled); err != nil {
			return err
		}
	}

	opts := driver.Options{
		FS:             osfs.New(manifest.Root),
		Sources:        cfg.Project.Sources,
		Jobs:           cfg.Build.Jobs,
		MaxDiagnostics: cfg.Build.MaxDiagnostics,
		Processors:     registry,
		TrackingOut:    cfg.Build.TrackingOut,

		WarningsAsErrors: cfg.Build.WarningsAsErrors,
	}
	var res *driver.Result
	if !quiet && shouldUseTUI(mode) {
		res, err = runWithUI(cmd.Context(), cfg.Project.Name, opts)
	} else {
		res, err = driver.Run(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	diags := res.Diagnostics()
	switch format {
	case "json":
		err = diagfmt.JSON(out, diags, res.FileSet, diagfmt.Options{Max: cfg.Build.MaxDiagnostics, Notes: withNotes})
	case "short":
		if s := diag.FormatShort(diags, res.FileSet, withNotes); s != "" {
			_, err = fmt.Fprintln(out, s)
		}
	default:
		_, err = diagfmt.Pretty(out, diags, res.FileSet, diagfmt.Options{
			Color: color,
			Notes: withNotes,
			Max:   cfg.Build.MaxDiagnostics,
		})
	}
	if err != nil {
		return err
	}

	if !quiet && format == "pretty" {
		if err := printSummary(out, res, manifest.Root); err != nil {
			return err
		}
	}
	if showTimings {
		if err := printTimings(cmd.ErrOrStderr(), res); err != nil {
			return err
		}
	}
	if showMetrics {
		if err := printMetrics(out); err != nil {
			return err
		}
	}
	if res.HasErrors() {
		return errCompileFailed
	}
	return nil
}

func printSummary(w io.Writer, res *driver.Result, root string) error {
	failed, invocations, dropped := 0, 0, res.Bag.Dropped()
	for i := range res.Units {
		invocations += res.Units[i].Invocations
		dropped += res.Units[i].Bag.Dropped()
		if res.Units[i].Failed() {
			failed++
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d units, %d processor invocations, %d failed, %d errors, %d warnings\n",
		filepath.Base(root), len(res.Units), invocations, failed,
		countSeverity(res, diag.SevError), countSeverity(res, diag.SevWarning))
	if err == nil && dropped > 0 {
		_, err = fmt.Fprintf(w, "%d diagnostics dropped; raise --max-diagnostics to see them\n", dropped)
	}
	return err
}

func countSeverity(res *driver.Result, sev diag.Severity) int {
	n := res.Bag.Count(sev)
	for i := range res.Units {
		n += res.Units[i].Bag.Count(sev)
	}
	return n
}

func printTimings(w io.Writer, res *driver.Result) error {
	if err := res.Timing.WriteText(w, "run"); err != nil {
		return err
	}
	for i := range res.Units {
		if err := res.Units[i].Timing.WriteText(w, res.Units[i].Path); err != nil {
			return err
		}
	}
	return nil
}

func printMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "facet_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"facet/internal/project"
	"facet/internal/trace"
)

// traceConfig resolves tracer settings. Explicit flags win over the [trace]
// section of the manifest nearest to the command's first argument.
func traceConfig(cmd *cobra.Command, args []string) (trace.Config, error) {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return trace.Config{}, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelName, err := flags.GetString("trace-level")
	if err != nil {
		return trace.Config{}, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeName, err := flags.GetString("trace-mode")
	if err != nil {
		return trace.Config{}, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatName, err := flags.GetString("trace-format")
	if err != nil {
		return trace.Config{}, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	format, err := trace.ParseFormat(formatName)
	if err != nil {
		return trace.Config{}, err
	}

	if m := manifestNear(args); m != nil {
		tc := m.Config.Trace
		if !flags.Changed("trace-level") && tc.Level != "" {
			levelName = tc.Level
		}
		if !flags.Changed("trace-mode") && tc.Mode != "" {
			modeName = tc.Mode
		}
		if !flags.Changed("trace") && tc.Output != "" {
			output = tc.Output
			if output != "-" && !filepath.IsAbs(output) {
				output = filepath.Join(m.Root, output)
			}
		}
	}

	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return trace.Config{}, fmt.Errorf("invalid trace level: %w", err)
	}
	mode, err := trace.ParseMode(modeName)
	if err != nil {
		return trace.Config{}, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	return trace.Config{Level: level, Mode: mode, Format: format, Path: output}, nil
}

// manifestNear loads the manifest above args[0] (or the working directory).
// Errors are ignored here; commands that need the manifest report them.
func manifestNear(args []string) *project.Manifest {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			dir = filepath.Dir(dir)
		}
	}
	m, ok, err := project.FindAndLoad(dir)
	if err != nil || !ok {
		return nil
	}
	return m
}

// setupTracing attaches the configured tracer to the command context. The
// returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command, args []string) (func(), error) {
	cfg, err := traceConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}, nil
}

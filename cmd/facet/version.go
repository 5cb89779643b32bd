package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"facet/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show facet build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(version.Current())
	case "pretty":
		color, err := useColor(cmd)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, version.Summary(color))
		return err
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

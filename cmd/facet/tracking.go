package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"facet/internal/driver"
	"facet/internal/tracking"
)

var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Inspect read/write tracking snapshots",
}

var trackingShowCmd = &cobra.Command{
	Use:   "show [flags] <snapshot.track>",
	Short: "Print the access table stored in a tracking snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackingShow,
}

func init() {
	trackingShowCmd.Flags().Bool("unused", false, "only show entries that were written but never read")
	trackingCmd.AddCommand(trackingShowCmd)
}

func runTrackingShow(cmd *cobra.Command, args []string) error {
	unusedOnly, err := cmd.Flags().GetBool("unused")
	if err != nil {
		return fmt.Errorf("failed to get unused flag: %w", err)
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	snap, err := driver.ReadSnapshot(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return err
	}
	return printSnapshot(cmd.OutOrStdout(), snap, unusedOnly)
}

func printSnapshot(w io.Writer, snap tracking.Snapshot, unusedOnly bool) error {
	header := fmt.Sprintf("unit %s (%s)", snap.Unit, snap.Path)
	if len(snap.Digest) >= 12 {
		header += " digest " + snap.Digest[:12]
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	tbl := newTable("KIND", "NAME", "LINE", "READ", "WRITTEN")
	for _, r := range snap.Records {
		if unusedOnly && (r.Read || !r.Written) {
			continue
		}
		tbl.add(r.Kind, r.Name, fmt.Sprint(r.Line), yesNo(r.Read), yesNo(r.Written))
	}
	return tbl.render(w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

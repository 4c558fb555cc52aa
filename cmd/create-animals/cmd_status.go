package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show submitted genetic IDs",
	Long:  `Display which genetic IDs have been created on the ledger by earlier runs.`,
	Args:  cobra.NoArgs,
	RunE:  showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Fprintln(out, strings.Repeat("=", 70))
	cyan.Fprintln(out, "  Submission Status")
	cyan.Fprintln(out, strings.Repeat("=", 70))
	fmt.Fprintln(out)

	ids, err := ctx.Markers.SubmittedIDs()
	if err != nil {
		return fmt.Errorf("failed to list submitted IDs: %w", err)
	}

	if len(ids) == 0 {
		ctx.UI.Info("No animals recorded as submitted")
	} else {
		ctx.UI.Infof("Submitted genetic IDs (%d):", len(ids))
		for _, r := range collapseRanges(ids) {
			ctx.UI.Successf("  %s", r)
		}
	}

	fmt.Fprintln(out)
	cyan.Fprintln(out, strings.Repeat("-", 70))

	// Show configuration file location
	if _, err := os.Stat(ctx.Config.FilePath()); err == nil {
		ctx.UI.Infof("Configuration file: %s", ctx.Config.FilePath())
	}

	// Show marker directory
	if _, err := os.Stat(ctx.Markers.Dir()); err == nil {
		ctx.UI.Infof("Marker directory: %s", ctx.Markers.Dir())
	}

	return nil
}

// collapseRanges turns sorted IDs into "a-b" runs of consecutive integers.
// Non-numeric IDs are listed on their own.
func collapseRanges(ids []string) []string {
	var out []string
	var start, prev int64
	open := false

	flush := func() {
		if !open {
			return
		}
		if start == prev {
			out = append(out, strconv.FormatInt(start, 10))
		} else {
			out = append(out, fmt.Sprintf("%d-%d", start, prev))
		}
		open = false
	}

	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			flush()
			out = append(out, id)
			continue
		}
		if open && n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev, open = n, n, true
	}
	flush()
	return out
}

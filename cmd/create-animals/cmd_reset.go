package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoro11031/beef-tracer/create-animals/internal/animal"
	"github.com/zoro11031/beef-tracer/create-animals/internal/cli"
)

var (
	resetForce    bool
	resetSettings bool
)

var resetCmd = &cobra.Command{
	Use:   "reset [ID|FIRST-LAST]...",
	Short: "Forget submitted genetic IDs",
	Long: `Clear submission markers so --skip-submitted no longer skips those IDs.

Without arguments every marker is cleared. Pass genetic IDs or inclusive
ranges such as 100-120 to forget only those, so they can be seeded again.

This does not touch the ledger. By default the settings file is kept; use
--settings to delete it as well.`,
	Example: "  create-animals reset --force\n  create-animals reset 7 100-120",
	RunE:    resetMarkers,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	resetCmd.Flags().BoolVarP(&resetSettings, "settings", "s", false, "Also delete the settings file")
	rootCmd.AddCommand(resetCmd)
}

func resetMarkers(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		if resetSettings {
			return fmt.Errorf("--settings cannot be combined with genetic IDs")
		}
		ids, err := expandIDs(args)
		if err != nil {
			return err
		}
		ctx, err := newSeedContext(cmd)
		if err != nil {
			return err
		}
		return forgetIDs(ctx, ids)
	}

	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}

	// Confirmation prompt
	if !resetForce {
		ctx.UI.Header("Reset Submission Markers")
		ctx.UI.Warning("This will clear every submission marker")
		if resetSettings {
			ctx.UI.Warning("Settings file will also be DELETED")
			ctx.UI.Warningf("  %s", ctx.Config.FilePath())
		} else {
			ctx.UI.Info("Settings file will NOT be deleted")
		}

		confirm, err := ctx.UI.PromptYesNo("Are you sure you want to reset?", false)
		if err != nil {
			return err
		}

		if !confirm {
			ctx.UI.Info("Reset cancelled")
			return nil
		}
	}

	ctx.UI.Info("Removing submission markers...")
	if err := ctx.Markers.RemoveAll(); err != nil {
		return fmt.Errorf("failed to remove markers: %w", err)
	}
	ctx.UI.Success("Submission markers cleared")

	if resetSettings {
		configFile := ctx.Config.FilePath()
		if err := os.Remove(configFile); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}
			ctx.UI.Info("  (Settings file did not exist)")
		} else {
			ctx.UI.Successf("Settings file deleted: %s", configFile)
		}
	}

	return nil
}

func forgetIDs(ctx *cli.SeedContext, ids []string) error {
	if !resetForce {
		confirm, err := ctx.UI.PromptYesNo(fmt.Sprintf("Forget %d genetic ID(s)?", len(ids)), false)
		if err != nil {
			return err
		}
		if !confirm {
			ctx.UI.Info("Reset cancelled")
			return nil
		}
	}

	for _, id := range ids {
		if err := ctx.Markers.Remove(id); err != nil {
			return fmt.Errorf("failed to remove marker for genetic ID %s: %w", id, err)
		}
	}
	ctx.UI.Successf("Forgot %d genetic ID(s)", len(ids))
	return nil
}

// expandIDs turns "7" and "100-102" arguments into individual genetic IDs.
func expandIDs(args []string) ([]string, error) {
	var ids []string
	for _, arg := range args {
		first, last, isRange := strings.Cut(arg, "-")
		if !isRange {
			id, err := animal.ParseGeneticID(arg)
			if err != nil {
				return nil, err
			}
			ids = append(ids, strconv.FormatInt(id, 10))
			continue
		}

		from, err := animal.ParseGeneticID(first)
		if err != nil {
			return nil, err
		}
		to, err := animal.ParseGeneticID(last)
		if err != nil {
			return nil, err
		}
		if to < from {
			return nil, fmt.Errorf("invalid range %q: end is before start", arg)
		}
		for id := from; ; id++ {
			ids = append(ids, strconv.FormatInt(id, 10))
			if id == to {
				break
			}
		}
	}
	return ids, nil
}

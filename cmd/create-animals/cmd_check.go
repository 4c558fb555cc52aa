package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zoro11031/beef-tracer/create-animals/internal/cli"
	"github.com/zoro11031/beef-tracer/create-animals/internal/composer"
	"github.com/zoro11031/beef-tracer/create-animals/internal/config"
	"github.com/zoro11031/beef-tracer/create-animals/internal/system"
)

const checkTimeout = 30 * time.Second

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that transactions can be submitted",
	Long: `Run diagnostic checks before seeding: the settings in effect, the composer
binary, and the business network card.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}

	ctx.UI.Header("create-animals diagnostics")

	checkConfiguration(ctx)

	runner := system.NewCommandRunner(checkTimeout)
	failures := 0
	if !checkComposer(cmd.Context(), ctx, runner) {
		failures++
	}
	if !checkCard(cmd.Context(), ctx, runner) {
		failures++
	}

	ctx.UI.Separator()
	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	ctx.UI.Success("Ready to submit transactions")
	return nil
}

func checkConfiguration(ctx *cli.SeedContext) {
	ctx.UI.Step("Configuration")

	configFile := ctx.Config.FilePath()
	if _, err := os.Stat(configFile); err == nil {
		ctx.UI.Successf("Settings file: %s", configFile)
	} else {
		ctx.UI.Info("No settings file, using defaults")
	}

	for _, key := range config.KnownKeys() {
		ctx.UI.Infof("  %s=%s", key, ctx.Config.GetOrDefault(key, ""))
	}

	ids, err := ctx.Markers.SubmittedIDs()
	if err != nil {
		ctx.UI.Errorf("Failed to list markers: %v", err)
		return
	}
	ctx.UI.Infof("Genetic IDs recorded as submitted: %d", len(ids))
}

func checkComposer(ctx context.Context, sc *cli.SeedContext, runner system.CommandRunner) bool {
	sc.UI.Step("Composer CLI")

	client, err := composer.NewClient(runner, sc.Config.GetOrDefault(config.KeySubmitCommand, composer.DefaultSubmitCommand), "")
	if err != nil {
		sc.UI.Error(err.Error())
		return false
	}

	bin := client.Binary()
	if !system.CommandExists(bin) {
		sc.UI.Errorf("%s not found in PATH", bin)
		sc.UI.Info("  Install it with: npm install -g composer-cli")
		return false
	}

	res, err := runner.Run(ctx, bin, "--version")
	if err != nil {
		sc.UI.Errorf("%s --version failed: %v", bin, err)
		return false
	}
	sc.UI.Successf("%s %s", bin, firstLine(res.Output))
	return true
}

func checkCard(ctx context.Context, sc *cli.SeedContext, runner system.CommandRunner) bool {
	card := sc.Config.GetOrDefault(config.KeyCard, composer.DefaultCard)
	sc.UI.Step(fmt.Sprintf("Business network card %s", card))

	client, err := composer.NewClient(runner, sc.Config.GetOrDefault(config.KeySubmitCommand, composer.DefaultSubmitCommand), card)
	if err != nil {
		sc.UI.Error(err.Error())
		return false
	}
	if !system.CommandExists(client.Binary()) {
		sc.UI.Warning("Skipped: composer CLI not available")
		return false
	}

	res, err := runner.Run(ctx, client.Binary(), "card", "list", "--card", card)
	if err != nil {
		sc.UI.Errorf("Card %s is not usable: %s", card, firstLine(res.Output))
		sc.UI.Info("  Import it with: composer card import --file <card file>")
		return false
	}
	sc.UI.Successf("Card %s found", card)
	return true
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

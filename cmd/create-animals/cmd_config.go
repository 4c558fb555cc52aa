package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/zoro11031/beef-tracer/create-animals/internal/common"
	"github.com/zoro11031/beef-tracer/create-animals/internal/composer"
	"github.com/zoro11031/beef-tracer/create-animals/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting and where its value comes from",
	Args:  cobra.NoArgs,
	RunE:  listConfig,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  getConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  setConfig,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Remove a setting so its default applies again",
	Args:  cobra.ExactArgs(1),
	RunE:  unsetConfig,
}

var profileForce bool

var configProfileCmd = &cobra.Command{
	Use:   "profile PATH",
	Short: "Write the effective animal attributes to a YAML profile",
	Args:  cobra.ExactArgs(1),
	RunE:  writeProfile,
}

func init() {
	configProfileCmd.Flags().BoolVarP(&profileForce, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd, configUnsetCmd, configProfileCmd)
	rootCmd.AddCommand(configCmd)
}

func listConfig(cmd *cobra.Command, args []string) error {
	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stored := ctx.Config.GetAll()
	for _, key := range config.KnownKeys() {
		source := "default"
		if _, ok := stored[key]; ok {
			source = "config"
		}
		fmt.Fprintf(out, "%s=%s (%s)\n", key, ctx.Config.GetOrDefault(key, ""), source)
	}

	// Keys in the file that no command reads, e.g. typos
	var unknown []string
	for key := range stored {
		if config.ValidateKey(key) != nil {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		fmt.Fprintf(out, "%s=%s (unknown)\n", key, stored[key])
		ctx.UI.Warningf("Unknown setting %s is ignored", key)
	}
	ctx.UI.Infof("Settings file: %s", ctx.Config.FilePath())
	return nil
}

func getConfig(cmd *cobra.Command, args []string) error {
	if err := config.ValidateKey(args[0]); err != nil {
		return err
	}
	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ctx.Config.GetOrDefault(args[0], ""))
	return nil
}

func setConfig(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := config.ValidateKey(key); err != nil {
		return err
	}
	if err := validateSetting(key, value); err != nil {
		return err
	}

	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}
	if err := ctx.Config.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	ctx.UI.Successf("%s=%s", key, value)
	return nil
}

// validateSetting applies the same checks a run applies to flag values.
func validateSetting(key, value string) error {
	switch key {
	case config.KeyCard:
		return common.ValidateCard(value)
	case config.KeyClass:
		return common.ValidateClass(value)
	case config.KeyOwner:
		return common.ValidateOwner(value)
	case config.KeyTimeout:
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("invalid timeout %q: want a duration such as 30s, or 0", value)
		}
		return nil
	case config.KeySubmitCommand:
		_, err := composer.NewClient(nil, value, "")
		return err
	default:
		return common.ValidateNotEmpty(value)
	}
}

func unsetConfig(cmd *cobra.Command, args []string) error {
	if err := config.ValidateKey(args[0]); err != nil {
		return err
	}
	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}
	if !ctx.Config.Exists(args[0]) {
		ctx.UI.Infof("%s is not set, default already applies", args[0])
		return nil
	}
	if err := ctx.Config.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	ctx.UI.Successf("%s reset to default", args[0])
	return nil
}

func writeProfile(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !profileForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}

	profile := &config.Profile{
		Attributes: ctx.Config.Attributes(),
		Card:       ctx.Config.GetOrDefault(config.KeyCard, composer.DefaultCard),
	}
	if err := config.SaveProfile(path, profile); err != nil {
		return err
	}
	ctx.UI.Successf("Profile written: %s", path)
	return nil
}

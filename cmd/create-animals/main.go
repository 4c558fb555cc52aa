package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zoro11031/beef-tracer/create-animals/internal/animal"
	"github.com/zoro11031/beef-tracer/create-animals/internal/cli"
	"github.com/zoro11031/beef-tracer/create-animals/internal/common"
	"github.com/zoro11031/beef-tracer/create-animals/internal/seeder"
	"github.com/zoro11031/beef-tracer/create-animals/pkg/version"
)

// usageExitCode mirrors exit(-1) as seen by the shell
const usageExitCode = 255

var (
	// Persistent flags
	configPath     string
	markerDir      string
	logLevel       string
	nonInteractive bool

	// Creation flags
	profilePath   string
	card          string
	class         string
	owner         string
	breed         string
	location      string
	weight        string
	timeout       string
	dryRun        bool
	stopOnError   bool
	skipSubmitted bool
	confirm       bool
)

var rootCmd = &cobra.Command{
	Use:   "create-animals <NumberOfAnimalsToCreate> <StartGeneticId>",
	Short: "Seed the beef-tracer network with synthetic animals",
	Long: `Submit one createAnimal transaction per animal through the composer CLI.

Genetic IDs start at StartGeneticId and increase by one per animal. Owner,
breed, location and weight are the same for every animal; override them with
flags, a YAML profile (--profile) or the settings file (create-animals config).

Negative counts create nothing.`,
	Example:       "  create-animals 10 1\n  create-animals 3 100 --breed Angus --dry-run",
	Args:          exactTwoArgs,
	SilenceUsage:  true, // Usage for a bad argument count is printed by main
	SilenceErrors: true, // We format errors ourselves for consistent output
	RunE:          runCreate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Settings file (default ~/.create-animals.conf)")
	pf.StringVar(&markerDir, "marker-dir", "", "Submission marker directory (default ~/.local/create-animals)")
	pf.StringVar(&logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	pf.BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; confirmations take their default")

	f := rootCmd.Flags()
	f.StringVarP(&profilePath, "profile", "p", "", "YAML attribute profile")
	f.StringVar(&card, "card", "", "Business network card used to submit")
	f.StringVar(&class, "class", "", "Transaction class placed in $class")
	f.StringVar(&owner, "owner", "", "Owner relationship, e.g. resource:org.acme.beef_network.Farmer#Fazendeiro_1")
	f.StringVar(&breed, "breed", "", "Breed of every animal")
	f.StringVar(&location, "location", "", "Location of every animal")
	f.StringVar(&weight, "weight", "", "Weight of every animal")
	f.StringVar(&timeout, "timeout", "", "Per-transaction timeout, e.g. 2m (0 disables)")
	f.BoolVarP(&dryRun, "dry-run", "n", false, "Print the composer commands without running them")
	f.BoolVar(&stopOnError, "stop-on-error", false, "Stop at the first failed transaction")
	f.BoolVar(&skipSubmitted, "skip-submitted", false, "Skip genetic IDs already recorded as submitted")
	f.BoolVar(&confirm, "confirm", false, "Ask before submitting")

	rootCmd.AddCommand(versionCmd)
}

// usageError marks a wrong positional argument count.
type usageError struct {
	got int
}

func (e *usageError) Error() string {
	return fmt.Sprintf("expected 2 arguments, got %d", e.got)
}

func exactTwoArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return &usageError{got: len(args)}
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "You must enter two arguments")
	fmt.Fprintln(w, "Usage: create-animals [NumberOfAnimalsToCreate] [StartGeneticId]")
	fmt.Fprintln(w, "Example: create-animals 10 1")
}

func newSeedContext(cmd *cobra.Command) (*cli.SeedContext, error) {
	ctx, err := cli.NewSeedContext(cli.Options{
		ConfigPath:     configPath,
		MarkerDir:      markerDir,
		LogLevel:       logLevel,
		NonInteractive: nonInteractive,
		Stderr:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize context: %w", err)
	}
	return ctx, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	count, err := common.ParseCount(args[0])
	if err != nil {
		return err
	}

	ctx, err := newSeedContext(cmd)
	if err != nil {
		return err
	}

	_, err = ctx.CreateAnimals(cmd.Context(), cli.RunRequest{
		Count:       count,
		StartID:     args[1],
		ProfilePath: profilePath,
		Card:        card,
		Class:       class,
		Attributes: animal.Attributes{
			Owner:    owner,
			Breed:    breed,
			Location: location,
			Weight:   weight,
		},
		Timeout:       timeout,
		DryRun:        dryRun,
		StopOnError:   stopOnError,
		SkipSubmitted: skipSubmitted,
		Confirm:       confirm,
		Stdout:        cmd.OutOrStdout(),
	})
	return err
}

var negativeNumber = regexp.MustCompile(`^-[0-9]+$`)

// escapeNegativeArgs lets negative integers through as positional arguments
// of the root command. When one is present, flags (with their values) are
// moved ahead of a "--" and the positionals follow in their original order.
// Subcommand invocations and argument lists that already hold "--" are
// returned unchanged.
func escapeNegativeArgs(cmd *cobra.Command, args []string) []string {
	var flags, positional []string
	negative := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return args
		case negativeNumber.MatchString(arg):
			negative = true
			positional = append(positional, arg)
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			flags = append(flags, arg)
			if !strings.Contains(arg, "=") && takesValue(cmd, arg) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	if !negative || isSubcommand(cmd, positional[0]) {
		return args
	}

	escaped := make([]string, 0, len(args)+1)
	escaped = append(escaped, flags...)
	escaped = append(escaped, "--")
	return append(escaped, positional...)
}

// takesValue reports whether the flag token needs the next argument as its value.
func takesValue(cmd *cobra.Command, token string) bool {
	var flag *pflag.Flag
	if name, ok := strings.CutPrefix(token, "--"); ok {
		flag = cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
	} else {
		// Combined shorthands: only the last one can take a value
		short := token[len(token)-1:]
		flag = cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			flag = cmd.PersistentFlags().ShorthandLookup(short)
		}
	}
	return flag != nil && flag.NoOptDefVal == ""
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range cmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// execute runs the command tree and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(escapeNegativeArgs(rootCmd, args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		printUsage(stdout)
		return usageExitCode
	}

	// Failed submissions were already listed by the run summary
	if seeder.IsFailed(err) {
		return 1
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func main() {
	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// Package cli wires configuration, markers, UI and logging into the objects
// the create-animals commands run against.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/zoro11031/beef-tracer/create-animals/internal/animal"
	"github.com/zoro11031/beef-tracer/create-animals/internal/common"
	"github.com/zoro11031/beef-tracer/create-animals/internal/composer"
	"github.com/zoro11031/beef-tracer/create-animals/internal/config"
	"github.com/zoro11031/beef-tracer/create-animals/internal/logging"
	"github.com/zoro11031/beef-tracer/create-animals/internal/seeder"
	"github.com/zoro11031/beef-tracer/create-animals/internal/system"
	"github.com/zoro11031/beef-tracer/create-animals/internal/ui"
)

// Options are the command-line inputs that shape a context. Empty strings
// leave the settings file (or its defaults) in charge.
type Options struct {
	ConfigPath     string
	MarkerDir      string
	LogLevel       string
	NonInteractive bool

	// Stderr receives status and diagnostic output (os.Stderr when nil).
	Stderr io.Writer
}

// SeedContext holds all dependencies needed by the commands
type SeedContext struct {
	Config  *config.Config
	Markers *config.Markers
	UI      *ui.UI
	Log     zerolog.Logger
}

// NewSeedContext creates a SeedContext with all dependencies initialized
func NewSeedContext(opts Options) (*SeedContext, error) {
	cfg := config.New(opts.ConfigPath)
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	uiInstance := ui.NewWithWriter(stderr)
	uiInstance.SetNonInteractive(opts.NonInteractive)

	level := opts.LogLevel
	if level == "" {
		level = cfg.GetOrDefault(config.KeyLogLevel, "error")
	}

	return &SeedContext{
		Config:  cfg,
		Markers: config.NewMarkers(opts.MarkerDir),
		UI:      uiInstance,
		Log:     logging.NewLogger(level, stderr),
	}, nil
}

// RunRequest describes one create-animals invocation.
type RunRequest struct {
	Count   int
	StartID string

	// Overrides, applied on top of the settings file and profile
	ProfilePath string
	Card        string
	Class       string
	Attributes  animal.Attributes
	Timeout     string

	DryRun        bool
	StopOnError   bool
	SkipSubmitted bool
	Confirm       bool

	// Runner replaces the exec-based runner when set.
	Runner system.CommandRunner
	Stdout io.Writer
}

// Plan is a resolved run: everything needed to build the generator.
type Plan struct {
	Client     *composer.Client
	Attributes animal.Attributes
	Options    seeder.Options
}

// Resolve merges defaults, settings file, profile and flags into a Plan.
func (c *SeedContext) Resolve(req RunRequest) (*Plan, error) {
	attrs := c.Config.Attributes()
	card := c.Config.GetOrDefault(config.KeyCard, composer.DefaultCard)

	if req.ProfilePath != "" {
		profile, err := config.LoadProfile(req.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		attrs = attrs.Merge(profile.Attributes)
		if profile.Card != "" {
			card = profile.Card
		}
	}

	attrs = attrs.Merge(req.Attributes)
	if req.Card != "" {
		card = req.Card
	}

	class := c.Config.GetOrDefault(config.KeyClass, animal.DefaultClass)
	if req.Class != "" {
		class = req.Class
	}

	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if err := common.ValidateOwner(attrs.Owner); err != nil {
		return nil, err
	}
	if err := common.ValidateCard(card); err != nil {
		return nil, err
	}
	if err := common.ValidateClass(class); err != nil {
		return nil, err
	}

	runner := req.Runner
	if runner == nil {
		timeout, err := c.Config.Timeout()
		if err != nil {
			return nil, err
		}
		if req.Timeout != "" {
			timeout, err = time.ParseDuration(req.Timeout)
			if err != nil || timeout < 0 {
				return nil, fmt.Errorf("invalid timeout %q: want a duration such as 30s, or 0", req.Timeout)
			}
		}
		runner = system.NewCommandRunner(timeout)
	}

	client, err := composer.NewClient(runner, c.Config.GetOrDefault(config.KeySubmitCommand, composer.DefaultSubmitCommand), card)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Client:     client,
		Attributes: attrs,
		Options: seeder.Options{
			Class:         class,
			DryRun:        req.DryRun,
			StopOnError:   req.StopOnError,
			SkipSubmitted: req.SkipSubmitted,
		},
	}, nil
}

// CreateAnimals resolves req and runs the generator. Progress and composer
// output go to req.Stdout (os.Stdout when nil); status goes through the UI.
func (c *SeedContext) CreateAnimals(ctx context.Context, req RunRequest) (*seeder.Summary, error) {
	// Reject a bad start ID before touching profiles or prompting
	if _, err := animal.ParseGeneticID(req.StartID); err != nil {
		return nil, err
	}

	plan, err := c.Resolve(req)
	if err != nil {
		return nil, err
	}

	if req.Count > 0 && !plan.Options.DryRun && req.Runner == nil && !system.CommandExists(plan.Client.Binary()) {
		c.UI.Warningf("%s not found in PATH; every submission will fail", plan.Client.Binary())
	}

	if req.Confirm && req.Count > 0 {
		ok, err := c.UI.PromptYesNo(fmt.Sprintf("Submit %d createAnimal transaction(s) starting at genetic ID %s with card %s?",
			req.Count, req.StartID, plan.Client.Card()), false)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.UI.Info("Cancelled, nothing submitted")
			return &seeder.Summary{}, nil
		}
	}

	stdout := req.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	gen := seeder.NewGenerator(plan.Client, plan.Attributes, c.Markers, stdout, c.Log, plan.Options)
	summary, err := gen.Run(ctx, req.Count, req.StartID)
	if summary != nil && summary.Requested > 0 {
		c.report(summary, plan.Options.DryRun)
	}
	return summary, err
}

func (c *SeedContext) report(s *seeder.Summary, dryRun bool) {
	switch {
	case dryRun:
		c.UI.Infof("Dry run: %d command(s) printed, nothing submitted", s.Submitted)
	case len(s.Failed) == 0 && s.Submitted > 0 && s.Skipped == 0:
		c.UI.Successf("%d animal(s) created (genetic IDs %d-%d)", s.Submitted, s.StartID, s.NextID-1)
	case len(s.Failed) == 0:
		c.UI.Successf("%d animal(s) created", s.Submitted)
	default:
		c.UI.Warningf("%d of %d transaction(s) failed", len(s.Failed), s.Requested)
		for _, f := range s.Failed {
			c.UI.Errorf("genetic ID %s: exit status %d", f.GeneticID, f.Result.ExitCode)
		}
	}
	if s.Skipped > 0 {
		c.UI.Infof("%d genetic ID(s) skipped as already submitted", s.Skipped)
	}
}

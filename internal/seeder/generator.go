// Package seeder submits a run of synthetic animals with consecutive genetic
// IDs to the beef-tracer network.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zoro11031/beef-tracer/create-animals/internal/animal"
	"github.com/zoro11031/beef-tracer/create-animals/internal/composer"
	"github.com/zoro11031/beef-tracer/create-animals/internal/config"
	"github.com/zoro11031/beef-tracer/create-animals/internal/system"
)

// Options tune a run.
type Options struct {
	// Class is the transaction type placed in the payload's $class field.
	Class string
	// DryRun prints each command instead of executing it.
	DryRun bool
	// StopOnError ends the run at the first failed submission.
	StopOnError bool
	// SkipSubmitted skips IDs that already carry a submission marker.
	SkipSubmitted bool
}

// Failure describes one submission that did not succeed.
type Failure struct {
	GeneticID string
	Result    system.Result
	Err       error
}

// Summary reports what a run did.
type Summary struct {
	RunID     string
	Requested int
	Submitted int
	Skipped   int
	StartID   int64
	NextID    int64
	Failed    []Failure
}

// FailedError is returned by Run when one or more submissions failed.
type FailedError struct {
	Failures []Failure
}

func (e *FailedError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.GeneticID
	}
	return fmt.Sprintf("%d transaction(s) failed (genetic IDs: %s)", len(e.Failures), strings.Join(ids, ", "))
}

// Generator creates animals one at a time through a composer client.
type Generator struct {
	client  *composer.Client
	attrs   animal.Attributes
	markers *config.Markers
	out     io.Writer
	log     zerolog.Logger
	opts    Options
}

// NewGenerator wires a Generator. markers may be nil, in which case nothing
// is recorded and SkipSubmitted has no effect.
func NewGenerator(client *composer.Client, attrs animal.Attributes, markers *config.Markers, out io.Writer, log zerolog.Logger, opts Options) *Generator {
	if opts.Class == "" {
		opts.Class = animal.DefaultClass
	}
	return &Generator{
		client:  client,
		attrs:   attrs,
		markers: markers,
		out:     out,
		log:     log,
		opts:    opts,
	}
}

// Run creates count animals with genetic IDs start, start+1, ... in order.
// The start ID is validated before anything is submitted; count <= 0 does
// nothing. Failed submissions do not stop the run unless StopOnError is set;
// they are collected and returned as a *FailedError.
func (g *Generator) Run(ctx context.Context, count int, start string) (*Summary, error) {
	id, err := animal.ParseGeneticID(start)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Requested: max(count, 0),
		StartID:   id,
		NextID:    id,
	}
	log := g.log.With().Str("run_id", summary.RunID).Logger()
	log.Info().
		Int("count", count).
		Int64("start_id", id).
		Str("card", g.client.Card()).
		Bool("dry_run", g.opts.DryRun).
		Msg("run started")

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run interrupted before transaction %d: %w", i+1, err)
		}

		rec := animal.NewRecord(summary.NextID, g.attrs)
		tx := g.client.Transaction(rec.Payload(g.opts.Class))

		fmt.Fprintf(g.out, "Running transaction %d...\n", i+1)

		if err := g.submit(ctx, log, rec, tx, summary); err != nil {
			return summary, err
		}
		summary.NextID++
	}

	log.Info().
		Int("submitted", summary.Submitted).
		Int("skipped", summary.Skipped).
		Int("failed", len(summary.Failed)).
		Msg("run finished")

	if len(summary.Failed) > 0 {
		return summary, &FailedError{Failures: summary.Failed}
	}
	return summary, nil
}

// submit handles one record. A non-nil return ends the run.
func (g *Generator) submit(ctx context.Context, log zerolog.Logger, rec animal.Record, tx composer.Transaction, summary *Summary) error {
	entry := log.With().Str("genetic_id", rec.GeneticID).Logger()

	if g.opts.SkipSubmitted && g.markers != nil {
		done, err := g.markers.IsSubmitted(rec.GeneticID)
		if err != nil {
			return fmt.Errorf("failed to check marker for genetic ID %s: %w", rec.GeneticID, err)
		}
		if done {
			entry.Info().Msg("already submitted, skipping")
			fmt.Fprintf(g.out, "Genetic ID %s already submitted, skipping\n", rec.GeneticID)
			summary.Skipped++
			return nil
		}
	}

	if g.opts.DryRun {
		fmt.Fprintln(g.out, tx.String())
		summary.Submitted++
		return nil
	}

	entry.Debug().Strs("argv", tx.Args()).Msg("submitting")
	res, err := g.client.Submit(ctx, tx)
	fmt.Fprintln(g.out, res.Output)

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("run interrupted during genetic ID %s: %w", rec.GeneticID, err)
		}
		entry.Warn().Err(err).Int("exit_code", res.ExitCode).Msg("transaction failed")
		summary.Failed = append(summary.Failed, Failure{GeneticID: rec.GeneticID, Result: res, Err: err})
		if g.opts.StopOnError {
			return &FailedError{Failures: summary.Failed}
		}
		return nil
	}

	entry.Info().Dur("duration", res.Duration).Msg("transaction submitted")
	summary.Submitted++

	if g.markers != nil {
		if err := g.markers.MarkSubmitted(rec.GeneticID, g.client.Card()); err != nil {
			entry.Error().Err(err).Msg("failed to record submission marker")
		}
	}
	return nil
}

// IsFailed reports whether err carries failed submissions.
func IsFailed(err error) bool {
	var failed *FailedError
	return errors.As(err, &failed)
}

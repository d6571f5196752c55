// Package sweep drives the full seeds × error classes × error counts grid,
// one baseline and one fault-injected run per cell, and accumulates one
// trial record per cell.
package sweep

import (
	"context"
	"io"
	"log/slog"

	"github.com/nvandessel/faultbench/internal/command"
	"github.com/nvandessel/faultbench/internal/logging"
	"github.com/nvandessel/faultbench/internal/ranking"
	"github.com/nvandessel/faultbench/internal/results"
	"github.com/nvandessel/faultbench/internal/runner"
)

// Controller executes sweeps. Trials run strictly sequentially: the next
// subprocess never starts before the previous one finished, and no record is
// emitted before its run completes.
type Controller struct {
	executor  runner.Executor
	builder   command.Builder
	tolerance float64
	logger    *slog.Logger
	trace     *logging.TraceLogger
}

// Options tunes a Controller beyond its required collaborators.
type Options struct {
	// Tolerance is the absolute score tolerance for baseline comparison.
	// Zero means ranking.DefaultTolerance.
	Tolerance float64

	// Logger receives per-run diagnostics. Nil discards them.
	Logger *slog.Logger

	// Trace, when non-nil, records one JSONL event per subprocess run.
	Trace *logging.TraceLogger
}

// New creates a sweep controller.
func New(executor runner.Executor, builder command.Builder, opts Options) *Controller {
	tolerance := opts.Tolerance
	if tolerance == 0 {
		tolerance = ranking.DefaultTolerance
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		executor:  executor,
		builder:   builder,
		tolerance: tolerance,
		logger:    logger,
		trace:     opts.Trace,
	}
}

// Run executes the full grid and returns the finalized result set.
//
// For each seed, exactly one baseline run is obtained first; a seed without a
// valid baseline is skipped entirely and contributes zero records. For each
// remaining seed the controller iterates error class (pointer, non-pointer)
// and then error count, producing one TrialRecord per cell. A failed trial
// degrades into a record with Completed=false; it never aborts the sweep.
func (c *Controller) Run(ctx context.Context, seeds []int, errorCounts []int) *results.ResultSet {
	rs := results.New()

	for _, seed := range seeds {
		c.logger.Info("getting baseline", "seed", seed)
		baseline, ok := c.baseline(ctx, seed)
		if !ok {
			c.logger.Warn("no valid baseline, skipping seed", "seed", seed)
			continue
		}

		for _, class := range command.Classes() {
			for _, count := range errorCounts {
				c.logger.Info("running trial", "seed", seed, "error_count", count, "error_type", string(class))
				rs.Append(c.trial(ctx, seed, baseline, class, count))
			}
		}
	}

	return rs
}

// baseline obtains the uncorrupted ranking for a seed.
func (c *Controller) baseline(ctx context.Context, seed int) (ranking.Ranking, bool) {
	argv := c.builder.Baseline(seed)
	out := c.executor.Execute(ctx, argv)
	c.traceRun("baseline", seed, argv, out)

	if !out.Usable() {
		c.logRunFailure("baseline run unusable", seed, out)
		return nil, false
	}

	rk, err := ranking.Parse(*out.Stdout)
	if err != nil {
		c.logger.Warn("baseline output unparseable", "seed", seed, "err", err)
		return nil, false
	}
	return rk, true
}

// trial runs one fault-injected cell and scores it against the baseline.
func (c *Controller) trial(ctx context.Context, seed int, baseline ranking.Ranking, class command.ErrorClass, count int) results.TrialRecord {
	rec := results.TrialRecord{
		Seed:       seed,
		ErrorCount: count,
		ErrorClass: string(class),
	}

	argv := c.builder.FaultInjected(seed, command.InjectionSpec{Class: class, ErrorLimit: count})
	out := c.executor.Execute(ctx, argv)
	c.traceRun("trial", seed, argv, out)

	if !out.Usable() {
		c.logRunFailure("trial run unusable", seed, out)
		return rec
	}

	rk, err := ranking.Parse(*out.Stdout)
	if err != nil {
		c.logger.Debug("trial output unparseable", "seed", seed, "error_count", count, "err", err)
		return rec
	}

	rec.Completed = true
	rec.Success = ranking.Equivalent(baseline, rk, c.tolerance)
	return rec
}

func (c *Controller) logRunFailure(msg string, seed int, out runner.Outcome) {
	attrs := []any{"seed", seed, "timed_out", out.TimedOut}
	if out.ExitCode != nil {
		attrs = append(attrs, "exit_code", *out.ExitCode)
	}
	if out.Stderr != "" {
		attrs = append(attrs, "stderr", out.Stderr)
	}
	c.logger.Warn(msg, attrs...)
}

func (c *Controller) traceRun(kind string, seed int, argv []string, out runner.Outcome) {
	event := map[string]any{
		"event":       kind,
		"seed":        seed,
		"argv":        argv,
		"timed_out":   out.TimedOut,
		"usable":      out.Usable(),
		"duration_ms": out.Duration.Milliseconds(),
	}
	if out.ExitCode != nil {
		event["exit_code"] = *out.ExitCode
	}
	c.trace.Log(event)
}

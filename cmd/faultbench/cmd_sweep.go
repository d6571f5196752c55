package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/nvandessel/faultbench/internal/command"
	"github.com/nvandessel/faultbench/internal/config"
	"github.com/nvandessel/faultbench/internal/logging"
	"github.com/nvandessel/faultbench/internal/results"
	"github.com/nvandessel/faultbench/internal/runner"
	"github.com/nvandessel/faultbench/internal/sweep"
	"github.com/nvandessel/faultbench/internal/visualization"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the full fault-injection sweep",
		Long: `Run the target across the seeds x error classes x error counts grid.

Each seed first gets one uncorrupted baseline run. Every other cell runs the
target under the fault-injection supervisor with the configured error rate
and the cell's error limit, and its ranking is compared against the seed's
baseline. Results are written as CSV, optionally stored in SQLite, and
rendered as comparison and distribution charts.

Example:
  faultbench sweep --seeds 0,1,2 --error-counts 1,5,10 --target ./pagerank`,
		RunE: runSweep,
	}

	cmd.Flags().IntSlice("seeds", []int{0, 1, 2, 3, 4}, "Graph seeds to sweep")
	cmd.Flags().IntSlice("error-counts", []int{1, 2, 5, 10, 20, 50, 100}, "Injected error counts to sweep")
	cmd.Flags().String("output", "error", "Base name for result and chart files")
	cmd.Flags().String("dir", ".", "Directory for result and chart files")
	cmd.Flags().String("target", "", "Target binary (overrides config)")
	cmd.Flags().String("monitor", "", "Fault-injection supervisor binary (overrides config)")
	cmd.Flags().Duration("timeout", 0, "Per-run timeout (overrides config)")
	cmd.Flags().Float64("error-rate", 0, "Injection rate for the active error class (overrides config)")
	cmd.Flags().String("db", "", "SQLite database to also record the run in")
	cmd.Flags().Bool("no-plots", false, "Skip chart rendering")
	cmd.Flags().String("log-level", "", "Log level: info, debug, or trace (overrides config)")

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applySweepOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	trace := logging.NewTraceLogger(dir, cfg.Logging.Level)
	defer trace.Close()

	seeds, _ := cmd.Flags().GetIntSlice("seeds")
	counts, _ := cmd.Flags().GetIntSlice("error-counts")
	base, _ := cmd.Flags().GetString("output")

	builder := command.Builder{
		Target:     cfg.Binaries.Target,
		Supervisor: cfg.Binaries.Supervisor,
		ErrorRate:  cfg.Injection.ErrorRate,
	}
	exec := runner.NewProcessRunner(cfg.Injection.Timeout, logger)
	ctrl := sweep.New(exec, builder, sweep.Options{
		Tolerance: cfg.Injection.Tolerance,
		Logger:    logger,
		Trace:     trace,
	})

	logger.Info("starting sweep",
		"target", cfg.Binaries.Target,
		"supervisor", cfg.Binaries.Supervisor,
		"seeds", seeds,
		"error_counts", counts,
		"error_rate", cfg.Injection.ErrorRate)

	start := time.Now()
	rs := ctrl.Run(cmd.Context(), seeds, counts)
	if len(rs.Records) == 0 {
		return fmt.Errorf("no trial produced a record: check that %q runs and prints a ranking", cfg.Binaries.Target)
	}
	logger.Info("sweep finished", "trials", len(rs.Records), "elapsed", time.Since(start).Round(time.Millisecond))

	ts := rs.Timestamp()
	csvPath, err := results.ExportCSV(dir, base, ts, rs)
	if err != nil {
		return err
	}
	logger.Info("results written", "path", csvPath)

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		store, err := results.OpenResultStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		runID, err := store.SaveRun(cmd.Context(), rs)
		if err != nil {
			return err
		}
		logger.Info("run stored", "db", dbPath, "run_id", runID)
	}

	agg := results.Aggregate(rs)

	var charts []string
	if noPlots, _ := cmd.Flags().GetBool("no-plots"); !noPlots {
		charts, err = renderCharts(agg, rs, dir, base, ts)
		if err != nil {
			return err
		}
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	return printSummary(cmd.OutOrStdout(), jsonOut, agg, csvPath, charts)
}

// applySweepOverrides copies explicitly set sweep flags over the loaded
// configuration. Flags left at their defaults do not touch the config.
func applySweepOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("target") {
		cfg.Binaries.Target, _ = cmd.Flags().GetString("target")
	}
	if cmd.Flags().Changed("monitor") {
		cfg.Binaries.Supervisor, _ = cmd.Flags().GetString("monitor")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Injection.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("error-rate") {
		cfg.Injection.ErrorRate, _ = cmd.Flags().GetFloat64("error-rate")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
}

// renderCharts writes the comparison and distribution charts next to the
// results file and returns their paths.
func renderCharts(agg []results.GroupRate, rs *results.ResultSet, dir, base, ts string) ([]string, error) {
	comparison := filepath.Join(dir, fmt.Sprintf("%s_comparison_%s.png", base, ts))
	if err := visualization.RenderComparison(agg, comparison); err != nil {
		return nil, err
	}

	distribution := filepath.Join(dir, fmt.Sprintf("%s_distribution_%s.png", base, ts))
	if err := visualization.RenderDistribution(rs, distribution); err != nil {
		return nil, err
	}

	return []string{comparison, distribution}, nil
}

type summaryGroup struct {
	ErrorClass     string  `json:"error_type"`
	ErrorCount     int     `json:"error_count"`
	Trials         int     `json:"trials"`
	SuccessRate    float64 `json:"success_rate"`
	CompletionRate float64 `json:"completion_rate"`
}

func printSummary(w io.Writer, jsonOut bool, agg []results.GroupRate, source string, charts []string) error {
	if jsonOut {
		groups := make([]summaryGroup, len(agg))
		for i, g := range agg {
			groups[i] = summaryGroup{
				ErrorClass:     g.ErrorClass,
				ErrorCount:     g.ErrorCount,
				Trials:         g.Trials,
				SuccessRate:    g.SuccessRate,
				CompletionRate: g.CompletionRate,
			}
		}
		payload := map[string]any{
			"source": source,
			"groups": groups,
		}
		if len(charts) > 0 {
			payload["charts"] = charts
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	fmt.Fprintln(w, "Sweep Summary")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ERROR TYPE\tERRORS\tTRIALS\tSUCCESS\tCOMPLETED")
	for _, g := range agg {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\t%.1f%%\n",
			g.ErrorClass, g.ErrorCount, g.Trials, g.SuccessRate*100, g.CompletionRate*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nResults: %s\n", source)
	for _, chart := range charts {
		fmt.Fprintf(w, "Chart: %s\n", chart)
	}
	return nil
}

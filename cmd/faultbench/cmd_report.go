package main

import (
	"fmt"
	"os"

	"github.com/nvandessel/faultbench/internal/results"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-aggregate and re-plot a stored run",
		Long: `Summarize a previously recorded sweep without re-running any trials.

The run is loaded either from a results CSV or from a run stored in a
SQLite database. Aggregated rates are printed and, unless --no-plots is
given, fresh charts are rendered from the stored trial records.

Example:
  faultbench report --csv error_results_20250101_120000.csv
  faultbench report --db runs.db --run 3`,
		RunE: runReport,
	}

	cmd.Flags().String("csv", "", "Results CSV to report on")
	cmd.Flags().String("db", "", "SQLite database holding stored runs")
	cmd.Flags().Int64("run", 0, "Run id within --db (default: latest)")
	cmd.Flags().String("output", "error", "Base name for chart files")
	cmd.Flags().String("dir", ".", "Directory for chart files")
	cmd.Flags().Bool("no-plots", false, "Skip chart rendering")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	csvPath, _ := cmd.Flags().GetString("csv")
	dbPath, _ := cmd.Flags().GetString("db")

	rs, source, err := loadReportSet(cmd, csvPath, dbPath)
	if err != nil {
		return err
	}
	if len(rs.Records) == 0 {
		return fmt.Errorf("%s contains no trial records", source)
	}

	agg := results.Aggregate(rs)

	var charts []string
	if noPlots, _ := cmd.Flags().GetBool("no-plots"); !noPlots {
		dir, _ := cmd.Flags().GetString("dir")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		base, _ := cmd.Flags().GetString("output")
		charts, err = renderCharts(agg, rs, dir, base, rs.Timestamp())
		if err != nil {
			return err
		}
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	return printSummary(cmd.OutOrStdout(), jsonOut, agg, source, charts)
}

// loadReportSet loads the trial records named by exactly one of --csv and
// --db. For --db without an explicit --run the newest stored run is used.
func loadReportSet(cmd *cobra.Command, csvPath, dbPath string) (*results.ResultSet, string, error) {
	switch {
	case csvPath != "" && dbPath != "":
		return nil, "", fmt.Errorf("--csv and --db are mutually exclusive")
	case csvPath == "" && dbPath == "":
		return nil, "", fmt.Errorf("one of --csv or --db is required")
	case csvPath != "":
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, "", fmt.Errorf("opening results file: %w", err)
		}
		defer f.Close()

		rs, err := results.ReadCSV(f)
		if err != nil {
			return nil, "", fmt.Errorf("parsing %s: %w", csvPath, err)
		}
		return rs, csvPath, nil
	default:
		store, err := results.OpenResultStore(dbPath)
		if err != nil {
			return nil, "", err
		}
		defer store.Close()

		runID, _ := cmd.Flags().GetInt64("run")
		if runID == 0 {
			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return nil, "", err
			}
			if len(runs) == 0 {
				return nil, "", fmt.Errorf("%s contains no stored runs", dbPath)
			}
			runID = runs[0].ID
		}

		rs, err := store.LoadRun(cmd.Context(), runID)
		if err != nil {
			return nil, "", err
		}
		return rs, fmt.Sprintf("%s (run %d)", dbPath, runID), nil
	}
}

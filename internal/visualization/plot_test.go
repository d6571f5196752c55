package visualization

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvandessel/faultbench/internal/results"
)

func sampleAggregate() []results.GroupRate {
	return []results.GroupRate{
		{ErrorClass: "non-pointer", ErrorCount: 1, Trials: 5, SuccessRate: 1.0, CompletionRate: 1.0},
		{ErrorClass: "non-pointer", ErrorCount: 10, Trials: 5, SuccessRate: 0.6, CompletionRate: 0.8},
		{ErrorClass: "pointer", ErrorCount: 1, Trials: 5, SuccessRate: 0.8, CompletionRate: 1.0},
		{ErrorClass: "pointer", ErrorCount: 10, Trials: 5, SuccessRate: 0.2, CompletionRate: 0.4},
	}
}

func sampleResults() *results.ResultSet {
	rs := &results.ResultSet{CreatedAt: time.Now()}
	for seed := 0; seed < 3; seed++ {
		for _, count := range []int{1, 10} {
			rs.Append(results.TrialRecord{
				Seed: seed, ErrorCount: count, ErrorClass: "pointer",
				Success: count == 1, Completed: true,
			})
			rs.Append(results.TrialRecord{
				Seed: seed, ErrorCount: count, ErrorClass: "non-pointer",
				Success: true, Completed: true,
			})
		}
	}
	return rs
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("chart file %s is empty", path)
	}
}

func TestRenderComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.png")
	if err := RenderComparison(sampleAggregate(), path); err != nil {
		t.Fatalf("RenderComparison() error = %v", err)
	}
	assertPNG(t, path)
}

func TestRenderComparison_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.png")
	if err := RenderComparison(nil, path); err == nil {
		t.Error("expected error for empty aggregate")
	}
}

func TestRenderDistribution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distribution.png")
	if err := RenderDistribution(sampleResults(), path); err != nil {
		t.Fatalf("RenderDistribution() error = %v", err)
	}
	assertPNG(t, path)
}

func TestRenderDistribution_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distribution.png")
	if err := RenderDistribution(&results.ResultSet{}, path); err == nil {
		t.Error("expected error for empty result set")
	}
	if err := RenderDistribution(nil, path); err == nil {
		t.Error("expected error for nil result set")
	}
}

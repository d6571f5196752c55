package sweep

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nvandessel/faultbench/internal/command"
	"github.com/nvandessel/faultbench/internal/runner"
)

// fakeExecutor maps a joined argv to a canned outcome. Unmapped argvs time
// out, matching the harness's worst case.
type fakeExecutor struct {
	outcomes map[string]runner.Outcome
	calls    []string
}

func (f *fakeExecutor) Execute(ctx context.Context, argv []string) runner.Outcome {
	key := strings.Join(argv, " ")
	f.calls = append(f.calls, key)
	if out, ok := f.outcomes[key]; ok {
		return out
	}
	return runner.Outcome{TimedOut: true}
}

func okOutcome(stdout string) runner.Outcome {
	code := 0
	return runner.Outcome{Stdout: &stdout, ExitCode: &code}
}

func rankingOutput(scores ...float64) string {
	var b strings.Builder
	b.WriteString("Top 10 pages:\n")
	for i, s := range scores {
		fmt.Fprintf(&b, "Page %d: %.6f\n", i+1, s)
	}
	return b.String()
}

func testBuilder() command.Builder {
	return command.Builder{Target: "pagerank", Supervisor: "monitor", ErrorRate: 0.001}
}

// mapAll registers the same outcome for every fault-injected cell of a seed.
func mapAll(f *fakeExecutor, b command.Builder, seed int, counts []int, out runner.Outcome) {
	for _, class := range command.Classes() {
		for _, count := range counts {
			argv := b.FaultInjected(seed, command.InjectionSpec{Class: class, ErrorLimit: count})
			f.outcomes[strings.Join(argv, " ")] = out
		}
	}
}

func TestRun_FullGrid(t *testing.T) {
	b := testBuilder()
	counts := []int{1, 5}
	f := &fakeExecutor{outcomes: map[string]runner.Outcome{}}

	baseline := rankingOutput(0.5, 0.3)
	f.outcomes[strings.Join(b.Baseline(0), " ")] = okOutcome(baseline)
	mapAll(f, b, 0, counts, okOutcome(baseline))

	ctrl := New(f, b, Options{})
	rs := ctrl.Run(context.Background(), []int{0}, counts)

	// 1 seed × 2 classes × 2 counts
	if len(rs.Records) != 4 {
		t.Fatalf("got %d records, want 4", len(rs.Records))
	}
	for _, rec := range rs.Records {
		if !rec.Completed || !rec.Success {
			t.Errorf("record %+v: identical output should be completed and successful", rec)
		}
	}
}

func TestRun_SkipsSeedWithoutBaseline(t *testing.T) {
	b := testBuilder()
	counts := []int{1, 2}
	f := &fakeExecutor{outcomes: map[string]runner.Outcome{}}

	// Seed 0's baseline times out (unmapped); seed 1 works.
	baseline := rankingOutput(0.9, 0.1)
	f.outcomes[strings.Join(b.Baseline(1), " ")] = okOutcome(baseline)
	mapAll(f, b, 1, counts, okOutcome(baseline))

	ctrl := New(f, b, Options{})
	rs := ctrl.Run(context.Background(), []int{0, 1}, counts)

	for _, rec := range rs.Records {
		if rec.Seed == 0 {
			t.Errorf("seed without baseline must contribute zero records, got %+v", rec)
		}
	}
	if len(rs.Records) != 4 {
		t.Fatalf("got %d records, want 4 from the surviving seed", len(rs.Records))
	}

	// The skipped seed must not trigger any fault-injected runs.
	for _, call := range f.calls {
		if strings.HasPrefix(call, "monitor") && strings.HasSuffix(call, "pagerank 0") {
			t.Errorf("unexpected fault-injected run for skipped seed: %s", call)
		}
	}
}

func TestRun_TimedOutTrialsAreIncomplete(t *testing.T) {
	b := testBuilder()
	counts := []int{1, 2, 5}
	f := &fakeExecutor{outcomes: map[string]runner.Outcome{}}

	// Baseline succeeds; every fault-injected run times out (unmapped).
	f.outcomes[strings.Join(b.Baseline(0), " ")] = okOutcome(rankingOutput(0.5))

	ctrl := New(f, b, Options{})
	rs := ctrl.Run(context.Background(), []int{0}, counts)

	if len(rs.Records) != 6 {
		t.Fatalf("got %d records, want 6", len(rs.Records))
	}
	for _, rec := range rs.Records {
		if rec.Completed || rec.Success {
			t.Errorf("timed-out trial must be completed=false success=false, got %+v", rec)
		}
	}
}

func TestRun_CompletedButNotSuccessful(t *testing.T) {
	b := testBuilder()
	counts := []int{10}
	f := &fakeExecutor{outcomes: map[string]runner.Outcome{}}

	f.outcomes[strings.Join(b.Baseline(2), " ")] = okOutcome(rankingOutput(0.5, 0.3))
	// Corrupted run produces a parseable but different ranking.
	mapAll(f, b, 2, counts, okOutcome(rankingOutput(0.5, 0.4)))

	ctrl := New(f, b, Options{})
	rs := ctrl.Run(context.Background(), []int{2}, counts)

	if len(rs.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(rs.Records))
	}
	for _, rec := range rs.Records {
		if !rec.Completed {
			t.Errorf("parseable output means completed, got %+v", rec)
		}
		if rec.Success {
			t.Errorf("diverged ranking must not be successful, got %+v", rec)
		}
	}
}

func TestRun_PerturbationWithinTolerance(t *testing.T) {
	b := testBuilder()
	counts := []int{1}
	f := &fakeExecutor{outcomes: map[string]runner.Outcome{}}

	f.outcomes[strings.Join(b.Baseline(0), " ")] = okOutcome("Top 10 pages:\nPage 1: 0.500000\n")
	mapAll(f, b, 0, counts, okOutcome("Top 10 pages:\nPage 1: 0.5000001\n"))

	ctrl := New(f, b, Options{Tolerance: 1e-6})
	rs := ctrl.Run(context.Background(), []int{0}, counts)

	for _, rec := range rs.Records {
		if !rec.Success {
			t.Errorf("perturbation within tolerance should count as success, got %+v", rec)
		}
	}
}

func TestRun_UnparseableTrialOutput(t *testing.T) {
	b := testBuilder()
	counts := []int{1}
	f := &fakeExecutor{outcomes: map[string]runner.Outcome{}}

	f.outcomes[strings.Join(b.Baseline(0), " ")] = okOutcome(rankingOutput(0.5))
	// Corruption scrambled the report before the marker could be printed.
	mapAll(f, b, 0, counts, okOutcome("garbage with no marker\n"))

	ctrl := New(f, b, Options{})
	rs := ctrl.Run(context.Background(), []int{0}, counts)

	for _, rec := range rs.Records {
		if rec.Completed {
			t.Errorf("unparseable output must not count as completed, got %+v", rec)
		}
	}
}

func TestRun_SuccessImpliesCompleted(t *testing.T) {
	b := testBuilder()
	counts := []int{1, 2, 5, 10}
	f := &fakeExecutor{outcomes: map[string]runner.Outcome{}}

	baseline := rankingOutput(0.5, 0.3, 0.1)
	f.outcomes[strings.Join(b.Baseline(0), " ")] = okOutcome(baseline)
	mapAll(f, b, 0, []int{1, 2}, okOutcome(baseline))
	// counts 5 and 10 stay unmapped and time out.

	ctrl := New(f, b, Options{})
	rs := ctrl.Run(context.Background(), []int{0}, counts)

	for _, rec := range rs.Records {
		if rec.Success && !rec.Completed {
			t.Errorf("success without completion violates the record invariant: %+v", rec)
		}
	}
}

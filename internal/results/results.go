// Package results accumulates trial records, aggregates per-configuration
// rates, and persists the flat results table as CSV or SQLite.
package results

import (
	"sort"
	"time"
)

// TrialRecord is the immutable outcome of one fault-injected trial.
// Completed means the corrupted run produced a parseable ranking at all;
// Success means that ranking matched the seed's baseline within tolerance.
// Success implies Completed.
type TrialRecord struct {
	Seed       int
	ErrorCount int
	ErrorClass string
	Success    bool
	Completed  bool
}

// ResultSet is the ordered, append-only collection of trial records for one
// sweep. It is finalized once and never mutated afterwards.
type ResultSet struct {
	CreatedAt time.Time
	Records   []TrialRecord
}

// New creates an empty ResultSet stamped with the current time.
func New() *ResultSet {
	return &ResultSet{CreatedAt: time.Now()}
}

// Append adds one record. Records are only ever appended, never rewritten.
func (rs *ResultSet) Append(rec TrialRecord) {
	rs.Records = append(rs.Records, rec)
}

// Timestamp returns the creation time in the artifact-name format
// YYYYMMDD_HHMMSS.
func (rs *ResultSet) Timestamp() string {
	return rs.CreatedAt.Format("20060102_150405")
}

// GroupRate is the aggregated outcome for one (error class, error count)
// cell: the fraction of trials that succeeded and the fraction that
// completed.
type GroupRate struct {
	ErrorClass     string
	ErrorCount     int
	Trials         int
	SuccessRate    float64
	CompletionRate float64
}

// Aggregate folds the result set into per-(class, count) rates. The output
// order is deterministic (sorted by class, then count) and independent of
// the order records were appended in.
func Aggregate(rs *ResultSet) []GroupRate {
	type key struct {
		class string
		count int
	}
	type tally struct {
		trials    int
		success   int
		completed int
	}

	tallies := make(map[key]*tally)
	for _, rec := range rs.Records {
		k := key{rec.ErrorClass, rec.ErrorCount}
		t := tallies[k]
		if t == nil {
			t = &tally{}
			tallies[k] = t
		}
		t.trials++
		if rec.Success {
			t.success++
		}
		if rec.Completed {
			t.completed++
		}
	}

	keys := make([]key, 0, len(tallies))
	for k := range tallies {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].class != keys[j].class {
			return keys[i].class < keys[j].class
		}
		return keys[i].count < keys[j].count
	})

	groups := make([]GroupRate, 0, len(keys))
	for _, k := range keys {
		t := tallies[k]
		groups = append(groups, GroupRate{
			ErrorClass:     k.class,
			ErrorCount:     k.count,
			Trials:         t.trials,
			SuccessRate:    float64(t.success) / float64(t.trials),
			CompletionRate: float64(t.completed) / float64(t.trials),
		})
	}
	return groups
}

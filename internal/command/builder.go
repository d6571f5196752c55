// Package command constructs the argument vectors used to invoke the target
// ranking program, either directly or under the fault-injection supervisor.
package command

import "strconv"

// ErrorClass selects which category of target-process values the supervisor
// corrupts during a fault-injected run.
type ErrorClass string

const (
	// ClassPointer corrupts pointer-like values.
	ClassPointer ErrorClass = "pointer"

	// ClassNonPointer corrupts ordinary numeric values.
	ClassNonPointer ErrorClass = "non-pointer"
)

// Classes returns the error classes in sweep order.
func Classes() []ErrorClass {
	return []ErrorClass{ClassPointer, ClassNonPointer}
}

// InjectionSpec describes one fault-injected trial: which value class to
// corrupt and the maximum number of corruptions the supervisor may apply.
// The limit is an opaque upper bound; its exact semantics belong to the
// supervisor's contract.
type InjectionSpec struct {
	Class      ErrorClass
	ErrorLimit int
}

// Builder produces argument vectors for baseline and fault-injected runs.
// ErrorRate is the injection rate applied to whichever class is active; the
// inactive class always gets a rate of exactly zero, so the two classes are
// mutually exclusive per run. Identical inputs always yield identical
// vectors.
type Builder struct {
	// Target is the ranking program binary. It accepts a single positional
	// seed argument.
	Target string

	// Supervisor is the fault-injection supervisor binary.
	Supervisor string

	// ErrorRate is the injection rate for the active error class.
	ErrorRate float64
}

// Baseline returns the argument vector for an uncorrupted run.
func (b Builder) Baseline(seed int) []string {
	return []string{b.Target, strconv.Itoa(seed)}
}

// FaultInjected returns the argument vector for a run under the supervisor.
// The "--" separator is mandatory: without it the supervisor would consume
// the target's own arguments as its own.
func (b Builder) FaultInjected(seed int, spec InjectionSpec) []string {
	pointerRate, nonPointerRate := 0.0, b.ErrorRate
	if spec.Class == ClassPointer {
		pointerRate, nonPointerRate = b.ErrorRate, 0.0
	}

	return []string{
		b.Supervisor,
		"periodic",
		"--error-type", "bitflip",
		"--pointer-error-rate", formatRate(pointerRate),
		"--non-pointer-error-rate", formatRate(nonPointerRate),
		"--error-limit", strconv.Itoa(spec.ErrorLimit),
		"--",
		b.Target, strconv.Itoa(seed),
	}
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'g', -1, 64)
}

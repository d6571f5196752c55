package ranking

import "math"

// DefaultTolerance is the absolute score tolerance used when comparing a
// fault-injected run against its baseline.
const DefaultTolerance = 1e-6

// Equivalent reports whether two rankings are the same under an absolute
// score tolerance and strict ordering.
//
// An absent ranking (nil or empty) is never equivalent to anything, including
// another absent ranking. Entries are compared pairwise by position: page ids
// must match exactly, scores must match within tolerance. This is an ordered
// comparison, not a multiset one: the same entries in a different rank order
// are not equivalent.
func Equivalent(a, b Ranking, tolerance float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Page != b[i].Page {
			return false
		}
		if math.Abs(a[i].Score-b[i].Score) > tolerance {
			return false
		}
	}
	return true
}

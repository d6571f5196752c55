// Package ranking parses target-program output into an ordered page ranking
// and compares rankings under a fixed numeric tolerance.
package ranking

// Entry is a single (page, score) pair at one rank position.
type Entry struct {
	Page  int
	Score float64
}

// Ranking is an ordered sequence of entries, in the order the target program
// emitted them. A nil or empty Ranking means "no ranking" (absent), never an
// empty-but-valid result.
type Ranking []Entry

// Package pagerank implements the sample graph-ranking target program: a
// seeded random web graph ranked by standard power iteration. The harness
// drives the resulting binary as an external process; keeping the logic here
// makes the repository self-contained for end-to-end runs.
package pagerank

import (
	"math"
	"math/rand"
	"sort"
)

// Config holds configuration for PageRank computation.
type Config struct {
	// DampingFactor (d) is the probability of following an edge vs. teleporting.
	// Standard value: 0.85.
	DampingFactor float64

	// MaxIterations is the maximum number of power iteration steps. Default: 100.
	MaxIterations int

	// Tolerance is the convergence threshold. Default: 1e-10.
	Tolerance float64
}

// DefaultConfig returns the default PageRank configuration.
func DefaultConfig() Config {
	return Config{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-10,
	}
}

// Graph is a directed graph of pages identified by dense integer ids.
type Graph struct {
	// links[i] lists the pages that page i links to.
	links [][]int
}

// NumPages returns the number of pages in the graph.
func (g *Graph) NumPages() int {
	return len(g.links)
}

// GenerateRandomGraph builds a graph of numPages pages where each ordered
// page pair gets an edge with edgeProbability. The same seed always produces
// the same graph, which is what makes a baseline comparable across runs.
func GenerateRandomGraph(seed int64, numPages int, edgeProbability float64) *Graph {
	rng := rand.New(rand.NewSource(seed))

	links := make([][]int, numPages)
	for i := 0; i < numPages; i++ {
		for j := 0; j < numPages; j++ {
			if i != j && rng.Float64() < edgeProbability {
				links[i] = append(links[i], j)
			}
		}
	}
	return &Graph{links: links}
}

// Result captures one full PageRank computation.
type Result struct {
	// Scores holds the final rank of each page, indexed by page id.
	Scores []float64

	// Iterations is the number of power iteration steps performed.
	Iterations int

	// Converged is false when the iteration limit was hit before the
	// maximum per-page change dropped below the tolerance.
	Converged bool
}

// Compute runs power iteration until convergence or the iteration limit.
//
// Each step: score(v) = (1-d)/N + d * sum(score(u)/outDegree(u)) over pages
// u linking to v; convergence when the largest per-page change is at or
// below the tolerance.
func (g *Graph) Compute(cfg Config) Result {
	n := len(g.links)
	if n == 0 {
		return Result{Converged: true}
	}

	d := cfg.DampingFactor
	nf := float64(n)

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / nf
	}

	next := make([]float64, n)
	res := Result{}
	for res.Iterations < cfg.MaxIterations {
		base := (1.0 - d) / nf
		for i := range next {
			next[i] = base
		}

		for u, targets := range g.links {
			if len(targets) == 0 {
				continue
			}
			out := d * scores[u] / float64(len(targets))
			for _, v := range targets {
				next[v] += out
			}
		}

		maxDiff := 0.0
		for i := range scores {
			diff := math.Abs(next[i] - scores[i])
			if diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, next = next, scores
		res.Iterations++

		if maxDiff <= cfg.Tolerance {
			res.Converged = true
			break
		}
	}

	res.Scores = scores
	return res
}

// PageScore pairs a page id with its final rank.
type PageScore struct {
	ID    int
	Score float64
}

// TopPages returns the n highest-ranked pages in descending score order.
// Ties keep ascending id order so output stays deterministic.
func TopPages(scores []float64, n int) []PageScore {
	ranked := make([]PageScore, len(scores))
	for i, s := range scores {
		ranked[i] = PageScore{ID: i, Score: s}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

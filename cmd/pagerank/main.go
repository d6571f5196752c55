// Command pagerank is the sample target program driven by the faultbench
// harness. It builds a seeded random web graph, ranks it with power
// iteration, and prints the top pages in the report format the harness
// parses.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nvandessel/faultbench/internal/pagerank"
)

const (
	numPages        = 5000
	edgeProbability = 0.01
	topN            = 10
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <seed>\n", os.Args[0])
		os.Exit(1)
	}

	seed, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid seed %q: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	graph := pagerank.GenerateRandomGraph(seed, numPages, edgeProbability)

	start := time.Now()
	res := graph.Compute(pagerank.DefaultConfig())
	elapsed := time.Since(start)

	fmt.Println("Baseline PageRank Results:")
	fmt.Printf("Pages: %d, Seed: %d\n", numPages, seed)
	fmt.Printf("Iterations: %d\n", res.Iterations)
	fmt.Printf("Computation time: %.3f s\n", elapsed.Seconds())
	fmt.Println()
	fmt.Println("Top 10 pages:")
	for _, ps := range pagerank.TopPages(res.Scores, topN) {
		fmt.Printf("Page %4d: %.6f\n", ps.ID, ps.Score)
	}
	if !res.Converged {
		fmt.Println("WARNING: Algorithm hit iteration limit without converging")
	}
}

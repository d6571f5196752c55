package ranking

import (
	"errors"
	"strconv"
	"strings"
)

// Marker is the literal line content that introduces the ranking section in
// target-program output.
const Marker = "Top 10 pages:"

// warningMarker aborts collection: everything after a warning line is
// untrusted, including any further ranking lines.
const warningMarker = "WARNING"

var (
	// ErrNoMarker indicates the output never contained the ranking marker.
	ErrNoMarker = errors.New("ranking: marker not found in output")

	// ErrNoEntries indicates the marker was present but no valid ranking
	// lines followed it.
	ErrNoEntries = errors.New("ranking: no entries after marker")
)

// Parse extracts an ordered ranking from free-form program output.
//
// Lines are scanned in order. Everything before the Marker line is ignored.
// After the marker, blank lines are skipped and collection stops at the first
// line containing a warning marker; entries collected up to that point remain
// valid. A collectable line must split on ":" into exactly two fields: the
// second whitespace-separated token of the first field is the page id, the
// second field is the score. Lines that do not match are skipped, not fatal.
//
// Parse returns ErrNoMarker or ErrNoEntries when no ranking was obtainable,
// so callers can distinguish "target printed nothing useful" from "target
// printed a report without a ranking". The emitted order is preserved.
func Parse(text string) (Ranking, error) {
	var entries Ranking
	collecting := false

	for _, line := range strings.Split(text, "\n") {
		if !collecting {
			if strings.Contains(line, Marker) {
				collecting = true
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, warningMarker) {
			break
		}
		if entry, ok := parseLine(line); ok {
			entries = append(entries, entry)
		}
	}

	if !collecting {
		return nil, ErrNoMarker
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

// parseLine parses a single ranking line of the form "<label> <id>: <score>".
func parseLine(line string) (Entry, bool) {
	parts := strings.Split(line, ":")
	if len(parts) != 2 {
		return Entry{}, false
	}

	fields := strings.Fields(parts[0])
	if len(fields) < 2 {
		return Entry{}, false
	}

	page, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, false
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Entry{}, false
	}

	return Entry{Page: page, Score: score}, true
}

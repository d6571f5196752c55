package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// csvHeader is the persisted table schema, one column per TrialRecord field.
var csvHeader = []string{"seed", "error_count", "error_type", "success", "completed"}

// WriteCSV writes the flat trial table to w, header first, one row per
// record in append order.
func WriteCSV(w io.Writer, rs *ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range rs.Records {
		row := []string{
			strconv.Itoa(rec.Seed),
			strconv.Itoa(rec.ErrorCount),
			rec.ErrorClass,
			strconv.FormatBool(rec.Success),
			strconv.FormatBool(rec.Completed),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the result set to dir/<base>_results_<timestamp>.csv and
// returns the path.
func ExportCSV(dir, base, timestamp string, rs *ResultSet) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_results_%s.csv", base, timestamp))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, rs); err != nil {
		return "", err
	}
	return path, nil
}

// ReadCSV parses a results table previously written by WriteCSV. Boolean
// cells accept Go and Python spellings (true/True/false/False) so tables
// produced by older tooling remain loadable.
func ReadCSV(r io.Reader) (*ResultSet, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected csv header: %v", header)
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected csv column %d: got %q, want %q", i, header[i], col)
		}
	}

	rs := New()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		seed, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("parsing seed %q: %w", row[0], err)
		}
		count, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("parsing error_count %q: %w", row[1], err)
		}
		success, err := strconv.ParseBool(row[3])
		if err != nil {
			return nil, fmt.Errorf("parsing success %q: %w", row[3], err)
		}
		completed, err := strconv.ParseBool(row[4])
		if err != nil {
			return nil, fmt.Errorf("parsing completed %q: %w", row[4], err)
		}

		rs.Append(TrialRecord{
			Seed:       seed,
			ErrorCount: count,
			ErrorClass: row[2],
			Success:    success,
			Completed:  completed,
		})
	}
	return rs, nil
}

package platform

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// readRows reads every CSV row, tolerating ragged records and the free-form
// preamble lines some platform exports carry before the real table. The
// first skip rows are discarded.
func readRows(rd io.Reader, skip int) ([][]string, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	if skip >= len(rows) {
		return nil, nil
	}
	return rows[skip:], nil
}

// headerIndex maps trimmed column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func openAndParse(path string, parse func(io.Reader) (*RecordSet, error)) (*RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}

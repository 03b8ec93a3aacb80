package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/qagen/internal/qa"
)

// Read loads an artifact and reports the field names it carried, so callers
// merging several files can union the columns instead of assuming a schema.
func Read(path string, format Format) ([]qa.Record, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return readCSV(f)
	case FormatJSON:
		return readJSON(f)
	default:
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
}

func readCSV(f *os.File) ([]qa.Record, []string, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("parse csv: missing header row")
	}

	header := rows[0]
	records := make([]qa.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec qa.Record
		for i, col := range header {
			if i < len(row) {
				rec.Set(col, row[i])
			}
		}
		records = append(records, rec)
	}
	return records, header, nil
}

func readJSON(f *os.File) ([]qa.Record, []string, error) {
	var records []qa.Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, nil, fmt.Errorf("parse json: %w", err)
	}
	return records, qa.OrderFields(unionFields(records)), nil
}

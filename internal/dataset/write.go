package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/qagen/internal/qa"
)

// Write persists records to path in the given format. The write is atomic:
// content goes to a temp file in the same directory, then renames over path.
// An empty record set writes nothing and logs a warning, so a partial run
// never leaves an empty artifact behind.
func Write(log *slog.Logger, records []qa.Record, path string, format Format) error {
	if len(records) == 0 {
		log.Warn("no records to save", "path", path)
		return nil
	}
	columns := qa.OrderFields(unionFields(records))
	return writeColumns(records, columns, path, format)
}

// writeColumns persists records with an explicit column set. Merge output
// uses this directly so a wider union of fields survives into the header.
func writeColumns(records []qa.Record, columns []string, path string, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	switch format {
	case FormatCSV:
		err = encodeCSV(tmp, records, columns)
	case FormatJSON:
		err = encodeJSON(tmp, records)
	default:
		err = fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func encodeCSV(f *os.File, records []qa.Record, columns []string) error {
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			v, _ := rec.Get(col)
			row[i] = v
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func encodeJSON(f *os.File, records []qa.Record) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// unionFields collects every field name present across the records.
func unionFields(records []qa.Record) map[string]bool {
	fields := map[string]bool{
		"question":      true,
		"answer":        true,
		"question_type": true,
		"page":          true,
	}
	for _, rec := range records {
		if rec.Source != "" {
			fields["source"] = true
		}
		for _, f := range rec.ExtraFields() {
			fields[f] = true
		}
	}
	return fields
}

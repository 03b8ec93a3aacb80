// Package dataset persists question-answer records as artifact files and
// merges artifacts without losing or duplicating records.
package dataset

import "fmt"

// Format selects the artifact encoding.
type Format string

const (
	// FormatCSV is the tabular encoding: one record per row.
	FormatCSV Format = "csv"
	// FormatJSON is the hierarchical encoding: one indented document.
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv or json)", s)
	}
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

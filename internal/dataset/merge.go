package dataset

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/qagen/internal/qa"
)

// BatchPath names the artifact for one batch: {prefix}_batch_{n}.{ext}.
func BatchPath(prefix string, n int, format Format) string {
	return fmt.Sprintf("%s_batch_%d%s", prefix, n, format.Ext())
}

// MergedPath names the combined artifact for a document: {prefix}_all.{ext}.
func MergedPath(prefix string, format Format) string {
	return prefix + "_all" + format.Ext()
}

// MergeBatches combines the numbered batch artifacts of one document into a
// single {prefix}_all artifact, preserving batch order. Unreadable or missing
// batch files are skipped with a warning. Records keep their fields as
// written; no source tag is added. Returns the output path, or "" when no
// batch file could be read.
func MergeBatches(log *slog.Logger, prefix string, batchCount int, format Format) (string, error) {
	var all []qa.Record
	fields := make(map[string]bool)
	valid := 0

	for i := 1; i <= batchCount; i++ {
		path := BatchPath(prefix, i, format)
		records, cols, err := Read(path, format)
		if err != nil {
			log.Warn("skipping unreadable batch file", "path", path, "error", err)
			continue
		}
		valid++
		all = append(all, records...)
		for _, c := range cols {
			fields[c] = true
		}
	}

	if valid == 0 {
		log.Warn("no batch files to merge", "prefix", prefix)
		return "", nil
	}
	if len(all) == 0 {
		log.Warn("batch files contained no records, skipping merge", "prefix", prefix)
		return "", nil
	}

	out := MergedPath(prefix, format)
	if err := writeColumns(all, qa.OrderFields(fields), out, format); err != nil {
		return "", err
	}
	log.Info("merged batch files", "batches", valid, "records", len(all), "path", out)
	return out, nil
}

// MergeFiles combines existing dataset artifacts into one, tagging every
// record with the base name of the file it came from. Columns are the union
// of all input columns plus source, canonical fields first. Unreadable
// inputs are skipped with a warning. Inputs are read as in and the combined
// artifact is written as out, so json per-document artifacts can still feed
// a tabular training file. Returns the output path, or "" when no input
// yielded records.
func MergeFiles(log *slog.Logger, paths []string, outputPrefix string, in, out Format) (string, error) {
	var all []qa.Record
	fields := map[string]bool{"source": true}
	valid := 0

	for _, path := range paths {
		records, cols, err := Read(path, in)
		if err != nil {
			log.Warn("skipping unreadable input file", "path", path, "error", err)
			continue
		}
		valid++
		src := sourceName(path)
		for i := range records {
			records[i].Source = src
		}
		all = append(all, records...)
		for _, c := range cols {
			fields[c] = true
		}
	}

	if valid == 0 || len(all) == 0 {
		log.Warn("no data to merge", "inputs", len(paths))
		return "", nil
	}

	path := outputPrefix + out.Ext()
	if err := writeColumns(all, qa.OrderFields(fields), path, out); err != nil {
		return "", err
	}
	log.Info("merged dataset files", "files", valid, "records", len(all), "path", path)
	return path, nil
}

// sourceName is the provenance tag for a merged file: its base name with the
// extension removed.
func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

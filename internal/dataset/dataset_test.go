package dataset

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/qagen/internal/qa"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecords() []qa.Record {
	return []qa.Record{
		{Question: "What is a goroutine?", Answer: "A lightweight thread.", QuestionType: "definition", Page: 1},
		{Question: "Name the keyword that starts one.", Answer: "go", QuestionType: "factual", Page: 2},
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"csv", "json"} {
		f, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, "."+valid, f.Ext())
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteRead_RoundTripCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(discardLogger(), sampleRecords(), path, FormatCSV))

	records, fields, err := Read(path, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"question", "answer", "question_type", "page"}, fields)
	require.Len(t, records, 2)
	assert.Equal(t, sampleRecords(), records)
}

func TestWriteRead_RoundTripJSON(t *testing.T) {
	in := sampleRecords()
	in[0].Answer = "Hafif bir iş parçacığı."

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(discardLogger(), in, path, FormatJSON))

	records, _, err := Read(path, FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, in, records)
}

func TestWrite_EmptyInputWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(discardLogger(), nil, path, FormatCSV))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty input must not create an artifact")
}

func TestWrite_CSVEscapesCommasAndQuotes(t *testing.T) {
	in := []qa.Record{{
		Question: `Why does "hello, world" need quoting?`,
		Answer:   "Commas, like these, split fields.",
		Page:     1,
	}}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(discardLogger(), in, path, FormatCSV))

	records, _, err := Read(path, FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, in[0].Question, records[0].Question)
	assert.Equal(t, in[0].Answer, records[0].Answer)
}

func TestMergeBatches_SkipsMissingFile(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "doc")
	log := discardLogger()

	require.NoError(t, Write(log, sampleRecords(), BatchPath(prefix, 1, FormatCSV), FormatCSV))
	// Batch 2 intentionally absent.
	extra := []qa.Record{
		{Question: "q3", Answer: "a3", QuestionType: "factual", Page: 11},
		{Question: "q4", Answer: "a4", QuestionType: "factual", Page: 12},
		{Question: "q5", Answer: "a5", QuestionType: "factual", Page: 13},
	}
	require.NoError(t, Write(log, extra, BatchPath(prefix, 3, FormatCSV), FormatCSV))

	out, err := MergeBatches(log, prefix, 3, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, MergedPath(prefix, FormatCSV), out)

	records, _, err := Read(out, FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 5)
	// Batch order is preserved and no source tag is added.
	assert.Equal(t, "What is a goroutine?", records[0].Question)
	assert.Equal(t, "q5", records[4].Question)
	for _, rec := range records {
		assert.Empty(t, rec.Source)
	}
}

func TestMergeBatches_NoValidInputs(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "doc")
	out, err := MergeBatches(discardLogger(), prefix, 4, FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, statErr := os.Stat(MergedPath(prefix, FormatCSV))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMergeFiles_UnionsColumnsAndTagsSource(t *testing.T) {
	dir := t.TempDir()
	log := discardLogger()

	basic := filepath.Join(dir, "alpha.csv")
	require.NoError(t, Write(log, sampleRecords(), basic, FormatCSV))

	annotated := []qa.Record{{
		Question: "q", Answer: "a", QuestionType: "factual", Page: 7,
		Extra: map[string]string{"note": "reviewed"},
	}}
	wide := filepath.Join(dir, "beta.csv")
	require.NoError(t, Write(log, annotated, wide, FormatCSV))

	out, err := MergeFiles(log, []string{basic, wide}, filepath.Join(dir, "combined"), FormatCSV, FormatCSV)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"question", "answer", "question_type", "page", "source", "note"}, header)

	records, _, err := Read(out, FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alpha", records[0].Source)
	assert.Equal(t, "alpha", records[1].Source)
	assert.Equal(t, "beta", records[2].Source)
	assert.Equal(t, "reviewed", records[2].Extra["note"])
	// Records from the narrower file carry an empty value for the drift column.
	_, ok := records[0].Extra["note"]
	assert.True(t, ok)
	assert.Empty(t, records[0].Extra["note"])
}

func TestMergeFiles_JSONInputsToTabularOutput(t *testing.T) {
	dir := t.TempDir()
	log := discardLogger()

	in := filepath.Join(dir, "gamma.json")
	require.NoError(t, Write(log, sampleRecords(), in, FormatJSON))

	out, err := MergeFiles(log, []string{in}, filepath.Join(dir, "combined"), FormatJSON, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "combined.csv"), out)

	records, fields, err := Read(out, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"question", "answer", "question_type", "page", "source"}, fields)
	require.Len(t, records, 2)
	assert.Equal(t, "gamma", records[0].Source)
}

func TestMergeFiles_NoValidInputs(t *testing.T) {
	dir := t.TempDir()
	out, err := MergeFiles(discardLogger(), []string{filepath.Join(dir, "missing.csv")}, filepath.Join(dir, "combined"), FormatCSV, FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, out)
}

// Package pipeline drives dataset generation: batching pages through the
// model gateway, writing per-batch artifacts, and merging results.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/qagen/internal/dataset"
	"github.com/dgallion1/qagen/internal/parser"
	"github.com/dgallion1/qagen/internal/qa"
)

// Gateway is the model client surface the pipeline needs.
type Gateway interface {
	GenerateQA(ctx context.Context, pageText string) ([]qa.Record, error)
}

// Generator runs the page-batch-merge pipeline for documents.
type Generator struct {
	Gateway   Gateway
	Log       *slog.Logger
	BatchSize int
	Format    dataset.Format

	// OnPage, when set, is called after every page attempt with the 1-based
	// page number and the document's total page count.
	OnPage func(page, total int)
}

// Result summarizes one document run.
type Result struct {
	Document    string `json:"document"`
	Pages       int    `json:"pages"`
	FailedPages int    `json:"failed_pages"`
	Records     int    `json:"records"`
	Batches     int    `json:"batches"`
	MergedPath  string `json:"merged_path,omitempty"`
}

// ProcessBatch generates records for one run of consecutive pages. start is
// the 0-based document index of the batch's first page. A page whose
// generation fails, or that yields no records, is logged and skipped; the
// rest of the batch continues. Returns the page-stamped records and the
// number of pages that produced nothing.
func (g *Generator) ProcessBatch(ctx context.Context, pages []string, start, total int) ([]qa.Record, int) {
	var records []qa.Record
	failed := 0

	for i, page := range pages {
		pageNum := start + i + 1
		if ctx.Err() != nil {
			return records, failed + len(pages) - i
		}

		recs, err := g.Gateway.GenerateQA(ctx, page)
		if err != nil {
			g.Log.Error("page generation failed", "page", pageNum, "error", err)
			failed++
		} else if len(recs) == 0 {
			g.Log.Warn("page produced no records", "page", pageNum)
			failed++
		} else {
			for j := range recs {
				recs[j].Page = pageNum
			}
			records = append(records, recs...)
		}

		if g.OnPage != nil {
			g.OnPage(pageNum, total)
		}
	}
	return records, failed
}

// GeneratePages batches already-extracted pages through the gateway, writing
// one artifact per batch under prefix and merging them into {prefix}_all.
// Each batch artifact is written as soon as its batch completes, so an
// interrupted run keeps everything finished up to that point.
func (g *Generator) GeneratePages(ctx context.Context, pages []string, prefix string) (Result, error) {
	res := Result{Pages: len(pages)}
	if len(pages) == 0 {
		g.Log.Warn("document has no pages", "prefix", prefix)
		return res, nil
	}

	batchSize := g.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	for start := 0; start < len(pages); start += batchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		end := min(start+batchSize, len(pages))
		res.Batches++

		g.Log.Info("processing batch",
			"batch", res.Batches,
			"pages", fmt.Sprintf("%d-%d", start+1, end))

		records, failed := g.ProcessBatch(ctx, pages[start:end], start, len(pages))
		res.Records += len(records)
		res.FailedPages += failed

		path := dataset.BatchPath(prefix, res.Batches, g.Format)
		if err := dataset.Write(g.Log, records, path, g.Format); err != nil {
			return res, err
		}
	}

	merged, err := dataset.MergeBatches(g.Log, prefix, res.Batches, g.Format)
	if err != nil {
		return res, err
	}
	res.MergedPath = merged
	return res, nil
}

// GenerateDocument extracts pages from a document on disk and runs the full
// pipeline for it. Artifacts land under outputDir/{name}/ with the document's
// base name as prefix.
func (g *Generator) GenerateDocument(ctx context.Context, path, outputDir string) (Result, error) {
	name := DocName(path)

	pages, err := parser.ExtractPages(path)
	if err != nil {
		return Result{Document: name}, err
	}

	prefix := filepath.Join(outputDir, name, name)
	res, err := g.GeneratePages(ctx, pages, prefix)
	res.Document = name
	return res, err
}

// Run processes documents one at a time. A document that fails to parse or
// generate is logged and skipped; the rest of the run continues. When merge
// is set and at least one document produced a merged artifact, the
// per-document artifacts are combined into outputDir/combined/dataset.csv.
// The combined file is always tabular, whatever the per-document format.
func (g *Generator) Run(ctx context.Context, paths []string, outputDir string, merge bool) ([]Result, string, error) {
	var results []Result
	var mergedPaths []string

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, "", err
		}

		res, err := g.GenerateDocument(ctx, path, outputDir)
		if err != nil {
			g.Log.Error("document failed, continuing with remaining documents",
				"path", path, "error", err)
			continue
		}
		g.Log.Info("document complete",
			"document", res.Document,
			"pages", res.Pages,
			"records", res.Records,
			"failed_pages", res.FailedPages)
		results = append(results, res)
		if res.MergedPath != "" {
			mergedPaths = append(mergedPaths, res.MergedPath)
		}
	}

	if !merge {
		return results, "", nil
	}

	combinedPrefix := filepath.Join(outputDir, "combined", "dataset")
	combined, err := dataset.MergeFiles(g.Log, mergedPaths, combinedPrefix, g.Format, dataset.FormatCSV)
	if err != nil {
		return results, "", err
	}
	return results, combined, nil
}

// DocName is a document's base name without its extension, used for output
// directories, artifact prefixes, and provenance tags.
func DocName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dgallion1/qagen/internal/config"
	"github.com/dgallion1/qagen/internal/dataset"
	"github.com/dgallion1/qagen/internal/llm"
	"github.com/dgallion1/qagen/internal/parser"
	"github.com/dgallion1/qagen/internal/pipeline"
)

func newGenerateCmd() *cobra.Command {
	var (
		input        string
		inputDir     string
		outputDir    string
		batchSize    int
		questions    int
		model        string
		formatName   string
		temperature  float64
		apiKey       string
		noMerge      bool
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate datasets from one or more documents",
		Long: `Generate processes each selected document page by page: pages are
grouped into batches, every batch's records are written to an artifact file
as soon as the batch finishes, and the batches are merged into one file per
document. With several documents the per-document files are also combined
into a single tabular dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			if f.Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if f.Changed("batch-size") {
				cfg.BatchSize = batchSize
			}
			if f.Changed("questions") {
				cfg.QuestionsPerPage = questions
			}
			if f.Changed("model") {
				cfg.Model = model
			}
			if f.Changed("format") {
				cfg.OutputFormat = formatName
			}
			if f.Changed("temperature") {
				cfg.Temperature = temperature
			}
			if f.Changed("api-key") {
				cfg.GeminiAPIKey = apiKey
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			format, err := dataset.ParseFormat(cfg.OutputFormat)
			if err != nil {
				return err
			}

			inputs, err := discoverInputs(input, inputDir)
			if err != nil {
				return err
			}
			logger.Info("starting generation",
				"documents", len(inputs),
				"model", cfg.Model,
				"batch_size", cfg.BatchSize,
				"format", cfg.OutputFormat)

			parser.PDFFallbackPdftotext = cfg.PDFFallbackPdftotext

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := llm.NewClient(ctx, llm.Options{
				APIKey:       cfg.GeminiAPIKey,
				Model:        cfg.Model,
				Temperature:  cfg.Temperature,
				PairsPerPage: cfg.QuestionsPerPage,
			}, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			gen := &pipeline.Generator{
				Gateway:   client,
				Log:       logger,
				BatchSize: cfg.BatchSize,
				Format:    format,
			}
			if showProgress {
				var bar *progressbar.ProgressBar
				gen.OnPage = func(page, total int) {
					if bar == nil || page == 1 {
						bar = progressbar.Default(int64(total), "pages")
					}
					_ = bar.Set(page)
				}
			}

			results, combined, err := gen.Run(ctx, inputs, cfg.OutputDir, !noMerge)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("no documents were processed successfully")
			}

			for _, res := range results {
				logger.Info("document summary",
					"document", res.Document,
					"pages", res.Pages,
					"failed_pages", res.FailedPages,
					"records", res.Records,
					"merged_path", res.MergedPath)
			}
			if combined != "" {
				logger.Info("combined dataset written", "path", combined)
			}

			snap := client.Stats.Snapshot()
			logger.Info("model latency",
				"calls", snap.Count,
				"avg_ms", snap.AvgMs,
				"p95_ms", snap.P95Ms)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "input document, directory, or glob pattern")
	flags.StringVar(&inputDir, "input-dir", "", "directory of input documents")
	flags.StringVarP(&outputDir, "output-dir", "o", "dataset", "directory for generated artifacts")
	flags.IntVar(&batchSize, "batch-size", 5, "pages per batch")
	flags.IntVarP(&questions, "questions", "q", 15, "question-answer pairs per page")
	flags.StringVarP(&model, "model", "m", "gemini-2.0-flash", "Gemini model to use")
	flags.StringVarP(&formatName, "format", "f", "csv", "artifact format: csv or json")
	flags.Float64VarP(&temperature, "temperature", "t", 0.7, "sampling temperature, 0 to 1")
	flags.StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and environment)")
	flags.BoolVar(&noMerge, "no-merge", false, "skip the cross-document combined dataset")
	flags.BoolVar(&showProgress, "progress", true, "show a per-document progress bar")

	return cmd
}

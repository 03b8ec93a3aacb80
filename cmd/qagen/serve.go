package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qagen/internal/api"
	"github.com/dgallion1/qagen/internal/config"
	"github.com/dgallion1/qagen/internal/dataset"
	"github.com/dgallion1/qagen/internal/llm"
	"github.com/dgallion1/qagen/internal/parser"
	"github.com/dgallion1/qagen/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for dataset generation",
		Long: `Serve starts an HTTP server that accepts document uploads, runs
generation jobs from a bounded queue, and exposes job status, artifact
downloads, and model latency stats.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.ServeAPIKey == "" {
				return fmt.Errorf("QAGEN_API_KEY is required to serve")
			}
			format, err := dataset.ParseFormat(cfg.OutputFormat)
			if err != nil {
				return err
			}

			parser.PDFFallbackPdftotext = cfg.PDFFallbackPdftotext

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			client, err := llm.NewClient(ctx, llm.Options{
				APIKey:       cfg.GeminiAPIKey,
				Model:        cfg.Model,
				Temperature:  cfg.Temperature,
				PairsPerPage: cfg.QuestionsPerPage,
			}, logger)
			if err != nil {
				return err
			}

			gen := &pipeline.Generator{
				Gateway:   client,
				Log:       logger,
				BatchSize: cfg.BatchSize,
				Format:    format,
			}
			svc := pipeline.NewService(gen, logger, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL)
			svc.Start(ctx)

			srv := api.NewServer(svc, client, logger, cfg)
			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				logger.Info("shutting down...")

				svc.Stop()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)

				client.Close()
			}()

			logger.Info("starting qagen server", "port", cfg.Port, "model", cfg.Model)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	return cmd
}

package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "qagen",
	Short: "Generate question-answer fine-tuning datasets from documents",
	Long: `qagen turns documents into fine-tuning datasets. It extracts text
page by page, asks Gemini for question-answer pairs, and writes the results
as CSV or JSON artifacts with per-batch checkpoints.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newServeCmd())
}

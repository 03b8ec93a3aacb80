package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qagen/internal/config"
	"github.com/dgallion1/qagen/internal/dataset"
)

func newMergeCmd() *cobra.Command {
	var (
		output     string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "merge [files...]",
		Short: "Merge existing dataset artifacts into one file",
		Long: `Merge combines dataset files produced by earlier runs. Every record
is tagged with the base name of the file it came from, and the output
columns are the union of all input columns. Unreadable inputs are skipped
with a warning.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.OutputFormat = formatName
			}
			format, err := dataset.ParseFormat(cfg.OutputFormat)
			if err != nil {
				return err
			}

			out, err := dataset.MergeFiles(logger, args, output, format, format)
			if err != nil {
				return err
			}
			if out == "" {
				return fmt.Errorf("no records merged from %d input file(s)", len(args))
			}
			logger.Info("merge complete", "path", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "merged_dataset", "output path prefix (extension is added)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "csv", "artifact format: csv or json")

	return cmd
}

package main

import (
	"log/slog"
	"os"
)

// logger is shared by every subcommand. Logs go to stderr so artifact
// output and progress stay separable from diagnostics.
var logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

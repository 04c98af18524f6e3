package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/powderlines/resort-cli/internal/pipeline"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one of the upstream sync pipelines",
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// runOpts builds the pipeline options shared by every sync subcommand.
func runOpts() pipeline.RunOpts {
	return pipeline.RunOpts{
		Filter: flagFilter,
		Delay:  time.Duration(cfg.Sync.DelayMillis) * time.Millisecond,
	}
}

func logSummary(sum *pipeline.Summary) {
	zap.L().Info("run summary",
		zap.String("source", sum.Source),
		zap.Int("processed", sum.Processed),
		zap.Int("skipped", sum.Skipped),
		zap.Int("removed", sum.Removed),
		zap.Int("failed", sum.Failed),
		zap.Duration("elapsed", sum.Elapsed),
		zap.Bool("dry_run", flagDryRun),
	)
}

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/powderlines/resort-cli/internal/config"
)

var cfg *config.Config

var (
	flagDryRun  bool
	flagFilter  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "resort-cli",
	Short: "Ski-resort directory sync and enrichment pipelines",
	Long: "Syncs lift status, weather, and encyclopedia data into the resort directory,\n" +
		"runs LLM enrichment over the gathered evidence, and serves the admin API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is a local-dev convenience; absence is not an error.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if flagVerbose {
			cfg.Log.Level = "debug"
			cfg.Log.Format = "console"
		}
		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "report intended writes without performing them")
	rootCmd.PersistentFlags().StringVar(&flagFilter, "filter", "", "only process resorts whose slug contains this substring")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to the console")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/powderlines/resort-cli/internal/cost"
	"github.com/powderlines/resort-cli/internal/enrich"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/pkg/anthropic"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Extract structured fields from gathered evidence with an LLM",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		as, err := initAssets(ctx)
		if err != nil {
			return err
		}
		defer as.Close() //nolint:errcheck

		report := cost.NewReport(cost.NewCalculator(nil))
		client := anthropic.NewClient(cfg.Anthropic.Key)

		src := enrich.NewSource(st, as)
		extractor := enrich.NewExtractor(client, report, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
		sink := enrich.NewSink(st, as, cfg.Enrich.MinConfidence)

		sum, err := pipeline.Run[*enrich.Evidence, *model.EnrichmentResult](ctx, src, extractor, sink, runOpts())
		if err != nil {
			return eris.Wrap(err, "enrich")
		}
		logSummary(sum)

		prompt, completion, usd := report.Totals()
		zap.L().Info("cost summary",
			zap.String("model", cfg.Anthropic.Model),
			zap.Int64("prompt_tokens", prompt),
			zap.Int64("completion_tokens", completion),
			zap.Float64("cost_usd", usd),
			zap.Int("resorts", len(report.Resorts())),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

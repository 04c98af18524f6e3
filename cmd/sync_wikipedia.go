package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/sources/wikipedia"
)

var syncWikipediaCmd = &cobra.Command{
	Use:   "wikipedia",
	Short: "Refresh article extracts into object storage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}
		if err := cfg.Validate("assets"); err != nil && !flagDryRun {
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

		src := wikipedia.NewSource(st, initFetcher(), cfg.Wiki.APIBaseURL)
		sink := wikipedia.NewSink(as)

		sum, err := pipeline.Run[*wikipedia.Article, *wikipedia.Article](ctx, src,
			pipeline.TransformFunc[*wikipedia.Article, *wikipedia.Article](wikipedia.Transform), sink, runOpts())
		if err != nil {
			return eris.Wrap(err, "sync wikipedia")
		}
		logSummary(sum)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncWikipediaCmd)
}

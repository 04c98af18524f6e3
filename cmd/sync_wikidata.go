package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/sources/wikidata"
)

var syncWikidataCmd = &cobra.Command{
	Use:   "wikidata",
	Short: "Enrich resort attributes from Wikidata entity claims",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		src := wikidata.NewSource(st, initFetcher(), cfg.Wiki.WikidataAPIURL)
		sink := wikidata.NewSink(st)

		sum, err := pipeline.Run[*wikidata.Entity, model.Resort](ctx, src,
			pipeline.TransformFunc[*wikidata.Entity, model.Resort](wikidata.Transform), sink, runOpts())
		if err != nil {
			return eris.Wrap(err, "sync wikidata")
		}
		logSummary(sum)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncWikidataCmd)
}

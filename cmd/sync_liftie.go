package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/sources/liftie"
)

var syncLiftieCmd = &cobra.Command{
	Use:   "liftie",
	Short: "Sync lift status from Liftie into resort conditions",
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

		// The object-store mirror is optional for lift status.
		var as = initOptionalAssets(ctx)

		src := liftie.NewSource(st, initFetcher(), cfg.Liftie.BaseURL)
		sink := liftie.NewSink(st, as)

		sum, err := pipeline.Run[*liftie.Report, model.Conditions](ctx, src,
			pipeline.TransformFunc[*liftie.Report, model.Conditions](liftie.Transform), sink, runOpts())
		if err != nil {
			return eris.Wrap(err, "sync liftie")
		}
		logSummary(sum)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLiftieCmd)
}

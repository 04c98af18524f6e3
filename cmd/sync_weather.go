package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/sources/meteo"
)

var syncWeatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Sync current mountain weather from Open-Meteo into resort conditions",
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

		src := meteo.NewSource(st, initFetcher(), cfg.Weather.BaseURL)
		sink := meteo.NewSink(st)

		sum, err := pipeline.Run[*meteo.Forecast, model.Conditions](ctx, src,
			pipeline.TransformFunc[*meteo.Forecast, model.Conditions](meteo.Transform), sink, runOpts())
		if err != nil {
			return eris.Wrap(err, "sync weather")
		}
		logSummary(sum)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncWeatherCmd)
}

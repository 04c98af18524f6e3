package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/store"
)

var exportOutPath string

var exportColumns = []string{
	"slug", "name", "country", "state", "status",
	"latitude", "longitude", "lifts_total", "runs_total", "vertical_m", "tagline",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the resort directory to an XLSX workbook",
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

		resorts, err := st.ListResorts(ctx, store.ListFilter{
			Slug:        flagFilter,
			IncludeLost: true,
		})
		if err != nil {
			return eris.Wrap(err, "export: list resorts")
		}

		if err := writeWorkbook(exportOutPath, resorts); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.Int("resorts", len(resorts)),
			zap.String("file", exportOutPath),
		)
		return nil
	},
}

func writeWorkbook(path string, resorts []model.Resort) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Resorts")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range exportColumns {
		header.AddCell().SetString(col)
	}

	for _, r := range resorts {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Slug)
		row.AddCell().SetString(r.Name)
		row.AddCell().SetString(r.Country)
		row.AddCell().SetString(r.StateSlug)
		row.AddCell().SetString(string(r.Status()))
		row.AddCell().SetFloat(r.Latitude)
		row.AddCell().SetFloat(r.Longitude)
		row.AddCell().SetInt(r.LiftsTotal)
		row.AddCell().SetInt(r.RunsTotal)
		row.AddCell().SetInt(r.VerticalM)
		row.AddCell().SetString(r.Tagline)
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func init() {
	exportCmd.Flags().StringVar(&exportOutPath, "out", "resorts.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}

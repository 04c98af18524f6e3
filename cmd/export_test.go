package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/powderlines/resort-cli/internal/model"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resorts.xlsx")

	resorts := []model.Resort{
		{
			Slug:       "alta",
			Name:       "Alta",
			Country:    "us",
			StateSlug:  "utah",
			Latitude:   40.5883,
			Longitude:  -111.6358,
			LiftsTotal: 6,
			RunsTotal:  119,
			VerticalM:  745,
			Tagline:    "Skiers only.",
			IsActive:   true,
			IsVisible:  true,
			IsOpen:     true,
		},
		{
			Slug:      "ghost-peak",
			Name:      "Ghost Peak",
			Country:   "us",
			StateSlug: "montana",
			IsLost:    true,
		},
	}

	require.NoError(t, writeWorkbook(path, resorts))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet, ok := f.Sheet["Resorts"]
	require.True(t, ok, "workbook should have a Resorts sheet")
	require.Len(t, sheet.Rows, 3) // header + two resorts

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, c := range sheet.Rows[0].Cells {
		header[i] = c.String()
	}
	assert.Equal(t, exportColumns, header)

	alta := sheet.Rows[1].Cells
	assert.Equal(t, "alta", alta[0].String())
	assert.Equal(t, "Alta", alta[1].String())
	assert.Equal(t, "open", alta[4].String())

	lat, err := alta[5].Float()
	require.NoError(t, err)
	assert.InDelta(t, 40.5883, lat, 1e-6)

	lifts, err := alta[7].Int()
	require.NoError(t, err)
	assert.Equal(t, 6, lifts)

	// Lost resorts are still exported, flagged by status.
	ghost := sheet.Rows[2].Cells
	assert.Equal(t, "ghost-peak", ghost[0].String())
	assert.Equal(t, "lost", ghost[4].String())
}

func TestWriteWorkbook_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, writeWorkbook(path, nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet := f.Sheet["Resorts"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 1) // header only
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powderlines/resort-cli/internal/model"
)

func TestDryRun_MutationsNeverReachStore(t *testing.T) {
	inner := newTestSQLiteStore(t)
	seeded := seedResort(t, inner, "vail", "Vail")

	dr := NewDryRun(inner)
	ctx := context.Background()

	// Every mutation reports success without touching the inner store.
	_, err := dr.UpsertResort(ctx, model.Resort{Slug: "alta", Name: "Alta"})
	require.NoError(t, err)

	n, err := dr.BulkUpsertResorts(ctx, []model.Resort{{Slug: "brighton", Name: "Brighton"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, dr.MarkLost(ctx, "vail"))
	require.NoError(t, dr.UpsertLiftConditions(ctx, model.Conditions{ResortID: seeded.ID, LiftsOpen: 3}))
	require.NoError(t, dr.DeleteConditions(ctx, seeded.ID))

	missing, err := inner.GetResortBySlug(ctx, "alta")
	require.NoError(t, err)
	assert.Nil(t, missing, "dry-run upsert must not create a row")

	vail, err := inner.GetResortBySlug(ctx, "vail")
	require.NoError(t, err)
	require.NotNil(t, vail)
	assert.False(t, vail.IsLost, "dry-run mark-lost must not flip the flag")

	cond, err := inner.GetConditions(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, cond, "dry-run conditions upsert must not create a row")
}

func TestDryRun_ReadsPassThrough(t *testing.T) {
	inner := newTestSQLiteStore(t)
	seeded := seedResort(t, inner, "vail", "Vail")

	dr := NewDryRun(inner)
	ctx := context.Background()

	got, err := dr.GetResortBySlug(ctx, "vail")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, seeded.ID, got.ID)

	list, err := dr.ListResorts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

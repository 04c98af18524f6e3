package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "resorts/usa/colorado/vail/wiki-data.json",
		Key("resorts/usa/colorado/vail", ArtifactWikiData))
	assert.Equal(t, "resorts/usa/colorado/vail/liftie/summary.json",
		Key("resorts/usa/colorado/vail", ArtifactLiftieSummary))
}

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMem()

	ok, err := s.Exists(ctx, "resorts/usa/colorado/vail/wiki-data.json")
	require.NoError(t, err)
	assert.False(t, ok)

	type doc struct {
		Title string `json:"title"`
	}
	require.NoError(t, s.WriteJSON(ctx, "resorts/usa/colorado/vail/wiki-data.json", doc{Title: "Vail"}))

	ok, err = s.Exists(ctx, "resorts/usa/colorado/vail/wiki-data.json")
	require.NoError(t, err)
	assert.True(t, ok)

	var got doc
	require.NoError(t, s.ReadJSON(ctx, "resorts/usa/colorado/vail/wiki-data.json", &got))
	assert.Equal(t, "Vail", got.Title)

	keys, err := s.List(ctx, "resorts/usa/colorado/vail/")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestMemStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMem()

	require.NoError(t, s.Write(ctx, "k", []byte("one"), "text/plain"))
	require.NoError(t, s.Write(ctx, "k", []byte("two"), "text/plain"))

	keys, err := s.List(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

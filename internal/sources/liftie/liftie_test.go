package liftie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/powderlines/resort-cli/internal/fetcher"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
)

func testHTTPFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:      5 * time.Second,
		MaxRetries:   1,
		RateLimiters: map[string]*rate.Limiter{},
	})
}

func TestSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resort/vail", r.URL.Path)
		w.Write([]byte(`{
			"id": "vail",
			"name": "Vail",
			"lifts": {
				"status": {"Gondola One": "open", "Sourdough Express": "closed"},
				"stats": {"open": 7, "hold": 1, "scheduled": 2, "closed": 21, "percentage": {"open": 23}}
			},
			"timestamp": 1730500000
		}`))
	}))
	defer srv.Close()

	src := NewSource(nil, testHTTPFetcher(), srv.URL)
	rep, err := src.Fetch(context.Background(), model.Resort{Slug: "vail"})
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Lifts.Stats.Open)
	assert.Equal(t, "open", rep.Lifts.Status["Gondola One"])
}

func TestSource_Fetch_GoneUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewSource(nil, testHTTPFetcher(), srv.URL)
	_, err := src.Fetch(context.Background(), model.Resort{Slug: "ghost"})
	assert.ErrorIs(t, err, pipeline.ErrNoData)
}

func TestTransform_TotalsAcrossStates(t *testing.T) {
	var rep Report
	rep.Lifts.Stats.Open = 7
	rep.Lifts.Stats.Hold = 1
	rep.Lifts.Stats.Scheduled = 2
	rep.Lifts.Stats.Closed = 21

	c, err := Transform(context.Background(), model.Resort{ID: "r-1"}, &rep)
	require.NoError(t, err)
	assert.Equal(t, "r-1", c.ResortID)
	assert.Equal(t, 7, c.LiftsOpen)
	assert.Equal(t, 31, c.LiftsTotal)
	require.NotNil(t, c.LiftieSyncedAt)
}

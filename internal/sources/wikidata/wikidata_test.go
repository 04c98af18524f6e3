package wikidata

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

func wikidataHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "wbsearchentities":
			assert.Equal(t, "Vail Ski Resort", r.URL.Query().Get("search"))
			w.Write([]byte(`{"search":[{"id":"Q1939861"}]}`))
		case "wbgetentities":
			assert.Equal(t, "Q1939861", r.URL.Query().Get("ids"))
			w.Write([]byte(`{"entities":{"Q1939861":{
				"id": "Q1939861",
				"labels": {"en": {"value": "Vail Ski Resort"}},
				"descriptions": {"en": {"value": "ski resort in Colorado, United States"}},
				"claims": {
					"P625": [{"mainsnak":{"datavalue":{"value":{"latitude":39.6403,"longitude":-106.3742}}}}],
					"P2044": [{"mainsnak":{"datavalue":{"value":{"amount":"+3433"}}}}]
				}
			}}}`))
		default:
			t.Fatalf("unexpected action %q", r.URL.Query().Get("action"))
		}
	}
}

func TestSource_Fetch_SearchThenEntity(t *testing.T) {
	srv := httptest.NewServer(wikidataHandler(t))
	defer srv.Close()

	src := NewSource(nil, testHTTPFetcher(), srv.URL)
	ent, err := src.Fetch(context.Background(), model.Resort{Slug: "vail", Name: "Vail Ski Resort"})
	require.NoError(t, err)
	assert.Equal(t, "Q1939861", ent.ID)
	assert.Len(t, ent.Claims["P625"], 1)
}

func TestSource_Fetch_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[]}`))
	}))
	defer srv.Close()

	src := NewSource(nil, testHTTPFetcher(), srv.URL)
	_, err := src.Fetch(context.Background(), model.Resort{Slug: "no-such", Name: "No Such Mountain"})
	assert.ErrorIs(t, err, pipeline.ErrNoData)
}

func TestTransform_FillsOnlyEmptyFields(t *testing.T) {
	ent := &Entity{
		Descriptions: map[string]struct {
			Value string `json:"value"`
		}{"en": {Value: "ski resort in Colorado, United States"}},
		Claims: map[string][]claim{},
	}
	var c claim
	c.MainSnak.DataValue.Value.Latitude = 39.6403
	c.MainSnak.DataValue.Value.Longitude = -106.3742
	ent.Claims[propCoordinates] = []claim{c}

	var elev claim
	elev.MainSnak.DataValue.Value.Amount = "+3433"
	ent.Claims[propElevation] = []claim{elev}

	// Empty fields fill in.
	got, err := Transform(context.Background(), model.Resort{Slug: "vail"}, ent)
	require.NoError(t, err)
	assert.InDelta(t, 39.6403, got.Latitude, 0.0001)
	assert.Equal(t, 3433, got.VerticalM)
	assert.Equal(t, "ski resort in Colorado, United States", got.Tagline)

	// Curated values survive.
	curated := model.Resort{Slug: "vail", Latitude: 1, Longitude: 2, VerticalM: 999, Tagline: "Like nothing on earth"}
	got, err = Transform(context.Background(), curated, ent)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Latitude, 0.0001)
	assert.Equal(t, 999, got.VerticalM)
	assert.Equal(t, "Like nothing on earth", got.Tagline)
}

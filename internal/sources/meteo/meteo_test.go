package meteo

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

func TestSource_Fetch_QueriesByCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "39.6403", r.URL.Query().Get("latitude"))
		assert.Equal(t, "-106.3742", r.URL.Query().Get("longitude"))
		w.Write([]byte(`{
			"latitude": 39.64, "longitude": -106.37,
			"current": {"temperature_2m": -6.5, "snowfall": 1.2, "snow_depth": 0.85,
				"wind_speed_10m": 14.0, "weather_code": 73}
		}`))
	}))
	defer srv.Close()

	src := NewSource(nil, testHTTPFetcher(), srv.URL)
	fc, err := src.Fetch(context.Background(), model.Resort{
		Slug: "vail", Latitude: 39.6403, Longitude: -106.3742,
	})
	require.NoError(t, err)
	assert.InDelta(t, -6.5, fc.Current.Temperature, 0.01)
	assert.Equal(t, 73, fc.Current.WeatherCode)
}

func TestSource_Fetch_NoCoordinates(t *testing.T) {
	src := NewSource(nil, testHTTPFetcher(), "http://unused")
	_, err := src.Fetch(context.Background(), model.Resort{Slug: "nowhere"})
	assert.ErrorIs(t, err, pipeline.ErrNoData)
}

func TestTransform_UnitsAndSummary(t *testing.T) {
	var fc Forecast
	fc.Current.Temperature = -6.5
	fc.Current.Snowfall = 1.2
	fc.Current.SnowDepth = 0.85 // meters
	fc.Current.WindSpeed = 14.0
	fc.Current.WeatherCode = 73

	c, err := Transform(context.Background(), model.Resort{ID: "r-1"}, &fc)
	require.NoError(t, err)
	assert.Equal(t, "snow", c.WeatherSummary)
	assert.InDelta(t, 85, c.SnowDepthCM, 0.01)
	assert.InDelta(t, 14.0, c.WindKPH, 0.01)
	require.NotNil(t, c.WeatherSyncedAt)
}

func TestSummary_UnknownCode(t *testing.T) {
	assert.Equal(t, "unknown", Summary(42))
	assert.Equal(t, "clear", Summary(0))
}

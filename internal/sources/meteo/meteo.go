// Package meteo syncs current mountain weather from Open-Meteo into the
// conditions table. The API is unauthenticated and keyed by coordinates.
package meteo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/fetcher"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/store"
)

// Forecast is the subset of the Open-Meteo forecast response we consume.
type Forecast struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Temperature float64 `json:"temperature_2m"`
		Snowfall    float64 `json:"snowfall"`
		SnowDepth   float64 `json:"snow_depth"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// weatherSummaries maps WMO weather codes to the short summaries shown in
// the directory. Codes not listed fall back to "unknown".
var weatherSummaries = map[int]string{
	0: "clear", 1: "mostly clear", 2: "partly cloudy", 3: "overcast",
	45: "fog", 48: "fog",
	51: "drizzle", 53: "drizzle", 55: "drizzle",
	61: "rain", 63: "rain", 65: "heavy rain",
	66: "freezing rain", 67: "freezing rain",
	71: "light snow", 73: "snow", 75: "heavy snow", 77: "snow grains",
	80: "showers", 81: "showers", 82: "heavy showers",
	85: "snow showers", 86: "heavy snow showers",
	95: "thunderstorm", 96: "thunderstorm", 99: "thunderstorm",
}

// Summary returns the directory wording for a WMO weather code.
func Summary(code int) string {
	if s, ok := weatherSummaries[code]; ok {
		return s
	}
	return "unknown"
}

// Source lists resorts with coordinates and fetches their forecasts.
type Source struct {
	store   store.Store
	fetcher fetcher.Fetcher
	baseURL string
}

func NewSource(st store.Store, f fetcher.Fetcher, baseURL string) *Source {
	return &Source{store: st, fetcher: f, baseURL: baseURL}
}

func (s *Source) Name() string { return "weather" }

func (s *Source) List(ctx context.Context) ([]model.Resort, error) {
	return s.store.ListResorts(ctx, store.ListFilter{})
}

func (s *Source) Fetch(ctx context.Context, r model.Resort) (*Forecast, error) {
	// A resort without coordinates cannot be queried; treat it as having
	// no upstream data rather than failing the batch.
	if r.Latitude == 0 && r.Longitude == 0 {
		return nil, pipeline.ErrNoData
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", r.Latitude))
	q.Set("longitude", fmt.Sprintf("%.4f", r.Longitude))
	q.Set("current", "temperature_2m,snowfall,snow_depth,wind_speed_10m,weather_code")
	q.Set("wind_speed_unit", "kmh")

	var fc Forecast
	u := fmt.Sprintf("%s/v1/forecast?%s", s.baseURL, q.Encode())
	if err := s.fetcher.GetJSON(ctx, u, &fc); err != nil {
		return nil, eris.Wrapf(err, "meteo: fetch %s", r.Slug)
	}
	return &fc, nil
}

// Transform maps a forecast onto the weather columns of the conditions row.
// Open-Meteo reports snowfall and depth in centimeters/meters; depth is
// converted to centimeters.
func Transform(_ context.Context, r model.Resort, fc *Forecast) (model.Conditions, error) {
	now := time.Now().UTC()
	return model.Conditions{
		ResortID:        r.ID,
		WeatherSummary:  Summary(fc.Current.WeatherCode),
		TemperatureC:    fc.Current.Temperature,
		SnowfallCM:      fc.Current.Snowfall,
		SnowDepthCM:     fc.Current.SnowDepth * 100,
		WindKPH:         fc.Current.WindSpeed,
		WeatherSyncedAt: &now,
	}, nil
}

// Sink writes weather conditions to the store. Remove is a no-op: losing
// coordinates does not invalidate lift data in the shared row.
type Sink struct {
	store store.Store
}

func NewSink(st store.Store) *Sink {
	return &Sink{store: st}
}

func (s *Sink) Write(ctx context.Context, _ model.Resort, c model.Conditions) error {
	return s.store.UpsertWeatherConditions(ctx, c)
}

func (s *Sink) Remove(context.Context, model.Resort) error {
	return nil
}

package model

import (
	"fmt"
	"time"
)

// Status is the single authoritative resort status derived from the four
// stored flags. Precedence: lost > inactive > hidden > open/closed.
type Status string

const (
	StatusLost     Status = "lost"
	StatusInactive Status = "inactive"
	StatusHidden   Status = "hidden"
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
)

// Resort is the canonical directory entity. Slug is the join key used by
// every external interface; the internal id never crosses the object
// storage boundary.
type Resort struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	StateSlug   string    `json:"state_slug"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsOpen      bool      `json:"is_open"`
	IsVisible   bool      `json:"is_visible"`
	IsActive    bool      `json:"is_active"`
	IsLost      bool      `json:"is_lost"`
	LiftsTotal  int       `json:"lifts_total"`
	RunsTotal   int       `json:"runs_total"`
	VerticalM   int       `json:"vertical_m"`
	Description string    `json:"description"`
	Tagline     string    `json:"tagline"`
	AssetPath   string    `json:"asset_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Status resolves the four stored flags into one value.
func (r Resort) Status() Status {
	switch {
	case r.IsLost:
		return StatusLost
	case !r.IsActive:
		return StatusInactive
	case !r.IsVisible:
		return StatusHidden
	case r.IsOpen:
		return StatusOpen
	default:
		return StatusClosed
	}
}

// DefaultAssetPath returns the object-store prefix for a resort,
// resorts/{country}/{state}/{slug}.
func (r Resort) DefaultAssetPath() string {
	return fmt.Sprintf("resorts/%s/%s/%s", r.Country, r.StateSlug, r.Slug)
}

// Conditions is the one-to-one companion row for a resort, replaced
// wholesale by each sync pass for the columns that sync owns.
type Conditions struct {
	ResortID        string     `json:"resort_id"`
	LiftsOpen       int        `json:"lifts_open"`
	LiftsTotal      int        `json:"lifts_total"`
	WeatherSummary  string     `json:"weather_summary"`
	TemperatureC    float64    `json:"temperature_c"`
	SnowfallCM      float64    `json:"snowfall_cm"`
	SnowDepthCM     float64    `json:"snow_depth_cm"`
	WindKPH         float64    `json:"wind_kph"`
	LiftieSyncedAt  *time.Time `json:"liftie_synced_at,omitempty"`
	WeatherSyncedAt *time.Time `json:"weather_synced_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ExtractedField is one model-derived attribute with its confidence score
// and where the evidence came from.
type ExtractedField struct {
	Name       string  `json:"name"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// EnrichmentResult is the ephemeral output of one AI extraction pass.
// It is persisted only as an audit blob in object storage.
type EnrichmentResult struct {
	Slug             string           `json:"slug"`
	Model            string           `json:"model"`
	Fields           []ExtractedField `json:"fields"`
	Dropped          []ExtractedField `json:"dropped,omitempty"`
	PromptTokens     int64            `json:"prompt_tokens"`
	CompletionTokens int64            `json:"completion_tokens"`
	CostUSD          float64          `json:"cost_usd"`
	ExtractedAt      time.Time        `json:"extracted_at"`
}

// Accepted returns the fields at or above the confidence threshold and
// records the rest in Dropped. Fields below the threshold never reach the
// store.
func (e *EnrichmentResult) Accepted(minConfidence float64) []ExtractedField {
	var kept []ExtractedField
	e.Dropped = e.Dropped[:0]
	for _, f := range e.Fields {
		if f.Confidence >= minConfidence {
			kept = append(kept, f)
		} else {
			e.Dropped = append(e.Dropped, f)
		}
	}
	return kept
}

// Package liftie syncs lift status from the Liftie API into the
// conditions table.
package liftie

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/assets"
	"github.com/powderlines/resort-cli/internal/fetcher"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/store"
)

// Report is the Liftie per-resort payload, GET {base}/api/resort/{slug}.
type Report struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lifts struct {
		Status map[string]string `json:"status"`
		Stats  struct {
			Open       int `json:"open"`
			Hold       int `json:"hold"`
			Scheduled  int `json:"scheduled"`
			Closed     int `json:"closed"`
			Percentage struct {
				Open int `json:"open"`
			} `json:"percentage"`
		} `json:"stats"`
	} `json:"lifts"`
	Timestamp int64 `json:"timestamp"`
}

// Source lists resorts from the store and fetches their Liftie reports.
// A 404 from Liftie means the resort was dropped upstream and maps to
// pipeline.ErrNoData.
type Source struct {
	store   store.Store
	fetcher fetcher.Fetcher
	baseURL string
}

func NewSource(st store.Store, f fetcher.Fetcher, baseURL string) *Source {
	return &Source{store: st, fetcher: f, baseURL: baseURL}
}

func (s *Source) Name() string { return "liftie" }

func (s *Source) List(ctx context.Context) ([]model.Resort, error) {
	return s.store.ListResorts(ctx, store.ListFilter{})
}

func (s *Source) Fetch(ctx context.Context, r model.Resort) (*Report, error) {
	url := fmt.Sprintf("%s/api/resort/%s", s.baseURL, r.Slug)

	var rep Report
	if err := s.fetcher.GetJSON(ctx, url, &rep); err != nil {
		if eris.Is(err, fetcher.ErrNotFound) {
			return nil, pipeline.ErrNoData
		}
		return nil, eris.Wrapf(err, "liftie: fetch %s", r.Slug)
	}
	return &rep, nil
}

// Transform maps a Liftie report onto the lift columns of the conditions row.
func Transform(_ context.Context, r model.Resort, rep *Report) (model.Conditions, error) {
	now := time.Now().UTC()
	stats := rep.Lifts.Stats
	return model.Conditions{
		ResortID:       r.ID,
		LiftsOpen:      stats.Open,
		LiftsTotal:     stats.Open + stats.Hold + stats.Scheduled + stats.Closed,
		LiftieSyncedAt: &now,
	}, nil
}

// Sink writes lift conditions to the store and mirrors the raw summary to
// object storage. Remove tears down the conditions row after a 404.
type Sink struct {
	store  store.Store
	assets assets.Store
}

func NewSink(st store.Store, as assets.Store) *Sink {
	return &Sink{store: st, assets: as}
}

func (s *Sink) Write(ctx context.Context, r model.Resort, c model.Conditions) error {
	if err := s.store.UpsertLiftConditions(ctx, c); err != nil {
		return err
	}
	if s.assets != nil {
		key := assets.Key(r.AssetPath, assets.ArtifactLiftieSummary)
		if err := s.assets.WriteJSON(ctx, key, c); err != nil {
			return eris.Wrapf(err, "liftie: mirror summary for %s", r.Slug)
		}
	}
	return nil
}

func (s *Sink) Remove(ctx context.Context, r model.Resort) error {
	return s.store.DeleteConditions(ctx, r.ID)
}

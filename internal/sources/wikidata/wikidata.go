// Package wikidata enriches resort attributes from Wikidata entity
// claims: coordinates from P625, summit elevation from P2044, and the
// English label/description as name and tagline fallbacks.
package wikidata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/fetcher"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/store"
)

const (
	propCoordinates = "P625"
	propElevation   = "P2044"
)

// Entity is the subset of a wbgetentities response we consume.
type Entity struct {
	ID     string `json:"id"`
	Labels map[string]struct {
		Value string `json:"value"`
	} `json:"labels"`
	Descriptions map[string]struct {
		Value string `json:"value"`
	} `json:"descriptions"`
	Claims map[string][]claim `json:"claims"`
}

type claim struct {
	MainSnak struct {
		DataValue struct {
			Value struct {
				// globe-coordinate
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
				// quantity
				Amount string `json:"amount"`
			} `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

type entitiesResponse struct {
	Entities map[string]Entity `json:"entities"`
}

// Source searches Wikidata for each resort and fetches the best entity.
// Resorts whose search turns up nothing map to pipeline.ErrNoData.
type Source struct {
	store   store.Store
	fetcher fetcher.Fetcher
	apiURL  string
}

func NewSource(st store.Store, f fetcher.Fetcher, apiURL string) *Source {
	return &Source{store: st, fetcher: f, apiURL: apiURL}
}

func (s *Source) Name() string { return "wikidata" }

func (s *Source) List(ctx context.Context) ([]model.Resort, error) {
	return s.store.ListResorts(ctx, store.ListFilter{})
}

func (s *Source) Fetch(ctx context.Context, r model.Resort) (*Entity, error) {
	id, err := s.searchEntity(ctx, r.Name)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, pipeline.ErrNoData
	}

	q := url.Values{}
	q.Set("action", "wbgetentities")
	q.Set("ids", id)
	q.Set("props", "labels|descriptions|claims")
	q.Set("languages", "en")
	q.Set("format", "json")

	var resp entitiesResponse
	u := fmt.Sprintf("%s?%s", s.apiURL, q.Encode())
	if err := s.fetcher.GetJSON(ctx, u, &resp); err != nil {
		return nil, eris.Wrapf(err, "wikidata: get entity %s", id)
	}

	ent, ok := resp.Entities[id]
	if !ok {
		return nil, pipeline.ErrNoData
	}
	return &ent, nil
}

type searchResponse struct {
	Search []struct {
		ID string `json:"id"`
	} `json:"search"`
}

func (s *Source) searchEntity(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("action", "wbsearchentities")
	q.Set("search", name)
	q.Set("language", "en")
	q.Set("type", "item")
	q.Set("limit", "1")
	q.Set("format", "json")

	var resp searchResponse
	u := fmt.Sprintf("%s?%s", s.apiURL, q.Encode())
	if err := s.fetcher.GetJSON(ctx, u, &resp); err != nil {
		return "", eris.Wrapf(err, "wikidata: search %q", name)
	}
	if len(resp.Search) == 0 {
		return "", nil
	}
	return resp.Search[0].ID, nil
}

// Transform folds entity claims into the resort record. Only empty or
// zero-valued fields are filled; claims never overwrite curated data.
func Transform(_ context.Context, r model.Resort, ent *Entity) (model.Resort, error) {
	if r.Latitude == 0 && r.Longitude == 0 {
		if cs, ok := ent.Claims[propCoordinates]; ok && len(cs) > 0 {
			v := cs[0].MainSnak.DataValue.Value
			r.Latitude = v.Latitude
			r.Longitude = v.Longitude
		}
	}
	if r.VerticalM == 0 {
		if cs, ok := ent.Claims[propElevation]; ok && len(cs) > 0 {
			var meters float64
			// Quantity amounts carry an explicit sign, e.g. "+3433".
			if _, err := fmt.Sscanf(cs[0].MainSnak.DataValue.Value.Amount, "%f", &meters); err == nil {
				r.VerticalM = int(meters)
			}
		}
	}
	if r.Tagline == "" {
		if d, ok := ent.Descriptions["en"]; ok {
			r.Tagline = d.Value
		}
	}
	return r, nil
}

// Sink upserts the enriched resort row. Remove is a no-op: a resort
// without a Wikidata entity keeps its existing record.
type Sink struct {
	store store.Store
}

func NewSink(st store.Store) *Sink {
	return &Sink{store: st}
}

func (s *Sink) Write(ctx context.Context, _ model.Resort, r model.Resort) error {
	_, err := s.store.UpsertResort(ctx, r)
	return err
}

func (s *Sink) Remove(context.Context, model.Resort) error {
	return nil
}

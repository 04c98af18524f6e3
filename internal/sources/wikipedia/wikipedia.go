// Package wikipedia refreshes per-resort article extracts in object
// storage. The MediaWiki API is rate-limited to at most one call every
// 500 ms by the fetcher's host limiter.
package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/assets"
	"github.com/powderlines/resort-cli/internal/fetcher"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/store"
)

// queryResponse is the action=query&prop=extracts shape. A missing title
// comes back as a page with PageID 0 and Missing set.
type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			PageID  int       `json:"pageid"`
			Title   string    `json:"title"`
			Extract string    `json:"extract"`
			Missing *struct{} `json:"missing,omitempty"`
		} `json:"pages"`
	} `json:"query"`
}

// Article is the artifact written to object storage as wiki-data.json.
type Article struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	PageID    int       `json:"page_id"`
	Extract   string    `json:"extract"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Source lists resorts and fetches their article intro extracts.
type Source struct {
	store   store.Store
	fetcher fetcher.Fetcher
	apiURL  string
}

func NewSource(st store.Store, f fetcher.Fetcher, apiURL string) *Source {
	return &Source{store: st, fetcher: f, apiURL: apiURL}
}

func (s *Source) Name() string { return "wikipedia" }

func (s *Source) List(ctx context.Context) ([]model.Resort, error) {
	return s.store.ListResorts(ctx, store.ListFilter{})
}

func (s *Source) Fetch(ctx context.Context, r model.Resort) (*Article, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("prop", "extracts")
	q.Set("exintro", "1")
	q.Set("explaintext", "1")
	q.Set("redirects", "1")
	q.Set("format", "json")
	q.Set("formatversion", "1")
	q.Set("titles", r.Name)

	var resp queryResponse
	u := fmt.Sprintf("%s?%s", s.apiURL, q.Encode())
	if err := s.fetcher.GetJSON(ctx, u, &resp); err != nil {
		return nil, eris.Wrapf(err, "wikipedia: fetch %s", r.Slug)
	}

	for _, p := range resp.Query.Pages {
		if p.Missing != nil || p.PageID == 0 {
			continue
		}
		return &Article{
			Slug:      r.Slug,
			Title:     p.Title,
			PageID:    p.PageID,
			Extract:   p.Extract,
			FetchedAt: time.Now().UTC(),
		}, nil
	}
	return nil, pipeline.ErrNoData
}

// Transform is the identity: the artifact is the fetched article.
func Transform(_ context.Context, _ model.Resort, a *Article) (*Article, error) {
	return a, nil
}

// Sink writes wiki-data.json under the resort's asset path. Remove leaves
// the last good extract in place; a vanished article is not grounds to
// destroy existing copy.
type Sink struct {
	assets assets.Store
}

func NewSink(as assets.Store) *Sink {
	return &Sink{assets: as}
}

func (s *Sink) Write(ctx context.Context, r model.Resort, a *Article) error {
	key := assets.Key(r.AssetPath, assets.ArtifactWikiData)
	return s.assets.WriteJSON(ctx, key, a)
}

func (s *Sink) Remove(context.Context, model.Resort) error {
	return nil
}

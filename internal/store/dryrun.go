package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/powderlines/resort-cli/internal/model"
)

// DryRun wraps a Store, passing reads through and logging every mutation
// instead of executing it. Used by the --dry-run flag.
type DryRun struct {
	inner Store
}

// NewDryRun wraps inner in a read-only facade.
func NewDryRun(inner Store) *DryRun {
	return &DryRun{inner: inner}
}

func (d *DryRun) UpsertResort(_ context.Context, r model.Resort) (*model.Resort, error) {
	zap.S().Infow("dry-run: would upsert resort", "slug", r.Slug, "name", r.Name)
	if r.ID == "" {
		r.ID = "dry-run"
	}
	return &r, nil
}

func (d *DryRun) BulkUpsertResorts(_ context.Context, resorts []model.Resort) (int64, error) {
	zap.S().Infow("dry-run: would bulk upsert resorts", "count", len(resorts))
	return int64(len(resorts)), nil
}

func (d *DryRun) GetResortBySlug(ctx context.Context, slug string) (*model.Resort, error) {
	return d.inner.GetResortBySlug(ctx, slug)
}

func (d *DryRun) ListResorts(ctx context.Context, filter ListFilter) ([]model.Resort, error) {
	return d.inner.ListResorts(ctx, filter)
}

func (d *DryRun) MarkLost(_ context.Context, slug string) error {
	zap.S().Infow("dry-run: would mark resort lost", "slug", slug)
	return nil
}

func (d *DryRun) UpsertConditions(_ context.Context, c model.Conditions) error {
	zap.S().Infow("dry-run: would upsert conditions", "resort_id", c.ResortID)
	return nil
}

func (d *DryRun) UpsertLiftConditions(_ context.Context, c model.Conditions) error {
	zap.S().Infow("dry-run: would upsert lift conditions",
		"resort_id", c.ResortID, "lifts_open", c.LiftsOpen, "lifts_total", c.LiftsTotal)
	return nil
}

func (d *DryRun) UpsertWeatherConditions(_ context.Context, c model.Conditions) error {
	zap.S().Infow("dry-run: would upsert weather conditions",
		"resort_id", c.ResortID, "summary", c.WeatherSummary)
	return nil
}

func (d *DryRun) GetConditions(ctx context.Context, resortID string) (*model.Conditions, error) {
	return d.inner.GetConditions(ctx, resortID)
}

func (d *DryRun) DeleteConditions(_ context.Context, resortID string) error {
	zap.S().Infow("dry-run: would delete conditions", "resort_id", resortID)
	return nil
}

func (d *DryRun) Migrate(_ context.Context) error {
	zap.S().Info("dry-run: would apply migrations")
	return nil
}

func (d *DryRun) Close() error {
	return d.inner.Close()
}

package store

import (
	"context"

	"github.com/powderlines/resort-cli/internal/model"
)

// ListFilter specifies criteria for listing resorts.
type ListFilter struct {
	Slug        string `json:"slug,omitempty"` // substring match
	Country     string `json:"country,omitempty"`
	StateSlug   string `json:"state_slug,omitempty"`
	IncludeLost bool   `json:"include_lost,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the resort directory.
// Lookups that find nothing return (nil, nil); mutations against a missing
// row return an error.
type Store interface {
	// Resorts. Rows are never hard-deleted: removal marks is_lost.
	UpsertResort(ctx context.Context, r model.Resort) (*model.Resort, error)
	BulkUpsertResorts(ctx context.Context, resorts []model.Resort) (int64, error)
	GetResortBySlug(ctx context.Context, slug string) (*model.Resort, error)
	ListResorts(ctx context.Context, filter ListFilter) ([]model.Resort, error)
	MarkLost(ctx context.Context, slug string) error

	// Conditions. The row is one-to-one with a resort; each sync replaces
	// only the columns it owns, the admin API replaces the whole row.
	UpsertConditions(ctx context.Context, c model.Conditions) error
	UpsertLiftConditions(ctx context.Context, c model.Conditions) error
	UpsertWeatherConditions(ctx context.Context, c model.Conditions) error
	GetConditions(ctx context.Context, resortID string) (*model.Conditions, error)
	DeleteConditions(ctx context.Context, resortID string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

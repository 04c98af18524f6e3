// Package pipeline defines the source → transform → sink shape shared by
// every updater, plus the sequential runner that drives a batch.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/model"
)

// ErrNoData signals that the upstream no longer has a record for the
// resort. The runner treats it as a teardown, not a failure: the sink's
// Remove is invoked and the resort counts as removed.
var ErrNoData = eris.New("pipeline: no upstream data")

// Source enumerates candidate resorts and fetches the upstream payload
// for each. Fetch returns ErrNoData when the upstream dropped the resort.
type Source[P any] interface {
	Name() string
	List(ctx context.Context) ([]model.Resort, error)
	Fetch(ctx context.Context, r model.Resort) (P, error)
}

// Transformer converts an upstream payload into the record the sink writes.
type Transformer[P, R any] interface {
	Transform(ctx context.Context, r model.Resort, payload P) (R, error)
}

// Sink persists a transformed record, or tears one down after ErrNoData.
type Sink[R any] interface {
	Write(ctx context.Context, r model.Resort, rec R) error
	Remove(ctx context.Context, r model.Resort) error
}

// TransformFunc adapts a function to the Transformer interface.
type TransformFunc[P, R any] func(ctx context.Context, r model.Resort, payload P) (R, error)

func (f TransformFunc[P, R]) Transform(ctx context.Context, r model.Resort, payload P) (R, error) {
	return f(ctx, r, payload)
}

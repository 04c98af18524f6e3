// Package fetcher provides rate-limited, retrying HTTP access to the
// upstream APIs the sync pipelines read from.
package fetcher

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNotFound marks a 404 from an upstream. It is a legitimate "no data
// for this resort" outcome, not a fetch failure, and is never retried.
var ErrNotFound = eris.New("fetcher: not found")

// Fetcher defines the interface for reading remote JSON.
type Fetcher interface {
	// GetJSON fetches the URL and unmarshals the response body into out.
	// Returns ErrNotFound on a 404.
	GetJSON(ctx context.Context, url string, out any) error

	// Get fetches the URL and returns the raw response body.
	// Returns ErrNotFound on a 404.
	Get(ctx context.Context, url string) ([]byte, error)
}

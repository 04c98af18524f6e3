// Package assets reads and writes the per-resort files kept in object
// storage under resorts/{country}/{state}/{slug}/.
package assets

import (
	"context"
	"path"
)

// Store defines the object-store operations used by the pipelines.
type Store interface {
	// Exists reports whether an object is present at key.
	Exists(ctx context.Context, key string) (bool, error)

	// ReadJSON unmarshals the object at key into out. Callers are expected
	// to check Exists first; a missing object is an error.
	ReadJSON(ctx context.Context, key string, out any) error

	// WriteJSON marshals v and overwrites the object at key unconditionally.
	WriteJSON(ctx context.Context, key string, v any) error

	// Write overwrites the object at key with raw bytes.
	Write(ctx context.Context, key string, data []byte, contentType string) error

	// List returns the keys under prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases the underlying client.
	Close() error
}

// Known per-resort artifact names.
const (
	ArtifactWikiData      = "wiki-data.json"
	ArtifactEnrichedData  = "enriched-data.json"
	ArtifactLiftieSummary = "liftie/summary.json"
)

// Key joins a resort asset path with an artifact name.
func Key(assetPath, artifact string) string {
	return path.Join(assetPath, artifact)
}

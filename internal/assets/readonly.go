package assets

import (
	"context"

	"go.uber.org/zap"
)

// ReadOnly passes reads through to the underlying store and logs writes
// instead of performing them. Used by the --dry-run flag so a rehearsal
// run still sees real evidence.
type ReadOnly struct {
	inner Store
}

// NewReadOnly wraps inner in a write-logging facade.
func NewReadOnly(inner Store) *ReadOnly {
	return &ReadOnly{inner: inner}
}

func (s *ReadOnly) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, key)
}

func (s *ReadOnly) ReadJSON(ctx context.Context, key string, out any) error {
	return s.inner.ReadJSON(ctx, key, out)
}

func (s *ReadOnly) WriteJSON(_ context.Context, key string, _ any) error {
	zap.S().Infow("dry-run: would write object", "key", key)
	return nil
}

func (s *ReadOnly) Write(_ context.Context, key string, data []byte, _ string) error {
	zap.S().Infow("dry-run: would write object", "key", key, "bytes", len(data))
	return nil
}

func (s *ReadOnly) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *ReadOnly) Close() error {
	return s.inner.Close()
}

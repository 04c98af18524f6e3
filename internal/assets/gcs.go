package assets

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/rotisserie/eris"
	"google.golang.org/api/iterator"
)

// GCSStore implements Store over a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a GCSStore for the named bucket using application
// default credentials.
func NewGCS(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "assets: create storage client")
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, eris.Wrapf(err, "assets: stat %s", key)
	}
	return true, nil
}

func (s *GCSStore) ReadJSON(ctx context.Context, key string, out any) error {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return eris.Wrapf(err, "assets: open %s", key)
	}
	defer r.Close() //nolint:errcheck

	data, err := io.ReadAll(r)
	if err != nil {
		return eris.Wrapf(err, "assets: read %s", key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "assets: parse %s", key)
	}
	return nil
}

func (s *GCSStore) WriteJSON(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "assets: marshal %s", key)
	}
	return s.Write(ctx, key, data, "application/json")
}

func (s *GCSStore) Write(ctx context.Context, key string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return eris.Wrapf(err, "assets: write %s", key)
	}
	if err := w.Close(); err != nil {
		return eris.Wrapf(err, "assets: finalize %s", key)
	}
	return nil
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var keys []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "assets: list %s", prefix)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

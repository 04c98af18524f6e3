package assets

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

// MemStore is an in-memory Store used by tests and dry runs.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMem creates an empty in-memory store.
func NewMem() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

func (s *MemStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *MemStore) ReadJSON(_ context.Context, key string, out any) error {
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return eris.Errorf("assets: object not found: %s", key)
	}
	return json.Unmarshal(data, out)
}

func (s *MemStore) WriteJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "assets: marshal %s", key)
	}
	return s.Write(ctx, key, data, "application/json")
}

func (s *MemStore) Write(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *MemStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *MemStore) Close() error { return nil }

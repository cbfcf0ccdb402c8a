package manifests

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// MemoryStore keeps manifests in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	manifests []*interfaces.ExportManifest
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, manifest *interfaces.ExportManifest) error {
	if manifest == nil {
		return nil
	}
	cloned, err := cloneManifest(manifest)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.manifests {
		if existing.ID == cloned.ID {
			return nil
		}
	}
	s.manifests = append(s.manifests, cloned)
	return nil
}

func (s *MemoryStore) Latest(ctx context.Context) (*interfaces.ExportManifest, error) {
	list, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*interfaces.ExportManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := len(s.manifests)
	if limit > 0 && limit < count {
		count = limit
	}
	out := make([]*interfaces.ExportManifest, 0, count)
	for i := len(s.manifests) - 1; i >= 0 && len(out) < count; i-- {
		cloned, err := cloneManifest(s.manifests[i])
		if err != nil {
			return nil, err
		}
		out = append(out, cloned)
	}
	return out, nil
}

func cloneManifest(manifest *interfaces.ExportManifest) (*interfaces.ExportManifest, error) {
	encoded, err := json.Marshal(manifest)
	if err != nil {
		return nil, err
	}
	var out interfaces.ExportManifest
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Store = (*MemoryStore)(nil)

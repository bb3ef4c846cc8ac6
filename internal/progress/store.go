package progress

import (
	"context"
	"sync"

	"course_hub/internal/model"
)

// Store はスナップショットのキャッシュです。Get はキーが無ければ nil, nil を返します。
type Store interface {
	Get(ctx context.Context, key string) (*model.CourseProgress, error)
	Set(ctx context.Context, key string, snap *model.CourseProgress) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore はプロセス内のキャッシュ。値は常にコピーして出し入れします。
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*model.CourseProgress
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*model.CourseProgress)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*model.CourseProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.items[key]), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, snap *model.CourseProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil {
		delete(s.items, key)
		return nil
	}
	s.items[key] = Clone(snap)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

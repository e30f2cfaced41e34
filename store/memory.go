package store

import (
	"context"
	"slices"
	"sync"

	"github.com/gofhir/resources/resource"
)

// MemoryStore keeps encoded resources in a map. Stored values are copies:
// mutating a resource after Put or after Get does not affect the store.
type MemoryStore struct {
	base
	mu   sync.RWMutex
	data map[string]map[string][]byte // type -> id -> json
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		base: newBase(opts),
		data: make(map[string]map[string][]byte),
	}
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, id string, res resource.Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.encode(id, res)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rt := res.ResourceType()
	if s.data[rt] == nil {
		s.data[rt] = make(map[string][]byte)
	}
	s.data[rt][id] = data
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, resourceType, id string) (resource.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.data[resourceType][id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.decode(resourceType, id, data)
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, resourceType, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[resourceType], id)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, resourceType string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ids := make([]string, 0, len(s.data[resourceType]))
	for id := range s.data[resourceType] {
		ids = append(ids, id)
	}
	docs := make([][]byte, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		docs = append(docs, s.data[resourceType][id])
	}
	s.mu.RUnlock()

	out := make([]Entry, 0, len(ids))
	for i, id := range ids {
		res, err := s.decode(resourceType, id, docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: id, Resource: res})
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

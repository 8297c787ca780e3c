package favorite

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

type pairKey struct {
	userID    string
	biodataID int64
}

// MemoryStore implements Store in process.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[pairKey]Favorite
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[pairKey]Favorite)}
}

// Add inserts f unless the pair exists.
func (s *MemoryStore) Add(_ context.Context, f Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{f.UserID, f.BiodataID}
	if _, ok := s.items[k]; ok {
		return ErrAlreadyExists
	}
	s.items[k] = f
	return nil
}

// Remove deletes the pair.
func (s *MemoryStore) Remove(_ context.Context, userID string, biodataID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{userID, biodataID}
	if _, ok := s.items[k]; !ok {
		return ErrNotFound
	}
	delete(s.items, k)
	return nil
}

// List returns the user's favorites newest first.
func (s *MemoryStore) List(_ context.Context, userID string) ([]Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Favorite{}
	for k, f := range s.items {
		if k.userID == userID {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

func newestFirst(a, b Favorite) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.BiodataID, a.BiodataID)
}

// Exists reports whether the pair is stored.
func (s *MemoryStore) Exists(_ context.Context, userID string, biodataID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[pairKey{userID, biodataID}]
	return ok, nil
}

// RemoveAllForBiodata deletes every favorite pointing at biodataID.
func (s *MemoryStore) RemoveAllForBiodata(_ context.Context, biodataID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.items {
		if k.biodataID == biodataID {
			delete(s.items, k)
		}
	}
	return nil
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

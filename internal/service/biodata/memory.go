package biodata

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore implements Store in process. Used for local development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	nextView int64
	byID     map[int64]*Biodata
	byOwner  map[string]int64
	views    map[int64][]View
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[int64]*Biodata),
		byOwner: make(map[string]int64),
		views:   make(map[int64][]View),
	}
}

// Create stores b with a new ID.
func (s *MemoryStore) Create(_ context.Context, b *Biodata) (*Biodata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byOwner[b.OwnerID]; ok {
		return nil, ErrAlreadyExists
	}
	s.nextID++
	stored := b.clone()
	stored.ID = s.nextID
	s.byID[stored.ID] = stored
	s.byOwner[stored.OwnerID] = stored.ID
	return stored.clone(), nil
}

// Update copies owner-editable fields onto the stored biodata.
func (s *MemoryStore) Update(_ context.Context, b *Biodata) (*Biodata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[b.ID]
	if !ok {
		return nil, ErrNotFound
	}
	stored.Gender = b.Gender
	stored.MaritalStatus = b.MaritalStatus
	stored.FullName = b.FullName
	stored.BirthDate = b.clone().BirthDate
	stored.PermanentAddress = b.PermanentAddress
	stored.PresentAddress = b.PresentAddress
	stored.PresentSameAsPermanent = b.PresentSameAsPermanent
	stored.UpdatedAt = b.UpdatedAt
	return stored.clone(), nil
}

// Get returns the biodata with id.
func (s *MemoryStore) Get(_ context.Context, id int64) (*Biodata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b.clone(), nil
}

// GetByOwner returns the biodata owned by ownerID.
func (s *MemoryStore) GetByOwner(ctx context.Context, ownerID string) (*Biodata, error) {
	s.mu.RLock()
	id, ok := s.byOwner[ownerID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// SetApprovalStatus sets the moderation axis.
func (s *MemoryStore) SetApprovalStatus(_ context.Context, id int64, status ApprovalStatus) (*Biodata, error) {
	return s.mutate(id, func(b *Biodata) { b.ApprovalStatus = status })
}

// SetVisibilityStatus sets the owner visibility axis.
func (s *MemoryStore) SetVisibilityStatus(_ context.Context, id int64, status VisibilityStatus) (*Biodata, error) {
	return s.mutate(id, func(b *Biodata) { b.VisibilityStatus = status })
}

func (s *MemoryStore) mutate(id int64, fn func(*Biodata)) (*Biodata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(b)
	b.UpdatedAt = time.Now().UTC()
	return b.clone(), nil
}

// Delete removes the biodata and its views.
func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byOwner, b.OwnerID)
	delete(s.byID, id)
	delete(s.views, id)
	return nil
}

// ListCandidates returns matching biodatas newest first.
func (s *MemoryStore) ListCandidates(_ context.Context, q CandidateQuery) ([]*Biodata, error) {
	return s.list(MatchesCandidate(q)), nil
}

// ListByApproval returns biodatas with the given approval status newest first.
func (s *MemoryStore) ListByApproval(_ context.Context, status ApprovalStatus) ([]*Biodata, error) {
	return s.list(func(b *Biodata) bool {
		return status == "" || b.ApprovalStatus == status
	}), nil
}

func (s *MemoryStore) list(keep Predicate) []*Biodata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Biodata, 0, len(s.byID))
	for _, b := range s.byID {
		if keep(b) {
			out = append(out, b.clone())
		}
	}
	slices.SortFunc(out, func(a, b *Biodata) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

// HasRecentView reports whether key has a view at or after since.
func (s *MemoryStore) HasRecentView(_ context.Context, key ViewKey, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.views[key.BiodataID] {
		if v.ViewedAt.Before(since) {
			continue
		}
		if key.Anonymous() {
			if v.ViewerID == "" && v.IPAddress == key.IPAddress {
				return true, nil
			}
		} else if v.ViewerID == key.ViewerID {
			return true, nil
		}
	}
	return false, nil
}

// AddView appends v and increments the view counter under the same lock.
func (s *MemoryStore) AddView(_ context.Context, v *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[v.BiodataID]
	if !ok {
		return ErrNotFound
	}
	s.nextView++
	v.ID = s.nextView
	s.views[v.BiodataID] = append(s.views[v.BiodataID], *v)
	b.ViewCount++
	return nil
}

// CountViews counts views of biodataID at or after since.
func (s *MemoryStore) CountViews(_ context.Context, biodataID int64, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, v := range s.views[biodataID] {
		if !v.ViewedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

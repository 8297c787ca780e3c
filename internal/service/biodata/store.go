package biodata

import (
	"context"
	"time"
)

// CandidateQuery narrows the candidate set at the storage layer.
// Zero values mean "no constraint".
type CandidateQuery struct {
	ID            *int64
	Gender        string
	MaritalStatus string
	AgeMin        *int
	AgeMax        *int
	// Now anchors age computation.
	Now time.Time
}

// BirthBounds converts the age range into an inclusive birth date window.
// A candidate of age >= AgeMin was born on or before latest; one of age <= AgeMax
// was born after earliest.
func (q CandidateQuery) BirthBounds() (earliest, latest *time.Time) {
	now := q.Now.UTC()
	if q.AgeMin != nil {
		t := now.AddDate(-*q.AgeMin, 0, 0)
		latest = &t
	}
	if q.AgeMax != nil {
		t := now.AddDate(-(*q.AgeMax + 1), 0, 0)
		earliest = &t
	}
	return earliest, latest
}

// ViewKey identifies whose views are deduplicated: a viewer when ViewerID is set,
// otherwise an anonymous IP address.
type ViewKey struct {
	BiodataID int64
	ViewerID  string
	IPAddress string
}

// Anonymous reports whether the key dedups by IP address.
func (k ViewKey) Anonymous() bool {
	return k.ViewerID == ""
}

// Store persists biodatas and their view history.
//
// Implementations must:
//   - assign IDs in increasing order and reject a second biodata per owner with ErrAlreadyExists
//   - return ErrNotFound for unknown IDs or owners
//   - return candidates newest first (ID descending)
//   - increment ViewCount atomically on AddView
//   - cascade view history on Delete
type Store interface {
	Create(ctx context.Context, b *Biodata) (*Biodata, error)
	// Update writes owner-editable fields only; status axes and ViewCount are untouched.
	Update(ctx context.Context, b *Biodata) (*Biodata, error)
	Get(ctx context.Context, id int64) (*Biodata, error)
	GetByOwner(ctx context.Context, ownerID string) (*Biodata, error)
	SetApprovalStatus(ctx context.Context, id int64, status ApprovalStatus) (*Biodata, error)
	SetVisibilityStatus(ctx context.Context, id int64, status VisibilityStatus) (*Biodata, error)
	Delete(ctx context.Context, id int64) error

	ListCandidates(ctx context.Context, q CandidateQuery) ([]*Biodata, error)
	// ListByApproval lists biodatas newest first; an empty status lists all.
	ListByApproval(ctx context.Context, status ApprovalStatus) ([]*Biodata, error)

	HasRecentView(ctx context.Context, key ViewKey, since time.Time) (bool, error)
	AddView(ctx context.Context, v *View) error
	CountViews(ctx context.Context, biodataID int64, since time.Time) (int64, error)
}

package biodata

import (
	"errors"
	"time"

	"github.com/janisto/biodata-discovery/internal/service/location"
)

// Service errors
var (
	ErrNotFound         = errors.New("biodata not found")
	ErrAlreadyExists    = errors.New("biodata already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Address is one permanent or present address set.
type Address = location.Address

// Biodata is a matrimonial profile.
type Biodata struct {
	ID      int64
	OwnerID string

	ApprovalStatus   ApprovalStatus
	VisibilityStatus VisibilityStatus

	Gender        string
	MaritalStatus string
	FullName      string
	BirthDate     *time.Time

	PermanentAddress       Address
	PresentAddress         Address
	PresentSameAsPermanent bool

	ViewCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus derives the status external viewers perceive.
func (b *Biodata) EffectiveStatus() EffectiveStatus {
	return ResolveEffectiveStatus(b.ApprovalStatus, b.VisibilityStatus)
}

// IsPubliclyVisible reports whether the biodata is discoverable by the public.
func (b *Biodata) IsPubliclyVisible() bool {
	return IsPubliclyVisible(b.ApprovalStatus, b.VisibilityStatus)
}

// OwnedBy reports whether userID owns the biodata. An empty userID never owns anything.
func (b *Biodata) OwnedBy(userID string) bool {
	return userID != "" && b.OwnerID == userID
}

// EffectivePresentAddress returns the permanent address when the owner declared them identical.
func (b *Biodata) EffectivePresentAddress() Address {
	if b.PresentSameAsPermanent {
		return b.PermanentAddress
	}
	return b.PresentAddress
}

// Addresses returns the pair used by location matching.
func (b *Biodata) Addresses() location.AddressPair {
	return location.AddressPair{
		Permanent: b.PermanentAddress,
		Present:   b.EffectivePresentAddress(),
	}
}

// Age returns the age in whole years at now. ok is false when no birth date is set.
func (b *Biodata) Age(now time.Time) (age int, ok bool) {
	if b.BirthDate == nil {
		return 0, false
	}
	birth := b.BirthDate.UTC()
	now = now.UTC()
	age = now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}

func (b *Biodata) clone() *Biodata {
	c := *b
	if b.BirthDate != nil {
		d := *b.BirthDate
		c.BirthDate = &d
	}
	return &c
}

// View is one recorded profile view. ViewerID is empty for anonymous visitors.
type View struct {
	ID        int64
	BiodataID int64
	ViewerID  string
	IPAddress string
	UserAgent string
	ViewedAt  time.Time
}

// Role is the caller's application role.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Actor is the identity performing an operation. A zero Actor is anonymous.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor may moderate biodatas.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// IsSuperAdmin reports whether the actor may delete other users' biodatas.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// ToggleResult reports the outcome of an owner visibility toggle.
// A rejected toggle is returned as data with Success false.
type ToggleResult struct {
	Success   bool
	Message   string
	NewStatus VisibilityStatus
}

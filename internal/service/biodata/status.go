package biodata

import (
	"fmt"
	"strings"
)

// ApprovalStatus is the admin-controlled moderation axis.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalInactive ApprovalStatus = "inactive"
)

// ApprovalStatuses lists every approval value.
var ApprovalStatuses = []ApprovalStatus{ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalInactive}

// VisibilityStatus is the owner-controlled publish toggle.
type VisibilityStatus string

const (
	VisibilityActive   VisibilityStatus = "active"
	VisibilityInactive VisibilityStatus = "inactive"
)

// VisibilityStatuses lists every visibility value.
var VisibilityStatuses = []VisibilityStatus{VisibilityActive, VisibilityInactive}

// EffectiveStatus is the single status external viewers perceive.
type EffectiveStatus string

const (
	EffectiveActive   EffectiveStatus = "active"
	EffectiveInactive EffectiveStatus = "inactive"
	EffectivePending  EffectiveStatus = "pending"
	EffectiveRejected EffectiveStatus = "rejected"
)

// Valid reports whether s is a known approval value.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalInactive:
		return true
	}
	return false
}

// Valid reports whether s is a known visibility value.
func (s VisibilityStatus) Valid() bool {
	return s == VisibilityActive || s == VisibilityInactive
}

// Toggle flips active and inactive.
func (s VisibilityStatus) Toggle() VisibilityStatus {
	if s == VisibilityActive {
		return VisibilityInactive
	}
	return VisibilityActive
}

// ParseApprovalStatus parses a case-insensitive approval value.
func ParseApprovalStatus(raw string) (ApprovalStatus, error) {
	s := ApprovalStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: approval status %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// ParseVisibilityStatus parses a case-insensitive visibility value.
func ParseVisibilityStatus(raw string) (VisibilityStatus, error) {
	s := VisibilityStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: visibility status %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// ResolveEffectiveStatus masks visibility behind any non-approved moderation state.
// Only an approved biodata exposes the owner's visibility choice.
func ResolveEffectiveStatus(approval ApprovalStatus, visibility VisibilityStatus) EffectiveStatus {
	if approval != ApprovalApproved {
		return EffectiveStatus(approval)
	}
	return EffectiveStatus(visibility)
}

// CanOwnerToggleVisibility reports whether the owner may flip visibility.
func CanOwnerToggleVisibility(approval ApprovalStatus) bool {
	return approval == ApprovalApproved
}

// IsPubliclyVisible is the only discoverability rule: approved and active.
func IsPubliclyVisible(approval ApprovalStatus, visibility VisibilityStatus) bool {
	return approval == ApprovalApproved && visibility == VisibilityActive
}

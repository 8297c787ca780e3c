package biodata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
	"github.com/janisto/biodata-discovery/internal/platform/pagination"
)

const resourceType = "biodata"

// DeleteHook runs after a biodata is deleted so dependent records can be removed.
type DeleteHook func(ctx context.Context, biodataID int64) error

// SaveParams holds the owner-editable fields.
type SaveParams struct {
	Gender                 string
	MaritalStatus          string
	FullName               string
	BirthDate              *time.Time
	PermanentAddress       Address
	PresentAddress         Address
	PresentSameAsPermanent bool
}

// Service implements the visibility and discovery engine over a Store.
type Service struct {
	store        Store
	guard        WindowGuard
	now          func() time.Time
	defaultLimit int
	deleteHooks  []DeleteHook
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithWindowGuard adds an atomic dedup guard consulted before the store.
func WithWindowGuard(g WindowGuard) Option {
	return func(s *Service) { s.guard = g }
}

// WithDefaultLimit sets the page size used when a search gives none.
func WithDefaultLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// WithDeleteHook registers a cascade step run after Delete.
func WithDeleteHook(h DeleteHook) Option {
	return func(s *Service) { s.deleteHooks = append(s.deleteHooks, h) }
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		now:          time.Now,
		defaultLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddDeleteHook registers a cascade step after construction.
func (s *Service) AddDeleteHook(h DeleteHook) {
	s.deleteHooks = append(s.deleteHooks, h)
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrInvalidStatus):
		return "invalid_status"
	default:
		return "internal_error"
	}
}

func audit(ctx context.Context, action, userID string, id int64, err error, details map[string]any) {
	rid := strconv.FormatInt(id, 10)
	if err != nil {
		if details == nil {
			details = map[string]any{}
		}
		details["error"] = categorizeError(err)
		applog.LogAuditEvent(ctx, action, userID, resourceType, rid, applog.AuditFailure, details)
		return
	}
	applog.LogAuditEvent(ctx, action, userID, resourceType, rid, applog.AuditSuccess, details)
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Save creates the owner's biodata on first save (pending, active) or updates
// the owner-editable fields. created reports which happened.
func (s *Service) Save(ctx context.Context, ownerID string, p SaveParams) (b *Biodata, created bool, err error) {
	if ownerID == "" {
		return nil, false, ErrPermissionDenied
	}
	now := s.now().UTC()
	fields := &Biodata{
		OwnerID:                ownerID,
		Gender:                 normalize(p.Gender),
		MaritalStatus:          normalize(p.MaritalStatus),
		FullName:               strings.TrimSpace(p.FullName),
		BirthDate:              p.BirthDate,
		PermanentAddress:       p.PermanentAddress,
		PresentAddress:         p.PresentAddress,
		PresentSameAsPermanent: p.PresentSameAsPermanent,
		UpdatedAt:              now,
	}
	if fields.PresentSameAsPermanent {
		fields.PresentAddress = fields.PermanentAddress
	}

	existing, err := s.store.GetByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, ErrNotFound):
		fields.ApprovalStatus = ApprovalPending
		fields.VisibilityStatus = VisibilityActive
		fields.CreatedAt = now
		b, err = s.store.Create(ctx, fields)
		if err != nil {
			audit(ctx, "create", ownerID, 0, err, nil)
			return nil, false, fmt.Errorf("create biodata: %w", err)
		}
		audit(ctx, "create", ownerID, b.ID, nil, nil)
		return b, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("load biodata: %w", err)
	}

	fields.ID = existing.ID
	b, err = s.store.Update(ctx, fields)
	if err != nil {
		audit(ctx, "update", ownerID, existing.ID, err, nil)
		return nil, false, fmt.Errorf("update biodata: %w", err)
	}
	audit(ctx, "update", ownerID, b.ID, nil, nil)
	return b, false, nil
}

// Get returns a biodata regardless of visibility.
func (s *Service) Get(ctx context.Context, id int64) (*Biodata, error) {
	return s.store.Get(ctx, id)
}

// GetForOwner returns the caller's own biodata.
func (s *Service) GetForOwner(ctx context.Context, ownerID string) (*Biodata, error) {
	if ownerID == "" {
		return nil, ErrNotFound
	}
	return s.store.GetByOwner(ctx, ownerID)
}

// GetPublic returns a biodata to actor. Hidden biodatas are reported as
// ErrNotFound unless actor owns them or is an admin.
func (s *Service) GetPublic(ctx context.Context, id int64, actor Actor) (*Biodata, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsPubliclyVisible() || b.OwnedBy(actor.UserID) || actor.IsAdmin() {
		return b, nil
	}
	return nil, ErrNotFound
}

// ToggleVisibility flips the owner's visibility. A toggle while not approved is
// rejected through the result, not an error.
func (s *Service) ToggleVisibility(ctx context.Context, ownerID string) (ToggleResult, error) {
	b, err := s.GetForOwner(ctx, ownerID)
	if err != nil {
		return ToggleResult{}, err
	}

	if !CanOwnerToggleVisibility(b.ApprovalStatus) {
		applog.LogAuditEvent(ctx, "toggle_visibility", ownerID, resourceType, strconv.FormatInt(b.ID, 10),
			applog.AuditFailure, map[string]any{"approval_status": string(b.ApprovalStatus)})
		return ToggleResult{
			Success: false,
			Message: fmt.Sprintf("visibility can only be changed once the biodata is approved (current status: %s)",
				b.ApprovalStatus),
		}, nil
	}

	next := b.VisibilityStatus.Toggle()
	updated, err := s.store.SetVisibilityStatus(ctx, b.ID, next)
	if err != nil {
		audit(ctx, "toggle_visibility", ownerID, b.ID, err, nil)
		return ToggleResult{}, fmt.Errorf("set visibility: %w", err)
	}
	audit(ctx, "toggle_visibility", ownerID, b.ID, nil, map[string]any{"visibility_status": string(next)})

	return ToggleResult{
		Success:   true,
		Message:   fmt.Sprintf("biodata is now %s", updated.VisibilityStatus),
		NewStatus: updated.VisibilityStatus,
	}, nil
}

// UpdateApprovalStatus sets the moderation axis. Only admins may call it;
// any-to-any transitions are permitted.
func (s *Service) UpdateApprovalStatus(ctx context.Context, actor Actor, id int64, status ApprovalStatus) (*Biodata, error) {
	if !actor.IsAdmin() {
		audit(ctx, "update_approval", actor.UserID, id, ErrPermissionDenied, nil)
		return nil, ErrPermissionDenied
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: approval status %q", ErrInvalidStatus, status)
	}

	b, err := s.store.SetApprovalStatus(ctx, id, status)
	if err != nil {
		audit(ctx, "update_approval", actor.UserID, id, err, nil)
		return nil, err
	}
	audit(ctx, "update_approval", actor.UserID, id, nil, map[string]any{"approval_status": string(status)})
	return b, nil
}

// Delete removes a biodata and its dependents. Owners may delete their own;
// superadmins may delete any.
func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		audit(ctx, "delete", actor.UserID, id, err, nil)
		return err
	}
	if !b.OwnedBy(actor.UserID) && !actor.IsSuperAdmin() {
		audit(ctx, "delete", actor.UserID, id, ErrPermissionDenied, nil)
		return ErrPermissionDenied
	}

	if err := s.store.Delete(ctx, id); err != nil {
		audit(ctx, "delete", actor.UserID, id, err, nil)
		return err
	}
	for _, hook := range s.deleteHooks {
		if err := hook(ctx, id); err != nil {
			applog.LogError(ctx, "delete cascade failed", err, zap.Int64("biodata_id", id))
		}
	}
	audit(ctx, "delete", actor.UserID, id, nil, nil)
	return nil
}

// DeleteOwn removes the caller's biodata.
func (s *Service) DeleteOwn(ctx context.Context, ownerID string) error {
	b, err := s.GetForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, Actor{UserID: ownerID, Role: RoleUser}, b.ID)
}

// ListForAdmin pages through biodatas for moderation, optionally filtered by approval status.
func (s *Service) ListForAdmin(
	ctx context.Context,
	actor Actor,
	status ApprovalStatus,
	page, limit int,
) ([]*Biodata, pagination.Meta, error) {
	if !actor.IsAdmin() {
		return nil, pagination.Meta{}, ErrPermissionDenied
	}
	if status != "" && !status.Valid() {
		return nil, pagination.Meta{}, fmt.Errorf("%w: approval status %q", ErrInvalidStatus, status)
	}
	items, err := s.store.ListByApproval(ctx, status)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("list biodatas: %w", err)
	}
	data, meta := pagination.Slice(items, page, clampLimit(limit, s.defaultLimit))
	return data, meta, nil
}

package favorite

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
	"github.com/janisto/biodata-discovery/internal/service/biodata"
)

// Service errors
var (
	ErrNotFound        = errors.New("favorite not found")
	ErrAlreadyExists   = errors.New("favorite already exists")
	ErrBiodataNotFound = errors.New("biodata not found")
)

// Favorite is a bookmark of a biodata by a user.
type Favorite struct {
	UserID    string
	BiodataID int64
	CreatedAt time.Time
}

// Store persists favorites. (UserID, BiodataID) is unique.
type Store interface {
	Add(ctx context.Context, f Favorite) error
	Remove(ctx context.Context, userID string, biodataID int64) error
	// List returns the user's favorites newest first.
	List(ctx context.Context, userID string) ([]Favorite, error)
	Exists(ctx context.Context, userID string, biodataID int64) (bool, error)
	RemoveAllForBiodata(ctx context.Context, biodataID int64) error
}

// BiodataLookup resolves biodata existence.
type BiodataLookup interface {
	Get(ctx context.Context, id int64) (*biodata.Biodata, error)
}

// Service manages favorites.
type Service struct {
	store    Store
	biodatas BiodataLookup
	now      func() time.Time
}

// NewService creates a favorites service.
func NewService(store Store, biodatas BiodataLookup) *Service {
	return &Service{store: store, biodatas: biodatas, now: time.Now}
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBiodataNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}

// Add bookmarks a biodata. Adding the same pair twice returns ErrAlreadyExists.
func (s *Service) Add(ctx context.Context, userID string, biodataID int64) (*Favorite, error) {
	rid := strconv.FormatInt(biodataID, 10)
	if _, err := s.biodatas.Get(ctx, biodataID); err != nil {
		if errors.Is(err, biodata.ErrNotFound) {
			err = ErrBiodataNotFound
		}
		applog.LogAuditEvent(ctx, "add", userID, "favorite", rid, applog.AuditFailure,
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	f := Favorite{UserID: userID, BiodataID: biodataID, CreatedAt: s.now().UTC()}
	if err := s.store.Add(ctx, f); err != nil {
		applog.LogAuditEvent(ctx, "add", userID, "favorite", rid, applog.AuditFailure,
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "add", userID, "favorite", rid, applog.AuditSuccess, nil)
	return &f, nil
}

// Remove deletes a bookmark.
func (s *Service) Remove(ctx context.Context, userID string, biodataID int64) error {
	rid := strconv.FormatInt(biodataID, 10)
	if err := s.store.Remove(ctx, userID, biodataID); err != nil {
		applog.LogAuditEvent(ctx, "remove", userID, "favorite", rid, applog.AuditFailure,
			map[string]any{"error": categorizeError(err)})
		return err
	}
	applog.LogAuditEvent(ctx, "remove", userID, "favorite", rid, applog.AuditSuccess, nil)
	return nil
}

// List returns the user's favorites newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Favorite, error) {
	items, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return items, nil
}

// Exists reports whether the pair is bookmarked.
func (s *Service) Exists(ctx context.Context, userID string, biodataID int64) (bool, error) {
	return s.store.Exists(ctx, userID, biodataID)
}

// RemoveAllForBiodata deletes every bookmark of a biodata. It is registered as
// a biodata delete hook.
func (s *Service) RemoveAllForBiodata(ctx context.Context, biodataID int64) error {
	return s.store.RemoveAllForBiodata(ctx, biodataID)
}

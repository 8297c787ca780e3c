package biodata

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
)

const (
	// DedupWindow bounds repeat views from one viewer or anonymous IP.
	DedupWindow = 24 * time.Hour
	// RecentWindow is the span reported as recent views.
	RecentWindow = 7 * 24 * time.Hour
)

// View outcomes.
const (
	ReasonOwnerView = "owner view"
	ReasonDuplicate = "already viewed within 24 hours"
	ReasonCounted   = "view counted"
)

// ViewRequest describes one view as observed by the transport layer.
type ViewRequest struct {
	BiodataID int64
	ViewerID  string
	IPAddress string
	UserAgent string
}

// ViewResult reports whether a view was counted and why.
type ViewResult struct {
	Counted bool
	Reason  string
}

// ViewStats summarizes view history.
type ViewStats struct {
	TotalViews     int64
	RecentViews    int64
	ViewsThisMonth int64
}

// WindowGuard is an atomic "first in window" check keyed by ViewKey.
type WindowGuard interface {
	// Acquire returns true when key had no mark within window and marks it.
	Acquire(ctx context.Context, key ViewKey, window time.Duration) (bool, error)
	// Release clears a mark taken by a view that was not stored.
	Release(ctx context.Context, key ViewKey) error
}

// RecordView counts a view unless it comes from the owner or repeats within DedupWindow.
// The check and the insert are not atomic across requests unless a WindowGuard is set.
func (s *Service) RecordView(ctx context.Context, req ViewRequest) (ViewResult, error) {
	b, err := s.store.Get(ctx, req.BiodataID)
	if err != nil {
		return ViewResult{}, err
	}

	if b.OwnedBy(req.ViewerID) {
		return ViewResult{Counted: false, Reason: ReasonOwnerView}, nil
	}

	now := s.now()
	key := ViewKey{BiodataID: b.ID, ViewerID: req.ViewerID}
	if key.Anonymous() {
		key.IPAddress = req.IPAddress
	}
	dedup := !key.Anonymous() || key.IPAddress != ""

	guarded := false
	if dedup {
		if s.guard != nil {
			first, err := s.guard.Acquire(ctx, key, DedupWindow)
			switch {
			case err != nil:
				applog.LogWarn(ctx, "view guard unavailable", zap.Error(err), zap.Int64("biodata_id", b.ID))
			case !first:
				return ViewResult{Counted: false, Reason: ReasonDuplicate}, nil
			default:
				guarded = true
			}
		}

		seen, err := s.store.HasRecentView(ctx, key, now.Add(-DedupWindow))
		if err != nil {
			s.release(ctx, guarded, key)
			return ViewResult{}, fmt.Errorf("check recent views: %w", err)
		}
		if seen {
			return ViewResult{Counted: false, Reason: ReasonDuplicate}, nil
		}
	}

	v := &View{
		BiodataID: b.ID,
		ViewerID:  req.ViewerID,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		ViewedAt:  now.UTC(),
	}
	if err := s.store.AddView(ctx, v); err != nil {
		s.release(ctx, guarded, key)
		return ViewResult{}, fmt.Errorf("add view: %w", err)
	}
	return ViewResult{Counted: true, Reason: ReasonCounted}, nil
}

func (s *Service) release(ctx context.Context, guarded bool, key ViewKey) {
	if !guarded {
		return
	}
	if err := s.guard.Release(ctx, key); err != nil {
		applog.LogWarn(ctx, "view guard release failed", zap.Error(err), zap.Int64("biodata_id", key.BiodataID))
	}
}

// ViewCount returns the denormalized counter.
func (s *Service) ViewCount(ctx context.Context, id int64) (int64, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return b.ViewCount, nil
}

// ViewStats returns the total counter plus counts over the last seven days and
// since the first of the current month in server-local time.
func (s *Service) ViewStats(ctx context.Context, id int64) (ViewStats, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return ViewStats{}, err
	}

	now := s.now()
	recent, err := s.store.CountViews(ctx, id, now.Add(-RecentWindow))
	if err != nil {
		return ViewStats{}, fmt.Errorf("count recent views: %w", err)
	}
	month, err := s.store.CountViews(ctx, id, startOfMonth(now))
	if err != nil {
		return ViewStats{}, fmt.Errorf("count monthly views: %w", err)
	}

	return ViewStats{
		TotalViews:     b.ViewCount,
		RecentViews:    recent,
		ViewsThisMonth: month,
	}, nil
}

func startOfMonth(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local)
}

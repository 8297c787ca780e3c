package biodata

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/janisto/biodata-discovery/internal/platform/pagination"
	"github.com/janisto/biodata-discovery/internal/service/location"
)

const (
	DefaultSearchLimit = 6
	MaxSearchLimit     = 100
	MaxSearchPage      = 10000
)

// RawSearchFilters is the untyped search box input.
type RawSearchFilters struct {
	Gender        string
	MaritalStatus string
	Location      string
	BiodataNumber string
	AgeMin        string
	AgeMax        string
	Page          string
	Limit         string
}

// SearchFilters is the parsed search request. Nil pointers and empty strings mean "absent".
type SearchFilters struct {
	Gender        string
	MaritalStatus string
	Location      location.Selector
	BiodataNumber *int64
	AgeMin        *int
	AgeMax        *int
	Page          int
	Limit         int
}

// SearchResult is one page of discoverable biodatas.
type SearchResult struct {
	Data       []*Biodata
	Pagination pagination.Meta
}

// ParseSearchFilters converts raw input permissively: malformed numbers are
// treated as absent, page defaults to 1 (capped at MaxSearchPage) and limit
// to defaultLimit (capped at MaxSearchLimit).
func ParseSearchFilters(raw RawSearchFilters, defaultLimit int) SearchFilters {
	f := SearchFilters{
		Gender:        normalize(raw.Gender),
		MaritalStatus: normalize(raw.MaritalStatus),
		Location:      location.ParseSelector(raw.Location),
		AgeMin:        parseNonNegative(raw.AgeMin),
		AgeMax:        parseNonNegative(raw.AgeMax),
		Page:          1,
		Limit:         clampLimit(0, defaultLimit),
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(raw.BiodataNumber), 10, 64); err == nil && n > 0 {
		f.BiodataNumber = &n
	}
	if p := parseNonNegative(raw.Page); p != nil && *p > 0 {
		f.Page = min(*p, MaxSearchPage)
	}
	if l := parseNonNegative(raw.Limit); l != nil && *l > 0 {
		f.Limit = clampLimit(*l, defaultLimit)
	}
	return f
}

func parseNonNegative(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func clampLimit(limit, fallback int) int {
	if fallback < 1 {
		fallback = DefaultSearchLimit
	}
	switch {
	case limit < 1:
		limit = fallback
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}
	return min(limit, MaxSearchLimit)
}

// Search narrows candidates in storage, keeps publicly visible ones, applies the
// location selector and returns the requested page.
func (s *Service) Search(ctx context.Context, f SearchFilters) (SearchResult, error) {
	candidates, err := s.store.ListCandidates(ctx, CandidateQuery{
		ID:            f.BiodataNumber,
		Gender:        normalize(f.Gender),
		MaritalStatus: normalize(f.MaritalStatus),
		AgeMin:        f.AgeMin,
		AgeMax:        f.AgeMax,
		Now:           s.now(),
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("list candidates: %w", err)
	}

	preds := []Predicate{Visible}
	if !f.Location.IsEmpty() {
		preds = append(preds, InLocation(f.Location))
	}
	matched := Filter(candidates, preds...)

	data, meta := pagination.Slice(matched, f.Page, clampLimit(f.Limit, s.defaultLimit))
	return SearchResult{Data: data, Pagination: meta}, nil
}

// ParseSearch parses raw with the service's default limit.
func (s *Service) ParseSearch(raw RawSearchFilters) SearchFilters {
	return ParseSearchFilters(raw, s.defaultLimit)
}

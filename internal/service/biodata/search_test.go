package biodata

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchFiltersPermissive(t *testing.T) {
	f := ParseSearchFilters(RawSearchFilters{
		Gender:        " Female ",
		AgeMin:        "abc",
		AgeMax:        "-3",
		Page:          "0",
		Limit:         "x",
		BiodataNumber: "12a",
	}, DefaultSearchLimit)

	assert.Equal(t, "female", f.Gender)
	assert.Nil(t, f.AgeMin)
	assert.Nil(t, f.AgeMax)
	assert.Nil(t, f.BiodataNumber)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultSearchLimit, f.Limit)
	assert.True(t, f.Location.IsEmpty())

	huge := ParseSearchFilters(RawSearchFilters{Page: "9223372036854775807"}, DefaultSearchLimit)
	assert.Equal(t, MaxSearchPage, huge.Page)
}

func TestSearchHugePageReturnsEmpty(t *testing.T) {
	svc, store, _ := newTestService()
	for range 3 {
		seed(t, svc, store, ApprovalApproved, VisibilityActive, nil)
	}

	for _, page := range []int{MaxSearchPage, math.MaxInt} {
		res, err := svc.Search(context.Background(), SearchFilters{Page: page, Limit: DefaultSearchLimit})
		require.NoError(t, err)
		assert.Empty(t, res.Data)
		assert.Equal(t, 3, res.Pagination.Total)
		assert.Equal(t, 1, res.Pagination.TotalPages)
	}

	res, err := svc.Search(context.Background(), svc.ParseSearch(RawSearchFilters{Page: "9223372036854775807"}))
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, MaxSearchPage, res.Pagination.Page)
}

func TestParseSearchFiltersValues(t *testing.T) {
	f := ParseSearchFilters(RawSearchFilters{
		MaritalStatus: "Divorced",
		Location:      "Bangladesh > Dhaka > All Districts",
		BiodataNumber: "42",
		AgeMin:        "25",
		AgeMax:        "30",
		Page:          "3",
		Limit:         "500",
	}, 10)

	assert.Equal(t, "divorced", f.MaritalStatus)
	require.NotNil(t, f.BiodataNumber)
	assert.EqualValues(t, 42, *f.BiodataNumber)
	assert.Equal(t, 25, *f.AgeMin)
	assert.Equal(t, 30, *f.AgeMax)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, MaxSearchLimit, f.Limit)
	assert.Equal(t, []string{"Bangladesh", "Dhaka", "All Districts"}, f.Location.Segments())

	assert.Equal(t, 10, ParseSearchFilters(RawSearchFilters{}, 10).Limit)
}

func TestSearchPaginatesThirteenVisible(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	for range 13 {
		seed(t, svc, store, ApprovalApproved, VisibilityActive, nil)
	}

	first, err := svc.Search(ctx, SearchFilters{Page: 1, Limit: 6})
	require.NoError(t, err)
	assert.Len(t, first.Data, 6)
	assert.Equal(t, 13, first.Pagination.Total)
	assert.Equal(t, 3, first.Pagination.TotalPages)
	assert.Greater(t, first.Data[0].ID, first.Data[5].ID, "newest first")

	last, err := svc.Search(ctx, SearchFilters{Page: 3, Limit: 6})
	require.NoError(t, err)
	assert.Len(t, last.Data, 1)
	assert.EqualValues(t, 1, last.Data[0].ID)

	beyond, err := svc.Search(ctx, SearchFilters{Page: 4, Limit: 6})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
}

func TestSearchExcludesHiddenBiodatas(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	visible := seed(t, svc, store, ApprovalApproved, VisibilityActive, nil)
	pending := seed(t, svc, store, ApprovalPending, VisibilityActive, nil)
	seed(t, svc, store, ApprovalRejected, VisibilityActive, nil)
	seed(t, svc, store, ApprovalInactive, VisibilityActive, nil)
	seed(t, svc, store, ApprovalApproved, VisibilityInactive, nil)

	res, err := svc.Search(ctx, SearchFilters{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, visible.ID, res.Data[0].ID)

	// Even an exact biodata number and location cannot surface a pending biodata.
	f := ParseSearchFilters(RawSearchFilters{
		BiodataNumber: itoa(pending.ID),
		Gender:        pending.Gender,
		Location:      "Bangladesh > All Divisions",
	}, DefaultSearchLimit)
	res, err = svc.Search(ctx, f)
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Zero(t, res.Pagination.Total)
}

func TestSearchFilters(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()

	birth := func(years int) func(*SaveParams) {
		return func(p *SaveParams) {
			d := clock.Now().AddDate(-years, 0, -1)
			p.BirthDate = &d
		}
	}
	in := func(div, dist, upa string) func(*SaveParams) {
		return func(p *SaveParams) {
			p.PermanentAddress = Address{Country: "Bangladesh", Division: div, District: dist, Upazila: upa}
		}
	}
	both := func(fns ...func(*SaveParams)) func(*SaveParams) {
		return func(p *SaveParams) {
			for _, fn := range fns {
				fn(p)
			}
		}
	}

	a := seed(t, svc, store, ApprovalApproved, VisibilityActive, both(birth(24), in("Dhaka", "Gazipur", "Kaliganj"),
		func(p *SaveParams) { p.Gender = "female" }))
	b := seed(t, svc, store, ApprovalApproved, VisibilityActive, both(birth(30), in("Khulna", "Satkhira", "Kaliganj"),
		func(p *SaveParams) { p.Gender = "male" }))
	c := seed(t, svc, store, ApprovalApproved, VisibilityActive, both(birth(40), in("Chattogram", "Cumilla", "Laksam"),
		func(p *SaveParams) { p.Gender = "male"; p.MaritalStatus = "divorced" }))

	ids := func(res SearchResult) []int64 {
		out := make([]int64, 0, len(res.Data))
		for _, d := range res.Data {
			out = append(out, d.ID)
		}
		return out
	}
	search := func(raw RawSearchFilters) []int64 {
		t.Helper()
		res, err := svc.Search(ctx, ParseSearchFilters(raw, DefaultSearchLimit))
		require.NoError(t, err)
		return ids(res)
	}

	assert.Equal(t, []int64{c.ID, b.ID}, search(RawSearchFilters{Gender: "MALE"}))
	assert.Equal(t, []int64{c.ID}, search(RawSearchFilters{MaritalStatus: "divorced"}))
	assert.Equal(t, []int64{b.ID}, search(RawSearchFilters{AgeMin: "25", AgeMax: "35"}))
	assert.Equal(t, []int64{b.ID, a.ID}, search(RawSearchFilters{AgeMax: "30"}))
	assert.Equal(t, []int64{a.ID}, search(RawSearchFilters{BiodataNumber: itoa(a.ID)}))
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, search(RawSearchFilters{Location: "Bangladesh > All Divisions"}))
	assert.Equal(t, []int64{b.ID}, search(RawSearchFilters{Location: "Bangladesh > Khulna > All Districts"}))
	assert.Equal(t, []int64{a.ID}, search(RawSearchFilters{Location: "Bangladesh > Dhaka > Gazipur > Kaliganj"}))
	assert.Equal(t, []int64{b.ID, a.ID}, search(RawSearchFilters{Location: "Kaliganj"}))
	assert.Equal(t, []int64{c.ID}, search(RawSearchFilters{Location: "Bangladesh > Chattogram > Cumilla > All Upazilas"}))
}

func TestBirthBoundsAgeEdges(t *testing.T) {
	now := time.Date(2026, time.June, 10, 9, 0, 0, 0, time.UTC)
	q := CandidateQuery{AgeMin: intPtr(25), AgeMax: intPtr(25), Now: now}
	keep := MatchesCandidate(q)

	date := func(y int, m time.Month, d int) *Biodata {
		bd := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &Biodata{BirthDate: &bd}
	}

	assert.True(t, keep(date(2001, time.June, 10)), "25th birthday today")
	assert.True(t, keep(date(2000, time.June, 11)), "turns 26 tomorrow")
	assert.False(t, keep(date(2000, time.June, 10)), "26th birthday today")
	assert.False(t, keep(date(2001, time.June, 11)), "turns 25 tomorrow")
	assert.False(t, keep(&Biodata{}), "no birth date")

	age, ok := date(2001, time.June, 10).Age(now)
	assert.True(t, ok)
	assert.Equal(t, 25, age)
}

func intPtr(v int) *int { return &v }

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

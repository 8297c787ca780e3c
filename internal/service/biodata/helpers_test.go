package biodata

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var baseTime = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func randomParams() SaveParams {
	birth := gofakeit.DateRange(
		time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2004, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	addr := Address{
		Country:  "Bangladesh",
		Division: "Dhaka",
		District: "Dhaka",
		Upazila:  "Savar",
		Area:     gofakeit.Street(),
	}
	return SaveParams{
		Gender:                 gofakeit.RandomString([]string{"male", "female"}),
		MaritalStatus:          "never_married",
		FullName:               gofakeit.Name(),
		BirthDate:              &birth,
		PermanentAddress:       addr,
		PresentSameAsPermanent: true,
	}
}

// seed saves a biodata for a fresh owner and moves it to the given statuses.
func seed(
	t *testing.T,
	svc *Service,
	store Store,
	approval ApprovalStatus,
	visibility VisibilityStatus,
	mutate func(*SaveParams),
) *Biodata {
	t.Helper()
	ctx := context.Background()
	params := randomParams()
	if mutate != nil {
		mutate(&params)
	}
	b, created, err := svc.Save(ctx, gofakeit.UUID(), params)
	require.NoError(t, err)
	require.True(t, created)

	_, err = store.SetApprovalStatus(ctx, b.ID, approval)
	require.NoError(t, err)
	b, err = store.SetVisibilityStatus(ctx, b.ID, visibility)
	require.NoError(t, err)
	return b
}

func newTestService(opts ...Option) (*Service, *MemoryStore, *fakeClock) {
	store := NewMemoryStore()
	clock := newFakeClock(baseTime)
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewService(store, opts...), store, clock
}

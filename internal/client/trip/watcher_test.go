package trip_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmachado/fleet-manager/internal/client/trip"
	"github.com/rmachado/fleet-manager/internal/domain"
)

// mockAPI is a test double for trip.API. Set only the fields your test needs.
type mockAPI struct {
	activeTrip func(ctx context.Context) (*domain.ActiveTrip, error)
	finishTrip func(ctx context.Context, id uuid.UUID, endOdometer int) (domain.Trip, error)

	finishCalls []int
}

func (m *mockAPI) ActiveTrip(ctx context.Context) (*domain.ActiveTrip, error) {
	return m.activeTrip(ctx)
}

func (m *mockAPI) FinishTrip(ctx context.Context, id uuid.UUID, endOdometer int) (domain.Trip, error) {
	m.finishCalls = append(m.finishCalls, endOdometer)
	return m.finishTrip(ctx, id, endOdometer)
}

var _ trip.API = (*mockAPI)(nil)

// fakeClock is a manually advanced clock for countdown tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func snapshotFixture(started time.Time, durationMinutes int) *domain.ActiveTrip {
	return &domain.ActiveTrip{
		ID:            uuid.New(),
		VehicleID:     uuid.New(),
		DriverID:      uuid.New(),
		StartedAt:     started,
		EndsAt:        started.Add(time.Duration(durationMinutes) * time.Minute),
		StartOdometer: 1000,
		Origin:        "São Paulo",
		Destination:   "Campinas",
	}
}

// ---- countdown -------------------------------------------------------------

func TestWatcher_CountdownTracksScheduledEnd(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	snapshot := snapshotFixture(start, 60)

	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return snapshot, nil },
	}
	w := trip.NewWatcher(api, trip.Config{Now: clock.Now})

	ctx := context.Background()
	w.Poll(ctx)
	assert.Equal(t, time.Hour, w.State().Remaining)

	clock.Advance(25 * time.Minute)
	w.Tick(ctx)
	assert.Equal(t, 35*time.Minute, w.State().Remaining)
}

func TestWatcher_RemainingNeverNegative(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start.Add(2 * time.Hour)}
	snapshot := snapshotFixture(start, 60)

	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return snapshot, nil },
		finishTrip: func(context.Context, uuid.UUID, int) (domain.Trip, error) {
			return domain.Trip{}, nil
		},
	}
	w := trip.NewWatcher(api, trip.Config{Now: clock.Now})

	w.Poll(context.Background())

	assert.Equal(t, time.Duration(0), w.State().Remaining)
}

// ---- automatic finish ------------------------------------------------------

func TestWatcher_AutoFinishFiresExactlyOnce(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	snapshot := snapshotFixture(start, 60)

	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return snapshot, nil },
		finishTrip: func(context.Context, uuid.UUID, int) (domain.Trip, error) {
			return domain.Trip{Status: domain.TripFinished}, nil
		},
	}
	w := trip.NewWatcher(api, trip.Config{
		Now:     clock.Now,
		RandInt: func(int) int { return 0 },
	})

	ctx := context.Background()
	w.Poll(ctx)

	// The countdown boundary passes; several ticks observe a zero remainder.
	clock.Advance(60*time.Minute + time.Second)
	w.Tick(ctx)
	w.Tick(ctx)
	w.Tick(ctx)

	require.Len(t, api.finishCalls, 1, "finish must not re-fire while state clears")
}

func TestWatcher_AutoFinishSynthesizesOdometer(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	snapshot := snapshotFixture(start, 60)
	snapshot.StartOdometer = 5000

	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return snapshot, nil },
		finishTrip: func(context.Context, uuid.UUID, int) (domain.Trip, error) {
			return domain.Trip{}, nil
		},
	}
	w := trip.NewWatcher(api, trip.Config{
		Now:     clock.Now,
		RandInt: func(n int) int { return n - 1 },
	})

	ctx := context.Background()
	w.Poll(ctx)
	clock.Advance(time.Hour)
	w.Tick(ctx)

	require.Len(t, api.finishCalls, 1)
	assert.Equal(t, 5000+150, api.finishCalls[0], "end odometer is start plus 50..150")
}

func TestWatcher_AutoFinishClearsSnapshot(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	snapshot := snapshotFixture(start, 1)

	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return snapshot, nil },
		finishTrip: func(context.Context, uuid.UUID, int) (domain.Trip, error) {
			return domain.Trip{Status: domain.TripFinished}, nil
		},
	}
	w := trip.NewWatcher(api, trip.Config{Now: clock.Now})

	ctx := context.Background()
	w.Poll(ctx)
	clock.Advance(time.Minute)
	w.Tick(ctx)

	assert.Nil(t, w.State().Trip, "snapshot cleared after a successful finish")
}

func TestWatcher_FailedAutoFinishDoesNotRetryOnTick(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	snapshot := snapshotFixture(start, 1)

	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return snapshot, nil },
		finishTrip: func(context.Context, uuid.UUID, int) (domain.Trip, error) {
			// A manual finish won the race; the server answers conflict.
			return domain.Trip{}, errors.New("409 conflict")
		},
	}
	w := trip.NewWatcher(api, trip.Config{Now: clock.Now})

	ctx := context.Background()
	w.Poll(ctx)
	clock.Advance(2 * time.Minute)
	w.Tick(ctx)
	w.Tick(ctx)

	assert.Len(t, api.finishCalls, 1, "reconciliation is the poll's job, not the tick's")
}

// ---- server reconciliation -------------------------------------------------

func TestWatcher_ServerStatusTrumpsLocalPrediction(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	snapshot := snapshotFixture(start, 60)

	current := snapshot
	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return current, nil },
	}
	w := trip.NewWatcher(api, trip.Config{Now: clock.Now})

	ctx := context.Background()
	w.Poll(ctx)
	require.NotNil(t, w.State().Trip)

	// Mid-countdown the server reports the trip finished elsewhere.
	current = nil
	w.Poll(ctx)

	assert.Nil(t, w.State().Trip, "a server-confirmed finish overrides the countdown")
}

func TestWatcher_PollErrorKeepsPreviousSnapshot(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	snapshot := snapshotFixture(start, 60)

	failing := false
	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) {
			if failing {
				return nil, errors.New("connection refused")
			}
			return snapshot, nil
		},
	}
	w := trip.NewWatcher(api, trip.Config{Now: clock.Now})

	ctx := context.Background()
	w.Poll(ctx)
	require.NotNil(t, w.State().Trip)

	failing = true
	w.Poll(ctx)

	assert.NotNil(t, w.State().Trip, "transient poll failures must not drop the countdown")
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	api := &mockAPI{
		activeTrip: func(context.Context) (*domain.ActiveTrip, error) { return nil, nil },
	}
	w := trip.NewWatcher(api, trip.Config{
		PollInterval: 10 * time.Millisecond,
		TickInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

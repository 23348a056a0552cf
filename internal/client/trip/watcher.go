// Package trip tracks the operator's in-progress trip: it polls the server
// for the active-trip snapshot, counts down to the scheduled end, and fires
// the automatic finish when the countdown reaches zero.
package trip

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// API is the slice of the HTTP client the watcher needs.
type API interface {
	ActiveTrip(ctx context.Context) (*domain.ActiveTrip, error)
	FinishTrip(ctx context.Context, id uuid.UUID, endOdometer int) (domain.Trip, error)
}

// State is a point-in-time view of the watcher, handed to OnChange after
// every poll and every countdown tick. Trip is nil when no trip is in
// progress. Remaining is zero once the scheduled end has passed.
type State struct {
	Trip      *domain.ActiveTrip
	Remaining time.Duration
}

// Config tunes a Watcher. The zero value gets 1 second for both intervals,
// the wall clock, and the default random source.
type Config struct {
	PollInterval time.Duration
	TickInterval time.Duration

	// Now is the clock used for the countdown. Tests inject a fake.
	Now func() time.Time
	// RandInt returns a value in [0, n). Used to synthesize the end
	// odometer on automatic finish. Tests inject a deterministic one.
	RandInt func(n int) int

	// OnChange, when set, observes every state update.
	OnChange func(State)
}

// Watcher reconciles the local trip view with the server. The poll and the
// countdown run as two independent tickers on one goroutine, so their
// observations interleave but never race: whatever the server reports on
// the next poll overrides the local countdown's prediction.
type Watcher struct {
	api API
	cfg Config

	mu     sync.Mutex
	active *domain.ActiveTrip
	state  State

	// finished remembers trips whose automatic finish already fired, so a
	// countdown stuck at zero cannot fire a second request before the next
	// poll clears the snapshot.
	finished map[uuid.UUID]bool
}

// NewWatcher creates a Watcher over the given API client.
func NewWatcher(api API, cfg Config) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RandInt == nil {
		cfg.RandInt = rand.IntN
	}
	return &Watcher{
		api:      api,
		cfg:      cfg,
		finished: make(map[uuid.UUID]bool),
	}
}

// Run polls and counts down until ctx is cancelled. Cancelling tears both
// tickers down so no background request ever runs on stale credentials.
// Run always returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	poll := time.NewTicker(w.cfg.PollInterval)
	defer poll.Stop()
	tick := time.NewTicker(w.cfg.TickInterval)
	defer tick.Stop()

	// Prime the snapshot so callers see state before the first interval.
	w.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
			w.Poll(ctx)
		case <-tick.C:
			w.Tick(ctx)
		}
	}
}

// State returns the latest observed state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Poll fetches the active-trip snapshot and adopts the server's answer,
// including a nil one: a trip the server says is finished is gone locally
// no matter what the countdown believes. Poll errors are logged and the
// previous snapshot is kept; the next interval retries.
func (w *Watcher) Poll(ctx context.Context) {
	snapshot, err := w.api.ActiveTrip(ctx)
	if err != nil {
		slog.Debug("trip watcher: poll", "error", err)
		return
	}

	w.mu.Lock()
	w.active = snapshot
	if snapshot == nil {
		// Done trips can come around again only as new rows, so the
		// auto-finish guard can forget everything once the server says idle.
		w.finished = make(map[uuid.UUID]bool)
	}
	w.updateStateLocked()
	change := w.cfg.OnChange
	state := w.state
	w.mu.Unlock()

	if change != nil {
		change(state)
	}
}

// Tick recomputes the remaining time and fires the automatic finish when it
// hits zero. The finish fires at most once per trip regardless of how many
// ticks observe a zero remainder.
func (w *Watcher) Tick(ctx context.Context) {
	w.mu.Lock()
	w.updateStateLocked()
	var due *domain.ActiveTrip
	if w.active != nil && w.state.Remaining == 0 && !w.finished[w.active.ID] {
		w.finished[w.active.ID] = true
		due = w.active
	}
	change := w.cfg.OnChange
	state := w.state
	w.mu.Unlock()

	if change != nil {
		change(state)
	}
	if due != nil {
		w.autoFinish(ctx, due)
	}
}

// autoFinish finishes a trip whose countdown expired. No operator is present
// to read the odometer, so the end value is synthesized as the start reading
// plus a random 50 to 150 km increment.
func (w *Watcher) autoFinish(ctx context.Context, t *domain.ActiveTrip) {
	endOdometer := t.StartOdometer + 50 + w.cfg.RandInt(101)

	if _, err := w.api.FinishTrip(ctx, t.ID, endOdometer); err != nil {
		// A conflict means a manual finish won the race; either way the trip
		// is done and the next poll clears the snapshot.
		slog.Warn("trip watcher: automatic finish", "trip", t.ID, "error", err)
		return
	}

	w.mu.Lock()
	if w.active != nil && w.active.ID == t.ID {
		w.active = nil
	}
	w.updateStateLocked()
	change := w.cfg.OnChange
	state := w.state
	w.mu.Unlock()

	if change != nil {
		change(state)
	}
}

// updateStateLocked recomputes the published state from the snapshot and the
// clock. Callers must hold mu.
func (w *Watcher) updateStateLocked() {
	if w.active == nil {
		w.state = State{}
		return
	}
	remaining := w.active.EndsAt.Sub(w.cfg.Now())
	if remaining < 0 {
		remaining = 0
	}
	w.state = State{Trip: w.active, Remaining: remaining}
}

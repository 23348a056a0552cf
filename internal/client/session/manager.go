package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// Verifier resolves the identity behind an access token. Implemented by the
// API client's Me call.
type Verifier interface {
	Me(ctx context.Context) (domain.User, error)
}

// Manager owns the in-memory session and keeps the persisted record in sync
// with it. All mutations go through Manager methods; persisted data seeds
// memory once at startup and never again after that.
//
// Persistence failures are logged and swallowed: losing the file must never
// block the in-memory state transition that triggered the write.
type Manager struct {
	store Store

	mu       sync.Mutex
	current  Session
	restored bool
	verified bool
}

// NewManager constructs a Manager over the given store. The in-memory
// session starts empty; call Verify to restore and validate a persisted one.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Current returns a snapshot of the session. The returned value is a copy;
// callers can hold it across requests without observing later mutations.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// AccessToken returns the current access token, or "" when logged out.
// It reads the token once per call so an in-flight request keeps the token
// it started with even if the session rotates mid-request.
func (m *Manager) AccessToken() string {
	return m.Current().AccessToken
}

// SetTokens stores a new token pair and persists the full session.
func (m *Manager) SetTokens(access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AccessToken = access
	m.current.RefreshToken = refresh
	m.persistLocked()
}

// SetIdentity stores the username and role and persists the full session.
func (m *Manager) SetIdentity(username string, role domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Username = username
	m.current.Role = role
	m.persistLocked()
}

// Clear empties the in-memory session and deletes the persisted record.
// Used for logout and for any validation failure.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{}
	if err := m.store.Delete(); err != nil {
		slog.Warn("session: delete persisted record", "error", err)
	}
}

// Restore seeds the in-memory session from the persisted record if memory is
// still empty. It runs at most once; after the first call memory is
// authoritative and the file is only ever written, never read again.
func (m *Manager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.restored {
		return
	}
	m.restored = true

	if m.current.Authenticated() {
		return
	}
	persisted, ok, err := m.store.Load()
	if err != nil {
		slog.Warn("session: load persisted record", "error", err)
		return
	}
	if ok {
		m.current = persisted
	}
}

// Verify performs the cold-start validation pass: restore the persisted
// session, then confirm the access token against the identity endpoint.
// On success the identity fields are refreshed from the server's answer.
// On any failure, network errors included, the whole session is cleared,
// in memory and on disk. Fail closed.
//
// The check runs exactly once per process; later calls return the first
// outcome via the current session state.
func (m *Manager) Verify(ctx context.Context, v Verifier) error {
	m.Restore()

	m.mu.Lock()
	if m.verified {
		m.mu.Unlock()
		return nil
	}
	m.verified = true
	token := m.current.AccessToken
	m.mu.Unlock()

	if token == "" {
		return nil
	}

	user, err := v.Me(ctx)
	if err != nil {
		m.Clear()
		return err
	}

	m.SetIdentity(user.Username, user.Role)
	return nil
}

// persistLocked writes the full current session under the single named
// record. Callers must hold mu.
func (m *Manager) persistLocked() {
	if err := m.store.Save(m.current); err != nil {
		slog.Warn("session: persist record", "error", err)
	}
}

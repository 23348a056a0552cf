package session_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmachado/fleet-manager/internal/client/session"
	"github.com/rmachado/fleet-manager/internal/domain"
)

func newFileStore(t *testing.T) *session.FileStore {
	t.Helper()
	return &session.FileStore{Path: filepath.Join(t.TempDir(), "session.json")}
}

func TestFileStore_SaveLoadRoundtrip(t *testing.T) {
	store := newFileStore(t)
	want := session.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Username:     "ana",
		Role:         domain.RoleOperator,
	}

	require.NoError(t, store.Save(want))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFileStore_LoadMissingIsNotAnError(t *testing.T) {
	store := newFileStore(t)

	_, ok, err := store.Load()

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_DeleteMissingIsNoOp(t *testing.T) {
	store := newFileStore(t)

	require.NoError(t, store.Delete())
}

func TestFileStore_DeleteRemovesRecord(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Save(session.Session{AccessToken: "access"}))

	require.NoError(t, store.Delete())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_FileIsPrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	store := newFileStore(t)
	require.NoError(t, store.Save(session.Session{AccessToken: "access"}))

	info, err := os.Stat(store.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "session file holds live tokens")
}

func TestFileStore_LoadCorruptRecord(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path), 0o700))
	require.NoError(t, os.WriteFile(store.Path, []byte("{not json"), 0o600))

	_, ok, err := store.Load()

	require.Error(t, err)
	assert.False(t, ok)
}

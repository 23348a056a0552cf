package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists a session record across process restarts.
type Store interface {
	// Load reads the persisted session. The second return is false when no
	// record exists, which is not an error.
	Load() (Session, bool, error)
	// Save replaces the persisted record with s.
	Save(s Session) error
	// Delete removes the persisted record. Deleting a missing record is a no-op.
	Delete() error
}

// FileStore persists the session as a single JSON file, by default
// ~/.fleetctl/session.json. The file is written with 0600 permissions since
// it contains live tokens.
type FileStore struct {
	Path string
}

// DefaultPath returns the session file location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("session: find home directory: %w", err)
	}
	return filepath.Join(home, ".fleetctl", "session.json"), nil
}

func (f *FileStore) Load() (Session, bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("session: read %s: %w", f.Path, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt record is treated as absent; the next Save rewrites it.
		return Session{}, false, fmt.Errorf("session: parse %s: %w", f.Path, err)
	}
	return s, true, nil
}

func (f *FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("session: create directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", f.Path, err)
	}
	return nil
}

func (f *FileStore) Delete() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: delete %s: %w", f.Path, err)
	}
	return nil
}

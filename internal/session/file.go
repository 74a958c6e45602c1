package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps a single session in a JSON file. Used by the CLI.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// DefaultFilePath is the per-user session file location.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "marketctl", "session.json")
}

// Get implements Store. An empty id matches the stored session.
func (f *FileStore) Get(_ context.Context, id string) (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if id != "" && s.ID != id {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save implements Store. The ttl is recorded through Session.ExpiresAt.
func (f *FileStore) Save(_ context.Context, s *Session, _ time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return os.WriteFile(f.path, raw, 0o600)
}

// Delete implements Store.
func (f *FileStore) Delete(_ context.Context, id string) error {
	if id != "" {
		s, err := f.Get(context.Background(), "")
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		if s.ID != id {
			return nil
		}
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

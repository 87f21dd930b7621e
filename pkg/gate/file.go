package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one JSON file per device, readable only by the owner.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a store under baseDir, or under
// ~/.config/bookstack/gate when baseDir is empty.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "bookstack", "gate")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create gate dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(device string) string {
	return filepath.Join(s.baseDir, StorageKey+"."+device+".json")
}

func (s *FileStore) Get(ctx context.Context, device string) (Flag, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(device))
	if errors.Is(err, fs.ErrNotExist) {
		return Flag{}, false, nil
	}
	if err != nil {
		return Flag{}, false, fmt.Errorf("read flag: %w", err)
	}
	var f Flag
	if err := json.Unmarshal(data, &f); err != nil {
		return Flag{}, false, fmt.Errorf("parse flag: %w", err)
	}
	return f, true, nil
}

func (s *FileStore) Set(ctx context.Context, f Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal flag: %w", err)
	}
	if err := os.WriteFile(s.path(f.Device), data, 0o600); err != nil {
		return fmt.Errorf("write flag: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, device string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(device)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove flag: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the flag file for device.
func (s *FileStore) Path(device string) string { return s.path(device) }

var _ Store = (*FileStore)(nil)

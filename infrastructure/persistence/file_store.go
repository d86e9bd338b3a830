package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
)

// FileStateStore persists the settings document as a single JSON file.
// Writes replace the whole document atomically (temp file + rename), matching
// the local-storage semantics the dashboard was designed around.
type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Load(ctx context.Context) (*model.PersistedState, error) {
	var state model.PersistedState
	ok, err := readDocument(s.path, &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

func (s *FileStateStore) Save(ctx context.Context, state *model.PersistedState) error {
	return writeDocument(s.path, state)
}

// FileVideoCache persists the fetched-videos document as a single JSON file.
type FileVideoCache struct {
	path string
}

func NewFileVideoCache(path string) *FileVideoCache {
	return &FileVideoCache{path: path}
}

func (c *FileVideoCache) Load(ctx context.Context) (*model.VideoCacheRecord, error) {
	var record model.VideoCacheRecord
	ok, err := readDocument(c.path, &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (c *FileVideoCache) Save(ctx context.Context, record *model.VideoCacheRecord) error {
	return writeDocument(c.path, record)
}

func readDocument(path string, v interface{}) (bool, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return true, nil
}

func writeDocument(path string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const stateFileSuffix = ".json"

// FileStore keeps one JSON file per session in a directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (fs *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(fs.dir, id+stateFileSuffix), nil
}

// Load reads the state of session id.
func (fs *FileStore) Load(_ context.Context, id string) (*State, error) {
	path, err := fs.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	fs.logger.Debug("Session state loaded",
		zap.String("session", id),
		zap.Int("index", state.Index))

	return &state, nil
}

// Save writes the state through a temporary file and a rename.
func (fs *FileStore) Save(_ context.Context, state *State) error {
	path, err := fs.path(state.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	fs.logger.Debug("Session state saved",
		zap.String("session", state.ID),
		zap.Int("index", state.Index))

	return nil
}

// Delete removes session id.
func (fs *FileStore) Delete(_ context.Context, id string) error {
	path, err := fs.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

// List returns the stored session ids in lexical order.
func (fs *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), stateFileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), stateFileSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

func (fs *FileStore) Close() error { return nil }

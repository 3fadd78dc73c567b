// Package settings persists the user-editable flat JSON settings store.
//
// Unlike the TOML config, which describes how trackman itself runs, the
// settings store holds values the user changes from inside the program,
// currently the media root directory. It is re-read before every top-level
// menu render and written only on explicit configuration.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"trackman/internal/logging"
)

// KeyMediaDirectory is the settings key holding the media root directory.
const KeyMediaDirectory = "media_directory"

// Store provides access to the flat JSON settings document.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a settings store backed by the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "settings"),
	}
}

// Load reads the settings document. A missing file yields an empty map.
func (s *Store) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return values, nil
}

// Save writes the full settings document atomically.
func (s *Store) Save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// MediaDirectory returns the configured media root, or "" when unset.
func (s *Store) MediaDirectory() string {
	values, err := s.Load()
	if err != nil {
		s.logger.Warn("failed to load settings",
			logging.Error(err),
			logging.String(logging.FieldEventType, "settings_load_failed"))
		return ""
	}
	return strings.TrimSpace(values[KeyMediaDirectory])
}

// SetMediaDirectory validates and stores the media root directory.
func (s *Store) SetMediaDirectory(dir string) error {
	dir = strings.TrimSpace(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("media directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("media directory %q is not a directory", dir)
	}

	values, err := s.Load()
	if err != nil {
		// A corrupt settings file is replaced rather than blocking configuration.
		s.logger.Warn("replacing unreadable settings file",
			logging.Error(err),
			logging.String(logging.FieldEventType, "settings_reset"))
		values = map[string]string{}
	}
	values[KeyMediaDirectory] = dir

	if err := s.Save(values); err != nil {
		return err
	}
	s.logger.Info("media directory configured", logging.String("dir", dir))
	return nil
}

package showcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"trackman/internal/fileutil"
	"trackman/internal/logging"
	"trackman/internal/media"
	"trackman/internal/textutil"
)

const backupTimestampLayout = "20060102150405"

// Inspector produces a fresh track snapshot for a media file. Satisfied by
// mediainfo.Inspector.
type Inspector interface {
	Inspect(ctx context.Context, path string) (media.Snapshot, error)
}

// Store manages the per-show cache documents under a single directory.
type Store struct {
	dir       string
	inspector Inspector
	logger    *slog.Logger
}

// NewStore builds a store rooted at dir. The inspector is used to refresh
// episodes after mutations.
func NewStore(dir string, inspector Inspector, logger *slog.Logger) *Store {
	return &Store{
		dir:       dir,
		inspector: inspector,
		logger:    logging.NewComponentLogger(logger, "showcache"),
	}
}

// Path returns the cache document path for a show.
func (s *Store) Path(show string) string {
	return filepath.Join(s.dir, textutil.SanitizeFileName(show)+".json")
}

// Load reads the cache document for a show. A missing document yields an
// empty cache; an unreadable or corrupt one is logged and likewise treated
// as empty so a broken cache never blocks inspection.
func (s *Store) Load(show string) ShowCache {
	path := s.Path(show)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cache unreadable, starting empty",
				logging.String(logging.FieldShow, show),
				logging.Error(fmt.Errorf("%w: %v", ErrCacheIO, err)))
		}
		return ShowCache{}
	}

	var cache ShowCache
	if err := json.Unmarshal(data, &cache); err != nil {
		s.logger.Warn("cache corrupt, starting empty",
			logging.String(logging.FieldShow, show),
			logging.Error(fmt.Errorf("%w: %v", ErrCacheIO, err)))
		return ShowCache{}
	}
	if cache == nil {
		cache = ShowCache{}
	}
	return cache
}

// Save rewrites the cache document atomically (temp file plus rename) with
// season and episode keys in numeric order.
func (s *Store) Save(show string, cache ShowCache) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create cache directory: %v", ErrCacheIO, err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode cache: %v", ErrCacheIO, err)
	}

	path := s.Path(show)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write cache: %v", ErrCacheIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace cache: %v", ErrCacheIO, err)
	}

	s.logger.Debug("cache saved",
		logging.String(logging.FieldShow, show),
		logging.Int("episodes", cache.EpisodeCount()))
	return nil
}

// LookupEpisode returns the cached snapshot for a file, if present.
func (s *Store) LookupEpisode(show, fileName string) (media.Snapshot, bool) {
	episode, ok := s.Load(show).Lookup(fileName)
	return episode.MediaInfo, ok
}

// SnapshotFor returns the cached snapshot for a file, inspecting and
// caching it on a miss.
func (s *Store) SnapshotFor(ctx context.Context, show, filePath string) (media.Snapshot, error) {
	fileName := filepath.Base(filePath)
	if snap, ok := s.LookupEpisode(show, fileName); ok {
		return snap, nil
	}
	return s.UpdateEpisode(ctx, show, filePath)
}

// UpdateEpisode re-inspects a file and persists the fresh snapshot, always
// replacing any cached entry.
func (s *Store) UpdateEpisode(ctx context.Context, show, filePath string) (media.Snapshot, error) {
	snap, err := s.inspector.Inspect(ctx, filePath)
	if err != nil {
		return media.Snapshot{}, err
	}

	fileName := filepath.Base(filePath)
	cache := s.Load(show)
	cache.Set(fileName, Episode{Filename: fileName, MediaInfo: snap})
	if err := s.Save(show, cache); err != nil {
		return media.Snapshot{}, err
	}

	s.logger.Info("episode cache updated",
		logging.String(logging.FieldShow, show),
		logging.String(logging.FieldFile, fileName))
	return snap, nil
}

// Backup copies the current cache document to a timestamped sibling. A show
// with no cache yet is a logged no-op.
func (s *Store) Backup(show string) error {
	src := s.Path(show)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("no cache to back up",
				logging.String(logging.FieldShow, show))
			return nil
		}
		return fmt.Errorf("%w: stat cache: %v", ErrCacheIO, err)
	}

	dst := s.backupPath(show, time.Now())
	if err := fileutil.CopyFile(src, dst); err != nil {
		return fmt.Errorf("%w: back up cache: %v", ErrCacheIO, err)
	}

	s.logger.Info("cache backed up",
		logging.String(logging.FieldShow, show),
		logging.String("backup", filepath.Base(dst)))
	return nil
}

// Restore replaces the live cache document with the most recent backup.
func (s *Store) Restore(show string) error {
	backups, err := s.backups(show)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("%w: no backup found for %q", ErrCacheIO, show)
	}

	latest := backups[len(backups)-1]
	if err := fileutil.CopyFile(latest, s.Path(show)); err != nil {
		return fmt.Errorf("%w: restore cache: %v", ErrCacheIO, err)
	}

	s.logger.Info("cache restored",
		logging.String(logging.FieldShow, show),
		logging.String("backup", filepath.Base(latest)))
	return nil
}

// HasBackup reports whether at least one backup document exists for a show.
func (s *Store) HasBackup(show string) bool {
	backups, err := s.backups(show)
	return err == nil && len(backups) > 0
}

func (s *Store) backupPath(show string, at time.Time) string {
	name := fmt.Sprintf("%s_backup_%s.json",
		textutil.SanitizeFileName(show), at.Format(backupTimestampLayout))
	return filepath.Join(s.dir, name)
}

// backups lists backup documents for a show, oldest first. The timestamp
// suffix makes lexicographic order chronological.
func (s *Store) backups(show string) ([]string, error) {
	pattern := filepath.Join(s.dir, textutil.SanitizeFileName(show)+"_backup_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: list backups: %v", ErrCacheIO, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Package plan computes the minimal set of flag mutations that brings a
// group of files to a desired default/forced state.
//
// Plans are pure data: nothing here touches files, so a plan can be shown
// to the user, executed, or thrown away unchanged.
package plan

import (
	"log/slog"

	"trackman/internal/logging"
	"trackman/internal/media"
	"trackman/internal/tracks"
)

// Flag is a Matroska track flag as mkvpropedit names it.
type Flag string

const (
	FlagDefault Flag = "flag-default"
	FlagForced  Flag = "flag-forced"
)

// FlagSet selects which flags a plan manages. Both may be set, in which
// case default mutations precede forced mutations within each file.
type FlagSet struct {
	Default bool
	Forced  bool
}

// Mutation is one flag change on one track of one file.
type Mutation struct {
	FilePath string
	TrackID  int64
	Flag     Flag
	Value    bool
}

// Build walks every track of the given type in every file and emits a
// mutation wherever the current flag state differs from the desired one:
// set for tracks matching the chosen identity, cleared for the rest.
// Tracks without a usable ID are logged and skipped. Files already in the
// desired state contribute nothing.
func Build(files []tracks.FileSnapshot, trackType media.TrackType, identity tracks.Identity, flags FlagSet, logger *slog.Logger) []Mutation {
	if logger == nil {
		logger = logging.NewNop()
	}

	var mutations []Mutation
	for _, file := range files {
		matcher := func(track media.Track) bool {
			return tracks.IdentityOf(track) == identity
		}
		mutations = append(mutations, buildForFile(file.Path, file.Snapshot, trackType, matcher, flags, logger)...)
	}
	return mutations
}

// BuildForTrack is the single-file variant: the desired track is picked by
// its probed ID rather than by identity.
func BuildForTrack(filePath string, snap media.Snapshot, trackType media.TrackType, trackID int64, flags FlagSet, logger *slog.Logger) []Mutation {
	if logger == nil {
		logger = logging.NewNop()
	}
	matcher := func(track media.Track) bool {
		return track.HasTrackID() && *track.TrackID == trackID
	}
	return buildForFile(filePath, snap, trackType, matcher, flags, logger)
}

func buildForFile(filePath string, snap media.Snapshot, trackType media.TrackType, wanted func(media.Track) bool, flags FlagSet, logger *slog.Logger) []Mutation {
	var mutations []Mutation

	appendChanges := func(flag Flag, current func(media.Track) bool) {
		for _, track := range snap.TracksOf(trackType) {
			desired := wanted(track)
			if current(track) == desired {
				continue
			}
			if !track.HasTrackID() {
				logger.Warn("track has no ID, cannot mutate",
					logging.String(logging.FieldFile, filePath),
					logging.String(logging.FieldFlag, string(flag)),
					logging.String("language", track.Language))
				continue
			}
			mutations = append(mutations, Mutation{
				FilePath: filePath,
				TrackID:  *track.TrackID,
				Flag:     flag,
				Value:    desired,
			})
		}
	}

	if flags.Default {
		appendChanges(FlagDefault, func(t media.Track) bool { return t.Default })
	}
	if flags.Forced {
		appendChanges(FlagForced, func(t media.Track) bool { return t.Forced })
	}
	return mutations
}

// Files returns the distinct file paths a plan touches, in plan order.
func Files(mutations []Mutation) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, m := range mutations {
		if !seen[m.FilePath] {
			seen[m.FilePath] = true
			paths = append(paths, m.FilePath)
		}
	}
	return paths
}

// ByFile splits a plan into per-file sub-plans, preserving order within
// each file.
func ByFile(mutations []Mutation) map[string][]Mutation {
	grouped := make(map[string][]Mutation)
	for _, m := range mutations {
		grouped[m.FilePath] = append(grouped[m.FilePath], m)
	}
	return grouped
}

// Package tracks groups probed tracks across files by logical identity.
//
// Track numbering is not stable across files of the same show (an episode
// with a commentary track shifts every ID after it), so cross-file
// operations key tracks by normalized language and title instead of by ID.
package tracks

import (
	"fmt"
	"strings"

	"trackman/internal/media"
)

// Identity names a logical track independent of its per-file ID. Language
// and title are normalized (trimmed, lowercased) so cosmetic differences
// between files collapse onto one identity.
type Identity struct {
	Language string
	Title    string
}

// IdentityOf derives the logical identity of a probed track.
func IdentityOf(t media.Track) Identity {
	return Identity{
		Language: normalize(t.Language),
		Title:    normalize(t.Title),
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func (id Identity) String() string {
	if id.Title == "" {
		return id.Language
	}
	return fmt.Sprintf("%s / %s", id.Language, id.Title)
}

// FileSnapshot pairs a file path with its probed snapshot. Callers supply
// these in display order (sorted by filename) so grouping is deterministic.
type FileSnapshot struct {
	Path     string
	Snapshot media.Snapshot
}

// LogicalTrack is one distinct identity observed across a set of files.
type LogicalTrack struct {
	Identity Identity
	// Sample is the first probed track seen with this identity, kept for
	// display (codec, channels and so on).
	Sample media.Track
	// Count is how many files contain at least one track with this identity.
	Count int
}

// Group collects the distinct identities of the given track type across
// files, in first-seen order. A file counts once per identity no matter how
// many of its tracks share it.
func Group(files []FileSnapshot, trackType media.TrackType) []LogicalTrack {
	var order []Identity
	byIdentity := make(map[Identity]*LogicalTrack)

	for _, file := range files {
		seen := make(map[Identity]bool)
		for _, track := range file.Snapshot.TracksOf(trackType) {
			id := IdentityOf(track)
			logical, ok := byIdentity[id]
			if !ok {
				logical = &LogicalTrack{Identity: id, Sample: track}
				byIdentity[id] = logical
				order = append(order, id)
			}
			if !seen[id] {
				logical.Count++
				seen[id] = true
			}
		}
	}

	grouped := make([]LogicalTrack, 0, len(order))
	for _, id := range order {
		grouped = append(grouped, *byIdentity[id])
	}
	return grouped
}

// Partition splits files into those containing a track with the identity
// and those without, preserving input order.
func Partition(files []FileSnapshot, identity Identity, trackType media.TrackType) (with, without []FileSnapshot) {
	for _, file := range files {
		if containsIdentity(file.Snapshot, identity, trackType) {
			with = append(with, file)
		} else {
			without = append(without, file)
		}
	}
	return with, without
}

func containsIdentity(snap media.Snapshot, identity Identity, trackType media.TrackType) bool {
	for _, track := range snap.TracksOf(trackType) {
		if IdentityOf(track) == identity {
			return true
		}
	}
	return false
}

// Package mediainfo wraps the MediaInfo CLI to produce normalized track
// snapshots.
//
// The adapter applies all attribute defaults in one place (language "und",
// empty title, false flags) so downstream grouping and planning never
// compare against missing-value sentinels. "Menu" tracks are discarded
// entirely: they carry no user-relevant flags.
package mediainfo

// Package media defines the track metadata model shared by the inspector,
// the show cache, and the flag planning code.
//
// A Snapshot records what the external probe reported about one file at one
// point in time. Snapshots are read-only once built: flag changes produce
// mutation entries, never edits to a probed record.
package media

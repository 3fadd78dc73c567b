// Package showcache persists one JSON track-metadata document per show.
//
// Each document maps season keys ("Season 3", or "No Season" for files
// without a recognizable season/episode marker) to episode keys to cached
// inspection snapshots. Documents are always rewritten whole, atomically,
// with keys in numeric order, and a timestamped copy can be taken as a
// rollback point before batch mutations.
package showcache

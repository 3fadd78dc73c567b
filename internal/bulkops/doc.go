// Package bulkops orchestrates flag operations across every file of a show.
//
// One run walks a fixed sequence: collect snapshots for each file, group
// tracks by logical identity, let the user pick one, partition files into
// those that carry the identity and those that do not, compute the minimal
// mutation plan, confirm, then execute (or dry-run). The interactive
// surface is injected as a Prompter so the sequence itself stays testable.
//
// Cancelling at any prompt leaves files, cache, and journal untouched.
// Live runs hold a per-show lock, back the cache up before the first
// mutation, and refresh the cache entry of every successfully mutated file.
package bulkops

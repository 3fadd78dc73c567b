package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"trackman/internal/history"
	"trackman/internal/logging"
	"trackman/internal/media"
	"trackman/internal/nav"
	"trackman/internal/plan"
	"trackman/internal/propedit"
	"trackman/internal/tracks"
)

// singleFileMenu applies a flag change to one track of one file, picked by
// its probed track ID rather than by cross-file identity.
func singleFileMenu(ctx context.Context, svc *services, c *console, show, dir string) nav.Signal {
	files, ok := showFiles(c, dir)
	if !ok {
		return nav.Continue
	}

	options := make([]string, 0, len(files))
	for _, path := range files {
		options = append(options, filepath.Base(path))
	}
	fileIndex, ok := c.choose("Which file?", options)
	if !ok {
		return nav.Continue
	}
	path := files[fileIndex]

	snap, err := svc.cache.SnapshotFor(ctx, show, path)
	if err != nil {
		c.printf("Cannot inspect %s: %v\n", filepath.Base(path), err)
		return nav.Continue
	}

	typeIndex, ok := c.choose("Track type:", []string{"Audio", "Subtitle"})
	if !ok {
		return nav.Continue
	}
	trackType := media.TypeAudio
	if typeIndex == 1 {
		trackType = media.TypeText
	}

	group := snap.TracksOf(trackType)
	mutable := make([]media.Track, 0, len(group))
	trackOptions := make([]string, 0, len(group))
	for _, track := range group {
		if !track.HasTrackID() {
			continue
		}
		mutable = append(mutable, track)
		label := fmt.Sprintf("track %s: %s", trackIDLabel(track.TrackID), describeTrack(track))
		trackOptions = append(trackOptions, label)
	}
	if len(mutable) == 0 {
		c.printf("No mutable %s tracks in this file.\n", trackType)
		return nav.Continue
	}

	trackIndex, ok := c.choose("Which track?", trackOptions)
	if !ok {
		return nav.Continue
	}
	target := mutable[trackIndex]

	flagIndex, ok := c.choose("Which flags?", []string{
		"Default", "Forced", "Default + forced",
	})
	if !ok {
		return nav.Continue
	}
	flags := [...]plan.FlagSet{
		{Default: true},
		{Forced: true},
		{Default: true, Forced: true},
	}[flagIndex]

	mutations := plan.BuildForTrack(path, snap, trackType, *target.TrackID, flags, svc.logger)
	if len(mutations) == 0 {
		c.println("File already matches the requested state.")
		return nav.Continue
	}

	c.printf("\n%d mutations on %s:\n", len(mutations), filepath.Base(path))
	for _, m := range mutations {
		c.printf("  %s\n", svc.client.CommandLine(m))
	}
	index, ok := c.choose("Proceed?", []string{"Apply changes", "Dry run (print commands only)"})
	if !ok {
		c.println("Cancelled, nothing changed.")
		return nav.Continue
	}

	report := svc.client.Apply(ctx, mutations, propedit.Options{
		DryRun:   index == 1,
		Elevator: &terminalElevator{console: c},
	})
	recordSingleFile(ctx, svc, show, mutations, report)

	if report.DryRun {
		c.println("Dry run, nothing executed.")
		return nav.Continue
	}
	if failed := report.Failed(); len(failed) > 0 {
		c.printf("Failed: %v\n", failed[0].Err)
		return nav.Continue
	}
	if len(report.Results) > 0 && report.Results[0].Elevated {
		c.println("Applied with sudo. Refresh the cache once the file is readable again.")
		return nav.Continue
	}
	if _, err := svc.cache.UpdateEpisode(ctx, show, path); err != nil {
		c.printf("Applied, but cache refresh failed: %v\n", err)
		return nav.Continue
	}
	c.println("Applied.")
	return nav.Continue
}

func recordSingleFile(ctx context.Context, svc *services, show string, mutations []plan.Mutation, report propedit.Report) {
	if svc.journal == nil {
		return
	}

	outcome := history.OutcomeApplied
	detail := ""
	if report.DryRun {
		outcome = history.OutcomeDryRun
	} else if failed := report.Failed(); len(failed) > 0 {
		outcome = history.OutcomeFailed
		detail = failed[0].Err.Error()
	}

	operationID := uuid.NewString()
	entries := make([]history.Entry, 0, len(mutations))
	for _, m := range mutations {
		entries = append(entries, history.Entry{
			OperationID: operationID,
			Show:        show,
			FilePath:    m.FilePath,
			TrackID:     m.TrackID,
			Flag:        string(m.Flag),
			Value:       m.Value,
			Outcome:     outcome,
			Detail:      detail,
		})
	}
	if err := svc.journal.RecordBatch(ctx, entries); err != nil {
		svc.logger.Warn("journal write failed", logging.Error(err))
	}
}

// describeTrack renders a short one-line label for track pickers.
func describeTrack(track media.Track) string {
	label := identityLabel(tracks.IdentityOf(track))
	if track.Codec != "" {
		label += ", " + track.Codec
	}
	var state string
	switch {
	case track.Default && track.Forced:
		state = "default, forced"
	case track.Default:
		state = "default"
	case track.Forced:
		state = "forced"
	}
	if state != "" {
		label += " [" + state + "]"
	}
	return label
}

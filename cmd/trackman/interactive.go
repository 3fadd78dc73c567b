package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"trackman/internal/bulkops"
	"trackman/internal/deps"
	"trackman/internal/fileutil"
	"trackman/internal/media"
	"trackman/internal/nav"
	"trackman/internal/plan"
	"trackman/internal/propedit"
	"trackman/internal/textutil"
)

// runInteractive is the default mode: a nested menu tree for picking a
// show directory and running flag operations on it.
func runInteractive(ctx context.Context, cmdCtx *commandContext) error {
	svc, err := cmdCtx.ensureServices()
	if err != nil {
		return err
	}
	defer svc.close()

	c := newConsole()

	statuses := deps.Check(deps.Requirements(svc.cfg.Tools.MKVPropedit, svc.cfg.Tools.MediaInfo))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		c.printf("Missing required tools: %s\n", strings.Join(missing, ", "))
		c.println("Run 'trackman deps' for details.")
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}

	for {
		mediaDir := svc.settings.MediaDirectory()
		title := "trackman"
		if mediaDir != "" {
			title = fmt.Sprintf("trackman  [%s]", mediaDir)
		}

		index, ok := c.choose(title, []string{
			"Work on a show",
			"Set media directory",
			"Check external tools",
		})
		if !ok {
			return nil
		}

		switch index {
		case 0:
			if mediaDir == "" {
				c.println("Set the media directory first.")
				continue
			}
			if signal := browseShows(ctx, svc, c, mediaDir); signal == nav.ReturnToRoot {
				continue
			}
		case 1:
			changeMediaDirectory(svc, c)
		case 2:
			printDepsTable(c, statuses)
		}
	}
}

func changeMediaDirectory(svc *services, c *console) {
	dir, err := c.readLine("Media directory path: ")
	if err != nil || dir == "" {
		return
	}
	if err := svc.settings.SetMediaDirectory(dir); err != nil {
		c.printf("Cannot use %q: %v\n", dir, err)
		return
	}
	c.printf("Media directory set to %s\n", dir)
}

// browseShows walks the directory tree under root until the user picks a
// directory containing Matroska files, then opens the work menu on it.
func browseShows(ctx context.Context, svc *services, c *console, root string) nav.Signal {
	current := root
	for {
		subdirs, err := fileutil.ListSubdirectories(current)
		if err != nil {
			c.printf("Cannot read %s: %v\n", current, err)
			return nav.ReturnToParent
		}
		files, err := fileutil.ListMKVFiles(current)
		if err != nil {
			c.printf("Cannot read %s: %v\n", current, err)
			return nav.ReturnToParent
		}

		options := make([]string, 0, len(subdirs)+1)
		if len(files) > 0 {
			options = append(options, fmt.Sprintf("Use this directory (%s)", textutil.CountNoun(len(files), "file")))
		}
		for _, name := range subdirs {
			options = append(options, name+"/")
		}
		if len(options) == 0 {
			c.printf("No shows under %s\n", current)
			return nav.ReturnToParent
		}

		index, ok := c.choose(fmt.Sprintf("Browsing %s", current), options)
		if !ok {
			if current == root {
				return nav.ReturnToParent
			}
			current = filepath.Dir(current)
			continue
		}

		hasUseOption := len(files) > 0
		if hasUseOption && index == 0 {
			if signal := nav.Descend(workMenu(ctx, svc, c, current)); signal == nav.ReturnToRoot {
				return nav.ReturnToRoot
			}
			continue
		}
		if hasUseOption {
			index--
		}

		next := filepath.Join(current, subdirs[index])
		nextFiles, err := fileutil.ListMKVFiles(next)
		if err == nil && len(nextFiles) > 0 {
			if signal := nav.Descend(workMenu(ctx, svc, c, next)); signal == nav.ReturnToRoot {
				return nav.ReturnToRoot
			}
			continue
		}
		current = next
	}
}

type bulkAction struct {
	label     string
	trackType media.TrackType
	flags     plan.FlagSet
}

var bulkActions = []bulkAction{
	{"Set default audio track", media.TypeAudio, plan.FlagSet{Default: true}},
	{"Set forced audio track", media.TypeAudio, plan.FlagSet{Forced: true}},
	{"Set default + forced audio track", media.TypeAudio, plan.FlagSet{Default: true, Forced: true}},
	{"Set default subtitle track", media.TypeText, plan.FlagSet{Default: true}},
	{"Set forced subtitle track", media.TypeText, plan.FlagSet{Forced: true}},
	{"Set default + forced subtitle track", media.TypeText, plan.FlagSet{Default: true, Forced: true}},
}

// workMenu offers the operations for one show directory.
func workMenu(ctx context.Context, svc *services, c *console, dir string) nav.Signal {
	show := filepath.Base(dir)

	for {
		options := make([]string, 0, len(bulkActions)+4)
		for _, action := range bulkActions {
			options = append(options, action.label)
		}
		options = append(options, "Edit flags on a single file", "Browse track info", "Refresh cache from disk")
		restoreIndex := -1
		if svc.cache.HasBackup(show) {
			restoreIndex = len(options)
			options = append(options, "Restore cache backup")
		}

		index, ok := c.choose(fmt.Sprintf("%s:", show), options)
		if !ok {
			return nav.ReturnToParent
		}

		var signal nav.Signal
		switch {
		case index < len(bulkActions):
			action := bulkActions[index]
			signal = runBulk(ctx, svc, c, show, dir, action)
		case index == len(bulkActions):
			signal = singleFileMenu(ctx, svc, c, show, dir)
		case index == len(bulkActions)+1:
			signal = browseTrackInfo(ctx, svc, c, show, dir)
		case index == len(bulkActions)+2:
			signal = refreshCache(ctx, svc, c, show, dir)
		case index == restoreIndex:
			signal = restoreCache(svc, c, show)
		}
		if nav.Descend(signal) == nav.ReturnToRoot {
			return nav.ReturnToRoot
		}
	}
}

func showFiles(c *console, dir string) ([]string, bool) {
	names, err := fileutil.ListMKVFiles(dir)
	if err != nil {
		c.printf("Cannot read %s: %v\n", dir, err)
		return nil, false
	}
	if len(names) == 0 {
		c.printf("No .mkv files in %s\n", dir)
		return nil, false
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, true
}

func runBulk(ctx context.Context, svc *services, c *console, show, dir string, action bulkAction) nav.Signal {
	files, ok := showFiles(c, dir)
	if !ok {
		return nav.Continue
	}

	req := bulkops.Request{
		Show:      show,
		Files:     files,
		TrackType: action.trackType,
		Flags:     action.flags,
		Elevator:  &terminalElevator{console: c},
		Progress:  applyProgress(len(files)),
	}
	prompter := &terminalPrompter{console: c, totalFiles: len(files)}

	result, err := svc.orch.Run(ctx, req, prompter)
	switch {
	case errors.Is(err, bulkops.ErrCancelled):
		c.println("Cancelled, nothing changed.")
		return nav.Continue
	case errors.Is(err, bulkops.ErrNoTracks):
		c.printf("No %s tracks found in these files.\n", action.trackType)
		return nav.Continue
	case errors.Is(err, bulkops.ErrLocked):
		c.println("Another trackman operation is already running on this show.")
		return nav.Continue
	case err != nil:
		c.printf("Operation failed: %v\n", err)
		return nav.Continue
	}

	printRunResult(c, result)
	return nav.Continue
}

func printRunResult(c *console, result bulkops.Result) {
	for path, probeErr := range result.ProbeErrors {
		c.printf("Skipped %s: %v\n", filepath.Base(path), probeErr)
	}

	if result.PlanSize == 0 {
		c.println("All files already match the requested state.")
		return
	}
	if result.DryRun {
		c.printf("Dry run: %d mutations printed to the log, nothing executed.\n", result.PlanSize)
		return
	}

	succeeded := result.Report.Succeeded()
	c.printf("Updated %s.\n", textutil.CountNoun(len(succeeded), "file"))
	for _, failure := range result.Report.Failed() {
		c.printf("Failed %s: %v\n", filepath.Base(failure.Path), failure.Err)
	}

	if len(result.SkippedElevation) > 0 {
		c.printf("Skipped %s needing elevation:\n",
			textutil.CountNoun(len(result.SkippedElevation), "file"))
		preview, remainder := bulkops.Preview(result.SkippedElevation)
		for _, path := range preview {
			c.printf("  %s\n", filepath.Base(path))
		}
		if remainder > 0 {
			c.printf("  ... and %d more\n", remainder)
		}
	}
}

var infoSections = []struct {
	label string
	types []media.TrackType
}{
	{"All", []media.TrackType{media.TypeGeneral, media.TypeVideo, media.TypeAudio, media.TypeText}},
	{"General", []media.TrackType{media.TypeGeneral}},
	{"Video", []media.TrackType{media.TypeVideo}},
	{"Audio", []media.TrackType{media.TypeAudio}},
	{"Subtitles", []media.TrackType{media.TypeText}},
}

func browseTrackInfo(ctx context.Context, svc *services, c *console, show, dir string) nav.Signal {
	files, ok := showFiles(c, dir)
	if !ok {
		return nav.Continue
	}

	sectionLabels := make([]string, 0, len(infoSections))
	for _, section := range infoSections {
		sectionLabels = append(sectionLabels, section.label)
	}
	sectionIndex, ok := c.choose("Which sections?", sectionLabels)
	if !ok {
		return nav.Continue
	}
	types := infoSections[sectionIndex].types

	for {
		options := make([]string, 0, len(files))
		for _, path := range files {
			options = append(options, filepath.Base(path))
		}
		index, ok := c.choose("Inspect which file?", options)
		if !ok {
			return nav.Continue
		}

		snap, err := svc.cache.SnapshotFor(ctx, show, files[index])
		if err != nil {
			c.printf("Cannot inspect %s: %v\n", filepath.Base(files[index]), err)
			continue
		}
		printSnapshot(c, filepath.Base(files[index]), snap, types)
	}
}

func printSnapshot(c *console, name string, snap media.Snapshot, types []media.TrackType) {
	c.printf("\n%s\n", name)
	for _, trackType := range types {
		group := snap.TracksOf(trackType)
		if len(group) == 0 {
			continue
		}
		rows := make([][]string, 0, len(group))
		for _, track := range group {
			rows = append(rows, trackRow(track))
		}
		c.println()
		c.println(sectionTitle(trackType))
		c.println(renderTable(trackTableHeaders, rows, []columnAlignment{alignRight}))
	}
}

func refreshCache(ctx context.Context, svc *services, c *console, show, dir string) nav.Signal {
	files, ok := showFiles(c, dir)
	if !ok {
		return nav.Continue
	}

	progress := applyProgress(len(files))
	refreshed := 0
	for _, path := range files {
		if _, err := svc.cache.UpdateEpisode(ctx, show, path); err != nil {
			c.printf("Failed to inspect %s: %v\n", filepath.Base(path), err)
		} else {
			refreshed++
		}
		if progress != nil {
			progress(propedit.FileResult{Path: path})
		}
	}
	c.printf("Refreshed %s.\n", textutil.CountNoun(refreshed, "file"))
	return nav.Continue
}

func restoreCache(svc *services, c *console, show string) nav.Signal {
	answer, err := c.readLine("Restore the most recent cache backup? [y/N] ")
	if err != nil || !strings.EqualFold(answer, "y") {
		c.println("Restore skipped.")
		return nav.Continue
	}
	if err := svc.cache.Restore(show); err != nil {
		c.printf("Restore failed: %v\n", err)
		return nav.Continue
	}
	c.println("Cache restored.")
	return nav.Continue
}

func printDepsTable(c *console, statuses []deps.Status) {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		state := "ok"
		if !status.Available {
			state = status.Detail
			if status.InstallHint != "" {
				state += " (" + status.InstallHint + ")"
			}
		}
		rows = append(rows, []string{status.Name, status.Command, state})
	}
	c.println(renderTable([]string{"Tool", "Command", "Status"}, rows, nil))
}

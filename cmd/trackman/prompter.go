package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"trackman/internal/bulkops"
	"trackman/internal/propedit"
	"trackman/internal/textutil"
	"trackman/internal/tracks"
)

// console wraps line-oriented terminal interaction.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsole() *console {
	return &console{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

func (c *console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// choose presents a numbered menu with 0 as the back option and returns
// the zero-based index of the selection. ok is false when the user backs
// out or input ends.
func (c *console) choose(title string, options []string) (int, bool) {
	c.println()
	c.println(title)
	for i, option := range options {
		c.printf("  %d) %s\n", i+1, option)
	}
	c.println("  0) Back")

	for {
		answer, err := c.readLine("> ")
		if err != nil {
			return 0, false
		}
		index, convErr := strconv.Atoi(answer)
		if convErr != nil || index < 0 || index > len(options) {
			c.println("Enter a number from the menu.")
			continue
		}
		if index == 0 {
			return 0, false
		}
		return index - 1, true
	}
}

// terminalPrompter drives bulk operations from the console.
type terminalPrompter struct {
	console    *console
	totalFiles int
}

var logicalTableHeaders = []string{"#", "Track", "Codec", "Files"}

func (p *terminalPrompter) SelectTrack(grouped []tracks.LogicalTrack) (tracks.Identity, bool) {
	rows := make([][]string, 0, len(grouped))
	options := make([]string, 0, len(grouped))
	for i, logical := range grouped {
		rows = append(rows, logicalTrackRow(i, logical, p.totalFiles))
		options = append(options, identityLabel(logical.Identity))
	}

	p.console.println()
	p.console.println(renderTable(logicalTableHeaders, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}))

	index, ok := p.console.choose("Select a track:", options)
	if !ok {
		return tracks.Identity{}, false
	}
	return grouped[index].Identity, true
}

func (p *terminalPrompter) Confirm(summary bulkops.Summary) bulkops.Decision {
	c := p.console
	c.println()
	c.printf("Show:      %s\n", summary.Show)
	c.printf("Track:     %s (%s)\n", identityLabel(summary.Identity), summary.TrackType)
	c.printf("Flags:     %s\n", flagSummary(summary.Flags))
	c.printf("Files:     %s affected\n", textutil.CountNoun(len(summary.FilesWith), "file"))
	c.printf("Mutations: %d\n", summary.Mutations)

	if len(summary.FilesWithout) > 0 {
		c.printf("\n%s without this track (left untouched):\n",
			textutil.CountNoun(len(summary.FilesWithout), "file"))
		for _, path := range summary.ExcludedPreview() {
			c.printf("  %s\n", filepath.Base(path))
		}
		if remainder := summary.ExcludedRemainder(); remainder > 0 {
			c.printf("  ... and %d more\n", remainder)
		}
	}

	options := []string{"Apply changes", "Dry run (print commands only)"}
	if len(summary.ElevationRequired) > 0 {
		c.printf("\n%d of %d files need elevated permissions (sudo).\n",
			len(summary.ElevationRequired), len(summary.Writable)+len(summary.ElevationRequired))
		options = append(options, "Apply, skipping files that need elevation")
	}

	index, ok := c.choose("Proceed?", options)
	if !ok {
		return bulkops.Cancel
	}
	switch index {
	case 0:
		return bulkops.Proceed
	case 1:
		return bulkops.ProceedDryRun
	default:
		return bulkops.ProceedWithoutElevation
	}
}

// terminalElevator prompts for the sudo password without echo. The
// returned secret is owned by the caller, which zeroes it after the batch.
type terminalElevator struct {
	console *console
}

func (e *terminalElevator) Secret(ctx context.Context) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, errors.New("cannot prompt for sudo password: stdin is not a terminal")
	}
	e.console.printf("Some files need elevated permissions.\nsudo password: ")
	secret, err := term.ReadPassword(fd)
	e.console.println()
	if err != nil {
		return nil, fmt.Errorf("read sudo password: %w", err)
	}
	return secret, nil
}

// applyProgress returns a per-file progress callback rendering a bar on
// terminals and nothing otherwise.
func applyProgress(totalFiles int) func(propedit.FileResult) {
	if !stdoutIsTerminal() || totalFiles == 0 {
		return nil
	}
	bar := progressbar.Default(int64(totalFiles), "applying")
	return func(propedit.FileResult) {
		_ = bar.Add(1)
	}
}

package mediainfo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"trackman/internal/logging"
	"trackman/internal/media"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		if stderr != "" {
			return nil, fmt.Errorf("%w: %s", err, stderr)
		}
		return nil, err
	}
	return output, nil
}

// Option configures the inspector.
type Option func(*Inspector)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(i *Inspector) {
		if exec != nil {
			i.exec = exec
		}
	}
}

// Inspector probes media files via the MediaInfo CLI.
type Inspector struct {
	binary string
	logger *slog.Logger
	exec   Executor
}

// New constructs an inspector. An empty binary name falls back to
// "mediainfo" resolved via PATH.
func New(binary string, logger *slog.Logger, opts ...Option) *Inspector {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mediainfo"
	}
	inspector := &Inspector{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "mediainfo"),
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(inspector)
	}
	return inspector
}

// rawOutput mirrors the MediaInfo JSON layout. MediaInfo emits every field
// as a string.
type rawOutput struct {
	Media struct {
		Track []rawTrack `json:"track"`
	} `json:"media"`
}

type rawTrack struct {
	Type         string `json:"@type"`
	ID           string `json:"ID"`
	Format       string `json:"Format"`
	Duration     string `json:"Duration"`
	FileSize     string `json:"FileSize"`
	BitRate      string `json:"BitRate"`
	Width        string `json:"Width"`
	Height       string `json:"Height"`
	FrameRate    string `json:"FrameRate"`
	Channels     string `json:"Channels"`
	SamplingRate string `json:"SamplingRate"`
	Language     string `json:"Language"`
	Title        string `json:"Title"`
	Forced       string `json:"Forced"`
	Default      string `json:"Default"`
}

// Inspect probes the file at path and returns its normalized snapshot.
// Failures are wrapped with media.ErrProbe.
func (i *Inspector) Inspect(ctx context.Context, path string) (media.Snapshot, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return media.Snapshot{}, fmt.Errorf("%w: empty path", media.ErrProbe)
	}
	if _, err := os.Stat(path); err != nil {
		return media.Snapshot{}, fmt.Errorf("%w: %v", media.ErrProbe, err)
	}

	output, err := i.exec.Run(ctx, i.binary, []string{"--Output=JSON", path})
	if err != nil {
		return media.Snapshot{}, fmt.Errorf("%w: mediainfo: %v", media.ErrProbe, err)
	}

	var raw rawOutput
	if err := json.Unmarshal(output, &raw); err != nil {
		return media.Snapshot{}, fmt.Errorf("%w: parse mediainfo output: %v", media.ErrProbe, err)
	}

	var snap media.Snapshot
	for _, track := range raw.Media.Track {
		trackType, ok := normalizeType(track.Type)
		if !ok {
			continue
		}
		snap.Append(normalizeTrack(track, trackType))
	}

	i.logger.Debug("inspected file",
		logging.String(logging.FieldFile, path),
		logging.Int("track_count", snap.TrackCount()))

	return snap, nil
}

// normalizeType maps MediaInfo's @type values onto snapshot categories.
// Menu tracks are dropped.
func normalizeType(value string) (media.TrackType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "general":
		return media.TypeGeneral, true
	case "video":
		return media.TypeVideo, true
	case "audio":
		return media.TypeAudio, true
	case "text":
		return media.TypeText, true
	default:
		return "", false
	}
}

func normalizeTrack(raw rawTrack, trackType media.TrackType) media.Track {
	track := media.Track{
		Type:         trackType,
		Codec:        strings.TrimSpace(raw.Format),
		Language:     strings.TrimSpace(raw.Language),
		Title:        strings.TrimSpace(raw.Title),
		Forced:       parseYesNo(raw.Forced),
		Default:      parseYesNo(raw.Default),
		Duration:     strings.TrimSpace(raw.Duration),
		FileSize:     strings.TrimSpace(raw.FileSize),
		BitRate:      strings.TrimSpace(raw.BitRate),
		Width:        strings.TrimSpace(raw.Width),
		Height:       strings.TrimSpace(raw.Height),
		FrameRate:    strings.TrimSpace(raw.FrameRate),
		Channels:     strings.TrimSpace(raw.Channels),
		SamplingRate: strings.TrimSpace(raw.SamplingRate),
	}
	if track.Language == "" {
		track.Language = "und"
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(raw.ID), 10, 64); err == nil {
		track.TrackID = &id
	}
	return track
}

func parseYesNo(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "yes")
}

package main

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"

	"trackman/internal/language"
	"trackman/internal/media"
	"trackman/internal/plan"
	"trackman/internal/textutil"
	"trackman/internal/tracks"
)

var titleCaser = cases.Title(xlanguage.English)

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}

func trackIDLabel(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

// sectionTitle renders a track type as a table heading ("Audio Tracks").
func sectionTitle(trackType media.TrackType) string {
	return titleCaser.String(string(trackType)) + " Tracks"
}

// flagSummary names the flags an operation manages.
func flagSummary(flags plan.FlagSet) string {
	switch {
	case flags.Default && flags.Forced:
		return "default + forced"
	case flags.Forced:
		return "forced"
	default:
		return "default"
	}
}

// identityLabel renders a logical track for menus, with the language code
// expanded to its display name.
func identityLabel(identity tracks.Identity) string {
	name := language.DisplayName(identity.Language)
	if identity.Title == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, identity.Title)
}

// trackRow flattens one probed track into table cells.
func trackRow(track media.Track) []string {
	detail := track.Channels
	if detail != "" {
		detail += " ch"
	}
	if track.Width != "" && track.Height != "" {
		detail = track.Width + "x" + track.Height
	}
	return []string{
		trackIDLabel(track.TrackID),
		language.DisplayName(track.Language),
		track.Title,
		track.Codec,
		detail,
		yesNo(track.Default),
		yesNo(track.Forced),
	}
}

var trackTableHeaders = []string{"ID", "Language", "Title", "Codec", "Detail", "Default", "Forced"}

// logicalTrackRow flattens a grouped identity into table cells, including
// how many of the batch's files carry it.
func logicalTrackRow(index int, logical tracks.LogicalTrack, totalFiles int) []string {
	return []string{
		strconv.Itoa(index + 1),
		identityLabel(logical.Identity),
		logical.Sample.Codec,
		fmt.Sprintf("%d/%d", logical.Count, totalFiles),
	}
}

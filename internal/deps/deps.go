// Package deps verifies the external binaries trackman shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary trackman relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	InstallHint string
	Optional    bool
}

// Status reports the availability of one requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	InstallHint string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// Requirements lists the binaries for the configured tool commands. The
// flag editor and the probe are hard requirements; sudo only matters when
// a file needs elevated writes.
func Requirements(mkvpropedit, mediainfo string) []Requirement {
	return []Requirement{
		{
			Name:        "MKVToolNix propedit",
			Command:     mkvpropedit,
			Description: "Edits track flags on Matroska files in place",
			InstallHint: "install the mkvtoolnix package",
		},
		{
			Name:        "MediaInfo",
			Command:     mediainfo,
			Description: "Probes track metadata (languages, titles, flags)",
			InstallHint: "install the mediainfo package",
		},
		{
			Name:        "sudo",
			Command:     "sudo",
			Description: "Retries mutations on files the current user cannot write",
			InstallHint: "install sudo or run trackman as the file owner",
			Optional:    true,
		},
	}
}

// Check resolves each requirement on PATH and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     command,
			Description: strings.TrimSpace(req.Description),
			InstallHint: req.InstallHint,
			Optional:    req.Optional,
		}
		if command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", command)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable hard requirements.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}

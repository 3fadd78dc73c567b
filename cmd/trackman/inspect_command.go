package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"trackman/internal/media"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Print the track layout of Matroska files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer svc.close()

			out := cmd.OutOrStdout()
			for _, path := range args {
				// Files are cached under the name of their parent
				// directory, matching the interactive per-show layout.
				show := filepath.Base(filepath.Dir(path))

				var snap media.Snapshot
				if refresh {
					snap, err = svc.cache.UpdateEpisode(cmd.Context(), show, path)
				} else {
					snap, err = svc.cache.SnapshotFor(cmd.Context(), show, path)
				}
				if err != nil {
					return fmt.Errorf("inspect %s: %w", path, err)
				}

				fmt.Fprintln(out, path)
				for _, trackType := range []media.TrackType{media.TypeGeneral, media.TypeVideo, media.TypeAudio, media.TypeText} {
					group := snap.TracksOf(trackType)
					if len(group) == 0 {
						continue
					}
					rows := make([][]string, 0, len(group))
					for _, track := range group {
						rows = append(rows, trackRow(track))
					}
					fmt.Fprintln(out)
					fmt.Fprintln(out, sectionTitle(trackType))
					fmt.Fprintln(out, renderTable(trackTableHeaders, rows, []columnAlignment{alignRight}))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache and probe the file directly")
	return cmd
}

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"trackman/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var show string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the journal of past flag mutations",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer svc.close()

			if svc.journal == nil {
				return fmt.Errorf("mutation journal unavailable (see log for details)")
			}

			var entries []history.Entry
			if show != "" {
				entries, err = svc.journal.ForShow(cmd.Context(), show, limit)
			} else {
				entries, err = svc.journal.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded mutations.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				value := "0"
				if entry.Value {
					value = "1"
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					entry.Show,
					filepath.Base(entry.FilePath),
					fmt.Sprintf("%d", entry.TrackID),
					entry.Flag + "=" + value,
					entry.Outcome,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Show", "File", "Track", "Change", "Outcome"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "Limit the journal to one show")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	return cmd
}

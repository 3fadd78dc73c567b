package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the per-show track metadata cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "backup <show>",
		Short: "Take a timestamped backup of a show's cache document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer svc.close()

			if err := svc.cache.Backup(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up cache for %s\n", args[0])
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "restore <show>",
		Short: "Restore a show's cache document from its most recent backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer svc.close()

			if err := svc.cache.Restore(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored cache for %s\n", args[0])
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "path <show>",
		Short: "Print the cache document path for a show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer svc.close()

			fmt.Fprintln(cmd.OutOrStdout(), svc.cache.Path(args[0]))
			return nil
		},
	})

	return cacheCmd
}

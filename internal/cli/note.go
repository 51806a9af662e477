package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) noteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <organization/name> [note]",
		Short: "Set or clear the free-text note of a repository",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			note := ""
			if len(args) == 2 {
				note = args[1]
			}

			ctx := cmd.Context()
			tracker, store, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := tracker.SetNote(ctx, args[0], note); err != nil {
				return err
			}
			logger := loggerFromContext(ctx)
			if note == "" {
				logger.Info("note cleared", "repository", args[0])
			} else {
				logger.Info("note set", "repository", args[0], "note", note)
			}
			return nil
		},
	}
}

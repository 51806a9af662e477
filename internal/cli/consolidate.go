package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) consolidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate",
		Short: "Merge duplicate artifact rows left by the old per-version schema",
		Long: `Merge artifact rows that share an (organization, name) identity.

For each duplicate group the row with a repository link survives (ties broken
by newest creation time), all dependency edges are repointed to the survivor,
and the duplicates are removed. Each group commits as one transaction. Safe
to re-run; a second pass finds nothing to do.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker, store, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := tracker.Consolidate(ctx)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Info("consolidation complete",
				"groups", summary.Groups,
				"removed", summary.Removed)
			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"ecotrack/internal/domain"
)

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <organization/name | organization:name[:version]> <status>",
		Short: "Set the migration status of a repository or artifact",
		Long: `Set the migration status of a repository (organization/name) or an
artifact (organization:name). Valid statuses: not_ported, blocked,
experimental, upstream.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tracker, store, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			change, err := tracker.SetStatus(ctx, args[0], status)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Info("status updated",
				"target", change.Target,
				"from", change.Previous.String(),
				"to", change.Current.String())
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) reposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List tracked repositories with their migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker, store, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			repos, err := tracker.Repositories(ctx)
			if err != nil {
				return err
			}

			for _, repo := range repos {
				line := fmt.Sprintf("%s %s", repo.Status.Indicator(), repo.Slug())
				if repo.Note != "" {
					line += fmt.Sprintf("  # %s", repo.Note)
				}
				fmt.Fprintln(os.Stdout, line)
			}
			loggerFromContext(ctx).Debug("listed repositories", "count", len(repos))
			return nil
		},
	}
}

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"ecotrack/internal/domain"
	"ecotrack/internal/report"
)

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <organization/name>",
		Short: "Render the transitive plugin-dependency tree of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseRepositoryRef(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			renderer := report.New(store, os.Stdout)
			renderer.Plain = a.noColor
			return renderer.Render(ctx, ref.Organization, ref.Name)
		},
	}
}

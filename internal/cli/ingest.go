package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ecotrack/internal/service"
)

func (a *app) ingestCmd() *cobra.Command {
	var strategyName string

	cmd := &cobra.Command{
		Use:   "ingest <analysis.json>...",
		Short: "Merge collector analysis records into the graph",
		Long: `Merge one or more analysis documents into the ecosystem graph.

Each document is reconciled as one atomic transaction: a failure rolls the
document's changes back completely and stops the run.

Strategies:
  authoritative  overwrite the repository's record and replace its edge sets
                 with the new analysis (default)
  preserving     only fill fields that are currently unset and add edges that
                 are not already present`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := service.ParseStrategy(strategyName)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			tracker, store, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read analysis %s: %w", path, err)
				}
				rec, err := service.ParseAnalysis(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				summary, err := tracker.Ingest(ctx, rec, strategy)
				if err != nil {
					return fmt.Errorf("ingest %s: %w", path, err)
				}
				logger.Info("ingested analysis",
					"repository", summary.Repository,
					"plugins", summary.PluginDependencies,
					"artifacts", summary.PublishedArtifacts,
					"dependencies", summary.LibraryDependencies)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", string(service.StrategyAuthoritative),
		"reconciliation strategy: authoritative or preserving")

	return cmd
}

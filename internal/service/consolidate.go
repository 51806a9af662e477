package service

import (
	"context"

	"ecotrack/internal/repository"
)

// ConsolidateSummary reports what the consolidation pass compacted.
type ConsolidateSummary struct {
	Groups   int
	Removed  int
	Repinned int
}

// Consolidate merges duplicate artifact rows sharing an (organization,
// name) identity, left behind by the historical per-version identity
// model. Per group, the canonical survivor is the row with a repository
// link, breaking ties by newest creation time; every edge referencing a
// duplicate is repointed to the survivor before the duplicate is
// deleted. Each group is one transaction, so a failure never leaves a
// group half-compacted. Running the pass twice is a no-op the second
// time.
func (t *Tracker) Consolidate(ctx context.Context) (*ConsolidateSummary, error) {
	groups, err := t.store.ListDuplicateArtifacts(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ConsolidateSummary{}
	for _, group := range groups {
		survivor := group[0]
		err := t.store.Transact(ctx, func(tx repository.Store) error {
			for _, dup := range group[1:] {
				if err := tx.RepointDependencyEdges(ctx, dup.ID, survivor.ID); err != nil {
					return err
				}
				if err := tx.DeleteArtifact(ctx, dup.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		summary.Groups++
		summary.Removed += len(group) - 1
		summary.Repinned += len(group) - 1
		t.log.Debug("consolidated artifact duplicates",
			"artifact", survivor.Coordinate(), "removed", len(group)-1)
	}

	return summary, nil
}

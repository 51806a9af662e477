package service

import (
	"context"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
)

// Strategy names a reconciliation mode.
type Strategy string

const (
	// StrategyAuthoritative treats the incoming analysis as ground truth
	// for the repository: its fields are overwritten, its plugin edge set
	// is replaced wholesale, and published artifacts inherit its status.
	// This is the production mode.
	StrategyAuthoritative Strategy = "authoritative"

	// StrategyPreserving only fills fields that are currently unset and
	// only adds edges that are not already present; nothing stored is
	// overwritten or deleted.
	StrategyPreserving Strategy = "preserving"
)

// ParseStrategy validates a strategy name from the command line.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyAuthoritative, StrategyPreserving:
		return Strategy(s), nil
	}
	return "", domain.Validationf("invalid strategy %q (valid: authoritative, preserving)", s)
}

// IngestSummary reports what one reconciliation touched.
type IngestSummary struct {
	Repository          string
	RepositoryID        int64
	PluginDependencies  int
	PublishedArtifacts  int
	LibraryDependencies int
}

// Ingest merges one analysis record into the store using the given
// strategy. The whole record is one atomic unit: any failure rolls back
// every accumulated change.
func (t *Tracker) Ingest(ctx context.Context, rec *domain.Analysis, strategy Strategy) (*IngestSummary, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy = StrategyAuthoritative
	}

	summary := &IngestSummary{}
	err := t.store.Transact(ctx, func(tx repository.Store) error {
		switch strategy {
		case StrategyPreserving:
			return t.ingestPreserving(ctx, tx, rec, summary)
		default:
			return t.ingestAuthoritative(ctx, tx, rec, summary)
		}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ingestAuthoritative implements the replace-all reconciliation: the new
// analysis becomes the stored truth for the repository and its edges.
func (t *Tracker) ingestAuthoritative(ctx context.Context, tx repository.Store, rec *domain.Analysis, summary *IngestSummary) error {
	repoID, err := t.upsertRepository(ctx, tx, rec)
	if err != nil {
		return err
	}
	summary.Repository = rec.Repository.Organization + "/" + rec.Repository.Name
	summary.RepositoryID = repoID

	// Replace-all: stale plugins from prior ingests must never linger.
	if err := tx.DeletePluginDependencies(ctx, repoID); err != nil {
		return err
	}
	for _, plugin := range rec.PluginDependencies {
		artID, err := resolveArtifact(ctx, tx, artifactFields{
			organization: plugin.Organization,
			name:         plugin.Name,
			isPlugin:     true,
			isPublished:  true,
		})
		if err != nil {
			return err
		}
		if err := tx.InsertPluginDependency(ctx, repoID, artID, plugin.Version); err != nil {
			return err
		}
		summary.PluginDependencies++
	}

	for _, pub := range rec.PublishedArtifacts {
		artID, err := resolveArtifact(ctx, tx, artifactFields{
			organization: pub.Organization,
			name:         pub.Name,
			isPlugin:     pub.IsPlugin,
			repositoryID: &repoID,
			subproject:   pub.Subproject,
			isPublished:  pub.Published(),
			scalaVersion: pub.ScalaVersion,
			// Status inheritance: a published artifact tracks its owning
			// repository's status on every reconciliation.
			status: rec.Status,
		})
		if err != nil {
			return err
		}
		summary.PublishedArtifacts++

		if err := tx.DeleteLibraryDependencies(ctx, artID); err != nil {
			return err
		}
		for _, dep := range pub.LibraryDependencies {
			depID, err := resolveArtifact(ctx, tx, artifactFields{
				organization: dep.Organization,
				name:         dep.Name,
				isPublished:  true,
			})
			if err != nil {
				return err
			}
			if err := tx.InsertLibraryDependency(ctx, artID, depID, dep.Version, dep.Scope); err != nil {
				return err
			}
			summary.LibraryDependencies++
		}
	}

	return nil
}

// upsertRepository resolves the repository by URL, inserting it on first
// sight or overwriting its analyzed fields on re-analysis.
func (t *Tracker) upsertRepository(ctx context.Context, tx repository.Store, rec *domain.Analysis) (int64, error) {
	existing, err := tx.FindRepositoryByURL(ctx, rec.Repository.URL)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return tx.InsertRepository(ctx, &domain.Repository{
			URL:                    rec.Repository.URL,
			Organization:           rec.Repository.Organization,
			Name:                   rec.Repository.Name,
			IsPluginContainingRepo: rec.IsPluginContainingRepo,
			Status:                 rec.Status,
		})
	}
	err = tx.UpdateRepositoryAnalysis(ctx, existing.ID,
		rec.Repository.Organization, rec.Repository.Name, rec.IsPluginContainingRepo, rec.Status)
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}

// artifactFields carries the incoming view of one artifact during
// resolve-or-create. Zero values mean "caller has no information".
type artifactFields struct {
	organization string
	name         string
	isPlugin     bool
	repositoryID *int64
	subproject   string
	isPublished  bool
	scalaVersion string
	status       domain.Status
}

// resolveArtifact looks up the artifact by identity and applies the
// field-level merge rules, inserting a new row when absent.
//
// The repository link is the invariant this function exists to protect:
// an incoming nil repositoryID means "no information", never "clear the
// link", so an existing non-nil link always survives. Status backfills
// from the owning repository when the incoming record leaves it unset,
// and an existing status is preserved rather than erased.
func resolveArtifact(ctx context.Context, tx repository.Store, f artifactFields) (int64, error) {
	existing, err := tx.FindArtifact(ctx, f.organization, f.name)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		if f.repositoryID == nil && existing.RepositoryID != nil {
			f.repositoryID = existing.RepositoryID
		}
		if !f.status.Known() {
			if f.repositoryID != nil {
				owner, err := tx.FindRepositoryByID(ctx, *f.repositoryID)
				if err != nil {
					return 0, err
				}
				if owner != nil && owner.Status.Known() {
					f.status = owner.Status
				} else if existing.Status.Known() {
					f.status = existing.Status
				}
			} else if existing.Status.Known() {
				f.status = existing.Status
			}
		}

		err = tx.UpdateArtifact(ctx, &domain.Artifact{
			ID:           existing.ID,
			Organization: f.organization,
			Name:         f.name,
			IsPlugin:     f.isPlugin,
			RepositoryID: f.repositoryID,
			Subproject:   f.subproject,
			IsPublished:  f.isPublished,
			ScalaVersion: f.scalaVersion,
			Status:       f.status,
		})
		if err != nil {
			return 0, err
		}
		return existing.ID, nil
	}

	if !f.status.Known() && f.repositoryID != nil {
		owner, err := tx.FindRepositoryByID(ctx, *f.repositoryID)
		if err != nil {
			return 0, err
		}
		if owner != nil {
			f.status = owner.Status
		}
	}

	return tx.InsertArtifact(ctx, &domain.Artifact{
		Organization: f.organization,
		Name:         f.name,
		IsPlugin:     f.isPlugin,
		RepositoryID: f.repositoryID,
		Subproject:   f.subproject,
		IsPublished:  f.isPublished,
		ScalaVersion: f.scalaVersion,
		Status:       f.status,
	})
}

// ingestPreserving implements the fill-only-empty reconciliation mode:
// stored fields win, edges accumulate, nothing is deleted.
func (t *Tracker) ingestPreserving(ctx context.Context, tx repository.Store, rec *domain.Analysis, summary *IngestSummary) error {
	var repoID int64
	existing, err := tx.FindRepositoryByURL(ctx, rec.Repository.URL)
	if err != nil {
		return err
	}
	if existing == nil {
		repoID, err = tx.InsertRepository(ctx, &domain.Repository{
			URL:                    rec.Repository.URL,
			Organization:           rec.Repository.Organization,
			Name:                   rec.Repository.Name,
			IsPluginContainingRepo: rec.IsPluginContainingRepo,
			Status:                 rec.Status,
		})
		if err != nil {
			return err
		}
	} else {
		repoID = existing.ID
		if !existing.Status.Known() && rec.Status.Known() {
			if err := tx.UpdateRepositoryStatus(ctx, repoID, rec.Status); err != nil {
				return err
			}
		}
	}
	summary.Repository = rec.Repository.Organization + "/" + rec.Repository.Name
	summary.RepositoryID = repoID

	havePlugins, err := edgeSet(ctx, tx, repoID)
	if err != nil {
		return err
	}
	for _, plugin := range rec.PluginDependencies {
		if havePlugins[plugin.Organization+":"+plugin.Name] {
			continue
		}
		artID, err := resolveArtifactPreserving(ctx, tx, artifactFields{
			organization: plugin.Organization,
			name:         plugin.Name,
			isPlugin:     true,
			isPublished:  true,
		})
		if err != nil {
			return err
		}
		if err := tx.InsertPluginDependency(ctx, repoID, artID, plugin.Version); err != nil {
			return err
		}
		summary.PluginDependencies++
	}

	for _, pub := range rec.PublishedArtifacts {
		artID, err := resolveArtifactPreserving(ctx, tx, artifactFields{
			organization: pub.Organization,
			name:         pub.Name,
			isPlugin:     pub.IsPlugin,
			repositoryID: &repoID,
			subproject:   pub.Subproject,
			isPublished:  pub.Published(),
			scalaVersion: pub.ScalaVersion,
			status:       rec.Status,
		})
		if err != nil {
			return err
		}
		summary.PublishedArtifacts++

		haveLibs := map[string]bool{}
		libs, err := tx.ListLibraryDependencies(ctx, artID)
		if err != nil {
			return err
		}
		for _, lib := range libs {
			haveLibs[lib.Artifact.Coordinate()] = true
		}
		for _, dep := range pub.LibraryDependencies {
			if haveLibs[dep.Organization+":"+dep.Name] {
				continue
			}
			depID, err := resolveArtifactPreserving(ctx, tx, artifactFields{
				organization: dep.Organization,
				name:         dep.Name,
				isPublished:  true,
			})
			if err != nil {
				return err
			}
			if err := tx.InsertLibraryDependency(ctx, artID, depID, dep.Version, dep.Scope); err != nil {
				return err
			}
			summary.LibraryDependencies++
		}
	}

	return nil
}

// edgeSet returns the (organization:name) coordinates already present in
// a repository's plugin edge set.
func edgeSet(ctx context.Context, tx repository.Store, repoID int64) (map[string]bool, error) {
	deps, err := tx.ListPluginDependencies(ctx, repoID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(deps))
	for _, dep := range deps {
		set[dep.Artifact.Coordinate()] = true
	}
	return set, nil
}

// resolveArtifactPreserving is the fill-only-empty variant of
// resolveArtifact: existing values always win, incoming values only land
// in fields that are currently unset.
func resolveArtifactPreserving(ctx context.Context, tx repository.Store, f artifactFields) (int64, error) {
	existing, err := tx.FindArtifact(ctx, f.organization, f.name)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return resolveArtifact(ctx, tx, f)
	}

	merged := *existing
	changed := false
	if merged.RepositoryID == nil && f.repositoryID != nil {
		merged.RepositoryID = f.repositoryID
		changed = true
	}
	if merged.Subproject == "" && f.subproject != "" {
		merged.Subproject = f.subproject
		changed = true
	}
	if merged.ScalaVersion == "" && f.scalaVersion != "" {
		merged.ScalaVersion = f.scalaVersion
		changed = true
	}
	if !merged.Status.Known() {
		status := f.status
		if !status.Known() && merged.RepositoryID != nil {
			owner, err := tx.FindRepositoryByID(ctx, *merged.RepositoryID)
			if err != nil {
				return 0, err
			}
			if owner != nil {
				status = owner.Status
			}
		}
		if status.Known() {
			merged.Status = status
			changed = true
		}
	}

	if changed {
		if err := tx.UpdateArtifact(ctx, &merged); err != nil {
			return 0, err
		}
	}
	return existing.ID, nil
}

package sqlite

import (
	"context"

	"ecotrack/internal/domain"
)

// DeletePluginDependencies removes every plugin edge of a repository,
// the first half of the replace-all reconciliation policy.
func (s *Store) DeletePluginDependencies(ctx context.Context, repositoryID int64) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM repository_plugin_dependencies WHERE repository_id = ?
	`, repositoryID)
	return wrapErr("delete plugin dependencies", err)
}

// InsertPluginDependency records one repository → plugin edge at the
// declared version.
func (s *Store) InsertPluginDependency(ctx context.Context, repositoryID, artifactID int64, version string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO repository_plugin_dependencies (repository_id, plugin_artifact_id, version)
		VALUES (?, ?, ?)
	`, repositoryID, artifactID, version)
	return wrapErr("insert plugin dependency", err)
}

// ListPluginDependencies returns a repository's plugin edges with the
// target artifact joined in, ordered by (organization, name). The tree
// renderer's deterministic output depends on this ordering.
func (s *Store) ListPluginDependencies(ctx context.Context, repositoryID int64) ([]domain.PluginDependency, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT rpd.version, a.id, a.organization, a.name, a.is_plugin, a.repository_id,
		       a.subproject, a.is_published, a.scala_version, a.status, a.created_at, a.updated_at
		FROM repository_plugin_dependencies rpd
		JOIN artifacts a ON rpd.plugin_artifact_id = a.id
		WHERE rpd.repository_id = ?
		ORDER BY a.organization, a.name
	`, repositoryID)
	if err != nil {
		return nil, wrapErr("list plugin dependencies", err)
	}
	defer rows.Close()

	var deps []domain.PluginDependency
	for rows.Next() {
		dep := domain.PluginDependency{RepositoryID: repositoryID}
		art, err := scanArtifact(func(dest ...any) error {
			return rows.Scan(append([]any{&dep.Version}, dest...)...)
		})
		if err != nil {
			return nil, wrapErr("scan plugin dependency", err)
		}
		dep.Artifact = *art
		deps = append(deps, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list plugin dependencies", err)
	}
	return deps, nil
}

// DeleteLibraryDependencies removes every library edge declared by an
// artifact, the first half of the replace-all reconciliation policy.
func (s *Store) DeleteLibraryDependencies(ctx context.Context, dependentArtifactID int64) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM artifact_dependencies WHERE dependent_artifact_id = ?
	`, dependentArtifactID)
	return wrapErr("delete library dependencies", err)
}

// InsertLibraryDependency records one artifact → artifact edge at the
// declared version and scope.
func (s *Store) InsertLibraryDependency(ctx context.Context, dependentArtifactID, dependencyArtifactID int64, version, scope string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO artifact_dependencies (dependent_artifact_id, dependency_artifact_id, version, scope)
		VALUES (?, ?, ?, ?)
	`, dependentArtifactID, dependencyArtifactID, version, scope)
	return wrapErr("insert library dependency", err)
}

// ListLibraryDependencies returns an artifact's library edges with the
// dependency target joined in, ordered by (organization, name).
func (s *Store) ListLibraryDependencies(ctx context.Context, dependentArtifactID int64) ([]domain.LibraryDependency, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT ad.version, ad.scope, a.id, a.organization, a.name, a.is_plugin, a.repository_id,
		       a.subproject, a.is_published, a.scala_version, a.status, a.created_at, a.updated_at
		FROM artifact_dependencies ad
		JOIN artifacts a ON ad.dependency_artifact_id = a.id
		WHERE ad.dependent_artifact_id = ?
		ORDER BY a.organization, a.name
	`, dependentArtifactID)
	if err != nil {
		return nil, wrapErr("list library dependencies", err)
	}
	defer rows.Close()

	var deps []domain.LibraryDependency
	for rows.Next() {
		dep := domain.LibraryDependency{DependentArtifactID: dependentArtifactID}
		art, err := scanArtifact(func(dest ...any) error {
			return rows.Scan(append([]any{&dep.Version, &dep.Scope}, dest...)...)
		})
		if err != nil {
			return nil, wrapErr("scan library dependency", err)
		}
		dep.Artifact = *art
		deps = append(deps, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list library dependencies", err)
	}
	return deps, nil
}

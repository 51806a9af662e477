package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"ecotrack/internal/domain"
)

const artifactColumns = `id, organization, name, is_plugin, repository_id, subproject, is_published, scala_version, status, created_at, updated_at`

// scanArtifact reads one artifact row from a row scanner.
func scanArtifact(scan func(dest ...any) error) (*domain.Artifact, error) {
	var (
		art                      domain.Artifact
		isPlugin, isPublished    int64
		repoID                   sql.NullInt64
		subproject, scalaVersion sql.NullString
		status                   sql.NullString
		created, updated         sql.NullString
	)
	if err := scan(&art.ID, &art.Organization, &art.Name, &isPlugin, &repoID, &subproject, &isPublished, &scalaVersion, &status, &created, &updated); err != nil {
		return nil, err
	}
	art.IsPlugin = isPlugin != 0
	art.IsPublished = isPublished != 0
	art.RepositoryID = nullToID(repoID)
	art.Subproject = nullToString(subproject)
	art.ScalaVersion = nullToString(scalaVersion)
	art.Status = nullToStatus(status)
	art.CreatedAt = parseTimestamp(created)
	art.UpdatedAt = parseTimestamp(updated)
	return &art, nil
}

// FindArtifact looks up an artifact by its (organization, name) identity.
// Duplicate rows left by the historical per-version schema resolve to the
// canonical survivor ordering used by consolidation.
func (s *Store) FindArtifact(ctx context.Context, organization, name string) (*domain.Artifact, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE organization = ? AND name = ?
		ORDER BY CASE WHEN repository_id IS NOT NULL THEN 0 ELSE 1 END, created_at DESC, id DESC
		LIMIT 1
	`, organization, name)
	art, err := scanArtifact(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find artifact", err)
	}
	return art, nil
}

// InsertArtifact inserts a new artifact and returns its id. Callers must
// have checked (organization, name) uniqueness via FindArtifact first.
func (s *Store) InsertArtifact(ctx context.Context, artifact *domain.Artifact) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO artifacts (organization, name, is_plugin, repository_id, subproject, is_published, scala_version, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, artifact.Organization, artifact.Name, artifact.IsPlugin, idToNull(artifact.RepositoryID),
		stringToNull(artifact.Subproject), artifact.IsPublished, stringToNull(artifact.ScalaVersion), statusToNull(artifact.Status))
	if err != nil {
		return 0, wrapErr("insert artifact", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert artifact", err)
	}
	return id, nil
}

// UpdateArtifact overwrites the mutable fields of an artifact row. The
// reconciliation engine is responsible for never passing a nil
// RepositoryID over an existing link.
func (s *Store) UpdateArtifact(ctx context.Context, artifact *domain.Artifact) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE artifacts
		SET is_plugin = ?, repository_id = ?, subproject = ?, is_published = ?, scala_version = ?, status = ?, updated_at = datetime('now')
		WHERE id = ?
	`, artifact.IsPlugin, idToNull(artifact.RepositoryID), stringToNull(artifact.Subproject),
		artifact.IsPublished, stringToNull(artifact.ScalaVersion), statusToNull(artifact.Status), artifact.ID)
	return wrapErr("update artifact", err)
}

// UpdateArtifactStatus sets the independently tracked status of an
// artifact. Reconciliation of its owning repository may override it.
func (s *Store) UpdateArtifactStatus(ctx context.Context, id int64, status domain.Status) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE artifacts SET status = ?, updated_at = datetime('now') WHERE id = ?
	`, statusToNull(status), id)
	return wrapErr("update artifact status", err)
}

// FindOwningRepository resolves the weak repository link of an artifact.
// Returns nil for artifacts without a known publishing repository.
func (s *Store) FindOwningRepository(ctx context.Context, artifactID int64) (*domain.Repository, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT r.id, r.url, r.organization, r.name, r.is_plugin_containing_repo, r.status, r.note, r.created_at, r.updated_at
		FROM artifacts a
		JOIN repositories r ON a.repository_id = r.id
		WHERE a.id = ?
	`, artifactID)
	repo, err := scanRepository(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find owning repository", err)
	}
	return repo, nil
}

// ListDuplicateArtifacts returns groups of artifact rows sharing an
// (organization, name) identity. Rows within a group are ordered with the
// canonical survivor first: non-null repository link, then newest
// creation time, then highest id.
func (s *Store) ListDuplicateArtifacts(ctx context.Context) ([][]domain.Artifact, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE (organization, name) IN (
			SELECT organization, name FROM artifacts
			GROUP BY organization, name
			HAVING COUNT(*) > 1
		)
		ORDER BY organization, name,
			CASE WHEN repository_id IS NOT NULL THEN 0 ELSE 1 END,
			created_at DESC, id DESC
	`)
	if err != nil {
		return nil, wrapErr("list duplicate artifacts", err)
	}
	defer rows.Close()

	var groups [][]domain.Artifact
	var current []domain.Artifact
	for rows.Next() {
		art, err := scanArtifact(rows.Scan)
		if err != nil {
			return nil, wrapErr("scan artifact", err)
		}
		if len(current) > 0 && (current[0].Organization != art.Organization || current[0].Name != art.Name) {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, *art)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list duplicate artifacts", err)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups, nil
}

// RepointDependencyEdges moves every edge referencing fromArtifactID onto
// toArtifactID, covering both ends of library edges and the plugin edge
// target.
func (s *Store) RepointDependencyEdges(ctx context.Context, fromArtifactID, toArtifactID int64) error {
	statements := []string{
		`UPDATE artifact_dependencies SET dependent_artifact_id = ? WHERE dependent_artifact_id = ?`,
		`UPDATE artifact_dependencies SET dependency_artifact_id = ? WHERE dependency_artifact_id = ?`,
		`UPDATE repository_plugin_dependencies SET plugin_artifact_id = ? WHERE plugin_artifact_id = ?`,
	}
	for _, stmt := range statements {
		if _, err := s.q.ExecContext(ctx, stmt, toArtifactID, fromArtifactID); err != nil {
			return wrapErr("repoint dependency edges", err)
		}
	}
	return nil
}

// DeleteArtifact removes an artifact row. Only the consolidation pass
// deletes artifacts, after repointing their edges.
func (s *Store) DeleteArtifact(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, id)
	return wrapErr("delete artifact", err)
}

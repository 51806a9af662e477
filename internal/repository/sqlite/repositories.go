package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"ecotrack/internal/domain"
)

const repositoryColumns = `id, url, organization, name, is_plugin_containing_repo, status, note, created_at, updated_at`

// scanRepository reads one repository row from a row scanner.
func scanRepository(scan func(dest ...any) error) (*domain.Repository, error) {
	var (
		repo         domain.Repository
		isPluginRepo int64
		status, note sql.NullString
		created      sql.NullString
		updated      sql.NullString
	)
	if err := scan(&repo.ID, &repo.URL, &repo.Organization, &repo.Name, &isPluginRepo, &status, &note, &created, &updated); err != nil {
		return nil, err
	}
	repo.IsPluginContainingRepo = isPluginRepo != 0
	repo.Status = nullToStatus(status)
	repo.Note = nullToString(note)
	repo.CreatedAt = parseTimestamp(created)
	repo.UpdatedAt = parseTimestamp(updated)
	return &repo, nil
}

func (s *Store) findRepositoryWhere(ctx context.Context, where string, args ...any) (*domain.Repository, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+repositoryColumns+` FROM repositories WHERE `+where, args...)
	repo, err := scanRepository(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find repository", err)
	}
	return repo, nil
}

// FindRepository looks up a repository by its (organization, name) identity.
func (s *Store) FindRepository(ctx context.Context, organization, name string) (*domain.Repository, error) {
	return s.findRepositoryWhere(ctx, `organization = ? AND name = ?`, organization, name)
}

// FindRepositoryByURL looks up a repository by its unique source URL.
func (s *Store) FindRepositoryByURL(ctx context.Context, url string) (*domain.Repository, error) {
	return s.findRepositoryWhere(ctx, `url = ?`, url)
}

// FindRepositoryByID looks up a repository by row id.
func (s *Store) FindRepositoryByID(ctx context.Context, id int64) (*domain.Repository, error) {
	return s.findRepositoryWhere(ctx, `id = ?`, id)
}

// ListRepositories returns every tracked repository ordered by identity.
func (s *Store) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+repositoryColumns+`
		FROM repositories
		ORDER BY organization, name
	`)
	if err != nil {
		return nil, wrapErr("list repositories", err)
	}
	defer rows.Close()

	var repos []domain.Repository
	for rows.Next() {
		repo, err := scanRepository(rows.Scan)
		if err != nil {
			return nil, wrapErr("scan repository", err)
		}
		repos = append(repos, *repo)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list repositories", err)
	}
	return repos, nil
}

// InsertRepository inserts a new repository and returns its id.
func (s *Store) InsertRepository(ctx context.Context, repo *domain.Repository) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO repositories (url, organization, name, is_plugin_containing_repo, status, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, repo.URL, repo.Organization, repo.Name, repo.IsPluginContainingRepo, statusToNull(repo.Status), stringToNull(repo.Note))
	if err != nil {
		return 0, wrapErr("insert repository", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert repository", err)
	}
	return id, nil
}

// UpdateRepositoryAnalysis overwrites the fields an authoritative
// re-analysis supplies; url, note, and created_at are untouched.
func (s *Store) UpdateRepositoryAnalysis(ctx context.Context, id int64, organization, name string, isPluginContainingRepo bool, status domain.Status) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE repositories
		SET organization = ?, name = ?, is_plugin_containing_repo = ?, status = ?, updated_at = datetime('now')
		WHERE id = ?
	`, organization, name, isPluginContainingRepo, statusToNull(status), id)
	return wrapErr("update repository", err)
}

// UpdateRepositoryStatus sets the migration status of a repository.
func (s *Store) UpdateRepositoryStatus(ctx context.Context, id int64, status domain.Status) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE repositories SET status = ?, updated_at = datetime('now') WHERE id = ?
	`, statusToNull(status), id)
	return wrapErr("update repository status", err)
}

// UpdateRepositoryNote sets or clears (empty note) the free-text note.
func (s *Store) UpdateRepositoryNote(ctx context.Context, id int64, note string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE repositories SET note = ?, updated_at = datetime('now') WHERE id = ?
	`, stringToNull(note), id)
	return wrapErr("update repository note", err)
}

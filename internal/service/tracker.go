package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
)

// Tracker bundles the tracker's operations around one store handle. The
// handle is owned by the executing command; there is no process-wide
// store state.
type Tracker struct {
	store repository.Store
	log   *log.Logger
}

// New creates a Tracker on the given store. A nil logger falls back to
// the default logger.
func New(store repository.Store, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{store: store, log: logger}
}

// StatusChange describes a status mutation for reporting back to the
// operator.
type StatusChange struct {
	Target   string
	Previous domain.Status
	Current  domain.Status
}

// SetStatus updates the migration status of a repository
// ("organization/name") or an artifact ("organization:name[:version]").
// Unknown identifiers surface domain.ErrNotFound; the identifier shape
// and status value are validated before any store access.
func (t *Tracker) SetStatus(ctx context.Context, identifier string, status domain.Status) (*StatusChange, error) {
	if !status.Known() {
		return nil, domain.Validationf("status is required")
	}

	if strings.Contains(identifier, "/") {
		ref, err := domain.ParseRepositoryRef(identifier)
		if err != nil {
			return nil, err
		}
		repo, err := t.store.FindRepository(ctx, ref.Organization, ref.Name)
		if err != nil {
			return nil, err
		}
		if repo == nil {
			return nil, fmt.Errorf("repository %q: %w", identifier, domain.ErrNotFound)
		}
		if err := t.store.UpdateRepositoryStatus(ctx, repo.ID, status); err != nil {
			return nil, err
		}
		return &StatusChange{Target: repo.Slug(), Previous: repo.Status, Current: status}, nil
	}

	ref, err := domain.ParseArtifactRef(identifier)
	if err != nil {
		return nil, err
	}
	art, err := t.store.FindArtifact(ctx, ref.Organization, ref.Name)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, fmt.Errorf("artifact %q: %w", identifier, domain.ErrNotFound)
	}
	if err := t.store.UpdateArtifactStatus(ctx, art.ID, status); err != nil {
		return nil, err
	}
	return &StatusChange{Target: art.Coordinate(), Previous: art.Status, Current: status}, nil
}

// SetNote sets the free-text note of a repository; an empty note clears
// it. Notes exist only on repositories.
func (t *Tracker) SetNote(ctx context.Context, identifier, note string) error {
	ref, err := domain.ParseRepositoryRef(identifier)
	if err != nil {
		return err
	}
	repo, err := t.store.FindRepository(ctx, ref.Organization, ref.Name)
	if err != nil {
		return err
	}
	if repo == nil {
		return fmt.Errorf("repository %q: %w", identifier, domain.ErrNotFound)
	}
	return t.store.UpdateRepositoryNote(ctx, repo.ID, note)
}

// Repositories lists every tracked repository ordered by identity.
func (t *Tracker) Repositories(ctx context.Context) ([]domain.Repository, error) {
	return t.store.ListRepositories(ctx)
}

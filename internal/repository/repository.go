// Package repository defines the storage interface for the ecosystem
// graph. The concrete SQLite implementation lives in the sqlite
// subpackage; services depend only on the Store interface.
package repository

import (
	"context"

	"ecotrack/internal/domain"
)

// Store is the durable entity store for repositories, artifacts, and
// dependency edges. Implementations enforce identity uniqueness at the
// boundary (lookup before insert) and keep the artifact → repository
// back-reference weak: deleting a repository nulls the link, never the
// artifact.
//
// Multi-step writes run inside Transact; a Store handed to the Transact
// callback is scoped to that transaction and must not escape it.
type Store interface {
	// Repositories
	FindRepository(ctx context.Context, organization, name string) (*domain.Repository, error)
	FindRepositoryByURL(ctx context.Context, url string) (*domain.Repository, error)
	FindRepositoryByID(ctx context.Context, id int64) (*domain.Repository, error)
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	InsertRepository(ctx context.Context, repo *domain.Repository) (int64, error)
	UpdateRepositoryAnalysis(ctx context.Context, id int64, organization, name string, isPluginContainingRepo bool, status domain.Status) error
	UpdateRepositoryStatus(ctx context.Context, id int64, status domain.Status) error
	UpdateRepositoryNote(ctx context.Context, id int64, note string) error

	// Artifacts
	FindArtifact(ctx context.Context, organization, name string) (*domain.Artifact, error)
	InsertArtifact(ctx context.Context, artifact *domain.Artifact) (int64, error)
	UpdateArtifact(ctx context.Context, artifact *domain.Artifact) error
	UpdateArtifactStatus(ctx context.Context, id int64, status domain.Status) error
	FindOwningRepository(ctx context.Context, artifactID int64) (*domain.Repository, error)

	// Plugin dependency edges (repository → plugin artifact)
	DeletePluginDependencies(ctx context.Context, repositoryID int64) error
	InsertPluginDependency(ctx context.Context, repositoryID, artifactID int64, version string) error
	// ListPluginDependencies returns edges ordered by the target
	// artifact's (organization, name); deterministic report output
	// depends on this ordering.
	ListPluginDependencies(ctx context.Context, repositoryID int64) ([]domain.PluginDependency, error)

	// Library dependency edges (artifact → artifact)
	DeleteLibraryDependencies(ctx context.Context, dependentArtifactID int64) error
	InsertLibraryDependency(ctx context.Context, dependentArtifactID, dependencyArtifactID int64, version, scope string) error
	ListLibraryDependencies(ctx context.Context, dependentArtifactID int64) ([]domain.LibraryDependency, error)

	// Consolidation support
	ListDuplicateArtifacts(ctx context.Context) ([][]domain.Artifact, error)
	RepointDependencyEdges(ctx context.Context, fromArtifactID, toArtifactID int64) error
	DeleteArtifact(ctx context.Context, id int64) error

	// Transact runs fn atomically: every store call made through the
	// callback's Store either commits as a unit or rolls back entirely.
	Transact(ctx context.Context, fn func(Store) error) error

	Close() error
}

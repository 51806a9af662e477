package domain

import (
	"fmt"
	"time"
)

// Artifact is a published library or plugin coordinate. Identity is the
// (organization, name) pair; version lives on dependency edges, never on
// the artifact itself, so the store holds at most one canonical record
// per coordinate.
//
// RepositoryID is a weak back-reference to the publishing repository,
// resolved lazily as analyses arrive. Once set it is never cleared by
// reconciliation; repository deletion nulls it via the schema.
type Artifact struct {
	ID           int64
	Organization string
	Name         string
	IsPlugin     bool
	RepositoryID *int64
	Subproject   string
	IsPublished  bool
	ScalaVersion string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Coordinate returns the organization:name form of the artifact identity.
func (a *Artifact) Coordinate() string {
	return fmt.Sprintf("%s:%s", a.Organization, a.Name)
}

// PluginDependency is one edge of the repository → plugin artifact
// relation, carrying the version declared by the repository's build.
// The target artifact is joined in for traversal.
type PluginDependency struct {
	RepositoryID int64
	Version      string
	Artifact     Artifact
}

// LibraryDependency is one edge of the artifact → artifact relation,
// carrying the declared version and scope (compile, test, provided, ...).
type LibraryDependency struct {
	DependentArtifactID int64
	Version             string
	Scope               string
	Artifact            Artifact
}

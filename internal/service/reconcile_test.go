package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
	"ecotrack/internal/repository/sqlite"
	"ecotrack/internal/service"
)

func newTestTracker(t *testing.T) (*service.Tracker, repository.Store) {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return service.New(store, nil), store
}

func analysisFixture(org, name string, status domain.Status) *domain.Analysis {
	return &domain.Analysis{
		Repository: domain.AnalysisRepository{
			URL:          "https://github.com/" + org + "/" + name,
			Organization: org,
			Name:         name,
		},
		IsPluginContainingRepo: false,
		Status:                 status,
	}
}

func TestIngestCreatesRepositoryAndArtifacts(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	rec := analysisFixture("com.example", "magnum", domain.StatusExperimental)
	rec.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "org.plugins", Name: "sbt-ci", Version: "1.0.0"},
	}
	rec.PublishedArtifacts = []domain.AnalysisArtifact{
		{
			Organization: "com.example", Name: "magnum-core", IsPlugin: false,
			Subproject: "core", ScalaVersion: "3",
			LibraryDependencies: []domain.AnalysisLibraryDependency{
				{Organization: "org.typelevel", Name: "cats-core", Version: "2.10.0", Scope: "compile"},
			},
		},
	}

	summary, err := tracker.Ingest(ctx, rec, service.StrategyAuthoritative)
	require.NoError(t, err)
	require.Equal(t, "com.example/magnum", summary.Repository)
	require.Equal(t, 1, summary.PluginDependencies)
	require.Equal(t, 1, summary.PublishedArtifacts)
	require.Equal(t, 1, summary.LibraryDependencies)

	repo, err := store.FindRepository(ctx, "com.example", "magnum")
	require.NoError(t, err)
	require.NotNil(t, repo)
	require.Equal(t, domain.StatusExperimental, repo.Status)

	// Published artifact inherits repository status and link
	art, err := store.FindArtifact(ctx, "com.example", "magnum-core")
	require.NoError(t, err)
	require.NotNil(t, art)
	require.Equal(t, domain.StatusExperimental, art.Status)
	require.NotNil(t, art.RepositoryID)
	require.Equal(t, repo.ID, *art.RepositoryID)
	require.Equal(t, "core", art.Subproject)

	// Dependency artifact has no provenance: no link, no status
	dep, err := store.FindArtifact(ctx, "org.typelevel", "cats-core")
	require.NoError(t, err)
	require.NotNil(t, dep)
	require.Nil(t, dep.RepositoryID)
	require.Equal(t, domain.StatusUnknown, dep.Status)
}

func TestIngestPreservesRepositoryLink(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	// First analysis publishes the artifact, establishing the link.
	owner := analysisFixture("com.example", "magnum", domain.StatusExperimental)
	owner.PublishedArtifacts = []domain.AnalysisArtifact{
		{Organization: "com.example", Name: "magnum-core", IsPlugin: false},
	}
	_, err := tracker.Ingest(ctx, owner, service.StrategyAuthoritative)
	require.NoError(t, err)

	before, err := store.FindArtifact(ctx, "com.example", "magnum-core")
	require.NoError(t, err)
	require.NotNil(t, before.RepositoryID)

	// A second repository's analysis mentions it only as a dependency.
	consumer := analysisFixture("org.other", "consumer", domain.StatusNotPorted)
	consumer.PublishedArtifacts = []domain.AnalysisArtifact{
		{
			Organization: "org.other", Name: "consumer-app", IsPlugin: false,
			LibraryDependencies: []domain.AnalysisLibraryDependency{
				{Organization: "com.example", Name: "magnum-core", Version: "1.0.0", Scope: "compile"},
			},
		},
	}
	_, err = tracker.Ingest(ctx, consumer, service.StrategyAuthoritative)
	require.NoError(t, err)

	after, err := store.FindArtifact(ctx, "com.example", "magnum-core")
	require.NoError(t, err)
	require.NotNil(t, after.RepositoryID, "repository link must never be cleared by a record that does not supply one")
	require.Equal(t, *before.RepositoryID, *after.RepositoryID)
}

func TestIngestReplaceAllPluginDependencies(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	first := analysisFixture("com.example", "magnum", domain.StatusNotPorted)
	first.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "org.plugins", Name: "p1", Version: "1.0.0"},
		{Organization: "org.plugins", Name: "p2", Version: "1.0.0"},
	}
	_, err := tracker.Ingest(ctx, first, service.StrategyAuthoritative)
	require.NoError(t, err)

	second := analysisFixture("com.example", "magnum", domain.StatusNotPorted)
	second.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "org.plugins", Name: "p2", Version: "2.0.0"},
	}
	_, err = tracker.Ingest(ctx, second, service.StrategyAuthoritative)
	require.NoError(t, err)

	repo, err := store.FindRepository(ctx, "com.example", "magnum")
	require.NoError(t, err)
	deps, err := store.ListPluginDependencies(ctx, repo.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1, "stale plugin edges must not linger")
	require.Equal(t, "p2", deps[0].Artifact.Name)
	require.Equal(t, "2.0.0", deps[0].Version)
}

func TestIngestStatusInheritance(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	// The plugin artifact is first seen as a dependency: unknown status.
	consumer := analysisFixture("org.other", "consumer", domain.StatusNotPorted)
	consumer.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "com.example", Name: "sbt-magnum", Version: "1.0.0"},
	}
	_, err := tracker.Ingest(ctx, consumer, service.StrategyAuthoritative)
	require.NoError(t, err)

	art, err := store.FindArtifact(ctx, "com.example", "sbt-magnum")
	require.NoError(t, err)
	require.Equal(t, domain.StatusUnknown, art.Status)

	// Its publishing repository is analyzed as upstream; the artifact
	// inherits that status.
	owner := analysisFixture("com.example", "magnum", domain.StatusUpstream)
	owner.IsPluginContainingRepo = true
	owner.PublishedArtifacts = []domain.AnalysisArtifact{
		{Organization: "com.example", Name: "sbt-magnum", IsPlugin: true},
	}
	_, err = tracker.Ingest(ctx, owner, service.StrategyAuthoritative)
	require.NoError(t, err)

	art, err = store.FindArtifact(ctx, "com.example", "sbt-magnum")
	require.NoError(t, err)
	require.Equal(t, domain.StatusUpstream, art.Status)
	require.NotNil(t, art.RepositoryID)
}

func TestIngestIdempotent(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	rec := analysisFixture("com.example", "magnum", domain.StatusExperimental)
	rec.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "org.plugins", Name: "sbt-ci", Version: "1.0.0"},
	}
	rec.PublishedArtifacts = []domain.AnalysisArtifact{
		{
			Organization: "com.example", Name: "magnum-core", IsPlugin: false,
			LibraryDependencies: []domain.AnalysisLibraryDependency{
				{Organization: "org.typelevel", Name: "cats-core", Version: "2.10.0", Scope: "compile"},
			},
		},
	}

	_, err := tracker.Ingest(ctx, rec, service.StrategyAuthoritative)
	require.NoError(t, err)
	_, err = tracker.Ingest(ctx, rec, service.StrategyAuthoritative)
	require.NoError(t, err)

	repo, err := store.FindRepository(ctx, "com.example", "magnum")
	require.NoError(t, err)

	plugins, err := store.ListPluginDependencies(ctx, repo.ID)
	require.NoError(t, err)
	require.Len(t, plugins, 1, "no duplicate plugin edges")

	art, err := store.FindArtifact(ctx, "com.example", "magnum-core")
	require.NoError(t, err)
	libs, err := store.ListLibraryDependencies(ctx, art.ID)
	require.NoError(t, err)
	require.Len(t, libs, 1, "no duplicate library edges")

	groups, err := store.ListDuplicateArtifacts(ctx)
	require.NoError(t, err)
	require.Empty(t, groups, "no duplicate artifacts")
}

func TestIngestAuthoritativeOverwritesRepository(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	first := analysisFixture("com.example", "magnum", domain.StatusNotPorted)
	_, err := tracker.Ingest(ctx, first, service.StrategyAuthoritative)
	require.NoError(t, err)

	// Same URL, renamed coordinates and new status: all overwritten.
	second := analysisFixture("com.example", "magnum", domain.StatusUpstream)
	second.Repository.Organization = "com.example2"
	second.Repository.Name = "magnum2"
	second.IsPluginContainingRepo = true
	_, err = tracker.Ingest(ctx, second, service.StrategyAuthoritative)
	require.NoError(t, err)

	repo, err := store.FindRepositoryByURL(ctx, first.Repository.URL)
	require.NoError(t, err)
	require.Equal(t, "com.example2", repo.Organization)
	require.Equal(t, "magnum2", repo.Name)
	require.True(t, repo.IsPluginContainingRepo)
	require.Equal(t, domain.StatusUpstream, repo.Status)
}

func TestIngestPreservingKeepsExistingState(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	first := analysisFixture("com.example", "magnum", domain.StatusBlocked)
	first.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "org.plugins", Name: "p1", Version: "1.0.0"},
	}
	_, err := tracker.Ingest(ctx, first, service.StrategyAuthoritative)
	require.NoError(t, err)

	// Preserving ingest must not flip the stored status or drop p1.
	second := analysisFixture("com.example", "magnum", domain.StatusUpstream)
	second.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "org.plugins", Name: "p2", Version: "1.0.0"},
	}
	_, err = tracker.Ingest(ctx, second, service.StrategyPreserving)
	require.NoError(t, err)

	repo, err := store.FindRepository(ctx, "com.example", "magnum")
	require.NoError(t, err)
	require.Equal(t, domain.StatusBlocked, repo.Status, "stored status wins in preserving mode")

	deps, err := store.ListPluginDependencies(ctx, repo.ID)
	require.NoError(t, err)
	require.Len(t, deps, 2, "preserving mode accumulates edges")
}

func TestIngestRejectsInvalidRecord(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	rec := analysisFixture("com.example", "magnum", domain.StatusUnknown)
	_, err := tracker.Ingest(ctx, rec, service.StrategyAuthoritative)
	require.Error(t, err)
	require.True(t, domain.IsValidation(err))
}

func TestSetStatusRepository(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Ingest(ctx, analysisFixture("com.example", "magnum", domain.StatusNotPorted), service.StrategyAuthoritative)
	require.NoError(t, err)

	change, err := tracker.SetStatus(ctx, "com.example/magnum", domain.StatusExperimental)
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotPorted, change.Previous)
	require.Equal(t, domain.StatusExperimental, change.Current)

	repo, err := store.FindRepository(ctx, "com.example", "magnum")
	require.NoError(t, err)
	require.Equal(t, domain.StatusExperimental, repo.Status)
}

func TestSetStatusArtifact(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	rec := analysisFixture("org.other", "consumer", domain.StatusNotPorted)
	rec.PluginDependencies = []domain.AnalysisPluginDependency{
		{Organization: "com.example", Name: "sbt-tool", Version: "0.1.0"},
	}
	_, err := tracker.Ingest(ctx, rec, service.StrategyAuthoritative)
	require.NoError(t, err)

	change, err := tracker.SetStatus(ctx, "com.example:sbt-tool", domain.StatusUpstream)
	require.NoError(t, err)
	require.Equal(t, "com.example:sbt-tool", change.Target)

	art, err := store.FindArtifact(ctx, "com.example", "sbt-tool")
	require.NoError(t, err)
	require.Equal(t, domain.StatusUpstream, art.Status)
}

func TestSetStatusUnknownIdentifier(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.SetStatus(ctx, "does.not/exist", domain.StatusUpstream)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = tracker.SetStatus(ctx, "does.not:exist", domain.StatusUpstream)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = tracker.SetStatus(ctx, "malformed", domain.StatusUpstream)
	require.True(t, domain.IsValidation(err))
}

func TestSetNote(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Ingest(ctx, analysisFixture("com.example", "magnum", domain.StatusBlocked), service.StrategyAuthoritative)
	require.NoError(t, err)

	require.NoError(t, tracker.SetNote(ctx, "com.example/magnum", "waiting on macro support"))
	repo, err := store.FindRepository(ctx, "com.example", "magnum")
	require.NoError(t, err)
	require.Equal(t, "waiting on macro support", repo.Note)

	require.NoError(t, tracker.SetNote(ctx, "com.example/magnum", ""))
	repo, err = store.FindRepository(ctx, "com.example", "magnum")
	require.NoError(t, err)
	require.Empty(t, repo.Note)

	err = tracker.SetNote(ctx, "does.not/exist", "x")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

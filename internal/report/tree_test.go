package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ecotrack/internal/domain"
	"ecotrack/internal/report"
	"ecotrack/internal/repository"
	"ecotrack/internal/repository/sqlite"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addRepo(t *testing.T, store repository.Store, org, name string, status domain.Status) int64 {
	t.Helper()
	id, err := store.InsertRepository(context.Background(), &domain.Repository{
		URL:          "https://github.com/" + org + "/" + name,
		Organization: org,
		Name:         name,
		Status:       status,
	})
	require.NoError(t, err)
	return id
}

// addOwnedPlugin publishes a plugin artifact out of repoID so that
// FindOwningRepository resolves edges pointing at it.
func addOwnedPlugin(t *testing.T, store repository.Store, repoID int64, org, name string) int64 {
	t.Helper()
	id, err := store.InsertArtifact(context.Background(), &domain.Artifact{
		Organization: org,
		Name:         name,
		IsPlugin:     true,
		IsPublished:  true,
		RepositoryID: &repoID,
	})
	require.NoError(t, err)
	return id
}

func addUnownedArtifact(t *testing.T, store repository.Store, org, name string) int64 {
	t.Helper()
	id, err := store.InsertArtifact(context.Background(), &domain.Artifact{
		Organization: org,
		Name:         name,
		IsPlugin:     true,
		IsPublished:  true,
	})
	require.NoError(t, err)
	return id
}

func addPluginEdge(t *testing.T, store repository.Store, repoID, artifactID int64, version string) {
	t.Helper()
	require.NoError(t, store.InsertPluginDependency(context.Background(), repoID, artifactID, version))
}

func render(t *testing.T, store repository.Store, org, name string) string {
	t.Helper()
	var buf bytes.Buffer
	r := report.New(store, &buf)
	r.Plain = true
	require.NoError(t, r.Render(context.Background(), org, name))
	return buf.String()
}

func TestRenderTree(t *testing.T) {
	store := newTestStore(t)

	root := addRepo(t, store, "root", "app", domain.StatusNotPorted)
	lib := addRepo(t, store, "com.example", "lib", domain.StatusBlocked)
	up := addRepo(t, store, "org.up", "tool", domain.StatusUpstream)

	sbtLib := addOwnedPlugin(t, store, lib, "com.example", "sbt-lib")
	sbtUp := addOwnedPlugin(t, store, up, "org.up", "sbt-tool")
	mystery := addUnownedArtifact(t, store, "org.mystery", "thing")

	addPluginEdge(t, store, root, sbtLib, "0.3.0")
	addPluginEdge(t, store, root, mystery, "1.0.0")
	addPluginEdge(t, store, lib, sbtUp, "2.0.0")

	got := render(t, store, "root", "app")

	want := "Dependency Report for: root/app\n" +
		"Status: not_ported\n" +
		strings.Repeat("=", 60) + "\n" +
		"\n" +
		"Legend:\n" +
		"  ✓ = upstream (ported)\n" +
		"  X = not_ported\n" +
		"  E = experimental\n" +
		"  B = blocked\n" +
		"  ? = artifact without known repository\n" +
		"\n" +
		"Dependency Tree:\n" +
		"\n" +
		"X root/app\n" +
		"├─ B com.example/lib\n" +
		"│  └─ ✓ org.up/tool\n" +
		"└─ ? org.mystery:thing:1.0.0\n"
	require.Equal(t, want, got)
}

func TestRenderCycleTerminates(t *testing.T) {
	store := newTestStore(t)

	a := addRepo(t, store, "a.org", "a", domain.StatusNotPorted)
	b := addRepo(t, store, "b.org", "b", domain.StatusBlocked)

	sbtA := addOwnedPlugin(t, store, a, "a.org", "sbt-a")
	sbtB := addOwnedPlugin(t, store, b, "b.org", "sbt-b")

	addPluginEdge(t, store, a, sbtB, "1.0.0")
	addPluginEdge(t, store, b, sbtA, "1.0.0")

	got := render(t, store, "a.org", "a")

	require.Contains(t, got, "└─ B b.org/b\n")
	require.Contains(t, got, "   └─ X a.org/a (already visited)\n")
	require.Equal(t, 1, strings.Count(got, "(already visited)"))
}

func TestRenderUpstreamPruned(t *testing.T) {
	store := newTestStore(t)

	a := addRepo(t, store, "a.org", "a", domain.StatusNotPorted)
	b := addRepo(t, store, "b.org", "b", domain.StatusUpstream)
	c := addRepo(t, store, "c.org", "c", domain.StatusNotPorted)

	sbtB := addOwnedPlugin(t, store, b, "b.org", "sbt-b")
	sbtC := addOwnedPlugin(t, store, c, "c.org", "sbt-c")

	addPluginEdge(t, store, a, sbtB, "1.0.0")
	addPluginEdge(t, store, b, sbtC, "1.0.0")

	got := render(t, store, "a.org", "a")

	require.Contains(t, got, "└─ ✓ b.org/b\n")
	require.NotContains(t, got, "c.org/c", "dependencies of an upstream repository are not expanded")
}

func TestRenderDeterministicOrdering(t *testing.T) {
	store := newTestStore(t)

	root := addRepo(t, store, "root", "app", domain.StatusNotPorted)
	zeta := addUnownedArtifact(t, store, "org.shared", "zeta")
	alpha := addUnownedArtifact(t, store, "org.shared", "alpha")

	// Insertion order must not leak into the report.
	addPluginEdge(t, store, root, zeta, "1.0.0")
	addPluginEdge(t, store, root, alpha, "1.0.0")

	got := render(t, store, "root", "app")

	alphaAt := strings.Index(got, "org.shared:alpha")
	zetaAt := strings.Index(got, "org.shared:zeta")
	require.Greater(t, alphaAt, -1)
	require.Greater(t, zetaAt, -1)
	require.Less(t, alphaAt, zetaAt)
	require.Contains(t, got, "├─ ? org.shared:alpha:1.0.0\n")
	require.Contains(t, got, "└─ ? org.shared:zeta:1.0.0\n")
}

func TestRenderRepeatedUnknownArtifact(t *testing.T) {
	store := newTestStore(t)

	root := addRepo(t, store, "root", "app", domain.StatusNotPorted)
	left := addRepo(t, store, "left.org", "left", domain.StatusBlocked)
	right := addRepo(t, store, "right.org", "right", domain.StatusBlocked)

	sbtLeft := addOwnedPlugin(t, store, left, "left.org", "sbt-left")
	sbtRight := addOwnedPlugin(t, store, right, "right.org", "sbt-right")
	shared := addUnownedArtifact(t, store, "org.shared", "thing")

	addPluginEdge(t, store, root, sbtLeft, "1.0.0")
	addPluginEdge(t, store, root, sbtRight, "1.0.0")
	addPluginEdge(t, store, left, shared, "1.0.0")
	addPluginEdge(t, store, right, shared, "1.0.0")

	got := render(t, store, "root", "app")

	require.Equal(t, 2, strings.Count(got, "org.shared:thing"))
	require.Equal(t, 1, strings.Count(got, "(already visited)"))
}

func TestRenderVersionlessArtifact(t *testing.T) {
	store := newTestStore(t)

	root := addRepo(t, store, "root", "app", domain.StatusNotPorted)
	bare := addUnownedArtifact(t, store, "org.bare", "thing")
	addPluginEdge(t, store, root, bare, "")

	got := render(t, store, "root", "app")
	require.Contains(t, got, "└─ ? org.bare:thing\n")
}

func TestRenderRootNotFound(t *testing.T) {
	store := newTestStore(t)

	var buf bytes.Buffer
	r := report.New(store, &buf)
	r.Plain = true
	err := r.Render(context.Background(), "no.such", "repo")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Empty(t, buf.String(), "nothing is printed for a missing root")
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ecotrack/internal/domain"
)

func TestConsolidateMergesDuplicates(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	repoID, err := store.InsertRepository(ctx, &domain.Repository{
		URL:          "https://github.com/com.example/magnum",
		Organization: "com.example",
		Name:         "magnum",
		Status:       domain.StatusExperimental,
	})
	require.NoError(t, err)

	// Two rows for the same coordinate: a stray unlinked duplicate and
	// the linked row that should survive.
	dupID, err := store.InsertArtifact(ctx, &domain.Artifact{
		Organization: "com.example", Name: "magnum-core", IsPublished: true,
	})
	require.NoError(t, err)
	survivorID, err := store.InsertArtifact(ctx, &domain.Artifact{
		Organization: "com.example", Name: "magnum-core", IsPublished: true,
		RepositoryID: &repoID, Status: domain.StatusExperimental,
	})
	require.NoError(t, err)

	// An edge hanging off the doomed duplicate must be repointed.
	consumerID, err := store.InsertArtifact(ctx, &domain.Artifact{
		Organization: "org.other", Name: "consumer", IsPublished: true,
	})
	require.NoError(t, err)
	require.NoError(t, store.InsertLibraryDependency(ctx, consumerID, dupID, "1.0.0", "compile"))

	summary, err := tracker.Consolidate(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Groups)
	require.Equal(t, 1, summary.Removed)

	art, err := store.FindArtifact(ctx, "com.example", "magnum-core")
	require.NoError(t, err)
	require.Equal(t, survivorID, art.ID, "the linked row survives")
	require.NotNil(t, art.RepositoryID)

	libs, err := store.ListLibraryDependencies(ctx, consumerID)
	require.NoError(t, err)
	require.Len(t, libs, 1)
	require.Equal(t, survivorID, libs[0].Artifact.ID, "edge repointed to the survivor")

	groups, err := store.ListDuplicateArtifacts(ctx)
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestConsolidateIdempotent(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.InsertArtifact(ctx, &domain.Artifact{
			Organization: "com.example", Name: "magnum-core", IsPublished: true,
		})
		require.NoError(t, err)
	}

	first, err := tracker.Consolidate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, first.Removed)

	second, err := tracker.Consolidate(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, second.Groups)
	require.Equal(t, 0, second.Removed)
}

func TestConsolidateNoDuplicates(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()

	_, err := store.InsertArtifact(ctx, &domain.Artifact{
		Organization: "com.example", Name: "magnum-core", IsPublished: true,
	})
	require.NoError(t, err)

	summary, err := tracker.Consolidate(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Groups)
}

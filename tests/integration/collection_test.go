package integration

import (
	"context"
	"testing"

	"github.com/craterhub/crater-api/internal/models"
	"github.com/craterhub/crater-api/internal/services"
	"github.com/craterhub/crater-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionService_Integration_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb, svc := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	project1 := fixtures.CreateProject(t, user)
	project2 := fixtures.CreateProject(t, user)
	bogusID := uuid.New()

	col, err := svc.Create(ctx, user.ID, "My Mods", "Favorite mods",
		[]uuid.UUID{project1.ID, project2.ID, bogusID})

	require.NoError(t, err)
	assert.NotEmpty(t, col.ID)
	assert.Equal(t, user.ID, col.OwnerID)
	assert.Equal(t, models.StatusListed, col.Status)
	// The unknown project id is dropped, not an error.
	assert.Len(t, col.ProjectIDs, 2)

	got, err := svc.GetByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, col.ID, got.ID)
	assert.Equal(t, "My Mods", got.Title)
	assert.ElementsMatch(t, []uuid.UUID{project1.ID, project2.ID}, got.ProjectIDs)
	assert.NotContains(t, got.ProjectIDs, bogusID)
}

func TestCollectionService_Integration_MembershipReplaceIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb, svc := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, user)
	col := fixtures.CreateCollection(t, user)

	// Duplicate ids in the replacement list collapse to one link.
	replacement := []uuid.UUID{project.ID, project.ID, project.ID}
	err := svc.Update(ctx, col.ID, services.UpdateCollectionParams{ProjectIDs: &replacement})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{project.ID}, got.ProjectIDs)

	// Replacing with the same set again changes nothing.
	err = svc.Update(ctx, col.ID, services.UpdateCollectionParams{ProjectIDs: &replacement})
	require.NoError(t, err)

	got, err = svc.GetByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{project.ID}, got.ProjectIDs)
}

func TestCollectionService_Integration_MissingProjectLeavesMembershipIntact(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb, svc := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, user)
	col := fixtures.CreateCollection(t, user)
	fixtures.LinkProject(t, col, project)

	replacement := []uuid.UUID{project.ID, uuid.New()}
	err := svc.Update(ctx, col.ID, services.UpdateCollectionParams{ProjectIDs: &replacement})
	require.ErrorIs(t, err, services.ErrProjectNotFound)

	got, err := svc.GetByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{project.ID}, got.ProjectIDs)
}

func TestCollectionService_Integration_EditFields(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb, svc := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	col := fixtures.CreateCollection(t, user)

	title := "Renamed Collection"
	status := models.StatusUnlisted
	err := svc.Update(ctx, col.ID, services.UpdateCollectionParams{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Collection", got.Title)
	assert.Equal(t, models.StatusUnlisted, got.Status)
	assert.True(t, got.UpdatedAt.After(col.UpdatedAt) || got.UpdatedAt.Equal(col.UpdatedAt))
}

func TestCollectionService_Integration_GetByOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb, svc := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	other := fixtures.CreateUser(t)
	fixtures.CreateCollection(t, owner)
	fixtures.CreateCollection(t, owner, testutil.WithStatus(models.StatusPrivate))
	fixtures.CreateCollection(t, other)

	collections, err := svc.GetByOwner(ctx, owner.ID)

	require.NoError(t, err)
	// Hidden collections are included; visibility is the caller's concern.
	assert.Len(t, collections, 2)
	for _, col := range collections {
		assert.Equal(t, owner.ID, col.OwnerID)
	}
}

func TestCollectionService_Integration_RemoveCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb, svc := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, user)
	col := fixtures.CreateCollection(t, user)
	fixtures.LinkProject(t, col, project)

	deleted, err := svc.Remove(ctx, col.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.GetByID(ctx, col.ID)
	assert.ErrorIs(t, err, services.ErrCollectionNotFound)

	var linkCount int
	err = tdb.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM collection_projects WHERE collection_id = $1
	`, col.ID).Scan(&linkCount)
	require.NoError(t, err)
	assert.Zero(t, linkCount)

	// The project itself survives the collection.
	var projectCount int
	err = tdb.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects WHERE id = $1
	`, project.ID).Scan(&projectCount)
	require.NoError(t, err)
	assert.Equal(t, 1, projectCount)

	deleted, err = svc.Remove(ctx, col.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFloorPlan(projectID, name, level string) *domain.FloorPlan {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.FloorPlan{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        name,
		Level:       level,
		StoragePath: "projects/" + projectID + "/floor-plans/" + name,
		FileType:    "image/png",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestFloorPlanRepo_ListActiveOrdersAndFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteFloorPlanRepo(db)
	ctx := context.Background()

	l2 := newFloorPlan(proj.ID, "Units", "L2")
	l1b := newFloorPlan(proj.ID, "Corridor", "L1")
	l1a := newFloorPlan(proj.ID, "Amenity", "L1")
	for _, f := range []*domain.FloorPlan{l2, l1b, l1a} {
		require.NoError(t, repo.Create(ctx, f))
	}
	require.NoError(t, repo.Deactivate(ctx, l1b.ID, time.Now()))

	active, err := repo.ListActive(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Amenity", active[0].Name)
	assert.Equal(t, "Units", active[1].Name)

	got, err := repo.GetByID(ctx, l1b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.Deactivate(ctx, "missing", time.Now()), domain.ErrNotFound)
}

func TestFloorPlanRepo_Markers(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteFloorPlanRepo(db)
	ctx := context.Background()

	plan := newFloorPlan(proj.ID, "Level 1", "L1")
	require.NoError(t, repo.Create(ctx, plan))

	m := &domain.Marker{
		ID:          uuid.New().String(),
		FloorPlanID: plan.ID,
		X:           0.25,
		Y:           0.75,
		Label:       "RFI-003",
		ItemKind:    domain.KindRFI,
		ItemID:      "rfi-3",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.CreateMarker(ctx, m))

	markers, err := repo.ListMarkers(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.InDelta(t, 0.25, markers[0].X, 1e-9)
	assert.InDelta(t, 0.75, markers[0].Y, 1e-9)
	assert.Equal(t, domain.KindRFI, markers[0].ItemKind)

	require.NoError(t, repo.DeleteMarker(ctx, m.ID))
	assert.ErrorIs(t, repo.DeleteMarker(ctx, m.ID), domain.ErrNotFound)
}

func TestFloorPlanRepo_MarkerOutOfRangeRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteFloorPlanRepo(db)
	ctx := context.Background()

	plan := newFloorPlan(proj.ID, "Level 1", "L1")
	require.NoError(t, repo.Create(ctx, plan))

	err := repo.CreateMarker(ctx, &domain.Marker{
		ID: uuid.New().String(), FloorPlanID: plan.ID, X: 1.5, Y: 0.5, CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}

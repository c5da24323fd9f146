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

func newAttachment(projectID string, target domain.AttachmentTarget, name string, at time.Time) *domain.Attachment {
	return &domain.Attachment{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Target:      target,
		FileName:    name,
		StoragePath: "projects/" + projectID + "/" + target.PathSegment() + "/" + name,
		FileSize:    42,
		FileType:    "application/pdf",
		CreatedAt:   at,
	}
}

func TestAttachmentRepo_ListByTarget(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	items := NewSQLiteWorkItemRepo(db)
	repo := NewSQLiteAttachmentRepo(db)
	ctx := context.Background()

	rfi := testutil.NewTestRFI(proj.ID, "Anchor spacing", testutil.WithNumber(1))
	require.NoError(t, items.Create(ctx, rfi))

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	rfiTarget := domain.AttachmentTarget{Kind: domain.KindRFI, ID: rfi.ID}
	require.NoError(t, repo.Create(ctx, newAttachment(proj.ID, rfiTarget, "old.pdf", base)))
	require.NoError(t, repo.Create(ctx, newAttachment(proj.ID, rfiTarget, "new.pdf", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newAttachment(proj.ID, domain.AttachmentTarget{}, "site.jpg", base)))

	forRFI, err := repo.ListByTarget(ctx, proj.ID, rfiTarget)
	require.NoError(t, err)
	require.Len(t, forRFI, 2)
	assert.Equal(t, "new.pdf", forRFI[0].FileName, "newest first")
	assert.Equal(t, rfiTarget, forRFI[0].Target)

	general, err := repo.ListByTarget(ctx, proj.ID, domain.AttachmentTarget{})
	require.NoError(t, err)
	require.Len(t, general, 1)
	assert.True(t, general[0].Target.ProjectLevel())

	all, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAttachmentRepo_RejectsMilestoneTarget(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteAttachmentRepo(db)

	a := newAttachment(proj.ID, domain.AttachmentTarget{Kind: domain.KindMilestone, ID: "m1"}, "x.pdf", time.Now())
	err := repo.Create(context.Background(), a)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestAttachmentRepo_CascadesWithItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	items := NewSQLiteWorkItemRepo(db)
	repo := NewSQLiteAttachmentRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask(proj.ID, "Photos", testutil.WithNumber(1))
	require.NoError(t, items.Create(ctx, task))
	a := newAttachment(proj.ID, domain.AttachmentTarget{Kind: domain.KindTask, ID: task.ID}, "p.jpg", time.Now())
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, items.Delete(ctx, domain.KindTask, task.ID))

	_, err := repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttachmentRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteAttachmentRepo(db)
	ctx := context.Background()

	a := newAttachment(proj.ID, domain.AttachmentTarget{}, "doc.pdf", time.Now())
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.FileSize)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), domain.ErrNotFound)
}

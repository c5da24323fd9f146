package repository

import (
	"context"
	"testing"

	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemSequence_NumbersPerProjectAndKind(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	seq := NewSQLiteItemSequenceRepo(db)
	ctx := context.Background()

	p1 := testutil.NewTestProject("One")
	p2 := testutil.NewTestProject("Two")
	require.NoError(t, projects.Create(ctx, p1))
	require.NoError(t, projects.Create(ctx, p2))

	for want := 1; want <= 3; want++ {
		n, err := seq.NextNumber(ctx, p1.ID, domain.KindRFI)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := seq.NextNumber(ctx, p1.ID, domain.KindTask)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "kinds are numbered independently")

	n, err = seq.NextNumber(ctx, p2.ID, domain.KindRFI)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "projects are numbered independently")
}

func TestItemSequence_SeedsFromExistingRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	items := NewSQLiteWorkItemRepo(db)
	seq := NewSQLiteItemSequenceRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProject("Seeded")
	require.NoError(t, projects.Create(ctx, p))
	require.NoError(t, items.Create(ctx, testutil.NewTestSubmittal(p.ID, "Imported", testutil.WithNumber(7))))

	n, err := seq.NextNumber(ctx, p.ID, domain.KindSubmittal)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestItemSequence_UnknownKind(t *testing.T) {
	db := testutil.NewTestDB(t)
	seq := NewSQLiteItemSequenceRepo(db)

	_, err := seq.NextNumber(context.Background(), "p", domain.ItemKind("punch"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

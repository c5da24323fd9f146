package kanban

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modline/modtrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)

type recordingUpdater struct {
	calls int
	err   error
}

func (r *recordingUpdater) UpdateStatus(_ context.Context, kind domain.ItemKind, id string, status domain.WorkItemStatus) (*domain.WorkItem, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	w := &domain.WorkItem{ID: id, Kind: kind, Title: "stored", Status: status}
	return w, nil
}

func newTestBoard(items ...*domain.WorkItem) *Board {
	b := NewBoard(domain.KindTask, items)
	b.now = func() time.Time { return testNow }
	return b
}

func task(id string, status domain.WorkItemStatus) *domain.WorkItem {
	return &domain.WorkItem{ID: id, Kind: domain.KindTask, ProjectID: "p1", Title: "Task " + id, Status: status}
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []domain.WorkItemStatus{domain.StatusNotStarted, domain.StatusInProgress, domain.StatusAwaitingResponse, domain.StatusCompleted}, Columns(domain.KindTask))
	assert.Equal(t, []domain.WorkItemStatus{domain.StatusOpen, domain.StatusPending, domain.StatusAnswered, domain.StatusClosed}, Columns(domain.KindRFI))
	assert.Equal(t, []domain.WorkItemStatus{domain.StatusPending, domain.StatusSubmitted, domain.StatusUnderReview, domain.StatusApproved}, Columns(domain.KindSubmittal))
	assert.Len(t, Columns(domain.KindMilestone), 3)

	cols := Columns(domain.KindTask)
	cols[0] = "mutated"
	assert.Equal(t, domain.StatusNotStarted, Columns(domain.KindTask)[0])
}

func TestColumnIndex(t *testing.T) {
	assert.Equal(t, 2, ColumnIndex(domain.KindRFI, domain.StatusAnswered))
	assert.Equal(t, -1, ColumnIndex(domain.KindTask, domain.StatusCancelled))
	assert.Equal(t, -1, ColumnIndex(domain.KindTask, domain.StatusOpen))
}

func TestDrop_SameColumnIsNoOp(t *testing.T) {
	original := task("a", domain.StatusInProgress)
	b := newTestBoard(original)
	store := &recordingUpdater{}

	_, ok := b.Drop("a", domain.StatusInProgress)
	assert.False(t, ok)
	assert.Same(t, original, b.Item("a"))

	require.NoError(t, b.Move(context.Background(), "a", domain.StatusInProgress, store))
	assert.Equal(t, 0, store.calls)
	assert.Same(t, original, b.Item("a"))
}

func TestDrop_UnknownColumnOrItem(t *testing.T) {
	b := newTestBoard(task("a", domain.StatusNotStarted))

	_, ok := b.Drop("a", domain.StatusClosed)
	assert.False(t, ok)
	_, ok = b.Drop("missing", domain.StatusCompleted)
	assert.False(t, ok)
	assert.Equal(t, domain.StatusNotStarted, b.Item("a").Status)
}

func TestDrop_PatchesOptimistically(t *testing.T) {
	original := task("a", domain.StatusInProgress)
	b := newTestBoard(original, task("b", domain.StatusNotStarted))

	p, ok := b.Drop("a", domain.StatusCompleted)
	require.True(t, ok)
	assert.Equal(t, "a", p.ItemID)

	got := b.Item("a")
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, testNow, *got.CompletedAt)
	assert.Equal(t, domain.StatusInProgress, original.Status, "snapshot must stay untouched")
	assert.Len(t, b.Column(domain.StatusCompleted), 1)

	b.Revert(p)
	assert.Same(t, original, b.Item("a"))
	assert.Empty(t, b.Column(domain.StatusCompleted))
}

func TestMove_PersistsOnce(t *testing.T) {
	b := newTestBoard(task("a", domain.StatusNotStarted))
	store := &recordingUpdater{}

	require.NoError(t, b.Move(context.Background(), "a", domain.StatusAwaitingResponse, store))
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, domain.StatusAwaitingResponse, b.Item("a").Status)
	assert.Equal(t, "stored", b.Item("a").Title)
}

func TestMove_RevertsOnStoreFailure(t *testing.T) {
	original := task("a", domain.StatusNotStarted)
	b := newTestBoard(original)
	store := &recordingUpdater{err: errors.New("database is locked")}

	err := b.Move(context.Background(), "a", domain.StatusCompleted, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.Equal(t, 1, store.calls)
	assert.Same(t, original, b.Item("a"))
	assert.Nil(t, b.Item("a").CompletedAt)
}

func TestRevert_IgnoresSupersededDrop(t *testing.T) {
	b := newTestBoard(task("a", domain.StatusNotStarted))

	first, ok := b.Drop("a", domain.StatusInProgress)
	require.True(t, ok)
	second, ok := b.Drop("a", domain.StatusAwaitingResponse)
	require.True(t, ok)

	stored := task("a", domain.StatusAwaitingResponse)
	b.Commit(second, stored)
	b.Revert(first)

	assert.Same(t, stored, b.Item("a"))
	assert.Equal(t, domain.StatusAwaitingResponse, b.Item("a").Status)
}

func TestCommit_IgnoresSupersededDrop(t *testing.T) {
	b := newTestBoard(task("a", domain.StatusNotStarted))

	first, _ := b.Drop("a", domain.StatusInProgress)
	second, _ := b.Drop("a", domain.StatusCompleted)

	b.Commit(first, task("a", domain.StatusInProgress))
	assert.Equal(t, domain.StatusCompleted, b.Item("a").Status)

	b.Revert(second)
	assert.Equal(t, domain.StatusInProgress, b.Item("a").Status)
}

func TestRevert_ZeroPendingIsNoOp(t *testing.T) {
	original := task("a", domain.StatusNotStarted)
	b := newTestBoard(original)

	b.Revert(Pending{ItemID: "a"})
	assert.Same(t, original, b.Item("a"))
}

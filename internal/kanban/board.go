// Package kanban drives status changes from a column board: the local item
// is patched first, persisted second and restored if persistence fails.
package kanban

import (
	"context"
	"fmt"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

var columns = map[domain.ItemKind][]domain.WorkItemStatus{
	domain.KindTask:      {domain.StatusNotStarted, domain.StatusInProgress, domain.StatusAwaitingResponse, domain.StatusCompleted},
	domain.KindRFI:       {domain.StatusOpen, domain.StatusPending, domain.StatusAnswered, domain.StatusClosed},
	domain.KindSubmittal: {domain.StatusPending, domain.StatusSubmitted, domain.StatusUnderReview, domain.StatusApproved},
	domain.KindMilestone: {domain.StatusNotStarted, domain.StatusInProgress, domain.StatusCompleted},
}

// Columns returns the board columns for kind, left to right.
func Columns(kind domain.ItemKind) []domain.WorkItemStatus {
	return append([]domain.WorkItemStatus(nil), columns[kind]...)
}

// ColumnIndex returns the position of status on kind's board, or -1 when
// the status has no column (e.g. Cancelled, Rejected).
func ColumnIndex(kind domain.ItemKind, status domain.WorkItemStatus) int {
	for i, c := range columns[kind] {
		if c == status {
			return i
		}
	}
	return -1
}

// StatusUpdater persists a single status change.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, kind domain.ItemKind, id string, status domain.WorkItemStatus) (*domain.WorkItem, error)
}

// Pending is an applied but not yet persisted drop.
type Pending struct {
	ItemID   string
	Status   domain.WorkItemStatus
	previous *domain.WorkItem
	applied  *domain.WorkItem
}

// Board is the local view of one kind's items for one project. It is not
// safe for concurrent use.
type Board struct {
	kind  domain.ItemKind
	items []*domain.WorkItem
	now   func() time.Time
}

func NewBoard(kind domain.ItemKind, items []*domain.WorkItem) *Board {
	return &Board{kind: kind, items: items, now: time.Now}
}

func (b *Board) Kind() domain.ItemKind { return b.kind }

func (b *Board) Items() []*domain.WorkItem { return b.items }

// Item returns the local copy of id, or nil.
func (b *Board) Item(id string) *domain.WorkItem {
	if i := b.index(id); i >= 0 {
		return b.items[i]
	}
	return nil
}

// Column returns the items currently shown in the given column.
func (b *Board) Column(status domain.WorkItemStatus) []*domain.WorkItem {
	var out []*domain.WorkItem
	for _, w := range b.items {
		if w.Status == status {
			out = append(out, w)
		}
	}
	return out
}

// Drop moves itemID into column locally. It reports false and changes
// nothing when the item is unknown, the column does not belong to the
// board, or the item is already in that column.
func (b *Board) Drop(itemID string, column domain.WorkItemStatus) (Pending, bool) {
	i := b.index(itemID)
	if i < 0 || ColumnIndex(b.kind, column) < 0 {
		return Pending{}, false
	}
	current := b.items[i]
	if current.Status == column {
		return Pending{}, false
	}

	patched := current.Clone()
	patched.SetStatus(column, b.now())
	b.items[i] = patched
	return Pending{ItemID: itemID, Status: column, previous: current, applied: patched}, true
}

// Revert restores the item to its state before the drop that produced p.
// It does nothing once a later drop or commit has replaced p's copy.
func (b *Board) Revert(p Pending) {
	if i := b.owned(p); i >= 0 {
		b.items[i] = p.previous
	}
}

// Commit replaces the optimistic copy with the stored item. Like Revert it
// only touches the item while p's copy is still the one shown.
func (b *Board) Commit(p Pending, stored *domain.WorkItem) {
	if stored == nil {
		return
	}
	if i := b.owned(p); i >= 0 {
		b.items[i] = stored
	}
}

func (b *Board) owned(p Pending) int {
	if p.applied == nil {
		return -1
	}
	i := b.index(p.ItemID)
	if i < 0 || b.items[i] != p.applied {
		return -1
	}
	return i
}

// Move drops itemID into column and persists the change with exactly one
// store call. On failure the local item is restored and the error returned.
// A no-op drop makes no store call.
func (b *Board) Move(ctx context.Context, itemID string, column domain.WorkItemStatus, store StatusUpdater) error {
	p, ok := b.Drop(itemID, column)
	if !ok {
		return nil
	}
	stored, err := store.UpdateStatus(ctx, b.kind, itemID, column)
	if err != nil {
		b.Revert(p)
		return fmt.Errorf("moving %s to %s: %w", itemID, column, err)
	}
	b.Commit(p, stored)
	return nil
}

func (b *Board) index(id string) int {
	for i, w := range b.items {
		if w.ID == id {
			return i
		}
	}
	return -1
}

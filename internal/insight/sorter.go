package insight

import (
	"sort"
	"strings"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

type SortKey string

const (
	SortByDue      SortKey = "due"
	SortByPriority SortKey = "priority"
	SortByNumber   SortKey = "number"
	SortByUpdated  SortKey = "updated"
)

// ParseSortKey accepts the list query's sort parameter; empty means due.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDue:
		return SortByDue, nil
	case SortByPriority:
		return SortByPriority, nil
	case SortByNumber:
		return SortByNumber, nil
	case SortByUpdated:
		return SortByUpdated, nil
	}
	return "", &domain.ValidationError{Field: "sort", Message: `must be one of due, priority, number, updated`}
}

// ItemFilter narrows a work-item list. Zero fields match everything.
type ItemFilter struct {
	Status      domain.WorkItemStatus
	Priority    domain.Priority
	AssigneeID  string
	Query       string
	OverdueOnly bool
	OpenOnly    bool
}

// FilterItems returns the items matching f, preserving order.
func FilterItems(items []*domain.WorkItem, f ItemFilter, now time.Time) []*domain.WorkItem {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]*domain.WorkItem, 0, len(items))
	for _, w := range items {
		if f.Status != "" && w.Status != f.Status {
			continue
		}
		if f.Priority != "" && w.Priority != f.Priority {
			continue
		}
		if f.AssigneeID != "" && w.AssigneeID != f.AssigneeID {
			continue
		}
		if f.OpenOnly && w.IsTerminal() {
			continue
		}
		if f.OverdueOnly && !ItemOverdue(w, now) {
			continue
		}
		if q != "" && !matchesQuery(w, q) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func matchesQuery(w *domain.WorkItem, q string) bool {
	for _, field := range []string{w.Title, w.Description, w.Question, w.SpecSection, w.DisplayNumber()} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SortItems orders items in place by key. Ties fall back to due date
// (undated last) and then number.
func SortItems(items []*domain.WorkItem, key SortKey) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case SortByPriority:
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() < b.Priority.Rank()
			}
		case SortByNumber:
			if a.Number != b.Number {
				return a.Number < b.Number
			}
		case SortByUpdated:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		}

		if (a.DueDate == nil) != (b.DueDate == nil) {
			return a.DueDate != nil
		}
		if a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Number < b.Number
	})
}

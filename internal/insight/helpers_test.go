package insight

import (
	"fmt"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

// 2026-01-14 is a Wednesday.
var testNow = time.Date(2026, 1, 14, 15, 30, 0, 0, time.UTC)

func daysFromNow(n int) *time.Time {
	d := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return &d
}

var itemSeq int

func item(kind domain.ItemKind, status domain.WorkItemStatus, due *time.Time) *domain.WorkItem {
	itemSeq++
	return &domain.WorkItem{
		ID:       fmt.Sprintf("%s-%d", kind, itemSeq),
		Kind:     kind,
		Number:   itemSeq,
		Title:    string(kind) + " item",
		Status:   status,
		Priority: domain.PriorityMedium,
		DueDate:  due,
	}
}

func tasks(n int, status domain.WorkItemStatus, due *time.Time) []*domain.WorkItem {
	out := make([]*domain.WorkItem, n)
	for i := range out {
		out[i] = item(domain.KindTask, status, due)
	}
	return out
}

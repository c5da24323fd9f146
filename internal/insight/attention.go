package insight

import (
	"fmt"
	"sort"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

// MaxAttentionItems bounds the attention list.
const MaxAttentionItems = 5

// Days overdue beyond which an item is critical rather than a warning.
const (
	taskCriticalAfterDays      = 7
	rfiCriticalAfterDays       = 5
	submittalCriticalAfterDays = 5

	dueSoonWindowDays = 3
)

type AttentionItem struct {
	Type     domain.ItemKind
	ItemID   string
	Number   string
	Title    string
	Message  string
	Severity domain.Severity
}

type AttentionInput struct {
	Now        time.Time
	Tasks      []*domain.WorkItem
	RFIs       []*domain.WorkItem
	Submittals []*domain.WorkItem
}

// ComputeAttention lists what needs a manager's eye: overdue tasks, RFIs
// and submittals, then tasks due within the next three days. The result is
// ordered by severity (stable within a severity, tasks before RFIs before
// submittals) and holds at most MaxAttentionItems entries. An empty result
// means "all clear".
func ComputeAttention(in AttentionInput) []AttentionItem {
	var items []AttentionItem

	items = appendOverdue(items, in.Tasks, domain.TaskTerminal, taskCriticalAfterDays, in.Now)
	items = appendOverdue(items, in.RFIs, domain.RFITerminal, rfiCriticalAfterDays, in.Now)
	items = appendOverdue(items, in.Submittals, domain.SubmittalTerminal, submittalCriticalAfterDays, in.Now)

	for _, t := range in.Tasks {
		if t.DueDate == nil || domain.TaskTerminal.Contains(t.Status) {
			continue
		}
		days := DaysUntil(*t.DueDate, in.Now)
		if days < 0 || days > dueSoonWindowDays {
			continue
		}
		items = append(items, AttentionItem{
			Type:     t.Kind,
			ItemID:   t.ID,
			Number:   t.DisplayNumber(),
			Title:    t.Title,
			Message:  "Due " + t.DueDate.Format("Jan 2"),
			Severity: domain.SeverityInfo,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Severity.Rank() < items[j].Severity.Rank()
	})

	if len(items) > MaxAttentionItems {
		items = items[:MaxAttentionItems]
	}
	return items
}

func appendOverdue(dst []AttentionItem, src []*domain.WorkItem, terminal domain.StatusSet, criticalAfter int, now time.Time) []AttentionItem {
	for _, w := range src {
		if !IsOverdue(w.DueDate, w.Status, terminal, now) {
			continue
		}
		days := DaysAgo(*w.DueDate, now)
		severity := domain.SeverityWarning
		if days > criticalAfter {
			severity = domain.SeverityCritical
		}
		dst = append(dst, AttentionItem{
			Type:     w.Kind,
			ItemID:   w.ID,
			Number:   w.DisplayNumber(),
			Title:    w.Title,
			Message:  overdueMessage(days),
			Severity: severity,
		})
	}
	return dst
}

func overdueMessage(days int) string {
	if days == 1 {
		return "1 day overdue"
	}
	return fmt.Sprintf("%d days overdue", days)
}

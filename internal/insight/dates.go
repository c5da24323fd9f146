// Package insight holds the pure derivations and aggregations behind the
// dashboard: overdue flags, health score, attention list and calendar
// buckets. Nothing here touches the store; callers pass plain slices and the
// current time.
package insight

import (
	"fmt"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

const dateKeyLayout = "2006-01-02"

// dayStart drops the time of day, keeping t's calendar date. The result is
// expressed in UTC so day differences are exact multiples of 24h.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayDiff(from, to time.Time) int {
	return int(dayStart(to).Sub(dayStart(from)).Hours() / 24)
}

// IsOverdue reports whether an item with the given due date and status is
// late as of now. Items without a due date, or whose status is in the
// caller's terminal set, are never overdue. Only calendar dates are
// compared.
func IsOverdue(due *time.Time, status domain.WorkItemStatus, terminal domain.StatusSet, now time.Time) bool {
	if due == nil || terminal.Contains(status) {
		return false
	}
	return dayStart(*due).Before(dayStart(now))
}

// ItemOverdue is IsOverdue with the terminal set taken from the item's kind.
func ItemOverdue(w *domain.WorkItem, now time.Time) bool {
	return IsOverdue(w.DueDate, w.Status, domain.TerminalFor(w.Kind), now)
}

// DaysUntil is the number of calendar days from now until due. Positive
// means due is in the future.
func DaysUntil(due, now time.Time) int {
	return dayDiff(now, due)
}

// DaysAgo is the number of calendar days from date until now. Positive
// means date is in the past.
func DaysAgo(date, now time.Time) int {
	return dayDiff(date, now)
}

// RelativeTime renders how long ago date was: "Today", "Yesterday",
// "3 days ago", "2 weeks ago", and the short date for anything older than
// a month or in the future.
func RelativeTime(date, now time.Time) string {
	diff := DaysAgo(date, now)
	switch {
	case diff < 0:
		return ShortDate(date)
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Yesterday"
	case diff < 7:
		return fmt.Sprintf("%d days ago", diff)
	case diff < 30:
		weeks := diff / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		return ShortDate(date)
	}
}

// ShortDate formats t as "Jan 2, 2006".
func ShortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DateKey formats t as the YYYY-MM-DD bucket key.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

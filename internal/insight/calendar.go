package insight

import (
	"sort"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

// Calendar item types beyond the work-item kinds.
const (
	CalendarProjectStart    = "project_start"
	CalendarProjectOffline  = "project_offline"
	CalendarProjectDelivery = "project_delivery"
	CalendarProjectOnline   = "project_online"
)

var calendarColors = map[string]string{
	string(domain.KindTask):      "#3b82f6",
	string(domain.KindRFI):       "#8b5cf6",
	string(domain.KindSubmittal): "#f59e0b",
	string(domain.KindMilestone): "#10b981",
	CalendarProjectStart:         "#64748b",
	CalendarProjectOffline:       "#0ea5e9",
	CalendarProjectDelivery:      "#f97316",
	CalendarProjectOnline:        "#22c55e",
}

const (
	overdueColor  = "#ef4444"
	completeColor = "#9ca3af"
)

// CalendarItem is a derived, display-only entry. Date is the YYYY-MM-DD key
// and is empty for undated sources.
type CalendarItem struct {
	ID     string
	Type   string
	Title  string
	Date   string
	Color  string
	Status string
	Data   any
}

type CalendarInput struct {
	Now        time.Time
	Project    *domain.Project
	Tasks      []*domain.WorkItem
	RFIs       []*domain.WorkItem
	Submittals []*domain.WorkItem
	Milestones []*domain.WorkItem
	// From and To bound the window inclusively; zero values leave that side
	// open.
	From time.Time
	To   time.Time
}

// WeekStart returns the Monday that starts ref's week. Sunday belongs to
// the week that began the previous Monday.
func WeekStart(ref time.Time) time.Time {
	d := dayStart(ref)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekDays returns Monday..Friday of ref's week, or Monday..Sunday when
// includeWeekends is set.
func WeekDays(ref time.Time, includeWeekends bool) []time.Time {
	n := 5
	if includeWeekends {
		n = 7
	}
	start := WeekStart(ref)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthDays returns every day of ref's month.
func MonthDays(ref time.Time) []time.Time {
	y, m, _ := ref.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	var days []time.Time
	for d := first; d.Month() == m; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthGrid returns the 6x7 Monday-aligned grid of days covering ref's
// month, including the spill-over days of adjacent months.
func MonthGrid(ref time.Time) []time.Time {
	y, m, _ := ref.Date()
	start := WeekStart(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
	days := make([]time.Time, 42)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// BucketByDate groups items by their date key. Items without a date are
// left out of every bucket.
func BucketByDate(items []CalendarItem) map[string][]CalendarItem {
	buckets := make(map[string][]CalendarItem)
	for _, it := range items {
		if it.Date == "" {
			continue
		}
		buckets[it.Date] = append(buckets[it.Date], it)
	}
	return buckets
}

// BuildCalendarItems turns work items and the project's schedule dates into
// calendar entries that fall within the input window, sorted by date then
// type then title.
func BuildCalendarItems(in CalendarInput) []CalendarItem {
	var items []CalendarItem

	if p := in.Project; p != nil {
		projectDates := []struct {
			typ   string
			label string
			t     *time.Time
		}{
			{CalendarProjectStart, "Start", p.StartDate},
			{CalendarProjectOffline, "Target offline", p.TargetOfflineDate},
			{CalendarProjectDelivery, "Delivery", p.DeliveryDate},
			{CalendarProjectOnline, "Target online", p.TargetOnlineDate},
		}
		for _, pd := range projectDates {
			if pd.t == nil || !inWindow(*pd.t, in.From, in.To) {
				continue
			}
			items = append(items, CalendarItem{
				ID:     p.ID + ":" + pd.typ,
				Type:   pd.typ,
				Title:  p.Name + " - " + pd.label,
				Date:   DateKey(*pd.t),
				Color:  calendarColors[pd.typ],
				Status: string(p.Status),
				Data:   p,
			})
		}
	}

	for _, group := range [][]*domain.WorkItem{in.Tasks, in.RFIs, in.Submittals, in.Milestones} {
		for _, w := range group {
			if w.DueDate == nil || !inWindow(*w.DueDate, in.From, in.To) {
				continue
			}
			items = append(items, CalendarItem{
				ID:     w.ID,
				Type:   string(w.Kind),
				Title:  w.DisplayNumber() + " " + w.Title,
				Date:   DateKey(*w.DueDate),
				Color:  itemColor(w, in.Now),
				Status: string(w.Status),
				Data:   w,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		if items[i].Type != items[j].Type {
			return items[i].Type < items[j].Type
		}
		return items[i].Title < items[j].Title
	})
	return items
}

func itemColor(w *domain.WorkItem, now time.Time) string {
	if w.IsTerminal() {
		return completeColor
	}
	if ItemOverdue(w, now) {
		return overdueColor
	}
	return calendarColors[string(w.Kind)]
}

func inWindow(t, from, to time.Time) bool {
	d := dayStart(t)
	if !from.IsZero() && d.Before(dayStart(from)) {
		return false
	}
	if !to.IsZero() && d.After(dayStart(to)) {
		return false
	}
	return true
}

package app

import (
	"io"
	"time"

	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

// ItemCounts summarises one kind of work item on a project.
type ItemCounts struct {
	Total     int `json:"total"`
	Open      int `json:"open"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
}

// ProjectSnapshot is everything the aggregators need for one project.
type ProjectSnapshot struct {
	Project    *domain.Project
	Tasks      []*domain.WorkItem
	RFIs       []*domain.WorkItem
	Submittals []*domain.WorkItem
	Milestones []*domain.WorkItem
}

// Items returns the snapshot's items of kind.
func (s *ProjectSnapshot) Items(kind domain.ItemKind) []*domain.WorkItem {
	switch kind {
	case domain.KindTask:
		return s.Tasks
	case domain.KindRFI:
		return s.RFIs
	case domain.KindSubmittal:
		return s.Submittals
	case domain.KindMilestone:
		return s.Milestones
	}
	return nil
}

type ProjectDashboard struct {
	Project   *domain.Project
	Health    insight.HealthResult
	Attention []insight.AttentionItem
	Counts    map[domain.ItemKind]ItemCounts
	Modules   map[domain.ModuleStatus]int
	// Upcoming holds open items due in the next seven days, soonest first.
	Upcoming []*domain.WorkItem
}

type PortfolioEntry struct {
	Project      *domain.Project
	Health       insight.HealthResult
	OpenRFIs     int
	OverdueItems int
}

type Portfolio struct {
	Entries []PortfolioEntry
	Counts  map[domain.HealthStatus]int
}

type CalendarView string

const (
	CalendarWeek  CalendarView = "week"
	CalendarMonth CalendarView = "month"
)

type CalendarRequest struct {
	// ProjectID limits the calendar to one project. Empty means every
	// project that is not cancelled.
	ProjectID       string
	View            CalendarView
	Ref             time.Time
	IncludeWeekends bool
	Now             time.Time
}

type CalendarResponse struct {
	View    CalendarView
	From    time.Time
	To      time.Time
	Days    []time.Time
	Buckets map[string][]insight.CalendarItem
}

type MyWorkEntry struct {
	Item          *domain.WorkItem
	ProjectNumber string
	ProjectName   string
	Overdue       bool
	DaysUntil     *int
}

type MyWork struct {
	AssigneeID string
	Entries    []MyWorkEntry
}

// FileUpload is one file handed to the attachment service. Reader is read
// exactly once.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type FailedUpload struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type UploadResult struct {
	Created []*domain.Attachment
	Failed  []FailedUpload
}

// CreateItemResult reports a work item created together with its files.
// The item exists even when some files failed.
type CreateItemResult struct {
	Item    *domain.WorkItem
	Uploads UploadResult
}

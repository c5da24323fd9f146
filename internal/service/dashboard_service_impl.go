package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
	"github.com/modline/modtrack/internal/repository"
)

// upcomingWindowDays bounds ProjectDashboard.Upcoming.
const upcomingWindowDays = 7

type dashboardService struct {
	projects  repository.ProjectRepo
	workItems repository.WorkItemRepo
	modules   repository.ModuleRepo
	observer  UseCaseObserver
}

func NewDashboardService(projects repository.ProjectRepo, workItems repository.WorkItemRepo, modules repository.ModuleRepo, observers ...UseCaseObserver) DashboardService {
	return &dashboardService{
		projects:  projects,
		workItems: workItems,
		modules:   modules,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *dashboardService) loadSnapshot(ctx context.Context, p *domain.Project) (*app.ProjectSnapshot, error) {
	snap := &app.ProjectSnapshot{Project: p}
	for _, kind := range domain.ItemKinds {
		items, err := s.workItems.ListByProject(ctx, p.ID, kind)
		if err != nil {
			return nil, fmt.Errorf("loading %s items for %s: %w", kind, p.Number, err)
		}
		switch kind {
		case domain.KindTask:
			snap.Tasks = items
		case domain.KindRFI:
			snap.RFIs = items
		case domain.KindSubmittal:
			snap.Submittals = items
		case domain.KindMilestone:
			snap.Milestones = items
		}
	}
	return snap, nil
}

func healthOf(snap *app.ProjectSnapshot, now time.Time) insight.HealthResult {
	return insight.ComputeHealth(insight.HealthInput{
		Now:        now,
		Tasks:      snap.Tasks,
		RFIs:       snap.RFIs,
		Submittals: snap.Submittals,
		Milestones: snap.Milestones,
	})
}

func (s *dashboardService) GetProjectDashboard(ctx context.Context, projectID string, now time.Time) (dash *app.ProjectDashboard, err error) {
	defer observe(ctx, s.observer, "dashboard.project", time.Now(), &err, map[string]any{"project_id": projectID})

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	modules, err := s.modules.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}

	dash = &app.ProjectDashboard{
		Project: p,
		Health:  healthOf(snap, now),
		Attention: insight.ComputeAttention(insight.AttentionInput{
			Now:        now,
			Tasks:      snap.Tasks,
			RFIs:       snap.RFIs,
			Submittals: snap.Submittals,
		}),
		Counts:  make(map[domain.ItemKind]app.ItemCounts, len(domain.ItemKinds)),
		Modules: modules,
	}
	for _, kind := range domain.ItemKinds {
		items := snap.Items(kind)
		dash.Counts[kind] = countItems(items, now)
		for _, w := range items {
			if w.DueDate == nil || w.IsTerminal() {
				continue
			}
			if d := insight.DaysUntil(*w.DueDate, now); d >= 0 && d <= upcomingWindowDays {
				dash.Upcoming = append(dash.Upcoming, w)
			}
		}
	}
	insight.SortItems(dash.Upcoming, insight.SortByDue)
	return dash, nil
}

func countItems(items []*domain.WorkItem, now time.Time) app.ItemCounts {
	c := app.ItemCounts{Total: len(items)}
	for _, w := range items {
		switch {
		case w.IsTerminal():
			c.Completed++
		default:
			c.Open++
			if insight.ItemOverdue(w, now) {
				c.Overdue++
			}
		}
	}
	return c
}

// GetPortfolio scores every project that is not cancelled, most urgent
// first and then by name.
func (s *dashboardService) GetPortfolio(ctx context.Context, now time.Time) (pf *app.Portfolio, err error) {
	defer observe(ctx, s.observer, "dashboard.portfolio", time.Now(), &err, nil)

	projects, err := s.projects.List(ctx, "")
	if err != nil {
		return nil, err
	}

	pf = &app.Portfolio{Counts: map[domain.HealthStatus]int{}}
	for _, p := range projects {
		if p.Status == domain.ProjectCancelled {
			continue
		}
		snap, err := s.loadSnapshot(ctx, p)
		if err != nil {
			return nil, err
		}
		entry := app.PortfolioEntry{Project: p, Health: healthOf(snap, now)}
		for _, kind := range domain.ItemKinds {
			c := countItems(snap.Items(kind), now)
			entry.OverdueItems += c.Overdue
			if kind == domain.KindRFI {
				entry.OpenRFIs = c.Open
			}
		}
		pf.Counts[entry.Health.Status]++
		pf.Entries = append(pf.Entries, entry)
	}

	sort.SliceStable(pf.Entries, func(i, j int) bool {
		a, b := pf.Entries[i], pf.Entries[j]
		pa, pb := insight.HealthPriority(a.Health.Status), insight.HealthPriority(b.Health.Status)
		if pa != pb {
			return pa < pb
		}
		return strings.ToLower(a.Project.Name) < strings.ToLower(b.Project.Name)
	})
	return pf, nil
}

func (s *dashboardService) GetCalendar(ctx context.Context, req app.CalendarRequest) (*app.CalendarResponse, error) {
	if req.Now.IsZero() {
		req.Now = time.Now()
	}
	if req.Ref.IsZero() {
		req.Ref = req.Now
	}

	resp := &app.CalendarResponse{View: req.View}
	switch req.View {
	case app.CalendarWeek, "":
		resp.View = app.CalendarWeek
		resp.Days = insight.WeekDays(req.Ref, req.IncludeWeekends)
	case app.CalendarMonth:
		resp.Days = insight.MonthDays(req.Ref)
	default:
		return nil, &domain.ValidationError{Field: "view", Message: fmt.Sprintf("%q must be week or month", req.View)}
	}
	resp.From = resp.Days[0]
	resp.To = resp.Days[len(resp.Days)-1]

	var projects []*domain.Project
	if req.ProjectID != "" {
		p, err := s.projects.GetByID(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	} else {
		all, err := s.projects.List(ctx, "")
		if err != nil {
			return nil, err
		}
		for _, p := range all {
			if p.Status != domain.ProjectCancelled {
				projects = append(projects, p)
			}
		}
	}

	var items []insight.CalendarItem
	for _, p := range projects {
		snap, err := s.loadSnapshot(ctx, p)
		if err != nil {
			return nil, err
		}
		items = append(items, insight.BuildCalendarItems(insight.CalendarInput{
			Now:        req.Now,
			Project:    p,
			Tasks:      snap.Tasks,
			RFIs:       snap.RFIs,
			Submittals: snap.Submittals,
			Milestones: snap.Milestones,
			From:       resp.From,
			To:         resp.To,
		})...)
	}
	resp.Buckets = insight.BucketByDate(items)
	return resp, nil
}

// GetMyWork lists every open item assigned to assigneeID across projects,
// overdue first and then by due date.
func (s *dashboardService) GetMyWork(ctx context.Context, assigneeID string, now time.Time) (*app.MyWork, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, &domain.ValidationError{Field: "assignee", Message: "is required"}
	}

	projectCache := map[string]*domain.Project{}
	work := &app.MyWork{AssigneeID: assigneeID}
	for _, kind := range domain.ItemKinds {
		items, err := s.workItems.ListByAssignee(ctx, kind, assigneeID)
		if err != nil {
			return nil, err
		}
		for _, w := range items {
			if w.IsTerminal() {
				continue
			}
			p, ok := projectCache[w.ProjectID]
			if !ok {
				if p, err = s.projects.GetByID(ctx, w.ProjectID); err != nil {
					return nil, err
				}
				projectCache[w.ProjectID] = p
			}
			if p.Status == domain.ProjectCancelled {
				continue
			}
			entry := app.MyWorkEntry{
				Item:          w,
				ProjectNumber: p.Number,
				ProjectName:   p.Name,
				Overdue:       insight.ItemOverdue(w, now),
			}
			if w.DueDate != nil {
				d := insight.DaysUntil(*w.DueDate, now)
				entry.DaysUntil = &d
			}
			work.Entries = append(work.Entries, entry)
		}
	}

	sort.SliceStable(work.Entries, func(i, j int) bool {
		a, b := work.Entries[i], work.Entries[j]
		if a.Overdue != b.Overdue {
			return a.Overdue
		}
		switch {
		case a.DaysUntil == nil && b.DaysUntil == nil:
			return a.Item.Priority.Rank() < b.Item.Priority.Rank()
		case a.DaysUntil == nil:
			return false
		case b.DaysUntil == nil:
			return true
		}
		return *a.DaysUntil < *b.DaysUntil
	})
	return work, nil
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
	"github.com/modline/modtrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dashNow = time.Date(2026, time.January, 14, 15, 30, 0, 0, time.UTC)

func dashDay(offset int) time.Time {
	return time.Date(2026, time.January, 14+offset, 0, 0, 0, 0, time.UTC)
}

func (e *testEnv) dashboard() DashboardService {
	return NewDashboardService(e.projects, e.workItems, e.modules)
}

func (e *testEnv) item(t *testing.T, w *domain.WorkItem) {
	t.Helper()
	require.NoError(t, e.workItems.Create(context.Background(), w))
}

// seedScenarioA stores 10 tasks: 3 completed, 2 overdue by 8 days, 5 open
// and undated.
func seedScenarioA(t *testing.T, env *testEnv, projectID string) {
	t.Helper()
	n := 0
	next := func() int { n++; return n }
	for i := 0; i < 3; i++ {
		env.item(t, testutil.NewTestTask(projectID, fmt.Sprintf("done %d", i),
			testutil.WithNumber(next()), testutil.WithStatus(domain.StatusCompleted)))
	}
	for i := 0; i < 2; i++ {
		env.item(t, testutil.NewTestTask(projectID, fmt.Sprintf("late %d", i),
			testutil.WithNumber(next()), testutil.WithDueDate(dashDay(-8))))
	}
	for i := 0; i < 5; i++ {
		env.item(t, testutil.NewTestTask(projectID, fmt.Sprintf("open %d", i), testutil.WithNumber(next())))
	}
}

func TestDashboardService_ScenarioA(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	p := env.project(t)
	seedScenarioA(t, env, p.ID)

	dash, err := env.dashboard().GetProjectDashboard(ctx, p.ID, dashNow)
	require.NoError(t, err)

	assert.Equal(t, 75, dash.Health.Score)
	assert.Equal(t, domain.HealthAtRisk, dash.Health.Status)
	assert.Contains(t, dash.Health.Factors, insight.HealthFactor{Type: insight.FactorDanger, Text: "2 tasks overdue"})
	assert.Contains(t, dash.Health.Factors, insight.HealthFactor{Type: insight.FactorWarning, Text: "Low task completion (30%)"})

	tasks := dash.Counts[domain.KindTask]
	assert.Equal(t, app.ItemCounts{Total: 10, Open: 7, Overdue: 2, Completed: 3}, tasks)

	require.Len(t, dash.Attention, 2)
	assert.Equal(t, domain.SeverityCritical, dash.Attention[0].Severity)
	assert.Equal(t, "8 days overdue", dash.Attention[0].Message)
}

func TestDashboardService_ScenarioB_OpenRFIs(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	p := env.project(t)
	for i := 1; i <= 4; i++ {
		env.item(t, testutil.NewTestRFI(p.ID, fmt.Sprintf("rfi %d", i), testutil.WithNumber(i)))
	}

	dash, err := env.dashboard().GetProjectDashboard(ctx, p.ID, dashNow)
	require.NoError(t, err)
	assert.Equal(t, 95, dash.Health.Score)
	assert.Equal(t, []insight.HealthFactor{{Type: insight.FactorWarning, Text: "4 open RFIs"}}, dash.Health.Factors)
}

func TestDashboardService_EmptyProjectIsOnTrack(t *testing.T) {
	env := setupEnv(t)
	p := env.project(t)

	dash, err := env.dashboard().GetProjectDashboard(context.Background(), p.ID, dashNow)
	require.NoError(t, err)
	assert.Equal(t, 100, dash.Health.Score)
	assert.Equal(t, domain.HealthOnTrack, dash.Health.Status)
	assert.Empty(t, dash.Attention)
	assert.Empty(t, dash.Upcoming)

	_, err = env.dashboard().GetProjectDashboard(context.Background(), "missing", dashNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboardService_UpcomingAndModules(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	p := env.project(t)

	env.item(t, testutil.NewTestTask(p.ID, "in five", testutil.WithNumber(1), testutil.WithDueDate(dashDay(5))))
	env.item(t, testutil.NewTestMilestone(p.ID, "today", testutil.WithNumber(1), testutil.WithDueDate(dashDay(0))))
	env.item(t, testutil.NewTestTask(p.ID, "too far", testutil.WithNumber(2), testutil.WithDueDate(dashDay(20))))
	env.item(t, testutil.NewTestTask(p.ID, "done", testutil.WithNumber(3), testutil.WithDueDate(dashDay(1)),
		testutil.WithStatus(domain.StatusCompleted)))
	require.NoError(t, env.modules.Create(ctx, testutil.NewTestModule(p.ID, "M-01")))

	dash, err := env.dashboard().GetProjectDashboard(ctx, p.ID, dashNow)
	require.NoError(t, err)
	require.Len(t, dash.Upcoming, 2)
	assert.Equal(t, "today", dash.Upcoming[0].Title)
	assert.Equal(t, "in five", dash.Upcoming[1].Title)
	assert.Equal(t, 1, dash.Modules[domain.ModuleDesign])
}

func TestDashboardService_Portfolio_SortedByUrgency(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	healthy := env.project(t)
	healthy.Name = "Zephyr Court"
	require.NoError(t, env.projects.Update(ctx, healthy))

	risky := env.project(t)
	seedScenarioA(t, env, risky.ID)

	cancelled := env.project(t, testutil.WithProjectStatus(domain.ProjectCancelled))
	seedScenarioA(t, env, cancelled.ID)

	critical := env.project(t)
	for i := 1; i <= 4; i++ {
		env.item(t, testutil.NewTestTask(critical.ID, "late", testutil.WithNumber(i), testutil.WithDueDate(dashDay(-2))))
		env.item(t, testutil.NewTestRFI(critical.ID, "late", testutil.WithNumber(i), testutil.WithDueDate(dashDay(-2))))
		env.item(t, testutil.NewTestSubmittal(critical.ID, "late", testutil.WithNumber(i), testutil.WithDueDate(dashDay(-2))))
	}

	pf, err := env.dashboard().GetPortfolio(ctx, dashNow)
	require.NoError(t, err)
	require.Len(t, pf.Entries, 3)
	assert.Equal(t, critical.ID, pf.Entries[0].Project.ID)
	assert.Equal(t, domain.HealthCritical, pf.Entries[0].Health.Status)
	assert.Equal(t, 4, pf.Entries[0].OpenRFIs)
	assert.Equal(t, 12, pf.Entries[0].OverdueItems)
	assert.Equal(t, risky.ID, pf.Entries[1].Project.ID)
	assert.Equal(t, healthy.ID, pf.Entries[2].Project.ID)
	assert.Equal(t, 1, pf.Counts[domain.HealthOnTrack])
	assert.Equal(t, 1, pf.Counts[domain.HealthAtRisk])
	assert.Equal(t, 1, pf.Counts[domain.HealthCritical])
}

func TestDashboardService_Calendar(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	start := dashDay(-1)
	p := env.project(t, testutil.WithSchedule(&start, nil, nil, nil))

	env.item(t, testutil.NewTestTask(p.ID, "due wed", testutil.WithNumber(1), testutil.WithDueDate(dashDay(0))))
	env.item(t, testutil.NewTestRFI(p.ID, "due sat", testutil.WithNumber(1), testutil.WithDueDate(dashDay(3))))
	env.item(t, testutil.NewTestTask(p.ID, "undated", testutil.WithNumber(2)))
	env.item(t, testutil.NewTestTask(p.ID, "next month", testutil.WithNumber(3), testutil.WithDueDate(dashDay(30))))

	svc := env.dashboard()

	week, err := svc.GetCalendar(ctx, app.CalendarRequest{ProjectID: p.ID, Ref: dashNow, Now: dashNow})
	require.NoError(t, err)
	assert.Equal(t, app.CalendarWeek, week.View)
	require.Len(t, week.Days, 5)
	assert.Equal(t, "2026-01-12", insight.DateKey(week.From))
	assert.Equal(t, "2026-01-16", insight.DateKey(week.To))
	require.Len(t, week.Buckets["2026-01-14"], 1)
	assert.Equal(t, "task", week.Buckets["2026-01-14"][0].Type)
	require.Len(t, week.Buckets["2026-01-13"], 1)
	assert.Equal(t, insight.CalendarProjectStart, week.Buckets["2026-01-13"][0].Type)
	assert.Empty(t, week.Buckets["2026-01-17"], "weekend outside the work week")

	full, err := svc.GetCalendar(ctx, app.CalendarRequest{ProjectID: p.ID, Ref: dashNow, Now: dashNow, IncludeWeekends: true})
	require.NoError(t, err)
	assert.Len(t, full.Days, 7)
	assert.Len(t, full.Buckets["2026-01-17"], 1)

	month, err := svc.GetCalendar(ctx, app.CalendarRequest{View: app.CalendarMonth, Ref: dashNow, Now: dashNow})
	require.NoError(t, err)
	assert.Len(t, month.Days, 31)
	total := 0
	for _, b := range month.Buckets {
		total += len(b)
	}
	assert.Equal(t, 3, total, "start date plus two dated items in January")

	_, err = svc.GetCalendar(ctx, app.CalendarRequest{View: "year"})
	assert.True(t, domain.IsValidation(err))
}

func TestDashboardService_MyWork(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	p := env.project(t)
	gone := env.project(t, testutil.WithProjectStatus(domain.ProjectCancelled))

	env.item(t, testutil.NewTestTask(p.ID, "later", testutil.WithNumber(1), testutil.WithAssignee("amy"), testutil.WithDueDate(dashDay(4))))
	env.item(t, testutil.NewTestRFI(p.ID, "late", testutil.WithNumber(1), testutil.WithAssignee("amy"), testutil.WithDueDate(dashDay(-1))))
	env.item(t, testutil.NewTestTask(p.ID, "undated", testutil.WithNumber(2), testutil.WithAssignee("amy")))
	env.item(t, testutil.NewTestTask(p.ID, "finished", testutil.WithNumber(3), testutil.WithAssignee("amy"),
		testutil.WithStatus(domain.StatusCompleted)))
	env.item(t, testutil.NewTestTask(p.ID, "someone else", testutil.WithNumber(4), testutil.WithAssignee("bob")))
	env.item(t, testutil.NewTestTask(gone.ID, "cancelled job", testutil.WithNumber(1), testutil.WithAssignee("amy")))

	work, err := env.dashboard().GetMyWork(ctx, "amy", dashNow)
	require.NoError(t, err)
	require.Len(t, work.Entries, 3)
	assert.Equal(t, "late", work.Entries[0].Item.Title)
	assert.True(t, work.Entries[0].Overdue)
	assert.Equal(t, "later", work.Entries[1].Item.Title)
	require.NotNil(t, work.Entries[1].DaysUntil)
	assert.Equal(t, 4, *work.Entries[1].DaysUntil)
	assert.Equal(t, "undated", work.Entries[2].Item.Title)
	assert.Equal(t, p.Number, work.Entries[2].ProjectNumber)

	_, err = env.dashboard().GetMyWork(ctx, " ", dashNow)
	assert.True(t, domain.IsValidation(err))
}

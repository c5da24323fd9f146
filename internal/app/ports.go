package app

import (
	"context"
	"time"
)

type DashboardUseCase interface {
	GetProjectDashboard(ctx context.Context, projectID string, now time.Time) (*ProjectDashboard, error)
}

type PortfolioUseCase interface {
	GetPortfolio(ctx context.Context, now time.Time) (*Portfolio, error)
}

type CalendarUseCase interface {
	GetCalendar(ctx context.Context, req CalendarRequest) (*CalendarResponse, error)
}

type MyWorkUseCase interface {
	GetMyWork(ctx context.Context, assigneeID string, now time.Time) (*MyWork, error)
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/domain"
	"github.com/shopspring/decimal"
)

var testNumberCounter atomic.Int64

// now is truncated to the second so values survive an RFC3339 round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectNumber(n string) ProjectOption {
	return func(p *domain.Project) {
		p.Number = n
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithFactory(f string) ProjectOption {
	return func(p *domain.Project) {
		p.Factory = f
	}
}

func WithSchedule(start, offline, delivery, online *time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = start
		p.TargetOfflineDate = offline
		p.DeliveryDate = delivery
		p.TargetOnlineDate = online
	}
}

func WithContractValue(v string) ProjectOption {
	return func(p *domain.Project) {
		p.ContractValue = decimal.RequireFromString(v)
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:            uuid.New().String(),
		Number:        fmt.Sprintf("TP-%04d", testNumberCounter.Add(1)),
		Name:          name,
		Client:        "Test Client",
		Status:        domain.ProjectActive,
		ContractValue: decimal.Zero,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Work item options
type ItemOption func(*domain.WorkItem)

func WithDueDate(d time.Time) ItemOption {
	return func(w *domain.WorkItem) {
		w.DueDate = &d
	}
}

func WithStatus(s domain.WorkItemStatus) ItemOption {
	return func(w *domain.WorkItem) {
		w.Status = s
	}
}

func WithPriority(p domain.Priority) ItemOption {
	return func(w *domain.WorkItem) {
		w.Priority = p
	}
}

func WithAssignee(id string) ItemOption {
	return func(w *domain.WorkItem) {
		w.AssigneeID = id
	}
}

func WithNumber(n int) ItemOption {
	return func(w *domain.WorkItem) {
		w.Number = n
	}
}

func WithRecipient(r domain.Recipient) ItemOption {
	return func(w *domain.WorkItem) {
		w.Recipient = r
	}
}

func WithDescription(d string) ItemOption {
	return func(w *domain.WorkItem) {
		w.Description = d
	}
}

// NewTestItem builds an unsaved item of kind in its first status. Number is
// left at zero; repositories expect callers to allocate one.
func NewTestItem(kind domain.ItemKind, projectID, title string, opts ...ItemOption) *domain.WorkItem {
	ts := now()
	w := &domain.WorkItem{
		ID:        uuid.New().String(),
		Kind:      kind,
		ProjectID: projectID,
		Title:     title,
		Status:    domain.DefaultStatus(kind),
		Priority:  domain.PriorityMedium,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.CompletedAt == nil && w.IsTerminal() {
		c := ts
		w.CompletedAt = &c
	}
	return w
}

func NewTestTask(projectID, title string, opts ...ItemOption) *domain.WorkItem {
	return NewTestItem(domain.KindTask, projectID, title, opts...)
}

func NewTestRFI(projectID, title string, opts ...ItemOption) *domain.WorkItem {
	return NewTestItem(domain.KindRFI, projectID, title, opts...)
}

func NewTestSubmittal(projectID, title string, opts ...ItemOption) *domain.WorkItem {
	return NewTestItem(domain.KindSubmittal, projectID, title, opts...)
}

func NewTestMilestone(projectID, title string, opts ...ItemOption) *domain.WorkItem {
	return NewTestItem(domain.KindMilestone, projectID, title, opts...)
}

func NewTestModule(projectID, tag string) *domain.Module {
	ts := now()
	return &domain.Module{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Tag:       tag,
		Type:      "Box",
		Status:    domain.ModuleDesign,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var projectNumberPattern = regexp.MustCompile(`^[A-Z]{1,4}-?[0-9]{2,6}$`)

type Project struct {
	ID      string
	Number  string
	Name    string
	Client  string
	Factory string
	Address string
	Status  ProjectStatus

	// Schedule
	StartDate         *time.Time
	TargetOfflineDate *time.Time
	DeliveryDate      *time.Time
	TargetOnlineDate  *time.Time

	ContractValue    decimal.Decimal
	ModuleCount      int
	ProjectManagerID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateNumber checks that Number is a job number such as MB-2041 or
// P1207.
func (p *Project) ValidateNumber() error {
	if p.Number == "" {
		return &ValidationError{Field: "number", Message: "is required"}
	}
	if !projectNumberPattern.MatchString(p.Number) {
		return &ValidationError{
			Field:   "number",
			Message: quote(p.Number) + " must be 1-4 uppercase letters, an optional dash and 2-6 digits (e.g. MB-2041)",
		}
	}
	return nil
}

// ValidateFactory checks Factory against the configured options. An empty
// option list accepts any factory.
func (p *Project) ValidateFactory(options []string) error {
	if len(options) == 0 || p.Factory == "" {
		return nil
	}
	for _, o := range options {
		if strings.EqualFold(o, p.Factory) {
			p.Factory = o
			return nil
		}
	}
	return &ValidationError{Field: "factory", Message: quote(p.Factory) + " is not a configured factory"}
}

// ValidateSchedule checks the schedule dates are in production order:
// start <= offline <= delivery <= online, ignoring unset dates.
func (p *Project) ValidateSchedule() error {
	ordered := []struct {
		name string
		t    *time.Time
	}{
		{"start_date", p.StartDate},
		{"target_offline_date", p.TargetOfflineDate},
		{"delivery_date", p.DeliveryDate},
		{"target_online_date", p.TargetOnlineDate},
	}
	var prev *time.Time
	var prevName string
	for _, d := range ordered {
		if d.t == nil {
			continue
		}
		if prev != nil && d.t.Before(*prev) {
			return &ValidationError{Field: d.name, Message: "must not be before " + prevName}
		}
		prev, prevName = d.t, d.name
	}
	return nil
}

// IsClosed reports whether the project no longer accepts schedule work.
func (p *Project) IsClosed() bool {
	return p.Status == ProjectCompleted || p.Status == ProjectCancelled
}

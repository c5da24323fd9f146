package domain

import "time"

// Module is one factory-built unit of a modular building.
type Module struct {
	ID        string
	ProjectID string
	Tag       string
	Type      string
	Status    ModuleStatus
	Station   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QCRecord is one inspection of a module.
type QCRecord struct {
	ID          string
	ProjectID   string
	ModuleID    string
	Inspection  string
	Result      QCResult
	Inspector   string
	Notes       string
	InspectedAt time.Time
	CreatedAt   time.Time
}

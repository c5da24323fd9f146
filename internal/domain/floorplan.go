package domain

import "time"

// FloorPlan is an uploaded drawing. It is deactivated instead of removed so
// its markers survive.
type FloorPlan struct {
	ID          string
	ProjectID   string
	Name        string
	Level       string
	StoragePath string
	PublicURL   string
	FileType    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Marker pins a point on a floor plan. X and Y are fractions of the image
// width and height.
type Marker struct {
	ID          string
	FloorPlanID string
	X           float64
	Y           float64
	Label       string
	ItemKind    ItemKind
	ItemID      string
	CreatedAt   time.Time
}

func (m *Marker) Validate() error {
	if m.X < 0 || m.X > 1 {
		return &ValidationError{Field: "x", Message: "must be between 0 and 1"}
	}
	if m.Y < 0 || m.Y > 1 {
		return &ValidationError{Field: "y", Message: "must be between 0 and 1"}
	}
	if (m.ItemKind == "") != (m.ItemID == "") {
		return &ValidationError{Field: "item", Message: "item kind and item id go together"}
	}
	return nil
}

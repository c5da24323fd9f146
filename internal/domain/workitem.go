package domain

import (
	"fmt"
	"time"
)

// WorkItem is a task, RFI, submittal or milestone. Kind-specific fields are
// zero for the kinds that do not use them.
type WorkItem struct {
	ID          string
	Kind        ItemKind
	ProjectID   string
	Number      int
	Title       string
	Description string
	Status      WorkItemStatus
	Priority    Priority
	DueDate     *time.Time
	AssigneeID  string

	// RFI
	Question string
	Answer   string

	// Submittal
	SpecSection string
	Revision    int

	// RFI and submittal
	Recipient Recipient

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// DisplayNumber renders the per-project number, e.g. "RFI-012".
func (w *WorkItem) DisplayNumber() string {
	if w.Kind == KindTask || w.Kind == KindMilestone {
		return fmt.Sprintf("%s-%d", w.Kind.NumberPrefix(), w.Number)
	}
	return fmt.Sprintf("%s-%03d", w.Kind.NumberPrefix(), w.Number)
}

// IsTerminal reports whether the item sits in its kind's terminal set.
func (w *WorkItem) IsTerminal() bool {
	return TerminalFor(w.Kind).Contains(w.Status)
}

// SetStatus moves the item to status, keeping CompletedAt in step with
// whether the new status is terminal. The status must already be canonical.
func (w *WorkItem) SetStatus(status WorkItemStatus, now time.Time) {
	w.Status = status
	w.UpdatedAt = now
	if TerminalFor(w.Kind).Contains(status) {
		if w.CompletedAt == nil {
			t := now
			w.CompletedAt = &t
		}
		return
	}
	w.CompletedAt = nil
}

// Validate checks the invariants that do not depend on the store.
func (w *WorkItem) Validate() error {
	if _, err := ParseItemKind(string(w.Kind)); err != nil {
		return err
	}
	if w.ProjectID == "" {
		return &ValidationError{Field: "project_id", Message: "is required"}
	}
	if w.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if _, err := NormalizeStatus(w.Kind, w.Status); err != nil {
		return err
	}
	if w.Recipient != nil {
		if w.Kind != KindRFI && w.Kind != KindSubmittal {
			return &ValidationError{Field: "recipient", Message: "only RFIs and submittals have a recipient"}
		}
		if err := w.Recipient.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy that shares no pointers with w.
func (w *WorkItem) Clone() *WorkItem {
	c := *w
	if w.DueDate != nil {
		d := *w.DueDate
		c.DueDate = &d
	}
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title string, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

func ProjectStatusPill(s domain.ProjectStatus) string {
	switch s {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPlanning:
		return StyleBlue.Render("○ Planning")
	case domain.ProjectOnHold:
		return StyleYellow.Render("‖ On Hold")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectCancelled:
		return StyleDim.Render("✖ Cancelled")
	}
	return StyleDim.Render(string(s))
}

// ItemStatusPill colors a work-item status by where it sits in its kind's
// workflow.
func ItemStatusPill(w *domain.WorkItem) string {
	switch {
	case w.IsTerminal():
		return StyleDim.Render("✔ " + string(w.Status))
	case w.Status == domain.StatusRejected || w.Status == domain.StatusReviseAndResubmit:
		return StyleRed.Render("✖ " + string(w.Status))
	case w.Status == domain.DefaultStatus(w.Kind):
		return StyleBlue.Render("○ " + string(w.Status))
	}
	return StyleGreen.Render("● " + string(w.Status))
}

func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("!! " + string(p))
	case domain.PriorityHigh:
		return StyleAmber.Render("! " + string(p))
	case domain.PriorityLow:
		return StyleDim.Render(string(p))
	}
	return StyleFg.Render(string(p))
}

// DueLabel renders an item's due date relative to now, red when overdue.
func DueLabel(w *domain.WorkItem, now time.Time) string {
	if w.DueDate == nil {
		return Dim("--")
	}
	if insight.ItemOverdue(w, now) {
		days := insight.DaysAgo(*w.DueDate, now)
		return StyleRed.Render(fmt.Sprintf("%s (%dd late)", insight.ShortDate(*w.DueDate), days))
	}
	if w.IsTerminal() {
		return Dim(insight.ShortDate(*w.DueDate))
	}
	days := insight.DaysUntil(*w.DueDate, now)
	label := insight.ShortDate(*w.DueDate)
	switch {
	case days == 0:
		return StyleYellow.Render(label + " (today)")
	case days <= 3:
		return StyleYellow.Render(fmt.Sprintf("%s (in %dd)", label, days))
	}
	return StyleFg.Render(label)
}

// DateOrDash formats an optional date.
func DateOrDash(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return insight.ShortDate(*t)
}

// TruncID returns the first 8 characters of an id, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// HumanSize renders a byte count as B, KB or MB.
func HumanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

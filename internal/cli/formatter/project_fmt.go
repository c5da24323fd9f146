package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
)

// FormatProjectList renders projects as a table inside a box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"NUMBER", "NAME", "CLIENT", "FACTORY", "STATUS", "DELIVERY"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.Number,
			Bold(p.Name),
			orDash(p.Client),
			orDash(p.Factory),
			ProjectStatusPill(p.Status),
			DateOrDash(p.DeliveryDate),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders the project card: metadata on the left, health
// and item counts on the right, attention underneath.
func FormatProjectDetail(d *app.ProjectDashboard, now time.Time) string {
	left := projectMetadata(d.Project)

	var right strings.Builder
	right.WriteString(Header("Health") + "\n")
	right.WriteString(FormatHealth(d.Health) + "\n\n")
	right.WriteString(Header("Work items") + "\n")
	right.WriteString(formatCounts(d.Counts))
	if len(d.Modules) > 0 {
		right.WriteString("\n" + Header("Modules") + "\n")
		right.WriteString(FormatModuleProgress(d.Modules))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right.String())
	body += "\n\n" + Header("Needs attention") + "\n" + FormatAttention(d.Attention)
	if len(d.Upcoming) > 0 {
		body += "\n\n" + Header("Due this week") + "\n" + FormatItemList(d.Upcoming, now)
	}
	return RenderBox("", body)
}

func projectMetadata(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n")
	b.WriteString(Dim(p.Number) + "\n\n")

	fields := []struct{ label, value string }{
		{"STATUS  ", ProjectStatusPill(p.Status)},
		{"CLIENT  ", orDash(p.Client)},
		{"FACTORY ", orDash(p.Factory)},
		{"ADDRESS ", orDash(p.Address)},
		{"START   ", DateOrDash(p.StartDate)},
		{"OFFLINE ", DateOrDash(p.TargetOfflineDate)},
		{"DELIVERY", DateOrDash(p.DeliveryDate)},
		{"ONLINE  ", DateOrDash(p.TargetOnlineDate)},
		{"MODULES ", fmt.Sprintf("%d", p.ModuleCount)},
		{"CONTRACT", "$" + p.ContractValue.StringFixed(2)},
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(f.label), f.value)
	}
	return b.String()
}

func formatCounts(counts map[domain.ItemKind]app.ItemCounts) string {
	headers := []string{"KIND", "OPEN", "OVERDUE", "DONE", "TOTAL"}
	var rows [][]string
	for _, k := range domain.ItemKinds {
		c, ok := counts[k]
		if !ok {
			continue
		}
		overdue := fmt.Sprintf("%d", c.Overdue)
		if c.Overdue > 0 {
			overdue = StyleRed.Render(overdue)
		}
		rows = append(rows, []string{
			KindStyle(k).Render(k.Label()),
			fmt.Sprintf("%d", c.Open),
			overdue,
			fmt.Sprintf("%d", c.Completed),
			fmt.Sprintf("%d", c.Total),
		})
	}
	return RenderTable(headers, rows)
}

// FormatPortfolio renders every project ordered as given, worst health first.
func FormatPortfolio(p *app.Portfolio) string {
	if len(p.Entries) == 0 {
		return Dim("No active projects.")
	}
	headers := []string{"NUMBER", "PROJECT", "HEALTH", "OPEN RFIS", "OVERDUE"}
	rows := make([][]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		rows = append(rows, []string{
			e.Project.Number,
			Bold(e.Project.Name),
			HealthIndicator(e.Health.Status, e.Health.Score),
			fmt.Sprintf("%d", e.OpenRFIs),
			fmt.Sprintf("%d", e.OverdueItems),
		})
	}

	bands := make([]string, 0, len(p.Counts))
	for _, h := range []domain.HealthStatus{domain.HealthCritical, domain.HealthAtRisk, domain.HealthOnTrack} {
		bands = append(bands, HealthStyle(h).Render(fmt.Sprintf("%d %s", p.Counts[h], strings.ToLower(string(h)))))
	}
	return RenderBox("Portfolio", RenderTable(headers, rows)+"\n"+strings.Join(bands, Dim("  ·  ")))
}

// FormatMyWork lists an assignee's open items across projects.
func FormatMyWork(m *app.MyWork, now time.Time) string {
	if len(m.Entries) == 0 {
		return Dim("Nothing assigned to " + m.AssigneeID + ".")
	}
	headers := []string{"PROJECT", "ITEM", "TITLE", "STATUS", "DUE"}
	rows := make([][]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		rows = append(rows, []string{
			e.ProjectNumber,
			KindStyle(e.Item.Kind).Render(e.Item.DisplayNumber()),
			e.Item.Title,
			ItemStatusPill(e.Item),
			DueLabel(e.Item, now),
		})
	}
	return RenderBox("Assigned to "+m.AssigneeID, RenderTable(headers, rows))
}

// FormatModuleProgress renders one bar per production stage.
func FormatModuleProgress(progress map[domain.ModuleStatus]int) string {
	total := 0
	for _, n := range progress {
		total += n
	}
	stages := make([]domain.ModuleStatus, 0, len(progress))
	for _, s := range domain.ModuleStatuses {
		if _, ok := progress[s]; ok {
			stages = append(stages, s)
		}
	}

	var b strings.Builder
	for _, s := range stages {
		fmt.Fprintf(&b, "%-14s %s %d\n", s, RenderShareBar(progress[s], total, 20), progress[s])
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}

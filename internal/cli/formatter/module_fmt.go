package formatter

import (
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

func FormatModuleList(modules []*domain.Module) string {
	if len(modules) == 0 {
		return Dim("No modules.")
	}
	headers := []string{"TAG", "TYPE", "STATUS", "STATION"}
	rows := make([][]string, 0, len(modules))
	for _, m := range modules {
		rows = append(rows, []string{Bold(m.Tag), orDash(m.Type), moduleStatusPill(m.Status), orDash(m.Station)})
	}
	return RenderTable(headers, rows)
}

func moduleStatusPill(s domain.ModuleStatus) string {
	switch s {
	case domain.ModuleQCHold:
		return StyleRed.Render("‖ " + string(s))
	case domain.ModuleInProduction:
		return StyleYellow.Render("● " + string(s))
	case domain.ModuleComplete, domain.ModuleShipped, domain.ModuleSet:
		return StyleGreen.Render("✔ " + string(s))
	}
	return StyleBlue.Render("○ " + string(s))
}

func FormatQCList(records []*domain.QCRecord) string {
	if len(records) == 0 {
		return Dim("No inspections recorded.")
	}
	headers := []string{"DATE", "INSPECTION", "RESULT", "INSPECTOR", "NOTES"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		result := StyleGreen.Render(string(r.Result))
		switch r.Result {
		case domain.QCFail:
			result = StyleRed.Render(string(r.Result))
		case domain.QCConditional:
			result = StyleYellow.Render(string(r.Result))
		}
		rows = append(rows, []string{insight.ShortDate(r.InspectedAt), r.Inspection, result, orDash(r.Inspector), r.Notes})
	}
	return RenderTable(headers, rows)
}

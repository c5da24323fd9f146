package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/insight"
)

// FormatHealth renders the score bar, band and contributing factors.
func FormatHealth(h insight.HealthResult) string {
	var b strings.Builder
	b.WriteString(RenderScoreBar(h.Score, 20) + "  " + HealthIndicator(h.Status, h.Score) + "\n")
	for _, f := range h.Factors {
		var mark string
		switch f.Type {
		case insight.FactorSuccess:
			mark = StyleGreen.Render("✔")
		case insight.FactorWarning:
			mark = StyleYellow.Render("▲")
		default:
			mark = StyleRed.Render("✖")
		}
		fmt.Fprintf(&b, "  %s %s\n", mark, f.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAttention renders the attention list, or an all-clear line.
func FormatAttention(items []insight.AttentionItem) string {
	if len(items) == 0 {
		return StyleGreen.Render("✔ All clear. Nothing needs attention.")
	}
	var b strings.Builder
	for _, a := range items {
		style := SeverityStyle(a.Severity)
		fmt.Fprintf(&b, "%s %s  %s  %s\n",
			style.Render("●"),
			KindStyle(a.Type).Render(a.Number),
			a.Title,
			style.Render(a.Message))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCalendar lists each day of the window with its entries. Empty days
// are shown so the week or month reads as a whole.
func FormatCalendar(r *app.CalendarResponse, now time.Time) string {
	if r.View == app.CalendarMonth {
		return formatMonth(r, now)
	}
	today := insight.DateKey(now)
	var b strings.Builder
	for _, d := range r.Days {
		key := insight.DateKey(d)
		label := d.Format("Mon Jan 2")
		switch {
		case key == today:
			label = StyleHeader.Render(label + " (today)")
		default:
			label = StyleBold.Render(label)
		}
		b.WriteString(label + "\n")

		entries := r.Buckets[key]
		if len(entries) == 0 {
			b.WriteString(Dim("  --") + "\n")
			continue
		}
		for _, e := range entries {
			fmt.Fprintf(&b, "  %s %s %s\n", calendarMark(e), e.Title, Dim(e.Status))
		}
	}
	title := fmt.Sprintf("%s %s - %s", r.View, insight.ShortDate(r.From), insight.ShortDate(r.To))
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

// formatMonth draws a Monday-first grid with a dot on busy days, then lists
// only the days that have entries.
func formatMonth(r *app.CalendarResponse, now time.Time) string {
	today := insight.DateKey(now)
	_, month, _ := r.From.Date()
	var b strings.Builder
	b.WriteString(Dim(" Mon Tue Wed Thu Fri Sat Sun") + "\n")
	for i, d := range insight.MonthGrid(r.From) {
		key := insight.DateKey(d)
		cell := fmt.Sprintf("%3d", d.Day())
		mark := " "
		if len(r.Buckets[key]) > 0 {
			mark = StyleYellow.Render("•")
		}
		switch {
		case d.Month() != month:
			cell = Dim(cell)
		case key == today:
			cell = StyleHeader.Render(cell)
		}
		b.WriteString(cell + mark)
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	for _, d := range r.Days {
		entries := r.Buckets[insight.DateKey(d)]
		if len(entries) == 0 {
			continue
		}
		b.WriteString("\n" + StyleBold.Render(d.Format("Mon Jan 2")) + "\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "  %s %s %s\n", calendarMark(e), e.Title, Dim(e.Status))
		}
	}
	title := fmt.Sprintf("%s %s", r.View, r.From.Format("January 2006"))
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

func calendarMark(e insight.CalendarItem) string {
	glyph := "●"
	switch e.Type {
	case insight.CalendarProjectStart, insight.CalendarProjectOffline, insight.CalendarProjectDelivery, insight.CalendarProjectOnline:
		glyph = "◆"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render(glyph)
}

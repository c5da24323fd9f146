package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/modline/modtrack/internal/domain"
)

// Site-office palette: slate base with status accents.
var (
	ColorGreen  = lipgloss.Color("#22c55e")
	ColorYellow = lipgloss.Color("#eab308")
	ColorRed    = lipgloss.Color("#ef4444")
	ColorBlue   = lipgloss.Color("#3b82f6")
	ColorPurple = lipgloss.Color("#8b5cf6")
	ColorAmber  = lipgloss.Color("#f59e0b")
	ColorDim    = lipgloss.Color("#94a3b8")
	ColorFg     = lipgloss.Color("#e2e8f0")
	ColorHeader = lipgloss.Color("#f97316")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAmber  = lipgloss.NewStyle().Foreground(ColorAmber)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// HealthStyle colors a health band.
func HealthStyle(h domain.HealthStatus) lipgloss.Style {
	switch h {
	case domain.HealthCritical:
		return StyleRed
	case domain.HealthAtRisk:
		return StyleYellow
	case domain.HealthOnTrack:
		return StyleGreen
	}
	return StyleDim
}

// HealthIndicator renders e.g. "● AT RISK 72".
func HealthIndicator(h domain.HealthStatus, score int) string {
	label := strings.ToUpper(string(h))
	if label == "" {
		label = "UNKNOWN"
	}
	return HealthStyle(h).Render(fmt.Sprintf("● %s %d", label, score))
}

func SeverityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityCritical:
		return StyleRed
	case domain.SeverityWarning:
		return StyleYellow
	}
	return StyleBlue
}

// KindStyle matches the calendar colors of each item kind.
func KindStyle(k domain.ItemKind) lipgloss.Style {
	switch k {
	case domain.KindTask:
		return StyleBlue
	case domain.KindRFI:
		return StylePurple
	case domain.KindSubmittal:
		return StyleAmber
	case domain.KindMilestone:
		return StyleGreen
	}
	return StyleDim
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	return StyleHeader.Render(upper) + "\n" + StyleDim.Render(strings.Repeat("─", lipgloss.Width(upper)))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

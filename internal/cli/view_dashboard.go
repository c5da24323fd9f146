package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDashCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Interactive portfolio dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				portfolio, err := a.Dashboard.GetPortfolio(cmdContext(cmd), a.now())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPortfolio(portfolio))
				return nil
			}
			_, err := tea.NewProgram(newDashboardModel(a), tea.WithAltScreen(), tea.WithContext(cmdContext(cmd))).Run()
			return err
		},
	}
}

type dashboardLoadedMsg struct {
	portfolio *app.Portfolio
	err       error
}

type dashboardDetailLoadedMsg struct {
	projectID string
	detail    *app.ProjectDashboard
	err       error
}

var dashboardHelp = []key.Binding{
	key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

// dashboardModel is a split pane: the portfolio on the left, the selected
// project's dashboard on the right.
type dashboardModel struct {
	app       *App
	portfolio *app.Portfolio
	loading   bool
	err       error

	cursor        int
	detail        *app.ProjectDashboard
	detailErr     error
	detailLoading bool
	detailPane    viewport.Model

	width  int
	height int
}

func newDashboardModel(a *App) *dashboardModel {
	return &dashboardModel{
		app:        a,
		loading:    true,
		detailPane: viewport.New(60, 20),
		width:      100,
		height:     30,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return m.loadPortfolio()
}

func (m *dashboardModel) loadPortfolio() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		p, err := a.Dashboard.GetPortfolio(context.Background(), a.now())
		return dashboardLoadedMsg{portfolio: p, err: err}
	}
}

func (m *dashboardModel) loadSelectedDetail() tea.Cmd {
	if m.portfolio == nil || m.cursor >= len(m.portfolio.Entries) {
		return nil
	}
	projectID := m.portfolio.Entries[m.cursor].Project.ID
	a := m.app
	m.detailLoading = true
	return func() tea.Msg {
		d, err := a.Dashboard.GetProjectDashboard(context.Background(), projectID, a.now())
		return dashboardDetailLoadedMsg{projectID: projectID, detail: d, err: err}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeDetail()
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.portfolio = msg.portfolio
		if m.cursor >= len(m.portfolio.Entries) {
			m.cursor = max(0, len(m.portfolio.Entries)-1)
		}
		return m, m.loadSelectedDetail()

	case dashboardDetailLoadedMsg:
		// Ignore answers for a project the cursor already left.
		if m.portfolio == nil || m.cursor >= len(m.portfolio.Entries) ||
			m.portfolio.Entries[m.cursor].Project.ID != msg.projectID {
			return m, nil
		}
		m.detailLoading = false
		m.detail, m.detailErr = msg.detail, msg.err
		if msg.err == nil {
			m.detailPane.SetContent(formatter.FormatProjectDetail(msg.detail, m.app.now()))
			m.detailPane.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				return m, m.loadSelectedDetail()
			}
		case "down", "j":
			if m.portfolio != nil && m.cursor < len(m.portfolio.Entries)-1 {
				m.cursor++
				return m, m.loadSelectedDetail()
			}
		case "r":
			m.loading = true
			m.err = nil
			return m, m.loadPortfolio()
		default:
			var cmd tea.Cmd
			m.detailPane, cmd = m.detailPane.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

const dashLeftPaneWidth = 40

func (m *dashboardModel) resizeDetail() {
	m.detailPane.Width = max(20, m.width-dashLeftPaneWidth-3)
	m.detailPane.Height = max(5, m.height-4)
}

func (m *dashboardModel) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error())
	}
	if m.portfolio == nil || len(m.portfolio.Entries) == 0 {
		return "\n  " + formatter.Dim("No projects yet. Create one with 'modtrack project add'.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	left := m.renderLeftPane()
	right := m.renderRightPane()

	if m.width < 80 {
		b.WriteString(left + "\n" + right)
	} else {
		leftCol := lipgloss.NewStyle().Width(dashLeftPaneWidth).Render(left)
		divider := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render("│")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " "+divider+" ", right))
	}

	help := make([]string, 0, len(dashboardHelp))
	for _, k := range dashboardHelp {
		help = append(help, k.Help().Key+" "+k.Help().Desc)
	}
	b.WriteString("\n  " + formatter.Dim(strings.Join(help, " · ")) + "\n")
	return b.String()
}

func (m *dashboardModel) renderLeftPane() string {
	var b strings.Builder
	b.WriteString("  " + formatter.StyleHeader.Render("PORTFOLIO") + "\n\n")
	for i, e := range m.portfolio.Entries {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		name := e.Project.Name
		if len(name) > 18 {
			name = name[:17] + "…"
		}
		dot := formatter.HealthStyle(e.Health.Status).Render("●")
		b.WriteString(fmt.Sprintf("%s%-9s %s %s %3d\n",
			cursor,
			formatter.StyleGreen.Render(e.Project.Number),
			nameStyle.Render(fmt.Sprintf("%-18s", name)),
			dot,
			e.Health.Score,
		))
	}
	return b.String()
}

func (m *dashboardModel) renderRightPane() string {
	switch {
	case m.detailLoading && m.detail == nil:
		return formatter.Dim("Loading details...")
	case m.detailErr != nil:
		return formatter.StyleRed.Render("Error: " + m.detailErr.Error())
	case m.detail == nil:
		return formatter.Dim("Select a project to see details.")
	}
	return m.detailPane.View()
}

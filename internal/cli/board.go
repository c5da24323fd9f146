package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
	"github.com/modline/modtrack/internal/kanban"
	"github.com/spf13/cobra"
)

func newBoardCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board <project>",
		Short: "Kanban board for one kind of work item",
		Args:  cobra.ExactArgs(1),
	}
	parseKind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind()
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)
		p, err := resolveProject(ctx, a, args[0])
		if err != nil {
			return err
		}
		items, err := a.WorkItems.List(ctx, p.ID, kind, insight.ItemFilter{}, insight.SortByNumber)
		if err != nil {
			return err
		}
		board := kanban.NewBoard(kind, items)

		if !a.interactive() {
			fmt.Fprint(cmd.OutOrStdout(), renderBoardStatic(board))
			return nil
		}

		m := newBoardModel(ctx, p.Number, board, a.WorkItems)
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}

	return cmd
}

// boardMovedMsg reports the store's answer to one drop.
type boardMovedMsg struct {
	pending kanban.Pending
	stored  *domain.WorkItem
	err     error
}

type boardKeyMap struct {
	Left, Right, Up, Down key.Binding
	MoveLeft, MoveRight   key.Binding
	Quit                  key.Binding
}

var boardKeys = boardKeyMap{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "H", "["), key.WithHelp("[", "move left")),
	MoveRight: key.NewBinding(key.WithKeys("shift+right", "L", "]"), key.WithHelp("]", "move right")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.MoveLeft, k.MoveRight, k.Quit}
}

// boardModel shows one column per status. Drops are applied to the board
// immediately and confirmed or rolled back when the store answers. An item
// with a save in flight cannot be moved again.
type boardModel struct {
	ctx     context.Context
	title   string
	board   *kanban.Board
	store   kanban.StatusUpdater
	columns []domain.WorkItemStatus

	col      int
	row      int
	width    int
	saving   int
	inFlight map[string]bool
	err      error
}

func newBoardModel(ctx context.Context, title string, board *kanban.Board, store kanban.StatusUpdater) *boardModel {
	return &boardModel{
		ctx:      ctx,
		title:    title,
		board:    board,
		store:    store,
		columns:  kanban.Columns(board.Kind()),
		width:    100,
		inFlight: make(map[string]bool),
	}
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case boardMovedMsg:
		m.saving--
		delete(m.inFlight, msg.pending.ItemID)
		if msg.err != nil {
			m.board.Revert(msg.pending)
			m.err = msg.err
		} else {
			m.board.Commit(msg.pending, msg.stored)
		}
		m.clampRow()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, boardKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, boardKeys.MoveLeft):
			return m, m.move(-1)
		case key.Matches(msg, boardKeys.MoveRight):
			return m, m.move(1)
		case key.Matches(msg, boardKeys.Left):
			if m.col > 0 {
				m.col--
				m.clampRow()
			}
		case key.Matches(msg, boardKeys.Right):
			if m.col < len(m.columns)-1 {
				m.col++
				m.clampRow()
			}
		case key.Matches(msg, boardKeys.Up):
			if m.row > 0 {
				m.row--
			}
		case key.Matches(msg, boardKeys.Down):
			if m.row < len(m.current())-1 {
				m.row++
			}
		}
	}
	return m, nil
}

func (m *boardModel) current() []*domain.WorkItem {
	if len(m.columns) == 0 {
		return nil
	}
	return m.board.Column(m.columns[m.col])
}

func (m *boardModel) selected() *domain.WorkItem {
	items := m.current()
	if m.row < 0 || m.row >= len(items) {
		return nil
	}
	return items[m.row]
}

func (m *boardModel) clampRow() {
	n := len(m.current())
	if m.row >= n {
		m.row = max(0, n-1)
	}
}

// move drops the selected item into the neighbouring column and returns
// the command that persists it.
func (m *boardModel) move(delta int) tea.Cmd {
	w := m.selected()
	target := m.col + delta
	if w == nil || target < 0 || target >= len(m.columns) || m.inFlight[w.ID] {
		return nil
	}
	p, ok := m.board.Drop(w.ID, m.columns[target])
	if !ok {
		return nil
	}
	m.err = nil
	m.saving++
	m.inFlight[w.ID] = true
	m.col = target
	m.row = indexOfItem(m.current(), w.ID)

	ctx, store, kind := m.ctx, m.store, m.board.Kind()
	return func() tea.Msg {
		stored, err := store.UpdateStatus(ctx, kind, p.ItemID, p.Status)
		return boardMovedMsg{pending: p, stored: stored, err: err}
	}
}

const boardMinColumnWidth = 18

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Header(strings.ToUpper(string(m.board.Kind()))+" BOARD") +
		"  " + formatter.Dim(m.title) + "\n\n")

	colWidth := boardMinColumnWidth
	if len(m.columns) > 0 {
		colWidth = max(boardMinColumnWidth, (m.width-4)/len(m.columns)-2)
	}

	cols := make([]string, 0, len(m.columns))
	for i, status := range m.columns {
		items := m.board.Column(status)
		var c strings.Builder
		head := fmt.Sprintf("%s (%d)", status, len(items))
		if i == m.col {
			c.WriteString(formatter.StyleHeader.Render(head))
		} else {
			c.WriteString(formatter.StyleBold.Render(head))
		}
		c.WriteString("\n\n")
		for j, w := range items {
			c.WriteString(boardCard(w, colWidth, i == m.col && j == m.row))
			c.WriteString("\n")
		}
		cols = append(cols, lipgloss.NewStyle().Width(colWidth).MarginRight(2).Render(c.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, append([]string{"  "}, cols...)...))
	b.WriteString("\n")

	if m.saving > 0 {
		b.WriteString("\n  " + formatter.Dim("Saving..."))
	}
	if m.err != nil {
		b.WriteString("\n  " + formatter.StyleRed.Render("Move failed: "+m.err.Error()))
	}

	help := make([]string, 0, len(boardKeys.ShortHelp()))
	for _, k := range boardKeys.ShortHelp() {
		help = append(help, k.Help().Key+" "+k.Help().Desc)
	}
	b.WriteString("\n  " + formatter.Dim(strings.Join(help, " · ")) + "\n")
	return b.String()
}

func boardCard(w *domain.WorkItem, width int, selected bool) string {
	label := ansi.Truncate(w.DisplayNumber()+" "+w.Title, width-2, "…")
	if selected {
		return formatter.StyleGreen.Render("▸ ") + formatter.StyleBold.Render(label)
	}
	return "  " + formatter.StyleFg.Render(label)
}

// renderBoardStatic prints the board once for non-interactive output.
func renderBoardStatic(board *kanban.Board) string {
	var b strings.Builder
	for _, status := range kanban.Columns(board.Kind()) {
		items := board.Column(status)
		b.WriteString(formatter.Header(fmt.Sprintf("%s (%d)", status, len(items))) + "\n")
		for _, w := range items {
			b.WriteString(fmt.Sprintf("  %s  %s\n", w.DisplayNumber(), w.Title))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func indexOfItem(items []*domain.WorkItem, id string) int {
	for i, w := range items {
		if w.ID == id {
			return i
		}
	}
	return 0
}

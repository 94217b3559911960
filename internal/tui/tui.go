// Package tui is the terminal front-end: one human seat rendered with
// bubbletea, playing against a Table that is either a local game or a seat
// on a server.
package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/tongits/cards"
	"github.com/lox/tongits/internal/game"
)

const sidebarWidth = 28

// TUIModel represents the Bubble Tea model for one seat
type TUIModel struct {
	table  Table
	logger *log.Logger

	// UI components
	keys        keyMap
	help        help.Model
	logViewport viewport.Model

	// State
	view     game.PlayerView
	cursor   int
	selected map[string]bool
	gameLog  []string
	status   string
	failed   bool
	quitting bool
	closed   bool

	// Dimensions
	width  int
	height int
}

// updateMsg reports that the table's view may have changed
type updateMsg struct{}

// closedMsg reports that the table went away
type closedMsg struct{}

// actionMsg carries the outcome of one request to the table
type actionMsg struct {
	action string
	err    error
}

// NewTUIModel creates a model for the seat behind table
func NewTUIModel(table Table, logger *log.Logger) *TUIModel {
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)

	m := &TUIModel{
		table:       table,
		logger:      logger.WithPrefix("tui"),
		keys:        defaultKeyMap(),
		help:        help.New(),
		logViewport: vp,
		selected:    make(map[string]bool),
		view:        table.View(),
	}
	m.AddLogEntry(fmt.Sprintf("Joined game %s as %s", m.view.GameID, m.seatName(table.PlayerID())))
	if m.view.Phase == game.PhaseWaiting && table.PlayerID() != "" {
		m.setStatus("Press n to deal a new game", false)
	}
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

// waitForUpdate returns a command that blocks until the table changes
func (m *TUIModel) waitForUpdate() tea.Cmd {
	t := m.table
	return func() tea.Msg {
		select {
		case <-t.Updates():
			return updateMsg{}
		case <-t.Done():
			return closedMsg{}
		}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case updateMsg:
		m.refresh()
		return m, m.waitForUpdate()

	case closedMsg:
		m.closed = true
		m.setStatus("Disconnected", true)
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.logger.Debug("Action rejected", "action", msg.action, "error", msg.err)
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus(msg.action+" ok", false)
			if msg.action == "meld" {
				clear(m.selected)
			}
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *TUIModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	hand := m.view.Hand

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(hand)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.MoveLeft), key.Matches(msg, m.keys.MoveRight):
		to := m.cursor + 1
		if key.Matches(msg, m.keys.MoveLeft) {
			to = m.cursor - 1
		}
		if to < 0 || to >= len(hand) {
			return nil
		}
		ids := cards.IDs(hand)
		ids[m.cursor], ids[to] = ids[to], ids[m.cursor]
		m.cursor = to
		return m.do("reorder", func() error { return m.table.Reorder(ids) })

	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(hand) {
			id := hand[m.cursor].ID()
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
		}

	case key.Matches(msg, m.keys.Draw):
		return m.do("draw", m.table.Draw)

	case key.Matches(msg, m.keys.Discard):
		if m.cursor >= len(hand) {
			m.setStatus("No card to discard", true)
			return nil
		}
		id := hand[m.cursor].ID()
		return m.do("discard", func() error { return m.table.Discard(id) })

	case key.Matches(msg, m.keys.Meld):
		ids := m.selectedIDs()
		if len(ids) == 0 {
			m.setStatus("Select cards with space first", true)
			return nil
		}
		return m.do("meld", func() error { return m.table.Meld(ids) })

	case key.Matches(msg, m.keys.Arrange):
		return m.do("arrange", m.table.Arrange)

	case key.Matches(msg, m.keys.SortSuit):
		ids := cards.IDs(cards.SortBySuit(hand))
		return m.do("sort", func() error { return m.table.Reorder(ids) })

	case key.Matches(msg, m.keys.SortRank):
		ids := cards.IDs(cards.SortByRank(hand))
		return m.do("sort", func() error { return m.table.Reorder(ids) })

	case key.Matches(msg, m.keys.Showdown):
		return m.do("showdown", m.table.Showdown)

	case key.Matches(msg, m.keys.NewGame):
		clear(m.selected)
		m.cursor = 0
		return m.do("new game", m.table.Start)

	case key.Matches(msg, m.keys.ScrollUp):
		m.logViewport.ScrollUp(1)

	case key.Matches(msg, m.keys.ScrollDn):
		m.logViewport.ScrollDown(1)
	}
	return nil
}

// do runs a table request off the UI goroutine
func (m *TUIModel) do(action string, fn func() error) tea.Cmd {
	if m.closed {
		m.setStatus("Disconnected", true)
		return nil
	}
	return func() tea.Msg {
		return actionMsg{action: action, err: fn()}
	}
}

// refresh re-reads the table and logs what changed
func (m *TUIModel) refresh() {
	next := m.table.View()
	for _, line := range describeChange(m.view, next) {
		m.AddLogEntry(line)
	}
	m.view = next

	held := make(map[string]bool, len(next.Hand))
	for _, c := range next.Hand {
		held[c.ID()] = true
	}
	for id := range m.selected {
		if !held[id] {
			delete(m.selected, id)
		}
	}
	m.cursor = max(0, min(m.cursor, len(next.Hand)-1))
}

// selectedIDs returns the selection in hand order
func (m *TUIModel) selectedIDs() []string {
	var ids []string
	for _, c := range m.view.Hand {
		if m.selected[c.ID()] {
			ids = append(ids, c.ID())
		}
	}
	return ids
}

func (m *TUIModel) setStatus(status string, failed bool) {
	m.status = status
	m.failed = failed
}

func (m *TUIModel) seatName(id string) string {
	for _, s := range m.view.Seats {
		if s.ID == id {
			return s.Name
		}
	}
	if id == "" {
		return "spectator"
	}
	return id
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(1, m.width-2)).
		Render(actionContent)

	topHeight := max(1, m.height-actionHeight-4)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(topHeight).
		Render(m.renderSidebarPane())

	m.logViewport.Width = max(1, m.width-sidebarWidth-4)
	m.logViewport.Height = topHeight
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(topHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, actionPane)
}

// renderSidebarPane shows the table: seats, deck and discard pile
func (m *TUIModel) renderSidebarPane() string {
	var b strings.Builder
	v := m.view

	b.WriteString(HeaderStyle.Render(" Tongits "))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("%s  turn %d", v.Phase, v.TurnCount)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Deck: %d\n", v.DeckCount))
	if v.DiscardTop != nil {
		b.WriteString(fmt.Sprintf("Discard: %s (%d)\n", m.renderCard(*v.DiscardTop), v.DiscardCount))
	} else {
		b.WriteString("Discard: -\n")
	}
	b.WriteString("\n")

	for _, s := range v.Seats {
		line := fmt.Sprintf("%s: %d cards", s.Name, s.HandCount)
		if v.Phase == game.PhaseEnded && s.Points > 0 {
			line += fmt.Sprintf(", %d pts", s.Points)
		}
		switch {
		case s.ID == v.WinnerID && v.Phase == game.PhaseEnded:
			b.WriteString(SuccessStyle.Render("★ " + line))
		case s.ID == v.CurrentPlayerID && v.Phase == game.PhasePlaying:
			b.WriteString(CurrentPlayerStyle.Render("▶ " + line))
		default:
			b.WriteString(PlayerInfoStyle.Render("  " + line))
		}
		b.WriteString("\n")
		for _, meld := range s.ExposedMelds {
			b.WriteString("    " + m.renderCards(meld.Cards) + "\n")
		}
	}
	return b.String()
}

// renderActionPane shows the hand, the status line and key help
func (m *TUIModel) renderActionPane() string {
	var b strings.Builder
	v := m.view

	switch {
	case m.table.PlayerID() == "":
		b.WriteString(HandInfoStyle.Render("Watching"))
	case v.Phase == game.PhasePlaying && v.CurrentPlayerID == m.table.PlayerID():
		if v.HasDrawn {
			b.WriteString(HandInfoStyle.Render("Your turn: meld or discard"))
		} else {
			b.WriteString(HandInfoStyle.Render("Your turn: draw a card"))
		}
	case v.Phase == game.PhasePlaying:
		b.WriteString(HandInfoStyle.Render("Waiting for " + m.seatName(v.CurrentPlayerID)))
	default:
		b.WriteString(HandInfoStyle.Render("Game " + string(v.Phase)))
	}
	b.WriteString("\n")

	b.WriteString(m.renderHand())
	b.WriteString("\n")

	if m.status != "" {
		if m.failed {
			b.WriteString(ErrorStyle.Render(m.status))
		} else {
			b.WriteString(SuccessStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderHand draws the hand with the cursor and selection marked
func (m *TUIModel) renderHand() string {
	if len(m.view.Hand) == 0 {
		return InfoStyle.Render("(no cards)")
	}
	parts := make([]string, len(m.view.Hand))
	for i, c := range m.view.Hand {
		label := c.String()
		style := cardStyle(c)
		if m.selected[c.ID()] {
			label = "*" + label
			style = style.Inherit(SelectedStyle)
		}
		if i == m.cursor {
			style = style.Inherit(CursorStyle)
		}
		parts[i] = style.Render(label)
	}
	return strings.Join(parts, " ")
}

func (m *TUIModel) renderCard(c cards.Card) string {
	return cardStyle(c).Render(c.String())
}

func (m *TUIModel) renderCards(cs []cards.Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = m.renderCard(c)
	}
	return strings.Join(parts, " ")
}

// Log returns a copy of the game log
func (m *TUIModel) Log() []string {
	return slices.Clone(m.gameLog)
}

// Run starts the program and blocks until the user quits
func Run(table Table, logger *log.Logger, opts ...tea.ProgramOption) error {
	model := NewTUIModel(table, logger)
	program := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Select    key.Binding
	Draw      key.Binding
	Discard   key.Binding
	Meld      key.Binding
	Arrange   key.Binding
	SortSuit  key.Binding
	SortRank  key.Binding
	Showdown  key.Binding
	NewGame   key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "move card left")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "move card right")),
		Select:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		Draw:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "draw")),
		Discard:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard")),
		Meld:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "meld selected")),
		Arrange:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-arrange")),
		SortSuit:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by suit")),
		SortRank:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "sort by rank")),
		Showdown:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "showdown")),
		NewGame:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
		ScrollUp:  key.NewBinding(key.WithKeys("up", "pgup"), key.WithHelp("↑/pgup", "scroll log")),
		ScrollDn:  key.NewBinding(key.WithKeys("down", "pgdown"), key.WithHelp("↓/pgdn", "scroll log")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Draw, k.Discard, k.Select, k.Meld, k.Arrange, k.NewGame, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.MoveLeft, k.MoveRight, k.Select},
		{k.Draw, k.Discard, k.Meld, k.Showdown},
		{k.Arrange, k.SortSuit, k.SortRank},
		{k.ScrollUp, k.ScrollDn, k.NewGame, k.Help, k.Quit},
	}
}

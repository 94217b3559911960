package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/tongits/cards"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	CursorStyle = lipgloss.NewStyle().Reverse(true)

	SelectedStyle = lipgloss.NewStyle().Underline(true)

	PlayerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	CurrentPlayerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Background colours for cards the grouper placed in the same meld.
var groupColors = []lipgloss.Color{
	"#2E4A62",
	"#4A2E62",
	"#2E6240",
	"#62552E",
}

// cardStyle colours a card by suit, and by meld group when it has one.
func cardStyle(c cards.Card) lipgloss.Style {
	style := BlackCardStyle
	if c.Suit.IsRed() {
		style = RedCardStyle
	}
	if c.Group > 0 {
		style = style.Background(groupColors[(c.Group-1)%len(groupColors)])
	}
	return style
}

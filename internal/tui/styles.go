package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/setgame/internal/deck"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	StatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
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

	KeyLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 3).
			Align(lipgloss.Center)
)

// Card frames. The border colour is set per card.
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(cardWidth).
			Align(lipgloss.Center)

	selectedCardStyle = cardStyle.
				Border(lipgloss.ThickBorder()).
				Background(lipgloss.Color("#3C3C3C"))

	emptySlotStyle = cardStyle.
			BorderForeground(lipgloss.Color("#303030"))
)

// colorStyles maps card colours to symbol styles
var colorStyles = map[deck.Color]lipgloss.Style{
	deck.Red:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	deck.Green: lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECB71")),
	deck.Blue:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5DA9E9")),
}

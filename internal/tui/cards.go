package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/game"
)

const (
	cardWidth = 9
	// gridRows is fixed; extra classic cards add columns
	gridRows = 3
)

// glyphs is indexed by shape then fill
var glyphs = [3][3]string{
	deck.Round:     {deck.Empty: "○", deck.Dashed: "◍", deck.Filled: "●"},
	deck.Triangle:  {deck.Empty: "△", deck.Dashed: "◬", deck.Filled: "▲"},
	deck.Rectangle: {deck.Empty: "□", deck.Dashed: "▨", deck.Filled: "■"},
}

// Glyph returns the symbol drawn for a card's shape and fill
func Glyph(c deck.Card) string {
	return glyphs[c.Shape()][c.Fill()]
}

// Symbols returns the card face: its glyph repeated count times
func Symbols(c deck.Card) string {
	g := Glyph(c)
	parts := make([]string, c.Count().Int())
	for i := range parts {
		parts[i] = g
	}
	return strings.Join(parts, " ")
}

// slotKey returns the key that selects slot i
func slotKey(i int) string {
	return string(rune('a' + i))
}

// renderSlot draws one table slot
func renderSlot(v game.SlotView) string {
	label := KeyLabelStyle.Render(slotKey(v.Index))
	if !v.HasCard() {
		return emptySlotStyle.Render(label + "\n\n")
	}

	colour := colorStyles[v.Card.Color()]
	face := colour.Render(Symbols(v.Card))
	if v.Removed || !v.Placed {
		face = colour.Faint(true).Render(Symbols(v.Card))
	}

	style := cardStyle
	if v.Selected {
		style = selectedCardStyle
	}
	style = style.BorderForeground(colour.GetForeground())
	return style.Render(label + "\n" + face + "\n")
}

// renderTable lays the slots out column by column, three to a column
func renderTable(slots []game.SlotView) string {
	if len(slots) == 0 {
		return ""
	}
	cols := (len(slots) + gridRows - 1) / gridRows
	rows := make([]string, gridRows)
	for r := range gridRows {
		var cells []string
		for c := range cols {
			if i := c*gridRows + r; i < len(slots) {
				cells = append(cells, renderSlot(slots[i]))
			}
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

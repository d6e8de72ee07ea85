package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/game"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// no set anywhere on the table
	setFreeTable = "1reo 2reo 1rdo 2rdo 1ret 2ret 1rdt 2rdt 1geo 2geo 1gdo 2gdo"
	// exactly one set, in slots 0-2
	oneSetTable = "1reo 2geo 3beo 2reo 1rdo 2rdo 1ret 2ret 1rdt 2rdt 3geo 1gdo"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// fullDeck puts the table cards first and the rest of the deck after them
// in canonical order
func fullDeck(table string) *deck.Deck {
	cards := deck.MustParseCards(table)
	for _, c := range deck.AllCards() {
		if !slices.Contains(cards, c) {
			cards = append(cards, c)
		}
	}
	return deck.NewDeckFromCards(cards)
}

// newModel starts a classic game on d and wires its events straight into
// the model, the way the program would deliver them
func newModel(t *testing.T, d *deck.Deck) (*Model, game.Game) {
	t.Helper()
	g, err := game.New(game.VariantClassic, nil, game.WithDeck(d), game.WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, g.Start(ctx))
	t.Cleanup(g.Close)

	m := New(g, quietLogger())
	unsubscribe := g.Subscribe(NewBridge(func(msg tea.Msg) { m.Update(msg) }))
	t.Cleanup(unsubscribe)
	return m, g
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestSymbols(t *testing.T) {
	tests := []struct {
		card  string
		glyph string
		face  string
	}{
		{"1reo", "○", "○"},
		{"2gdt", "◬", "◬ ◬"},
		{"3bfr", "■", "■ ■ ■"},
		{"3rfo", "●", "● ● ●"},
	}

	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			card, err := deck.ParseCard(tt.card)
			require.NoError(t, err)
			assert.Equal(t, tt.glyph, Glyph(card))
			assert.Equal(t, tt.face, Symbols(card))
		})
	}
}

func TestRenderTable(t *testing.T) {
	cards := deck.MustParseCards(oneSetTable)
	slots := make([]game.SlotView, len(cards))
	for i, c := range cards {
		slots[i] = game.SlotView{Index: i, Card: c, Phase: game.PhaseReady, Placed: true}
	}

	out := renderTable(slots)
	for i := range slots {
		assert.Contains(t, out, slotKey(i))
	}
	assert.Contains(t, out, "○ ○ ○")

	// three rows of bordered cards, five lines each
	assert.Equal(t, 3*5, lipgloss.Height(out))

	assert.Empty(t, renderTable(nil))
}

func TestModelSelection(t *testing.T) {
	m, g := newModel(t, fullDeck(oneSetTable))

	press(m, "a", "d")
	selected := g.Snapshot().Selected()
	require.Len(t, selected, 2)
	assert.Equal(t, 0, selected[0].Index)
	assert.Equal(t, 3, selected[1].Index)

	press(m, " ")
	assert.Empty(t, g.Snapshot().Selected())

	// keys past the end of the table are ignored
	press(m, "z")
	assert.Empty(t, g.Snapshot().Selected())
}

func TestModelFindsSet(t *testing.T) {
	m, _ := newModel(t, fullDeck(oneSetTable))

	press(m, "a", "b", "c")
	assert.Equal(t, 1, m.snapshot.SetCount)
	assert.Contains(t, m.status, "Set!")
	assert.Contains(t, m.View(), "sets 1")

	// the found cards were replaced from the deck
	assert.Equal(t, deck.MustParseCards("3reo 3rdo 1rfo"), []deck.Card{
		m.snapshot.Slots[0].Card, m.snapshot.Slots[1].Card, m.snapshot.Slots[2].Card,
	})
}

func TestModelMiss(t *testing.T) {
	m, _ := newModel(t, fullDeck(oneSetTable))

	press(m, "d", "e", "f")
	assert.Equal(t, 1, m.snapshot.FailedAttempts)
	assert.Contains(t, m.status, "Not a set")
	assert.Empty(t, m.snapshot.Selected())
}

func TestModelHint(t *testing.T) {
	m, _ := newModel(t, fullDeck(oneSetTable))

	press(m, "?")
	assert.Equal(t, 1, m.snapshot.FailedAttempts)
	assert.Contains(t, m.status, "Hint:")
	require.Len(t, m.snapshot.Selected(), 1)
	assert.Equal(t, 0, m.snapshot.Selected()[0].Index)
}

func TestModelDeal(t *testing.T) {
	t.Run("refused while a set is on the table", func(t *testing.T) {
		m, _ := newModel(t, fullDeck(oneSetTable))

		press(m, "+")
		assert.Contains(t, m.status, "still a set")
		assert.Len(t, m.snapshot.Slots, game.TableCapacity)
		assert.Equal(t, "a-l", m.keys.Select.Help().Key)
	})

	t.Run("adds a column when the table is stuck", func(t *testing.T) {
		m, _ := newModel(t, fullDeck(setFreeTable))

		press(m, "+")
		assert.Contains(t, m.status, "Dealt 3 more cards")
		assert.Len(t, m.snapshot.Slots, game.TableCapacity+3)
		assert.Contains(t, m.View(), slotKey(14))
		assert.Equal(t, "a-o", m.keys.Select.Help().Key)
	})
}

func TestModelExhausted(t *testing.T) {
	m, _ := newModel(t, deck.NewDeckFromCards(deck.MustParseCards(setFreeTable)))

	press(m, " ")
	result, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, game.VariantClassic, result.Variant)
	assert.Contains(t, m.View(), "Game over")

	// any key leaves once the dialog is up
	assert.NotNil(t, press(m, "a"))
	assert.Empty(t, m.View())
}

func TestModelGameOverEvent(t *testing.T) {
	m, _ := newModel(t, fullDeck(oneSetTable))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m.Update(EventMsg{Event: game.GameOverEvent{Result: game.Result{SetCount: 4, FailedAttempts: 2, Elapsed: 75}}})

	view := m.View()
	assert.Contains(t, view, "Game over")
	assert.Contains(t, view, "Sets found: 4")
	assert.Contains(t, view, "Misses: 2")
	assert.Contains(t, view, "01:15")
}

func TestModelQuit(t *testing.T) {
	m, _ := newModel(t, fullDeck(oneSetTable))

	cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestBridgeDropsCues(t *testing.T) {
	var msgs []tea.Msg
	b := NewBridge(func(msg tea.Msg) { msgs = append(msgs, msg) })

	b.OnEvent(game.CueEvent{Cue: game.CueDeal})
	b.OnEvent(game.TickEvent{Elapsed: 1})

	require.Len(t, msgs, 1)
	assert.Equal(t, EventMsg{Event: game.TickEvent{Elapsed: 1}}, msgs[0])
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	bell := NewBell(&buf, quietLogger())

	bell.OnEvent(game.CueEvent{Cue: game.CueTick})
	bell.OnEvent(game.CueEvent{Cue: game.CueSelect})
	assert.Empty(t, buf.String())

	bell.OnEvent(game.CueEvent{Cue: game.CueSuccess})
	bell.OnEvent(game.CueEvent{Cue: game.CueError})
	bell.OnEvent(game.TickEvent{})
	assert.Equal(t, "\a\a", buf.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("terminal closed") }

func TestBellLogsWriteFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	bell := NewBell(brokenWriter{}, logger)

	bell.OnEvent(game.CueEvent{Cue: game.CueError})
	assert.Contains(t, logs.String(), "failed to ring bell")
	assert.Contains(t, logs.String(), "terminal closed")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", formatElapsed(0))
	assert.Equal(t, "02:05", formatElapsed(125))
}

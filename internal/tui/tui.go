// Package tui is the terminal front end: a bubbletea program that renders
// a game.Game snapshot and turns key presses into player actions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/setgame/internal/game"
)

// EventMsg carries a game event into the bubbletea loop
type EventMsg struct {
	Event game.Event
}

// Model is the bubbletea model for one session
type Model struct {
	game   game.Game
	logger *log.Logger

	keys  keyMap
	help  help.Model
	meter progress.Model

	snapshot game.Snapshot
	status   string
	result   *game.Result

	width    int
	height   int
	quitting bool
}

// New creates a model for g. The game should already be started.
func New(g game.Game, logger *log.Logger) *Model {
	snap := g.Snapshot()
	return &Model{
		game:     g,
		logger:   logger.WithPrefix("tui"),
		keys:     newKeyMap(string(snap.Variant), len(snap.Slots)),
		help:     help.New(),
		meter:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		snapshot: snap,
		status:   "Find three cards that form a set.",
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case EventMsg:
		m.handleEvent(msg.Event)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case m.result != nil:
		// any other key closes the game over dialog
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Hint):
		if !m.game.Hint() {
			m.status = "No set on the table."
		}
	case key.Matches(msg, m.keys.Deal):
		m.game.Deal()
	case key.Matches(msg, m.keys.Unselect):
		m.game.UnselectAll()
	case key.Matches(msg, m.keys.Select):
		i := int(msg.Runes[0] - 'a')
		if !m.game.SelectSlot(i) {
			m.logger.Debug("selection ignored", "slot", i)
		}
	}
	m.refresh()
	return nil
}

// refresh re-reads the snapshot. A classic session has no game over
// event; it ends when the table is exhausted.
func (m *Model) refresh() {
	m.snapshot = m.game.Snapshot()
	m.keys.setSlots(len(m.snapshot.Slots))
	if m.result == nil && m.snapshot.Exhausted {
		result := m.snapshot.Result()
		m.result = &result
	}
}

func (m *Model) handleEvent(event game.Event) {
	switch e := event.(type) {
	case game.SetFoundEvent:
		m.status = SuccessStyle.Render(fmt.Sprintf("Set! %s", e.Set))
	case game.SetFailedEvent:
		m.status = ErrorStyle.Render(fmt.Sprintf("Not a set: %s", e.Cards))
	case game.HintEvent:
		if e.Found {
			m.status = WarningStyle.Render(fmt.Sprintf("Hint: %s is part of a set", e.Card.Name()))
		} else {
			m.status = WarningStyle.Render("No set on the table.")
		}
	case game.ReDealEvent:
		if e.Penalized {
			m.status = ErrorStyle.Render("Re-dealt while a set was available.")
		} else {
			m.status = "Re-dealt."
		}
	case game.CardsAddedEvent:
		if e.Refused {
			m.status = ErrorStyle.Render("There is still a set on the table.")
		} else {
			m.status = fmt.Sprintf("Dealt %d more cards.", len(e.Cards))
		}
	case game.GameOverEvent:
		result := e.Result
		m.result = &result
	}
	m.refresh()
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		renderTable(m.snapshot.Slots),
		"",
		m.status,
		m.help.View(m.keys),
	)

	if m.result != nil {
		dialog := m.renderGameOver()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
		}
		return body + "\n\n" + dialog
	}
	return body
}

func (m *Model) renderHeader() string {
	s := m.snapshot
	var parts []string
	parts = append(parts, HeaderStyle.Render("SET"))

	if s.Variant == game.VariantTimed {
		percent := float64(s.Meter) / float64(game.StartingMeter)
		parts = append(parts, m.meter.ViewAs(min(max(percent, 0), 1)))
		parts = append(parts, StatStyle.Render(fmt.Sprintf("%3d", s.Meter)))
		parts = append(parts, InfoStyle.Render(formatElapsed(s.Elapsed)))
	}
	parts = append(parts,
		StatStyle.Render(fmt.Sprintf("sets %d", s.SetCount)),
		InfoStyle.Render(fmt.Sprintf("misses %d", s.FailedAttempts)),
		InfoStyle.Render(fmt.Sprintf("cards %d", s.DeckSize+s.TableSize)),
	)
	return strings.Join(parts, "  ")
}

func (m *Model) renderGameOver() string {
	r := m.result
	text := fmt.Sprintf("Game over\n\nSets found: %d\nMisses: %d\nTime: %s\n\n%s",
		r.SetCount, r.FailedAttempts, formatElapsed(r.Elapsed),
		InfoStyle.Render("press any key to exit"))
	return DialogStyle.Render(text)
}

// Result returns the session result once the game is over
func (m *Model) Result() (game.Result, bool) {
	if m.result == nil {
		return game.Result{}, false
	}
	return *m.result, true
}

func formatElapsed(ticks int) string {
	return fmt.Sprintf("%02d:%02d", ticks/60, ticks%60)
}

// Run shows g until the player quits or ctx is cancelled
func Run(ctx context.Context, g game.Game, logger *log.Logger, opts ...tea.ProgramOption) (*Model, error) {
	model := New(g, logger)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, opts...)

	unsubscribe := g.Subscribe(NewBridge(program.Send))
	defer unsubscribe()

	if _, err := program.Run(); err != nil {
		return model, fmt.Errorf("tui: %w", err)
	}
	return model, nil
}

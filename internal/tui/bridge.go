package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/setgame/internal/game"
)

// Bridge forwards game events into a bubbletea program. Cues are for
// audio only and are not forwarded.
type Bridge struct {
	send func(tea.Msg)
}

// NewBridge creates a bridge that delivers messages with send, usually
// (*tea.Program).Send
func NewBridge(send func(tea.Msg)) *Bridge {
	return &Bridge{send: send}
}

// OnEvent implements game.EventSubscriber
func (b *Bridge) OnEvent(event game.Event) {
	if event.EventType() == game.EventTypeCue {
		return
	}
	b.send(EventMsg{Event: event})
}

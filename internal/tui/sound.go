package tui

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/setgame/internal/game"
)

// Bell plays the success and error cues as the terminal bell
type Bell struct {
	w      io.Writer
	logger *log.Logger
}

// NewBell creates a bell that writes to w
func NewBell(w io.Writer, logger *log.Logger) *Bell {
	return &Bell{w: w, logger: logger.WithPrefix("bell")}
}

// OnEvent implements game.EventSubscriber
func (b *Bell) OnEvent(event game.Event) {
	cue, ok := event.(game.CueEvent)
	if !ok {
		return
	}
	switch cue.Cue {
	case game.CueSuccess, game.CueError:
		if _, err := b.w.Write([]byte("\a")); err != nil {
			b.logger.Debug("failed to ring bell", "cue", cue.Cue, "error", err)
		}
	}
}

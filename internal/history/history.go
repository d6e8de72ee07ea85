// Package history records what happened in a session and writes it as a
// small TOML document. A history plus its seed is enough to replay and
// review a game.
package history

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/lox/setgame/internal/fileutil"
)

// History is one recorded session
type History struct {
	Session    string         `toml:"session"`
	Variant    string         `toml:"variant"`
	Seed       int64          `toml:"seed"`
	Started    string         `toml:"started,omitempty"` // RFC 3339
	Sets       int            `toml:"sets"`
	Misses     int            `toml:"misses"`
	Elapsed    int            `toml:"elapsed"` // ticks
	Meter      int            `toml:"meter,omitempty"`
	GameOver   bool           `toml:"game_over"`
	DeckLeft   int            `toml:"deck_left"`
	FinalTable []string       `toml:"final_table"`
	Actions    []string       `toml:"actions"`
	Metadata   map[string]any `toml:"metadata,omitempty"`
}

// Encode writes the history to w in TOML
func Encode(w io.Writer, h *History) error {
	if h == nil {
		return fmt.Errorf("history: nil history")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(h)
}

// Decode reads a history written by Encode
func Decode(r io.Reader) (*History, error) {
	var h History
	if _, err := toml.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &h, nil
}

// Write stores the history atomically at filename
func Write(filename string, h *History) error {
	return fileutil.WriteAtomic(filename, 0o644, func(w io.Writer) error {
		return Encode(w, h)
	})
}

// Filename returns the file a session's history is stored under in dir
func Filename(dir, session string) string {
	return filepath.Join(dir, session+".toml")
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/setgame/internal/deck"
	"github.com/lox/setgame/internal/evaluator"
	"github.com/lox/setgame/internal/randutil"
)

type SolveCmd struct {
	Cards []string `arg:"" optional:"" help:"Card codes: count, colour, fill, shape (e.g. 1reo 2gdt 3bfr)"`
	Deal  int      `short:"d" help:"Deal this many cards from a shuffled deck instead"`
	Seed  *int64   `short:"s" help:"Seed for --deal"`
}

func (c *SolveCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *SolveCmd) run(w io.Writer) error {
	cards, err := c.cards(w)
	if err != nil {
		return err
	}

	if len(cards) == 2 {
		third := evaluator.Complete(cards[0], cards[1])
		fmt.Fprintf(w, "%s completes the set (%s)\n", third, third.Name())
		return nil
	}
	if len(cards) < evaluator.SetSize {
		return fmt.Errorf("need at least 2 cards, got %d", len(cards))
	}

	sets := evaluator.FindAllSets(cards)
	if len(sets) == 0 {
		fmt.Fprintf(w, "No set among %d cards\n", len(cards))
		return nil
	}
	fmt.Fprintf(w, "%d set(s) among %d cards:\n", len(sets), len(cards))
	for _, set := range sets {
		fmt.Fprintf(w, "  %s\n", set)
	}
	return nil
}

func (c *SolveCmd) cards(w io.Writer) ([]deck.Card, error) {
	if c.Deal == 0 {
		return deck.ParseCards(strings.Join(c.Cards, " "))
	}
	if len(c.Cards) > 0 {
		return nil, fmt.Errorf("give either cards or --deal, not both")
	}
	if c.Deal < 0 || c.Deal > deck.NumCards {
		return nil, fmt.Errorf("--deal must be between 1 and %d, got %d", deck.NumCards, c.Deal)
	}

	seed := randutil.Seed(c.Seed)
	cards := deck.NewDeck(randutil.New(seed)).Draw(c.Deal)
	fmt.Fprintf(w, "Dealt (seed %d): %s\n", seed, deck.FormatCards(cards))
	return cards, nil
}

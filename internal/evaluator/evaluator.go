// Package evaluator judges triples of cards and searches a table for sets.
//
// A triple is a set when, for each of the four attributes independently,
// the three cards either all share the value or all differ. A single
// attribute with exactly two distinct values invalidates the triple.
package evaluator

import (
	"github.com/lox/setgame/internal/deck"
)

// SetSize is the number of cards in a set
const SetSize = 3

// Triple is an unordered group of three cards
type Triple [SetSize]deck.Card

// Cards returns the triple as a slice
func (t Triple) Cards() []deck.Card {
	return t[:]
}

// String returns the card codes separated by spaces
func (t Triple) String() string {
	return deck.FormatCards(t[:])
}

// Contains reports whether the card is part of the triple
func (t Triple) Contains(card deck.Card) bool {
	return t[0] == card || t[1] == card || t[2] == card
}

// IsSet reports whether cards form a valid set. Anything other than exactly
// three cards is never a set.
func IsSet(cards []deck.Card) bool {
	if len(cards) != SetSize {
		return false
	}
	a, b, c := cards[0].Attributes(), cards[1].Attributes(), cards[2].Attributes()
	for i := range deck.NumAttributes {
		if distinct(a[i], b[i], c[i]) == 2 {
			return false
		}
	}
	return true
}

// distinct counts the distinct values among three attribute values
func distinct(a, b, c uint8) int {
	switch {
	case a == b && b == c:
		return 1
	case a != b && b != c && a != c:
		return 3
	default:
		return 2
	}
}

// FindAllSets enumerates every set among cards. Each unordered triple is
// reported once, in index order (i < j < k), and a card is never paired
// with itself even if it appears twice in the input.
func FindAllSets(cards []deck.Card) []Triple {
	var sets []Triple
	n := len(cards)
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			if cards[i] == cards[j] {
				continue
			}
			for k := j + 1; k < n; k++ {
				if cards[k] == cards[i] || cards[k] == cards[j] {
					continue
				}
				t := Triple{cards[i], cards[j], cards[k]}
				if IsSet(t[:]) {
					sets = append(sets, t)
				}
			}
		}
	}
	return sets
}

// FirstSet returns the first set FindAllSets would report, stopping as soon
// as one is found.
func FirstSet(cards []deck.Card) (Triple, bool) {
	n := len(cards)
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			if cards[i] == cards[j] {
				continue
			}
			for k := j + 1; k < n; k++ {
				if cards[k] == cards[i] || cards[k] == cards[j] {
					continue
				}
				t := Triple{cards[i], cards[j], cards[k]}
				if IsSet(t[:]) {
					return t, true
				}
			}
		}
	}
	return Triple{}, false
}

// HasSet reports whether any set exists among cards
func HasSet(cards []deck.Card) bool {
	_, ok := FirstSet(cards)
	return ok
}

// Complete returns the unique card that forms a set with a and b
func Complete(a, b deck.Card) deck.Card {
	x, y := a.Attributes(), b.Attributes()
	var z [deck.NumAttributes]uint8
	for i := range deck.NumAttributes {
		if x[i] == y[i] {
			z[i] = x[i]
		} else {
			z[i] = 3 - x[i] - y[i]
		}
	}
	return deck.NewCard(deck.Color(z[0]), deck.Shape(z[1]), deck.Fill(z[2]), deck.Count(z[3]))
}

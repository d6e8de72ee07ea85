package deck

import (
	rand "math/rand/v2"
	"slices"
)

// Deck holds the cards that are not on the table
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// AllCards returns every card in canonical order
func AllCards() []Card {
	cards := make([]Card, 0, NumCards)
	for color := Red; color <= Blue; color++ {
		for shape := Round; shape <= Rectangle; shape++ {
			for fill := Empty; fill <= Filled; fill++ {
				for count := One; count <= Three; count++ {
					cards = append(cards, NewCard(color, shape, fill, count))
				}
			}
		}
	}
	return cards
}

// NewDeck creates a full 81-card deck shuffled with the given RNG
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{
		cards: AllCards(),
		rng:   rng,
	}
	d.Shuffle()
	return d
}

// NewDeckFromCards creates a deck with a fixed card order. The deck has no
// RNG; Shuffle is a no-op on it.
func NewDeckFromCards(cards []Card) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

// Shuffle randomizes the order of the cards using Fisher-Yates
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes n cards from the front of the deck. It returns an empty slice
// when n is not positive or exceeds the cards remaining; draws never partially
// succeed.
func (d *Deck) Draw(n int) []Card {
	if n <= 0 || n > len(d.cards) {
		return []Card{}
	}
	drawn := slices.Clone(d.cards[:n])
	d.cards = d.cards[n:]
	return drawn
}

// Insert appends a card to the back of the deck unless it is already present.
// It reports whether the card was added.
func (d *Deck) Insert(card Card) bool {
	if !card.Valid() || d.Contains(card) {
		return false
	}
	d.cards = append(d.cards, card)
	return true
}

// Contains reports whether the card is in the deck
func (d *Deck) Contains(card Card) bool {
	return slices.Contains(d.cards, card)
}

// Size returns the number of cards left in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the remaining cards in draw order
func (d *Deck) Cards() []Card {
	return slices.Clone(d.cards)
}

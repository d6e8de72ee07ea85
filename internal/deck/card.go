package deck

import (
	"fmt"
	"strings"
)

// Color is the colour of the symbols on a card
type Color uint8

const (
	Red Color = iota
	Green
	Blue
)

// String returns the single-letter code of a colour
func (c Color) String() string {
	switch c {
	case Red:
		return "r"
	case Green:
		return "g"
	case Blue:
		return "b"
	default:
		return "?"
	}
}

// Name returns the long name of a colour
func (c Color) Name() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// Shape is the symbol drawn on a card
type Shape uint8

const (
	Round Shape = iota
	Triangle
	Rectangle
)

// String returns the single-letter code of a shape
func (s Shape) String() string {
	switch s {
	case Round:
		return "o"
	case Triangle:
		return "t"
	case Rectangle:
		return "r"
	default:
		return "?"
	}
}

// Name returns the long name of a shape
func (s Shape) Name() string {
	switch s {
	case Round:
		return "round"
	case Triangle:
		return "triangle"
	case Rectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Fill is the shading of the symbols on a card
type Fill uint8

const (
	Empty Fill = iota
	Dashed
	Filled
)

// String returns the single-letter code of a fill
func (f Fill) String() string {
	switch f {
	case Empty:
		return "e"
	case Dashed:
		return "d"
	case Filled:
		return "f"
	default:
		return "?"
	}
}

// Name returns the long name of a fill
func (f Fill) Name() string {
	switch f {
	case Empty:
		return "empty"
	case Dashed:
		return "dashed"
	case Filled:
		return "filled"
	default:
		return "unknown"
	}
}

// Count is the number of symbols on a card
type Count uint8

const (
	One Count = iota
	Two
	Three
)

// String returns the digit for a count
func (n Count) String() string {
	if n > Three {
		return "?"
	}
	return string(rune('1' + n))
}

// Name returns the long name of a count
func (n Count) Name() string {
	switch n {
	case One:
		return "one"
	case Two:
		return "two"
	case Three:
		return "three"
	default:
		return "unknown"
	}
}

// Int returns the number of symbols (1-3)
func (n Count) Int() int {
	return int(n) + 1
}

// NumAttributes is the number of independent attributes on a card
const NumAttributes = 4

// NumCards is the size of a complete deck (3^4)
const NumCards = 81

// Card is a compact card value. The index 0..80 packs the four attributes in
// base 3 as color*27 + shape*9 + fill*3 + count. Every combination appears
// once in a deck, so two equal Card values are the same physical card.
type Card uint8

// NewCard creates a card from its attributes
func NewCard(color Color, shape Shape, fill Fill, count Count) Card {
	return Card(uint8(color)*27 + uint8(shape)*9 + uint8(fill)*3 + uint8(count))
}

// Color returns the card's colour
func (c Card) Color() Color { return Color(c / 27) }

// Shape returns the card's shape
func (c Card) Shape() Shape { return Shape(c / 9 % 3) }

// Fill returns the card's fill
func (c Card) Fill() Fill { return Fill(c / 3 % 3) }

// Count returns the card's symbol count
func (c Card) Count() Count { return Count(c % 3) }

// Attributes returns the four attribute values in a fixed order
// (color, shape, fill, count) for generic comparisons.
func (c Card) Attributes() [NumAttributes]uint8 {
	return [NumAttributes]uint8{uint8(c.Color()), uint8(c.Shape()), uint8(c.Fill()), uint8(c.Count())}
}

// Valid reports whether the card index is inside the deck
func (c Card) Valid() bool {
	return c < NumCards
}

// String returns the four-letter code of the card, e.g. "2gdt"
func (c Card) String() string {
	if !c.Valid() {
		return "????"
	}
	return c.Count().String() + c.Color().String() + c.Fill().String() + c.Shape().String()
}

// Name returns a human readable description, e.g. "two green dashed triangles"
func (c Card) Name() string {
	shape := c.Shape().Name()
	if c.Count() != One {
		shape += "s"
	}
	return fmt.Sprintf("%s %s %s %s", c.Count().Name(), c.Color().Name(), c.Fill().Name(), shape)
}

// ParseCard parses a four-letter card code (count, color, fill, shape)
func ParseCard(s string) (Card, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 {
		return 0, fmt.Errorf("invalid card %q: want 4 characters", s)
	}

	var count Count
	switch s[0] {
	case '1':
		count = One
	case '2':
		count = Two
	case '3':
		count = Three
	default:
		return 0, fmt.Errorf("invalid card %q: bad count %q", s, s[0])
	}

	var color Color
	switch s[1] {
	case 'r':
		color = Red
	case 'g':
		color = Green
	case 'b':
		color = Blue
	default:
		return 0, fmt.Errorf("invalid card %q: bad color %q", s, s[1])
	}

	var fill Fill
	switch s[2] {
	case 'e':
		fill = Empty
	case 'd':
		fill = Dashed
	case 'f':
		fill = Filled
	default:
		return 0, fmt.Errorf("invalid card %q: bad fill %q", s, s[2])
	}

	var shape Shape
	switch s[3] {
	case 'o':
		shape = Round
	case 't':
		shape = Triangle
	case 'r':
		shape = Rectangle
	default:
		return 0, fmt.Errorf("invalid card %q: bad shape %q", s, s[3])
	}

	return NewCard(color, shape, fill, count), nil
}

// ParseCards parses whitespace or comma separated card codes.
// Codes may also be concatenated ("1reo2gdt").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	cards := []Card{}
	for _, field := range fields {
		if len(field)%4 != 0 {
			return nil, fmt.Errorf("invalid card list %q: %q is not a multiple of 4 characters", s, field)
		}
		for i := 0; i < len(field); i += 4 {
			card, err := ParseCard(field[i : i+4])
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins card codes with spaces
func FormatCards(cards []Card) string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return strings.Join(codes, " ")
}

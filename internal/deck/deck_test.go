package deck

import (
	"slices"
	"testing"

	"github.com/lox/setgame/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllCardsIsCartesianProduct(t *testing.T) {
	t.Parallel()
	cards := AllCards()
	require.Len(t, cards, NumCards)

	seen := make(map[[NumAttributes]uint8]bool)
	for _, c := range cards {
		attrs := c.Attributes()
		assert.False(t, seen[attrs], "duplicate card %s", c)
		seen[attrs] = true
	}
	assert.Len(t, seen, 3*3*3*3)
}

func TestNewDeckIsPermutation(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(42))
	require.Equal(t, NumCards, d.Size())

	got := d.Cards()
	assert.NotEqual(t, AllCards(), got, "deck should be shuffled")

	slices.Sort(got)
	assert.Equal(t, AllCards(), got)
}

func TestNewDeckRequiresRNG(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewDeck(nil) })
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	t.Parallel()
	a := NewDeck(randutil.New(7))
	b := NewDeck(randutil.New(7))
	c := NewDeck(randutil.New(8))
	assert.Equal(t, a.Cards(), b.Cards())
	assert.NotEqual(t, a.Cards(), c.Cards())
}

func TestShuffleHasNoObviousBias(t *testing.T) {
	t.Parallel()
	// Count where the first canonical card lands. Each of the 81 positions
	// expects trials/81 hits; allow a generous band so the test is stable.
	const trials = 81 * 200
	rng := randutil.New(1234)
	positions := make([]int, NumCards)
	target := AllCards()[0]
	for range trials {
		d := NewDeck(rng)
		positions[slices.Index(d.Cards(), target)]++
	}

	expected := trials / NumCards
	for pos, hits := range positions {
		assert.InDelta(t, expected, hits, float64(expected)/2, "position %d", pos)
	}
}

func TestDraw(t *testing.T) {
	t.Parallel()
	ordered := AllCards()

	t.Run("draws from the front", func(t *testing.T) {
		d := NewDeckFromCards(ordered)
		got := d.Draw(3)
		assert.Equal(t, ordered[:3], got)
		assert.Equal(t, NumCards-3, d.Size())
		assert.False(t, d.Contains(ordered[0]))
	})

	t.Run("zero and negative draw nothing", func(t *testing.T) {
		d := NewDeckFromCards(ordered)
		assert.Empty(t, d.Draw(0))
		assert.Empty(t, d.Draw(-2))
		assert.Equal(t, NumCards, d.Size())
	})

	t.Run("draw beyond remaining is all or nothing", func(t *testing.T) {
		d := NewDeckFromCards(ordered[:2])
		got := d.Draw(3)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, 2, d.Size())

		assert.Len(t, d.Draw(2), 2)
		assert.True(t, d.IsEmpty())
	})
}

func TestInsert(t *testing.T) {
	t.Parallel()
	d := NewDeckFromCards(AllCards())
	drawn := d.Draw(5)

	assert.False(t, d.Insert(d.Cards()[0]), "card already present")
	assert.Equal(t, NumCards-5, d.Size())

	assert.True(t, d.Insert(drawn[2]))
	assert.False(t, d.Insert(drawn[2]), "duplicate insert is ignored")
	assert.Equal(t, drawn[2], d.Cards()[d.Size()-1], "insert appends")

	assert.False(t, d.Insert(Card(NumCards)), "invalid card")
}

func TestDrawInsertRoundTrip(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(99))
	before := d.Size()

	drawn := d.Draw(12)
	require.Len(t, drawn, 12)
	for _, c := range drawn {
		d.Insert(c)
	}
	assert.Equal(t, before, d.Size())

	got := d.Cards()
	slices.Sort(got)
	assert.Equal(t, AllCards(), got)
}

func TestShuffleWithoutRNGIsNoop(t *testing.T) {
	t.Parallel()
	d := NewDeckFromCards(AllCards())
	d.Shuffle()
	assert.Equal(t, AllCards(), d.Cards())
}

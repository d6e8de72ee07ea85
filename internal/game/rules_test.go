package game

import (
	"testing"
	"time"

	"github.com/lox/setgame/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingsScale(t *testing.T) {
	t.Parallel()
	scaled := DefaultTimings().Scale(0.01)
	assert.Equal(t, 10*time.Millisecond, scaled.Tick)
	assert.Equal(t, 5*time.Millisecond, scaled.JudgeDelay)
	assert.Equal(t, time.Millisecond, scaled.DealStagger)
	assert.Equal(t, 1500*time.Microsecond, scaled.ReDealStagger)
	require.NoError(t, scaled.Validate())
}

func TestTimingsValidate(t *testing.T) {
	t.Parallel()
	require.NoError(t, DefaultTimings().Validate())
	require.NoError(t, instant().Validate())

	assert.Error(t, Timings{}.Validate())
	bad := DefaultTimings()
	bad.RemoveDelay = -time.Second
	assert.ErrorContains(t, bad.Validate(), "remove delay")
}

func TestParseVariant(t *testing.T) {
	t.Parallel()
	v, err := ParseVariant(" Timed ")
	require.NoError(t, err)
	assert.Equal(t, VariantTimed, v)

	v, err = ParseVariant("classic")
	require.NoError(t, err)
	assert.Equal(t, VariantClassic, v)

	_, err = ParseVariant("zen")
	assert.Error(t, err)
}

func TestNewSelectsVariant(t *testing.T) {
	t.Parallel()
	g, err := New(VariantTimed, randutil.New(1), WithLogger(testLogger()))
	require.NoError(t, err)
	assert.IsType(t, &Timed{}, g)

	g, err = New(VariantClassic, randutil.New(1))
	require.NoError(t, err)
	assert.IsType(t, &Classic{}, g)
	assert.Equal(t, VariantClassic, g.Snapshot().Variant)
	assert.NotEmpty(t, g.Snapshot().SessionID)

	_, err = New("zen", randutil.New(1))
	assert.Error(t, err)
}

func TestPhaseHoldsCard(t *testing.T) {
	t.Parallel()
	assert.False(t, PhaseEmpty.HoldsCard())
	assert.True(t, PhaseReady.HoldsCard())
	assert.True(t, PhasePending.HoldsCard())
	assert.True(t, PhaseRemoving.HoldsCard())
	assert.False(t, PhaseCleared.HoldsCard())
	assert.Equal(t, "removing", PhaseRemoving.String())
	assert.Equal(t, "game over", StateGameOver.String())
}

func TestSnapshotResult(t *testing.T) {
	t.Parallel()
	g, _, _ := newTimedForTest(t, oneSetTable, instant())
	g.SelectSlot(0)
	g.SelectSlot(1)
	g.SelectSlot(2)

	r := g.Snapshot().Result()
	assert.Equal(t, "test", r.SessionID)
	assert.Equal(t, VariantTimed, r.Variant)
	assert.Equal(t, 1, r.SetCount)
	assert.Equal(t, StartingMeter+SetReward, r.Meter)
	assert.Equal(t, 3, r.Discarded)
	assert.False(t, r.GameOver)
}

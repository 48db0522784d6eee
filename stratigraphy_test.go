package stratfilter_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/stratfilter"
)

func TestGenerateStratigraphy_Example(t *testing.T) {
	elev := stratfilter.Series{0, 2, 1, 3, 2}
	strat, err := stratfilter.GenerateStratigraphy(elev)
	require.NoError(t, err)

	assert.Equal(t, stratfilter.Series{0, 1, 1, 2, 2}, strat)
	assert.Equal(t, stratfilter.Series{0, 2, 1, 3, 2}, elev, "input must not be modified")
}

func TestGenerateStratigraphy_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	axis := mustAxis(t, 50, 1)

	for i := 0; i < 500; i++ {
		mean := rng.Float64()*2 - 1
		spread := rng.Float64() * 5
		elev, err := stratfilter.GenerateElevation(rng, mean, spread, axis, nil)
		require.NoError(t, err)
		strat, err := stratfilter.GenerateStratigraphy(elev)
		require.NoError(t, err)
		require.Len(t, strat, len(elev))

		nt := len(elev)
		assert.Equal(t, elev[nt-1], strat[nt-1], "terminal point is always preserved")
		for j := 0; j < nt; j++ {
			assert.LessOrEqual(t, strat[j], elev[j], "preserved record exceeds elevation at %d", j)
		}
		for j := 0; j < nt-1; j++ {
			assert.Equal(t, min(elev[j], strat[j+1]), strat[j], "suffix minimum broken at %d", j)
			assert.LessOrEqual(t, strat[j], strat[j+1], "stratigraphy decreases at %d", j)
		}
	}
}

func TestGenerateStratigraphy_SinglePoint(t *testing.T) {
	strat, err := stratfilter.GenerateStratigraphy(stratfilter.Series{3.5})
	require.NoError(t, err)
	assert.Equal(t, stratfilter.Series{3.5}, strat)
}

func TestGenerateStratigraphy_Empty(t *testing.T) {
	_, err := stratfilter.GenerateStratigraphy(nil)
	assert.True(t, errors.Is(err, stratfilter.ErrInvalidParameter))
}

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChanceBounds(t *testing.T) {
	got, err := Chance(0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.False(t, got, "p=0 should never hit")

	got, err = Chance(1, NewSeededRNG(1))
	require.NoError(t, err)
	assert.True(t, got, "p=1 should always hit")

	_, err = Chance(-0.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
	_, err = Chance(1.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
}

func TestChanceStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Chance(p, rng)
		require.NoError(t, err)
		if ok {
			hit++
		}
	}
	assert.InDelta(t, p, float64(hit)/n, 0.01)
}

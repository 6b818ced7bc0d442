package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/search"
)

func TestSampleIsSolvable(t *testing.T) {
	s := Sampler{Width: 12, Height: 8, Density: 30, Rand: rand.New(rand.NewSource(5))}

	for i := 0; i < 20; i++ {
		kb, attempts, err := s.Sample()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, attempts, 1)
		assert.Equal(t, 12, kb.Width())
		assert.Equal(t, 8, kb.Height())

		res, err := search.NewAStar(search.Manhattan).Search(kb.Start(), kb.Goal(), kb, search.Truth)
		require.NoError(t, err)
		assert.True(t, res.Found())
		assert.Equal(t, 0, kb.CountDetermined(), "samples carry no beliefs")
	}
}

func TestSampleIsReproducible(t *testing.T) {
	a := Sampler{Width: 9, Height: 9, Density: 25, Rand: rand.New(rand.NewSource(99))}
	b := Sampler{Width: 9, Height: 9, Density: 25, Rand: rand.New(rand.NewSource(99))}

	ka, na, err := a.Sample()
	require.NoError(t, err)
	kb, nb, err := b.Sample()
	require.NoError(t, err)

	assert.Equal(t, na, nb)
	assert.Equal(t, ka.String(), kb.String())
}

func TestSampleGivesUp(t *testing.T) {
	// a full wall is never solvable on a wide enough grid
	s := Sampler{Width: 6, Height: 6, Density: 100, MaxAttempts: 3, Rand: rand.New(rand.NewSource(1))}

	_, attempts, err := s.Sample()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsolvable))
	assert.Equal(t, 3, attempts)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestSampleRejectsBadInput(t *testing.T) {
	_, _, err := Sampler{Width: 4, Height: 4}.Sample()
	assert.True(t, errors.IsInvalidRequestError(err))

	_, _, err = Sampler{Width: 0, Height: 4, Rand: rand.New(rand.NewSource(1))}.Sample()
	assert.True(t, errors.IsInvalidRequestError(err))
}

package cv_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/engine/cv"
)

func TestGridCandidates(t *testing.T) {
	space := domain.SearchSpace{
		"b": {1, 2, 3},
		"a": {"x", "y"},
	}

	candidates, err := cv.GridCandidates(space)
	require.NoError(t, err)
	require.Len(t, candidates, 6)

	want := []domain.Params{
		{"a": "x", "b": 1},
		{"a": "x", "b": 2},
		{"a": "x", "b": 3},
		{"a": "y", "b": 1},
		{"a": "y", "b": 2},
		{"a": "y", "b": 3},
	}
	for i, c := range candidates {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, want[i], c.Params)
	}
}

func TestGridCandidates_SingleElement(t *testing.T) {
	candidates, err := cv.GridCandidates(domain.SearchSpace{"alpha": {0.1}})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 0, candidates[0].Index)
	assert.Equal(t, domain.Params{"alpha": 0.1}, candidates[0].Params)
}

func TestGridCandidates_Empty(t *testing.T) {
	_, err := cv.GridCandidates(domain.SearchSpace{})
	require.ErrorIs(t, err, domain.ErrEmptySearchSpace)

	_, err = cv.GridCandidates(domain.SearchSpace{"alpha": {}})
	require.ErrorIs(t, err, domain.ErrEmptySearchSpace)
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRandomCandidates(t *testing.T) {
	space := domain.SearchSpace{
		"a": {1, 2, 3, 4},
		"b": {"p", "q", "r"},
	}

	first, err := cv.RandomCandidates(space, 5, 42)
	require.NoError(t, err)
	second, err := cv.RandomCandidates(space, 5, 42)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	seen := map[int]bool{}
	grid, err := cv.GridCandidates(space)
	require.NoError(t, err)
	for _, c := range first {
		assert.False(t, seen[c.Index], "combination %d drawn twice", c.Index)
		seen[c.Index] = true
		assert.Equal(t, grid[c.Index].Params, c.Params)
	}

	all, err := cv.RandomCandidates(space, 12, 1)
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestRandomCandidates_TooManyIterations(t *testing.T) {
	_, err := cv.RandomCandidates(domain.SearchSpace{"a": {1, 2}}, 3, 0)
	require.ErrorIs(t, err, domain.ErrTooManyIterations)
	assert.Contains(t, err.Error(), "n_iters")

	_, err = cv.RandomCandidates(domain.SearchSpace{"a": {1, 2}}, 0, 0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

// decimalSpace has count parameters p0, p1, ... each taking the values 0..9, so a grid
// position written in decimal spells out the parameter values.
func decimalSpace(count int) domain.SearchSpace {
	space := domain.SearchSpace{}
	for i := range count {
		values := make([]any, 10)
		for v := range values {
			values[v] = v
		}
		space["p"+strconv.Itoa(i)] = values
	}
	return space
}

func TestRandomCandidates_LargeSpace(t *testing.T) {
	space := decimalSpace(9)
	require.Equal(t, 1_000_000_000, space.Size())

	first, err := cv.RandomCandidates(space, 20, 7)
	require.NoError(t, err)
	second, err := cv.RandomCandidates(space, 20, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	seen := map[int]bool{}
	keys := space.Keys()
	for _, c := range first {
		require.GreaterOrEqual(t, c.Index, 0)
		require.Less(t, c.Index, space.Size())
		assert.False(t, seen[c.Index], "combination %d drawn twice", c.Index)
		seen[c.Index] = true

		index := 0
		for _, key := range keys {
			index = index*10 + c.Params[key].(int)
		}
		assert.Equal(t, c.Index, index)
	}
}

func TestRandomCandidates_SpaceBeyondIntRange(t *testing.T) {
	space := decimalSpace(19)
	require.Equal(t, math.MaxInt, space.Size())

	first, err := cv.RandomCandidates(space, 5, 42)
	require.NoError(t, err)
	require.Len(t, first, 5)
	second, err := cv.RandomCandidates(space, 5, 42)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, c := range first {
		assert.Equal(t, -1, c.Index)
		assert.Len(t, c.Params, 19)
	}
}

func TestGridCandidates_TooLarge(t *testing.T) {
	_, err := cv.GridCandidates(decimalSpace(8))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

package cv

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

// MaxGridCombinations bounds the size of an exhaustive grid.
const MaxGridCombinations = 1 << 24

// Candidate is one hyper-parameter combination with its position in the full grid.
// Index is -1 when the grid has more than math.MaxInt combinations.
type Candidate struct {
	Index  int
	Params domain.Params
}

// ValidateSpace reports an empty space or a parameter without candidates.
func ValidateSpace(space domain.SearchSpace) error {
	if len(space) == 0 {
		err := zerr.Wrap(domain.ErrEmptySearchSpace, "search space has no parameters")
		return zerr.With(err, "parameter", "search_params")
	}
	for _, key := range space.Keys() {
		if len(space[key]) == 0 {
			err := zerr.Wrap(domain.ErrEmptySearchSpace, fmt.Sprintf("parameter %q has no candidate values", key))
			return zerr.With(zerr.With(err, "parameter", "search_params"), "key", key)
		}
	}
	return nil
}

// GridCandidates expands the full cross-product. Keys are ordered by name and the last key
// varies fastest.
func GridCandidates(space domain.SearchSpace) ([]Candidate, error) {
	if err := ValidateSpace(space); err != nil {
		return nil, err
	}
	size := space.Size()
	if size > MaxGridCombinations {
		err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("grid search over more than %d combinations, use random search", MaxGridCombinations))
		return nil, zerr.With(zerr.With(err, "parameter", "search_params"), "expected", fmt.Sprintf("<= %d combinations", MaxGridCombinations))
	}
	out := make([]Candidate, size)
	for i := range size {
		out[i] = Candidate{Index: i, Params: combination(space, i)}
	}
	return out, nil
}

// RandomCandidates draws n distinct combinations uniformly without replacement.
// The draw depends on seed only.
func RandomCandidates(space domain.SearchSpace, n int, seed int64) ([]Candidate, error) {
	if err := ValidateSpace(space); err != nil {
		return nil, err
	}
	size := space.Size()
	if n < 1 {
		err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("random search: n_iters must be >= 1, got %d", n))
		return nil, zerr.With(zerr.With(err, "parameter", "n_iters"), "expected", ">= 1")
	}
	if n > size {
		err := zerr.Wrap(domain.ErrTooManyIterations, fmt.Sprintf("random search: n_iters %d exceeds the %d distinct combinations", n, size))
		return nil, zerr.With(zerr.With(err, "parameter", "n_iters"), "expected", fmt.Sprintf("<= %d", size))
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	if size == math.MaxInt {
		return sampleCombinations(rng, space, n), nil
	}
	picks := sampleIndices(rng, size, n)
	out := make([]Candidate, n)
	for i, idx := range picks {
		out[i] = Candidate{Index: idx, Params: combination(space, idx)}
	}
	return out, nil
}

// sampleIndices draws n distinct values from [0, size) with Floyd's algorithm, then shuffles
// them so the evaluation order is random too.
func sampleIndices(rng *rand.Rand, size, n int) []int {
	chosen := make(map[int]struct{}, n)
	out := make([]int, 0, n)
	for j := size - n; j < size; j++ {
		pick := rng.IntN(j + 1)
		if _, dup := chosen[pick]; dup {
			pick = j
		}
		chosen[pick] = struct{}{}
		out = append(out, pick)
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// sampleCombinations draws every parameter independently and rejects repeats. It serves grids
// too large to index, where a repeat is vanishingly rare.
func sampleCombinations(rng *rand.Rand, space domain.SearchSpace, n int) []Candidate {
	keys := space.Keys()
	seen := make(map[string]struct{}, n)
	out := make([]Candidate, 0, n)
	positions := make([]string, len(keys))
	for len(out) < n {
		params := make(domain.Params, len(keys))
		for i, key := range keys {
			values := space[key]
			pos := rng.IntN(len(values))
			positions[i] = strconv.Itoa(pos)
			params[key] = values[pos]
		}
		id := strings.Join(positions, ",")
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Candidate{Index: -1, Params: params.Clone()})
	}
	return out
}

func combination(space domain.SearchSpace, index int) domain.Params {
	keys := space.Keys()
	params := make(domain.Params, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		values := space[keys[i]]
		params[keys[i]] = values[index%len(values)]
		index /= len(values)
	}
	return params.Clone()
}

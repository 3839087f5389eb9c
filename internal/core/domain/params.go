package domain

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Params is a set of hyper-parameter values keyed by parameter name.
// Pipeline parameters use the "step__param" form.
type Params map[string]any

// Clone returns a copy of the parameter set. Slice and map values are copied one level deep.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// String renders the parameters deterministically, e.g. "{c=1, penalty=l2}".
func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, k := range p.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SearchSpace maps a hyper-parameter name to its candidate values.
type SearchSpace map[string][]any

// Clone returns a deep copy of the search space.
func (s SearchSpace) Clone() SearchSpace {
	if s == nil {
		return nil
	}
	out := make(SearchSpace, len(s))
	for k, values := range s {
		cp := make([]any, len(values))
		for i, v := range values {
			cp[i] = cloneValue(v)
		}
		out[k] = cp
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (s SearchSpace) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Size returns the number of distinct combinations in the grid, saturating at math.MaxInt.
func (s SearchSpace) Size() int {
	if len(s) == 0 {
		return 0
	}
	for _, values := range s {
		if len(values) == 0 {
			return 0
		}
	}
	size := 1
	for _, values := range s {
		if size > math.MaxInt/len(values) {
			return math.MaxInt
		}
		size *= len(values)
	}
	return size
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return slices.Clone(t)
	case []float64:
		return slices.Clone(t)
	case []int:
		return slices.Clone(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

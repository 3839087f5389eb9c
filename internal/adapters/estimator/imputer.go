package estimator

import (
	"math"
	"slices"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"gonum.org/v1/gonum/stat"
)

// ImputerName is the registry name of Imputer.
const ImputerName = "imputer"

// Imputation strategies.
const (
	StrategyMean     = "mean"
	StrategyMedian   = "median"
	StrategyConstant = "constant"
)

// Imputer replaces NaN values column by column.
// A column without any observed value is left unchanged, so it fails the finiteness check downstream.
type Imputer struct {
	strategy  string
	fillValue float64

	columns []string
	fill    []float64
}

// NewImputer creates a mean imputer.
func NewImputer() *Imputer {
	return &Imputer{strategy: StrategyMean}
}

// Fit learns one fill value per column.
func (m *Imputer) Fit(x domain.Features, _ []int) error {
	m.columns = slices.Clone(x.Columns)
	m.fill = make([]float64, x.Width())
	for j := range m.fill {
		observed := make([]float64, 0, x.Len())
		for _, v := range x.Column(j) {
			if !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		m.fill[j] = m.fillFor(observed)
	}
	return nil
}

func (m *Imputer) fillFor(observed []float64) float64 {
	if m.strategy == StrategyConstant {
		return m.fillValue
	}
	if len(observed) == 0 {
		return math.NaN()
	}
	if m.strategy == StrategyMedian {
		slices.Sort(observed)
		mid := len(observed) / 2
		if len(observed)%2 == 1 {
			return observed[mid]
		}
		return (observed[mid-1] + observed[mid]) / 2
	}
	return stat.Mean(observed, nil)
}

// Transform returns a copy of x with missing values filled.
func (m *Imputer) Transform(x domain.Features) (domain.Features, error) {
	if m.fill == nil {
		return domain.Features{}, notFitted(ImputerName)
	}
	if err := checkWidth(ImputerName, x, len(m.fill)); err != nil {
		return domain.Features{}, err
	}
	out := x.Clone()
	for _, row := range out.Rows {
		for j, v := range row {
			if math.IsNaN(v) {
				row[j] = m.fill[j]
			}
		}
	}
	return out, nil
}

// Clone implements ports.Transformer.
func (m *Imputer) Clone() ports.Transformer {
	return &Imputer{strategy: m.strategy, fillValue: m.fillValue}
}

// Snapshot implements ports.TransformerSnapshotter.
func (m *Imputer) Snapshot() ports.Transformer {
	return &Imputer{
		strategy:  m.strategy,
		fillValue: m.fillValue,
		columns:   slices.Clone(m.columns),
		fill:      slices.Clone(m.fill),
	}
}

// SetParams accepts "strategy" (mean, median, constant) and "fill_value".
func (m *Imputer) SetParams(params domain.Params) error {
	for _, k := range params.Keys() {
		switch k {
		case "strategy":
			s, ok := params[k].(string)
			if !ok || !slices.Contains([]string{StrategyMean, StrategyMedian, StrategyConstant}, s) {
				return invalidParam(ImputerName, k, params[k], "one of mean, median, constant")
			}
			m.strategy = s
		case "fill_value":
			v, ok := toFloat(params[k])
			if !ok {
				return invalidParam(ImputerName, k, params[k], "a number")
			}
			m.fillValue = v
		default:
			return unknownParam(ImputerName, k, "strategy", "fill_value")
		}
	}
	return nil
}

// Params implements ports.Configurable.
func (m *Imputer) Params() domain.Params {
	return domain.Params{"strategy": m.strategy, "fill_value": m.fillValue}
}

// Describe implements ports.Describer.
func (m *Imputer) Describe() map[string]any {
	return map[string]any{"name": ImputerName, "params": m.Params()}
}

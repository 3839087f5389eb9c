package estimator

import (
	"slices"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"gonum.org/v1/gonum/stat"
)

// StandardScalerName is the registry name of StandardScaler.
const StandardScalerName = "standard_scaler"

// StandardScaler centers each column and scales it to unit variance.
// Columns with zero variance are only centered.
type StandardScaler struct {
	withMean bool
	withStd  bool

	mean  []float64
	scale []float64
}

// NewStandardScaler creates a scaler that centers and scales.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{withMean: true, withStd: true}
}

// Fit learns column means and population standard deviations.
func (s *StandardScaler) Fit(x domain.Features, _ []int) error {
	s.mean = make([]float64, x.Width())
	s.scale = make([]float64, x.Width())
	for j := range s.mean {
		m, std := stat.PopMeanStdDev(x.Column(j), nil)
		s.mean[j], s.scale[j] = m, std
		if !s.withMean {
			s.mean[j] = 0
		}
		if !s.withStd || std == 0 {
			s.scale[j] = 1
		}
	}
	return nil
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x domain.Features) (domain.Features, error) {
	if s.mean == nil {
		return domain.Features{}, notFitted(StandardScalerName)
	}
	if err := checkWidth(StandardScalerName, x, len(s.mean)); err != nil {
		return domain.Features{}, err
	}
	out := x.Clone()
	for _, row := range out.Rows {
		for j := range row {
			row[j] = (row[j] - s.mean[j]) / s.scale[j]
		}
	}
	return out, nil
}

// Clone implements ports.Transformer.
func (s *StandardScaler) Clone() ports.Transformer {
	return &StandardScaler{withMean: s.withMean, withStd: s.withStd}
}

// Snapshot implements ports.TransformerSnapshotter.
func (s *StandardScaler) Snapshot() ports.Transformer {
	return &StandardScaler{
		withMean: s.withMean,
		withStd:  s.withStd,
		mean:     slices.Clone(s.mean),
		scale:    slices.Clone(s.scale),
	}
}

// SetParams accepts the booleans "with_mean" and "with_std".
func (s *StandardScaler) SetParams(params domain.Params) error {
	for _, k := range params.Keys() {
		b, ok := params[k].(bool)
		switch k {
		case "with_mean":
			if !ok {
				return invalidParam(StandardScalerName, k, params[k], "a boolean")
			}
			s.withMean = b
		case "with_std":
			if !ok {
				return invalidParam(StandardScalerName, k, params[k], "a boolean")
			}
			s.withStd = b
		default:
			return unknownParam(StandardScalerName, k, "with_mean", "with_std")
		}
	}
	return nil
}

// Params implements ports.Configurable.
func (s *StandardScaler) Params() domain.Params {
	return domain.Params{"with_mean": s.withMean, "with_std": s.withStd}
}

// Describe implements ports.Describer.
func (s *StandardScaler) Describe() map[string]any {
	return map[string]any{"name": StandardScalerName, "params": s.Params()}
}

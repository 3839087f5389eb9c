package estimator

import (
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
)

// ConstantName is the registry name of Constant.
const ConstantName = "constant"

// Constant predicts the same positive-class probability for every sample.
type Constant struct {
	probability float64
	fitted      bool
}

// NewConstant creates a Constant estimator predicting probability.
func NewConstant(probability float64) *Constant {
	return &Constant{probability: probability}
}

// Fit records that the estimator was fitted; the data is not used.
func (c *Constant) Fit(x domain.Features, y []int) error {
	if err := checkFitInput(ConstantName, x, y); err != nil {
		return err
	}
	c.fitted = true
	return nil
}

// PredictProba implements ports.Estimator.
func (c *Constant) PredictProba(x domain.Features) ([][]float64, error) {
	if !c.fitted {
		return nil, notFitted(ConstantName)
	}
	out := make([][]float64, x.Len())
	for i := range out {
		out[i] = []float64{1 - c.probability, c.probability}
	}
	return out, nil
}

// Clone implements ports.Estimator.
func (c *Constant) Clone() ports.Estimator {
	return &Constant{probability: c.probability}
}

// Snapshot implements ports.Snapshotter.
func (c *Constant) Snapshot() ports.Estimator {
	return &Constant{probability: c.probability, fitted: c.fitted}
}

// SetParams accepts "probability" in [0, 1].
func (c *Constant) SetParams(params domain.Params) error {
	for _, k := range params.Keys() {
		if k != "probability" {
			return unknownParam(ConstantName, k, "probability")
		}
		p, ok := toFloat(params[k])
		if !ok || p < 0 || p > 1 {
			return invalidParam(ConstantName, k, params[k], "a number in [0, 1]")
		}
		c.probability = p
	}
	return nil
}

// Params implements ports.Configurable.
func (c *Constant) Params() domain.Params {
	return domain.Params{"probability": c.probability}
}

// Describe implements ports.Describer.
func (c *Constant) Describe() map[string]any {
	return map[string]any{"name": ConstantName, "params": c.Params()}
}

package estimator

import (
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
)

// PriorName is the registry name of Prior.
const PriorName = "prior"

// Prior predicts the positive rate observed during fitting. It takes no hyper-parameters.
type Prior struct {
	rate   float64
	fitted bool
}

// NewPrior creates an unfitted Prior estimator.
func NewPrior() *Prior {
	return &Prior{}
}

// Fit implements ports.Estimator.
func (p *Prior) Fit(x domain.Features, y []int) error {
	if err := checkFitInput(PriorName, x, y); err != nil {
		return err
	}
	positives := 0
	for _, label := range y {
		positives += label
	}
	p.rate = float64(positives) / float64(len(y))
	p.fitted = true
	return nil
}

// PredictProba implements ports.Estimator.
func (p *Prior) PredictProba(x domain.Features) ([][]float64, error) {
	if !p.fitted {
		return nil, notFitted(PriorName)
	}
	out := make([][]float64, x.Len())
	for i := range out {
		out[i] = []float64{1 - p.rate, p.rate}
	}
	return out, nil
}

// Clone implements ports.Estimator.
func (p *Prior) Clone() ports.Estimator {
	return &Prior{}
}

// Snapshot implements ports.Snapshotter.
func (p *Prior) Snapshot() ports.Estimator {
	cp := *p
	return &cp
}

// Describe implements ports.Describer.
func (p *Prior) Describe() map[string]any {
	return map[string]any{"name": PriorName}
}

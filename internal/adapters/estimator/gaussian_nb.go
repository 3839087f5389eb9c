package estimator

import (
	"math"
	"slices"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GaussianNBName is the registry name of GaussianNB.
const GaussianNBName = "gaussian_nb"

const defaultVarSmoothing = 1e-9

// GaussianNB is a Gaussian naive Bayes classifier.
// Feature importances are the absolute standardized differences of the class means.
type GaussianNB struct {
	varSmoothing float64

	width    int
	logPrior [2]float64
	present  [2]bool
	mean     [2][]float64
	variance [2][]float64
	fitted   bool
}

// NewGaussianNB creates an unfitted classifier with the default variance smoothing.
func NewGaussianNB() *GaussianNB {
	return &GaussianNB{varSmoothing: defaultVarSmoothing}
}

// Fit estimates per-class feature means and variances.
func (g *GaussianNB) Fit(x domain.Features, y []int) error {
	if err := checkFitInput(GaussianNBName, x, y); err != nil {
		return err
	}
	if err := x.CheckFinite(); err != nil {
		return err
	}

	g.width = x.Width()
	byClass := [2][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	maxVar := 0.0
	for j := range g.width {
		_, v := stat.PopMeanVariance(x.Column(j), nil)
		maxVar = math.Max(maxVar, v)
	}
	epsilon := g.varSmoothing * maxVar

	for class, indices := range byClass {
		g.present[class] = len(indices) > 0
		g.mean[class] = make([]float64, g.width)
		g.variance[class] = make([]float64, g.width)
		if !g.present[class] {
			continue
		}
		g.logPrior[class] = math.Log(float64(len(indices)) / float64(len(y)))
		values := make([]float64, len(indices))
		for j := range g.width {
			for k, idx := range indices {
				values[k] = x.Rows[idx][j]
			}
			m, v := stat.PopMeanVariance(values, nil)
			g.mean[class][j] = m
			g.variance[class][j] = v + epsilon
		}
	}
	g.fitted = true
	return nil
}

// PredictProba implements ports.Estimator.
func (g *GaussianNB) PredictProba(x domain.Features) ([][]float64, error) {
	if !g.fitted {
		return nil, notFitted(GaussianNBName)
	}
	if err := checkWidth(GaussianNBName, x, g.width); err != nil {
		return nil, err
	}

	out := make([][]float64, x.Len())
	for i, row := range x.Rows {
		switch {
		case !g.present[1]:
			out[i] = []float64{1, 0}
			continue
		case !g.present[0]:
			out[i] = []float64{0, 1}
			continue
		}
		joint := []float64{g.logLikelihood(0, row), g.logLikelihood(1, row)}
		norm := floats.LogSumExp(joint)
		out[i] = []float64{math.Exp(joint[0] - norm), math.Exp(joint[1] - norm)}
	}
	return out, nil
}

func (g *GaussianNB) logLikelihood(class int, row []float64) float64 {
	ll := g.logPrior[class]
	for j, v := range row {
		variance := g.variance[class][j]
		if variance == 0 {
			// constant column for every class: carries no information.
			continue
		}
		d := v - g.mean[class][j]
		ll -= 0.5*math.Log(2*math.Pi*variance) + d*d/(2*variance)
	}
	return ll
}

// FeatureImportances implements ports.ImportanceReporter.
func (g *GaussianNB) FeatureImportances() ([]float64, error) {
	if !g.fitted {
		return nil, notFitted(GaussianNBName)
	}
	out := make([]float64, g.width)
	if !g.present[0] || !g.present[1] {
		return out, nil
	}
	for j := range out {
		pooled := math.Sqrt((g.variance[0][j] + g.variance[1][j]) / 2)
		if pooled == 0 {
			continue
		}
		out[j] = math.Abs(g.mean[1][j]-g.mean[0][j]) / pooled
	}
	return out, nil
}

// Clone implements ports.Estimator.
func (g *GaussianNB) Clone() ports.Estimator {
	return &GaussianNB{varSmoothing: g.varSmoothing}
}

// Snapshot implements ports.Snapshotter.
func (g *GaussianNB) Snapshot() ports.Estimator {
	cp := *g
	for c := range 2 {
		cp.mean[c] = slices.Clone(g.mean[c])
		cp.variance[c] = slices.Clone(g.variance[c])
	}
	return &cp
}

// SetParams accepts "var_smoothing" >= 0.
func (g *GaussianNB) SetParams(params domain.Params) error {
	for _, k := range params.Keys() {
		if k != "var_smoothing" {
			return unknownParam(GaussianNBName, k, "var_smoothing")
		}
		v, ok := toFloat(params[k])
		if !ok || v < 0 || math.IsNaN(v) {
			return invalidParam(GaussianNBName, k, params[k], "a non-negative number")
		}
		g.varSmoothing = v
	}
	return nil
}

// Params implements ports.Configurable.
func (g *GaussianNB) Params() domain.Params {
	return domain.Params{"var_smoothing": g.varSmoothing}
}

// Describe implements ports.Describer.
func (g *GaussianNB) Describe() map[string]any {
	return map[string]any{"name": GaussianNBName, "params": g.Params()}
}

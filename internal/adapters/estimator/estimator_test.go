package estimator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/estimator"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
)

func features(columns []string, rows ...[]float64) domain.Features {
	return domain.Features{Columns: columns, Rows: rows}
}

func TestConstant(t *testing.T) {
	c := estimator.NewConstant(0.5)
	x := features([]string{"a"}, []float64{1}, []float64{2})

	_, err := c.PredictProba(x)
	require.ErrorIs(t, err, domain.ErrNotFitted)
	require.ErrorIs(t, err, domain.ErrEstimator)

	require.NoError(t, c.Fit(x, []int{0, 1}))
	proba, err := c.PredictProba(x)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.5}, {0.5, 0.5}}, proba)

	require.NoError(t, c.SetParams(domain.Params{"probability": 0.25}))
	clone := c.Clone()
	require.NoError(t, clone.Fit(x, []int{0, 1}))
	proba, err = clone.PredictProba(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75, 0.25}, proba[0])

	require.ErrorIs(t, c.SetParams(domain.Params{"probability": 2}), domain.ErrInvalidArgument)
	require.ErrorIs(t, c.SetParams(domain.Params{"depth": 2}), domain.ErrUnknownParameter)
	require.ErrorIs(t, c.Fit(x, []int{0}), domain.ErrShapeMismatch)
	require.ErrorIs(t, c.Fit(x, []int{0, 3}), domain.ErrNonBinaryLabels)
}

func TestPrior(t *testing.T) {
	p := estimator.NewPrior()
	x := features([]string{"a"}, []float64{1}, []float64{2}, []float64{3}, []float64{4})

	require.NoError(t, p.Fit(x, []int{1, 0, 0, 0}))
	proba, err := p.PredictProba(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75, 0.25}, proba[3])

	_, ok := p.Clone().(ports.Configurable)
	assert.False(t, ok)
}

func TestGaussianNB(t *testing.T) {
	x := features([]string{"signal", "noise"},
		[]float64{0.1, 5}, []float64{0.2, 1}, []float64{0.0, 3}, []float64{0.3, 2},
		[]float64{2.1, 4}, []float64{1.9, 2}, []float64{2.2, 1}, []float64{2.0, 5},
	)
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}

	nb := estimator.NewGaussianNB()
	require.NoError(t, nb.Fit(x, y))

	proba, err := nb.PredictProba(features([]string{"signal", "noise"}, []float64{0.1, 3}, []float64{2.0, 3}))
	require.NoError(t, err)
	assert.Less(t, proba[0][1], 0.01)
	assert.Greater(t, proba[1][1], 0.99)
	for _, row := range proba {
		assert.InDelta(t, 1.0, row[0]+row[1], 1e-12)
	}

	importances, err := nb.FeatureImportances()
	require.NoError(t, err)
	require.Len(t, importances, 2)
	assert.Greater(t, importances[0], importances[1])

	_, err = nb.PredictProba(features([]string{"signal"}, []float64{1}))
	require.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = estimator.NewGaussianNB().FeatureImportances()
	require.ErrorIs(t, err, domain.ErrNotFitted)
}

func TestGaussianNB_SingleClass(t *testing.T) {
	nb := estimator.NewGaussianNB()
	x := features([]string{"a"}, []float64{1}, []float64{2})
	require.NoError(t, nb.Fit(x, []int{1, 1}))

	proba, err := nb.PredictProba(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, proba[0])
}

func TestGaussianNB_RejectsNonFinite(t *testing.T) {
	nb := estimator.NewGaussianNB()
	err := nb.Fit(features([]string{"a"}, []float64{math.NaN()}, []float64{2}), []int{0, 1})
	require.ErrorIs(t, err, domain.ErrNonFiniteFeatures)
}

func TestImputer(t *testing.T) {
	nan := math.NaN()
	x := features([]string{"a", "b"},
		[]float64{1, nan}, []float64{nan, 4}, []float64{5, 6}, []float64{9, 10},
	)

	tests := []struct {
		params domain.Params
		want   []float64
	}{
		{domain.Params{"strategy": "mean"}, []float64{5, 20.0 / 3}},
		{domain.Params{"strategy": "median"}, []float64{5, 6}},
		{domain.Params{"strategy": "constant", "fill_value": -1}, []float64{-1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.params["strategy"].(string), func(t *testing.T) {
			m := estimator.NewImputer()
			require.NoError(t, m.SetParams(tt.params))
			require.NoError(t, m.Fit(x, nil))

			out, err := m.Transform(x)
			require.NoError(t, err)
			assert.InDelta(t, tt.want[0], out.Rows[1][0], 1e-12)
			assert.InDelta(t, tt.want[1], out.Rows[0][1], 1e-12)
			assert.True(t, math.IsNaN(x.Rows[0][1]), "input must not be modified")
		})
	}

	require.ErrorIs(t, estimator.NewImputer().SetParams(domain.Params{"strategy": "mode"}), domain.ErrInvalidArgument)
}

func TestImputer_AllMissingColumnStaysMissing(t *testing.T) {
	x := features([]string{"a"}, []float64{math.NaN()}, []float64{math.NaN()})
	m := estimator.NewImputer()
	require.NoError(t, m.Fit(x, nil))

	out, err := m.Transform(x)
	require.NoError(t, err)
	require.ErrorIs(t, out.CheckFinite(), domain.ErrNonFiniteFeatures)
}

func TestStandardScaler(t *testing.T) {
	x := features([]string{"a", "const"}, []float64{1, 7}, []float64{3, 7})
	s := estimator.NewStandardScaler()
	require.NoError(t, s.Fit(x, nil))

	out, err := s.Transform(x)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-1, 0}, {1, 0}}, out.Rows)

	require.NoError(t, s.SetParams(domain.Params{"with_mean": false}))
	assert.Equal(t, domain.Params{"with_mean": false, "with_std": true}, s.Params())
	require.ErrorIs(t, s.SetParams(domain.Params{"with_mean": "yes"}), domain.ErrInvalidArgument)
}

func TestColumnSelector(t *testing.T) {
	x := features([]string{"a", "b", "c"}, []float64{1, 2, 3})
	sel := estimator.NewColumnSelector("c", "a")

	require.NoError(t, sel.Fit(x, nil))
	out, err := sel.Transform(x)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, out.Columns)
	assert.Equal(t, [][]float64{{3, 1}}, out.Rows)

	require.NoError(t, sel.SetParams(domain.Params{"columns": []any{"z"}}))
	require.ErrorIs(t, sel.Fit(x, nil), domain.ErrMissingColumn)
}

func TestSnapshot_CopiesFittedState(t *testing.T) {
	x := features([]string{"a"}, []float64{0}, []float64{1}, []float64{2}, []float64{3})

	prior := estimator.NewPrior()
	require.NoError(t, prior.Fit(x, []int{1, 0, 0, 0}))
	snapshot := prior.Snapshot()
	require.NoError(t, prior.Fit(x, []int{1, 1, 1, 0}))

	proba, err := snapshot.PredictProba(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, proba[0][1], 1e-12)

	constant := estimator.NewConstant(0.3)
	_, err = constant.Snapshot().PredictProba(x)
	require.ErrorIs(t, err, domain.ErrNotFitted)

	var _ ports.Snapshotter = estimator.NewGaussianNB()
	var _ ports.TransformerSnapshotter = estimator.NewColumnSelector("a")
}

package tasks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/estimator"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports/mocks"
	"go.trai.ch/sift/internal/engine/tasks"
	"go.uber.org/mock/gomock"
)

func searchConfig(t *testing.T, ctrl *gomock.Controller, writer *mocks.MockArtifactWriter) tasks.SearchConfig {
	t.Helper()
	return tasks.SearchConfig{
		CrossValidation: tasks.CrossValidation{
			Loader:    newLoader(ctrl, map[string]*domain.Dataset{trainPath: separable(24, 16, 0)}),
			Artifacts: writer,
			Train:     source(trainPath),
			Folds:     stratified(t, 4),
		},
		Estimator: estimator.NewConstant(0.5),
	}
}

func TestSearch_SingleCombination(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink, writer := newSink(ctrl)
	cfg := searchConfig(t, ctrl, writer)
	cfg.Space = domain.SearchSpace{"probability": {0.3}}

	task, err := tasks.NewSearch(cfg)
	require.NoError(t, err)
	res, err := task.Run(t.Context(), "out")
	require.NoError(t, err)

	assert.Equal(t, 0, res.BestIndex)
	require.Len(t, res.Results, 1)
	assert.Equal(t, 1, res.Results[0].Rank)
	assert.Equal(t, domain.Params{"probability": 0.3}, res.BestParams)
	require.NotNil(t, res.BestEstimator)

	rows := sink.csv["out/"+tasks.SearchResultsFile]
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"index", "params", "mean_score", "std_score", "rank", "split0_score", "split1_score", "split2_score", "split3_score"}, rows[0])
	assert.True(t, sink.has("out/"+tasks.BestParamsFile))
}

func TestSearch_GridPicksBestAndRanks(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, writer := newSink(ctrl)
	cfg := searchConfig(t, ctrl, writer)
	// Probabilities below 0.5 predict every sample negative, 60% of the samples are positive.
	cfg.Space = domain.SearchSpace{"probability": {0.2, 0.7, 0.9}}
	cfg.Scoring = domain.ScoringPlan{Metric: domain.MetricAccuracy}

	task, err := tasks.NewSearch(cfg)
	require.NoError(t, err)
	res, err := task.Run(t.Context(), "out")
	require.NoError(t, err)

	require.Len(t, res.Results, 3)
	assert.InDelta(t, 0.4, res.Results[0].MeanScore, 1e-12)
	assert.InDelta(t, 0.6, res.Results[1].MeanScore, 1e-12)
	// Equal scores keep the first combination encountered.
	assert.Equal(t, 1, res.BestIndex)
	assert.Equal(t, []int{3, 1, 1}, []int{res.Results[0].Rank, res.Results[1].Rank, res.Results[2].Rank})
}

func TestSearch_Random(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, writer := newSink(ctrl)
	cfg := searchConfig(t, ctrl, writer)
	cfg.Estimator = estimator.NewGaussianNB()
	cfg.Space = domain.SearchSpace{"var_smoothing": {1e-9, 1e-6, 1e-3, 1e-1}}
	cfg.Mode = tasks.SearchRandom
	cfg.Iterations = 2
	cfg.Seed = 7

	first, err := tasks.NewSearch(cfg)
	require.NoError(t, err)
	a, err := first.Run(t.Context(), "out")
	require.NoError(t, err)

	second, err := tasks.NewSearch(cfg)
	require.NoError(t, err)
	b, err := second.Run(t.Context(), "out")
	require.NoError(t, err)

	require.Len(t, a.Results, 2)
	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, "random", first.Arguments()["search_mode"])
}

func TestSearch_ConfigurationErrorsBeforeFitting(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: any load or fit would fail the test.
	loader := mocks.NewMockDatasetLoader(ctrl)
	writer := mocks.NewMockArtifactWriter(ctrl)
	base := tasks.CrossValidation{Loader: loader, Artifacts: writer, Train: source(trainPath), Folds: stratified(t, 3)}

	tests := []struct {
		name   string
		cfg    tasks.SearchConfig
		target error
	}{
		{
			name:   "empty space",
			cfg:    tasks.SearchConfig{CrossValidation: base, Estimator: estimator.NewConstant(0.5)},
			target: domain.ErrEmptySearchSpace,
		},
		{
			name: "too many iterations",
			cfg: tasks.SearchConfig{
				CrossValidation: base, Estimator: estimator.NewConstant(0.5),
				Space: domain.SearchSpace{"probability": {0.1, 0.2}}, Mode: tasks.SearchRandom, Iterations: 3,
			},
			target: domain.ErrTooManyIterations,
		},
		{
			name: "unknown mode",
			cfg: tasks.SearchConfig{
				CrossValidation: base, Estimator: estimator.NewConstant(0.5),
				Space: domain.SearchSpace{"probability": {0.1}}, Mode: "bayes",
			},
			target: domain.ErrInvalidArgument,
		},
		{
			name: "estimator without parameters",
			cfg: tasks.SearchConfig{
				CrossValidation: base, Estimator: estimator.NewPrior(),
				Space: domain.SearchSpace{"probability": {0.1}},
			},
			target: domain.ErrNotConfigurable,
		},
		{
			name: "unknown scoring metric",
			cfg: tasks.SearchConfig{
				CrossValidation: base, Estimator: estimator.NewConstant(0.5),
				Space: domain.SearchSpace{"probability": {0.1}}, Scoring: domain.ScoringPlan{Metric: "lift"},
			},
			target: domain.ErrUnknownMetric,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tasks.NewSearch(tt.cfg)
			require.ErrorIs(t, err, tt.target)
			require.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

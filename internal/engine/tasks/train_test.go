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

func TestTrain_FitsOnFullTrainingSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink, writer := newSink(ctrl)
	data := separable(12, 8, 0)

	task, err := tasks.NewTrain(tasks.TrainConfig{
		Loader:    newLoader(ctrl, map[string]*domain.Dataset{trainPath: data}),
		Artifacts: writer,
		Train:     source(trainPath),
		Estimator: estimator.NewGaussianNB(),
		Params:    domain.Params{"var_smoothing": 1e-6},
	})
	require.NoError(t, err)
	assert.Equal(t, tasks.DefaultThreshold, task.Arguments()["threshold"])

	res, err := task.Run(t.Context(), "out")
	require.NoError(t, err)
	assert.Equal(t, data.Features.Columns, res.Columns)
	assert.Equal(t, 12, res.Metrics.TP)
	assert.Equal(t, 8, res.Metrics.TN)
	assert.True(t, sink.has("out/"+tasks.TrainMetricsFile))
	assert.True(t, sink.has("out/"+tasks.ModelFile))

	proba, err := res.Estimator.PredictProba(data.Features)
	require.NoError(t, err)
	assert.Len(t, proba, data.Len())
}

func TestTrain_ConfigurationErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockDatasetLoader(ctrl)
	writer := mocks.NewMockArtifactWriter(ctrl)
	bad := -0.1

	_, err := tasks.NewTrain(tasks.TrainConfig{Loader: loader, Artifacts: writer, Train: source(trainPath), Estimator: estimator.NewPrior(), Threshold: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidThreshold)

	_, err = tasks.NewTrain(tasks.TrainConfig{Artifacts: writer, Train: source(trainPath), Estimator: estimator.NewPrior()})
	require.ErrorIs(t, err, domain.ErrMissingArgument)

	_, err = tasks.NewTrain(tasks.TrainConfig{Loader: loader, Artifacts: writer, Train: domain.DataSource{Path: trainPath}, Estimator: estimator.NewPrior()})
	require.ErrorIs(t, err, domain.ErrMissingArgument)
}

func TestPrediction_WritesPredictions(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink, writer := newSink(ctrl)
	train := separable(10, 10, 0)

	model := estimator.NewGaussianNB()
	require.NoError(t, model.Fit(train.Features, train.Labels))

	unseen := separable(3, 2, 0)
	unseen.Labels = nil
	// Columns arrive in a different order than at training time.
	reordered, err := unseen.Features.Select([]string{"signal", "noise_b", "noise_a"})
	require.NoError(t, err)
	unseen.Features = reordered

	src := domain.DataSource{Path: "unseen.csv", Options: domain.LoadOptions{IDColumn: "sample"}}
	task, err := tasks.NewPrediction(tasks.PredictionConfig{
		Loader:    newLoader(ctrl, map[string]*domain.Dataset{"unseen.csv": unseen}),
		Artifacts: writer,
		Data:      src,
		Estimator: model,
		Columns:   train.Features.Columns,
	})
	require.NoError(t, err)

	preds, err := task.Run(t.Context(), "out")
	require.NoError(t, err)
	require.Len(t, preds, 5)
	for i, p := range preds {
		assert.Equal(t, unseen.IDs[i], p.ID)
		want := 0
		if i < 3 {
			want = 1
		}
		assert.Equal(t, want, p.Label, p.ID)
	}

	rows := sink.csv["out/"+domain.PredictionsFileName]
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"sample", tasks.DefaultPredictionColumn, "probability"}, rows[0])
}

func TestPrediction_FreezesFittedEstimator(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, writer := newSink(ctrl)
	train := separable(10, 10, 0)

	model := estimator.NewGaussianNB()
	require.NoError(t, model.Fit(train.Features, train.Labels))
	task, err := tasks.NewPrediction(tasks.PredictionConfig{
		Loader:    newLoader(ctrl, map[string]*domain.Dataset{trainPath: train}),
		Artifacts: writer,
		Data:      source(trainPath),
		Estimator: model,
	})
	require.NoError(t, err)

	inverted := make([]int, len(train.Labels))
	for i, y := range train.Labels {
		inverted[i] = 1 - y
	}
	require.NoError(t, model.Fit(train.Features, inverted))

	preds, err := task.Run(t.Context(), "out")
	require.NoError(t, err)
	for i, p := range preds {
		assert.Equal(t, train.Labels[i], p.Label, p.ID)
	}
}

func TestPrediction_Threshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, writer := newSink(ctrl)
	data := separable(2, 2, 0)
	one := 1.0
	model := estimator.NewConstant(0.99)
	require.NoError(t, model.Fit(data.Features, data.Labels))

	task, err := tasks.NewPrediction(tasks.PredictionConfig{
		Loader:           newLoader(ctrl, map[string]*domain.Dataset{trainPath: data}),
		Artifacts:        writer,
		Data:             source(trainPath),
		Estimator:        model,
		Threshold:        &one,
		PredictionColumn: "is_positive",
	})
	require.NoError(t, err)

	preds, err := task.Run(t.Context(), "out")
	require.NoError(t, err)
	for _, p := range preds {
		assert.Zero(t, p.Label)
		assert.InDelta(t, 0.99, p.Probability, 1e-12)
	}
}

func TestPrediction_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, writer := newSink(ctrl)
	loader := newLoader(ctrl, map[string]*domain.Dataset{trainPath: separable(2, 2, 0)})

	_, err := tasks.NewPrediction(tasks.PredictionConfig{
		Loader: loader, Artifacts: writer, Data: source(trainPath),
		Estimator: estimator.NewGaussianNB(), PredictionColumn: "id",
	})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	task, err := tasks.NewPrediction(tasks.PredictionConfig{
		Loader: loader, Artifacts: writer, Data: source(trainPath), Estimator: estimator.NewGaussianNB(),
	})
	require.NoError(t, err)
	_, err = task.Run(t.Context(), "out")
	require.ErrorIs(t, err, domain.ErrNotFitted)

	task, err = tasks.NewPrediction(tasks.PredictionConfig{
		Loader: loader, Artifacts: writer, Data: source(trainPath),
		Estimator: estimator.NewConstant(0.5), Columns: []string{"missing"},
	})
	require.NoError(t, err)
	_, err = task.Run(t.Context(), "out")
	require.ErrorIs(t, err, domain.ErrMissingColumn)
}

package app_test

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/artifacts"
	"go.trai.ch/sift/internal/adapters/config"
	"go.trai.ch/sift/internal/adapters/dataset"
	"go.trai.ch/sift/internal/adapters/estimator"
	"go.trai.ch/sift/internal/adapters/fs"
	"go.trai.ch/sift/internal/adapters/linear"
	"go.trai.ch/sift/internal/adapters/manifest"
	"go.trai.ch/sift/internal/app"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports/mocks"
	"go.trai.ch/sift/internal/engine/tasks"
	"go.uber.org/mock/gomock"
)

var started = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func newApp(t *testing.T) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	clk := mocks.NewMockClock(ctrl)
	clk.EXPECT().Now().Return(started).AnyTimes()

	return app.New(
		config.NewLoader(log),
		dataset.NewLoader(),
		artifacts.NewWriter(),
		manifest.NewStore(),
		fs.NewHasher(),
		log,
		clk,
		linear.NewRenderer(io.Discard),
		estimator.NewRegistry(),
	)
}

// writeData writes a labelled file whose "signal" column separates the classes.
// Every seventh noise value is missing.
func writeData(t *testing.T, path string, positives, negatives int, labelled bool) {
	t.Helper()
	var b strings.Builder
	if labelled {
		b.WriteString("id,noise,signal,label\n")
	} else {
		b.WriteString("signal,id,noise\n")
	}
	for i := range positives + negatives {
		fi := float64(i)
		label := 0
		signal := -2 + 0.4*math.Cos(fi)
		if i < positives {
			label = 1
			signal = 2 + 0.4*math.Sin(fi)
		}
		noise := fmt.Sprintf("%.4f", 3*math.Sin(1.3*fi))
		if i%7 == 3 {
			noise = "na"
		}
		id := fmt.Sprintf("%s%03d", filepath.Base(path)[:1], i)
		if labelled {
			fmt.Fprintf(&b, "%s,%s,%.4f,%d\n", id, noise, signal, label)
		} else {
			fmt.Fprintf(&b, "%.4f,%s,%s\n", signal, id, noise)
		}
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), domain.FilePerm))
}

const experimentFile = `
experiment:
  name: integration
  experimenter: alice
seed: 7
parallelism: 2
data:
  train: train.csv
  test: test.csv
  predict: new.csv
  id_column: id
  label_column: label
folds:
  stratified:
    total: 3
    shuffle: true
preprocessing:
  - name: imputer
    params:
      strategy: median
  - name: standard_scaler
estimator:
  name: gaussian_nb
steps:
  - feature_selection:
      scoring:
        metric: roc_auc
  - search:
      space:
        estimator__var_smoothing: [1e-9, 1e-3]
      scoring:
        metric: log_loss
  - evaluation:
      exports:
        confusion_matrices: true
        false_negatives: true
  - train: {}
  - predict: {}
`

func setupExperiment(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	writeData(t, filepath.Join(dir, "train.csv"), 18, 12, true)
	writeData(t, filepath.Join(dir, "test.csv"), 5, 5, true)
	writeData(t, filepath.Join(dir, "new.csv"), 3, 3, false)
	path := filepath.Join(dir, "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestApp_Run_AllSteps(t *testing.T) {
	path := setupExperiment(t, experimentFile)
	dir := filepath.Dir(path)

	m, err := newApp(t).Run(context.Background(), path, app.RunOptions{})
	require.NoError(t, err)

	root := filepath.Join(dir, domain.DefaultOutputDir, "alice-2024-03-05T14-07-09-integration")
	assert.Equal(t, root, m.Root)
	assert.Equal(t, "integration", m.Label)
	require.Len(t, m.Tasks, 5)

	names := make([]string, len(m.Tasks))
	for i, task := range m.Tasks {
		names[i] = task.Name
		assert.Equal(t, domain.StatusCompleted, task.Status, task.Name)
		assert.NotEmpty(t, task.Fingerprint, task.Name)
	}
	assert.Equal(t, []string{
		tasks.FeatureSelectionTaskName,
		tasks.SearchTaskName,
		tasks.EvaluationTaskName,
		tasks.TrainTaskName,
		tasks.PredictionTaskName,
	}, names)

	assert.FileExists(t, filepath.Join(root, domain.ManifestFileName))

	require.NotNil(t, m.Definition)
	assert.Equal(t, path, m.Definition.Source)
	assert.Equal(t, "experiment.yaml", m.Definition.File)
	wantSum, err := fs.NewHasher().HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantSum, m.Definition.Fingerprint)
	copied, err := os.ReadFile(filepath.Join(root, "experiment.yaml"))
	require.NoError(t, err)
	assert.Equal(t, experimentFile, string(copied))

	stored, err := manifest.NewStore().Get(root)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.Definition)
	assert.Equal(t, wantSum, stored.Definition.Fingerprint)

	selected, err := os.ReadFile(filepath.Join(root, tasks.FeatureSelectionTaskName, tasks.SelectedFeaturesFile))
	require.NoError(t, err)
	assert.Contains(t, string(selected), "signal")

	evalDir := filepath.Join(root, tasks.EvaluationTaskName)
	assert.FileExists(t, filepath.Join(evalDir, tasks.TestMetricsFile))
	assert.FileExists(t, filepath.Join(evalDir, domain.TestDirName, tasks.ConfusionMatrixFile))
	assert.FileExists(t, filepath.Join(evalDir, domain.FoldExportDir(0, "validation"), tasks.FalseNegativesFile))

	preds, err := os.ReadFile(filepath.Join(root, tasks.PredictionTaskName, domain.PredictionsFileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(preds)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "id,prediction,probability", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "n000,1,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[6], "n005,0,"), lines[6])
}

func TestApp_Run_OverridesOutputAndExperimenter(t *testing.T) {
	path := setupExperiment(t, experimentFile)
	out := filepath.Join(t.TempDir(), "runs")

	m, err := newApp(t).Run(context.Background(), path, app.RunOptions{Experimenter: "bob", Output: out})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "bob-2024-03-05T14-07-09-integration"), m.Root)
	assert.Equal(t, "bob", m.Experimenter)
}

func TestApp_Run_TaskFailureAbortsRun(t *testing.T) {
	const content = `
experiment:
  name: broken
data:
  train: train.csv
  id_column: id
  label_column: label
folds:
  custom:
    path: folds.csv
estimator:
  name: prior
steps:
  - evaluation: {}
  - train: {}
`
	path := setupExperiment(t, content)
	folds := "id,fold\nt000,0\nt001,1\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "folds.csv"), []byte(folds), domain.FilePerm))

	m, err := newApp(t).Run(context.Background(), path, app.RunOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrExperimentFailed)
	require.ErrorIs(t, err, domain.ErrMalformedFolds)

	require.Len(t, m.Tasks, 1)
	assert.Equal(t, tasks.EvaluationTaskName, m.Tasks[0].Name)
	assert.Equal(t, domain.StatusFailed, m.Tasks[0].Status)
	assert.NotEmpty(t, m.Tasks[0].Error)
	assert.Contains(t, m.Tasks[0].Inputs, filepath.Join(filepath.Dir(path), "folds.csv"))
}

func TestApp_Run_ConfigurationErrorBeforeAnyTask(t *testing.T) {
	const content = `
data:
  train: train.csv
  id_column: id
  label_column: label
estimator:
  name: random_forest
steps:
  - train: {}
`
	path := setupExperiment(t, content)

	m, err := newApp(t).Run(context.Background(), path, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrUnknownComponent)
	assert.Empty(t, m.Root)
	assert.NoDirExists(t, filepath.Join(filepath.Dir(path), domain.DefaultOutputDir))
}

func TestApp_Run_MissingExperimentFile(t *testing.T) {
	_, err := newApp(t).Run(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
	assert.NotErrorIs(t, err, domain.ErrExperimentFailed)
}

func TestApp_Folds(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "train.csv")
	writeData(t, data, 18, 12, true)
	out := filepath.Join(dir, "out", "folds.csv")

	err := newApp(t).Folds(context.Background(), app.FoldsOptions{
		Data:        data,
		IDColumn:    "id",
		LabelColumn: "label",
		FoldColumn:  "fold",
		Total:       3,
		Shuffle:     true,
		Seed:        42,
		Out:         out,
	})
	require.NoError(t, err)

	folds, err := dataset.NewLoader().LoadFolds(out, ',', "id", "fold")
	require.NoError(t, err)
	require.Len(t, folds, 30)
	counts := map[int]int{}
	for _, k := range folds {
		counts[k]++
	}
	assert.Equal(t, map[int]int{0: 10, 1: 10, 2: 10}, counts)
}

func TestApp_Folds_InvalidTotal(t *testing.T) {
	err := newApp(t).Folds(context.Background(), app.FoldsOptions{Data: "x.csv", IDColumn: "id", LabelColumn: "label", Total: 1})
	require.ErrorIs(t, err, domain.ErrInvalidFoldCount)
}

package tasks_test

import (
	"fmt"
	"math"
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports/mocks"
	"go.trai.ch/sift/internal/engine/cv"
	"go.uber.org/mock/gomock"
)

const (
	trainPath = "train.csv"
	testPath  = "test.csv"
)

func source(file string) domain.DataSource {
	return domain.DataSource{
		Path:    file,
		Options: domain.LoadOptions{IDColumn: "id", LabelColumn: "label"},
	}
}

// separable builds a data set whose "signal" column separates the classes
// while "noise_a" and "noise_b" are unrelated to the label.
func separable(positives, negatives int, offset float64) *domain.Dataset {
	n := positives + negatives
	data := &domain.Dataset{
		IDs:      make([]string, n),
		Features: domain.Features{Columns: []string{"noise_a", "signal", "noise_b"}, Rows: make([][]float64, n)},
		Labels:   make([]int, n),
	}
	for i := range n {
		fi := float64(i)
		signal := -2 + 0.5*math.Cos(fi) + offset
		if i < positives {
			data.Labels[i] = 1
			signal = 2 + 0.5*math.Sin(fi) + offset
		}
		data.IDs[i] = fmt.Sprintf("s%03d", i)
		data.Features.Rows[i] = []float64{3 * math.Sin(1.7*fi), signal, 2 * math.Cos(0.37*fi)}
	}
	return data
}

func newLoader(ctrl *gomock.Controller, sets map[string]*domain.Dataset) *mocks.MockDatasetLoader {
	loader := mocks.NewMockDatasetLoader(ctrl)
	for file, data := range sets {
		loader.EXPECT().Load(file, gomock.Any()).Return(data, nil).AnyTimes()
	}
	return loader
}

// artifactSink records every artifact written through a mocked writer.
type artifactSink struct {
	mu    sync.Mutex
	csv   map[string][][]string
	json  map[string]any
	text  map[string]string
	order []string
}

func newSink(ctrl *gomock.Controller) (*artifactSink, *mocks.MockArtifactWriter) {
	s := &artifactSink{
		csv:  map[string][][]string{},
		json: map[string]any{},
		text: map[string]string{},
	}
	w := mocks.NewMockArtifactWriter(ctrl)
	w.EXPECT().WriteCSV(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(dir, name string, header []string, rows [][]string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			key := path.Join(dir, name)
			s.csv[key] = append([][]string{header}, rows...)
			s.order = append(s.order, key)
			return nil
		}).AnyTimes()
	w.EXPECT().WriteJSON(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(dir, name string, v any) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			key := path.Join(dir, name)
			s.json[key] = v
			s.order = append(s.order, key)
			return nil
		}).AnyTimes()
	w.EXPECT().WriteText(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(dir, name, text string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			key := path.Join(dir, name)
			s.text[key] = text
			s.order = append(s.order, key)
			return nil
		}).AnyTimes()
	return s, w
}

func (s *artifactSink) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.order {
		if k == key {
			return true
		}
	}
	return false
}

func stratified(t *testing.T, total int) *cv.StratifiedFolds {
	t.Helper()
	folds, err := cv.NewStratifiedFolds(total, true, 42)
	require.NoError(t, err)
	return folds
}

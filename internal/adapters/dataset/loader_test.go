package dataset_test

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/dataset"
	"go.trai.ch/sift/internal/core/domain"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()
	path := writeTable(t, "id,age,label,score\na,31,1,0.5\nb,,0,NA\nc,40,1.0,2\n")

	data, err := dataset.NewLoader().Load(path, domain.LoadOptions{IDColumn: "id", LabelColumn: "label"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, data.IDs)
	assert.Equal(t, []int{1, 0, 1}, data.Labels)
	assert.Equal(t, []string{"age", "score"}, data.Features.Columns)
	assert.Equal(t, []float64{31, 0.5}, data.Features.Rows[0])
	assert.True(t, math.IsNaN(data.Features.Rows[1][0]))
	assert.True(t, math.IsNaN(data.Features.Rows[1][1]))
}

func TestLoader_FeatureAllowList(t *testing.T) {
	t.Parallel()
	path := writeTable(t, "id;a;b;c\nx;1;2;3\n")

	data, err := dataset.NewLoader().Load(path, domain.LoadOptions{
		Delimiter:      ';',
		IDColumn:       "id",
		FeatureColumns: []string{"c", "a"},
	})
	require.NoError(t, err)
	assert.Nil(t, data.Labels)
	assert.Equal(t, []string{"c", "a"}, data.Features.Columns)
	assert.Equal(t, []float64{3, 1}, data.Features.Rows[0])
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		opts    domain.LoadOptions
		target  error
	}{
		{"missing id column", "key,x\n1,2\n", domain.LoadOptions{IDColumn: "id"}, domain.ErrMissingColumn},
		{"missing label column", "id,x\n1,2\n", domain.LoadOptions{IDColumn: "id", LabelColumn: "y"}, domain.ErrMissingColumn},
		{"missing feature", "id,x\n1,2\n", domain.LoadOptions{IDColumn: "id", FeatureColumns: []string{"z"}}, domain.ErrMissingColumn},
		{"no rows", "id,x\n", domain.LoadOptions{IDColumn: "id"}, domain.ErrEmptyDataset},
		{"empty file", "", domain.LoadOptions{IDColumn: "id"}, domain.ErrEmptyDataset},
		{"bad number", "id,x\n1,abc\n", domain.LoadOptions{IDColumn: "id"}, domain.ErrInvalidValue},
		{"fractional label", "id,x,y\n1,2,0.5\n", domain.LoadOptions{IDColumn: "id", LabelColumn: "y"}, domain.ErrInvalidValue},
		{"duplicate id", "id,x\n1,2\n1,3\n", domain.LoadOptions{IDColumn: "id"}, domain.ErrDuplicateID},
		{"ragged row", "id,x\n1,2,3\n", domain.LoadOptions{IDColumn: "id"}, domain.ErrDatasetReadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := dataset.NewLoader().Load(writeTable(t, tt.content), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := dataset.NewLoader().Load(filepath.Join(t.TempDir(), "nope.csv"), domain.LoadOptions{IDColumn: "id"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDatasetReadFailed)
	assert.ErrorIs(t, err, domain.ErrData)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoader_FoldsRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "folds.csv")
	loader := dataset.NewLoader()

	ids := []string{"a", "b", "c", "d"}
	require.NoError(t, loader.WriteFolds(path, ',', "id", "fold", ids, domain.FoldAssignment{0, 1, 0, 1}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,fold\na,0\nb,1\nc,0\nd,1\n", string(content))

	folds, err := loader.LoadFolds(path, ',', "id", "fold")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 0, "d": 1}, folds)
}

func TestLoader_LoadFoldsErrors(t *testing.T) {
	t.Parallel()
	loader := dataset.NewLoader()

	_, err := loader.LoadFolds(writeTable(t, "id,fold\na,0\na,1\n"), ',', "id", "fold")
	require.ErrorIs(t, err, domain.ErrMalformedFolds)
	require.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = loader.LoadFolds(writeTable(t, "id,fold\na,-1\n"), ',', "id", "fold")
	require.ErrorIs(t, err, domain.ErrMalformedFolds)

	_, err = loader.LoadFolds(writeTable(t, "id,k\na,0\n"), ',', "id", "fold")
	require.ErrorIs(t, err, domain.ErrMissingColumn)

	err = loader.WriteFolds(filepath.Join(t.TempDir(), "f.csv"), ',', "id", "fold", []string{"a"}, domain.FoldAssignment{0, 1})
	require.ErrorIs(t, err, domain.ErrShapeMismatch)
}

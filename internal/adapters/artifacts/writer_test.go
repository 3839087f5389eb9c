package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/artifacts"
	"go.trai.ch/sift/internal/core/domain"
)

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriter_Formats(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := artifacts.NewWriter()

	require.NoError(t, w.WriteCSV(dir, "metrics.csv", []string{"threshold", "f1"}, [][]string{{"0.5", "0.8"}, {"0.6", "a,b"}}))
	assert.Equal(t, "threshold,f1\n0.5,0.8\n0.6,\"a,b\"\n", read(t, filepath.Join(dir, "metrics.csv")))

	require.NoError(t, w.WriteJSON(dir, "best.json", map[string]any{"c": 1}))
	assert.Equal(t, "{\n  \"c\": 1\n}\n", read(t, filepath.Join(dir, "best.json")))

	require.NoError(t, w.WriteText(dir, "folds/fold-0/validation/report.txt", "hello\n"))
	assert.Equal(t, "hello\n", read(t, filepath.Join(dir, "folds", "fold-0", "validation", "report.txt")))
}

func TestWriter_ConfinedToDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := artifacts.NewWriter()

	for _, name := range []string{"../escape.txt", "a/../../escape.txt", "/etc/passwd", "", "."} {
		err := w.WriteText(dir, name, "x")
		require.ErrorIs(t, err, domain.ErrArtifactOutsideDir, name)
	}
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escape.txt"))
}

func TestWriter_JSONEncodeFailure(t *testing.T) {
	t.Parallel()
	err := artifacts.NewWriter().WriteJSON(t.TempDir(), "bad.json", map[string]any{"f": func() {}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtifactWriteFailed)
}

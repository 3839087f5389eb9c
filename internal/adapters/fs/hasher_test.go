package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/fs"
	"go.trai.ch/sift/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestHasher_HashFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	h := fs.NewHasher()

	empty, err := h.HashFile(writeFile(t, dir, "empty.csv", ""))
	require.NoError(t, err)
	// XXH64 of the empty input.
	assert.Equal(t, "ef46db3751d8e999", empty)

	a, err := h.HashFile(writeFile(t, dir, "a.csv", "id,label\n1,0\n"))
	require.NoError(t, err)
	b, err := h.HashFile(writeFile(t, dir, "b.csv", "id,label\n1,0\n"))
	require.NoError(t, err)
	c, err := h.HashFile(writeFile(t, dir, "c.csv", "id,label\n1,1\n"))
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestHasher_HashFileMissing(t *testing.T) {
	t.Parallel()
	_, err := fs.NewHasher().HashFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFingerprintFailed)
}

func TestHasher_HashArguments(t *testing.T) {
	t.Parallel()
	h := fs.NewHasher()
	args := map[string]any{"threshold": 0.5, "folds": map[string]any{"total": 5, "seed": 42}}
	same := map[string]any{"folds": map[string]any{"seed": 42, "total": 5}, "threshold": 0.5}

	first, err := h.HashArguments(args, map[string]string{"train.csv": "aa", "folds.csv": "bb"})
	require.NoError(t, err)
	second, err := h.HashArguments(same, map[string]string{"folds.csv": "bb", "train.csv": "aa"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	changedInput, err := h.HashArguments(args, map[string]string{"train.csv": "ab", "folds.csv": "bb"})
	require.NoError(t, err)
	assert.NotEqual(t, first, changedInput)

	changedArgs, err := h.HashArguments(map[string]any{"threshold": 0.6}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, changedArgs)

	_, err = h.HashArguments(map[string]any{"bad": func() {}}, nil)
	require.Error(t, err)
}

package manifest_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/manifest"
	"go.trai.ch/sift/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := manifest.NewStore()
	m := domain.RunManifest{
		RunID:     "5f0c",
		Label:     "baseline",
		Root:      root,
		CreatedAt: time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
		Tasks: []domain.TaskRecord{{
			Name:        "train_task",
			Directory:   "train_task",
			Arguments:   map[string]any{"threshold": 0.5},
			Fingerprint: "f00d",
			Status:      domain.StatusCompleted,
			StartedAt:   time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
			FinishedAt:  time.Date(2024, 3, 5, 14, 7, 10, 0, time.UTC),
		}},
	}

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Put(root, m))

		got, err := store.Get(root)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, m, *got)
		assert.NoFileExists(t, filepath.Join(root, domain.ManifestFileName+".tmp"))
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("get corrupt", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ManifestFileName), []byte("{"), domain.FilePerm))

		_, err := store.Get(dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrManifestReadFailed)
	})
}

func TestStore_PutReplaces(t *testing.T) {
	root := t.TempDir()
	store := manifest.NewStore()

	require.NoError(t, store.Put(root, domain.RunManifest{RunID: "a", Tasks: []domain.TaskRecord{}}))
	require.NoError(t, store.Put(root, domain.RunManifest{RunID: "b", Tasks: []domain.TaskRecord{}}))

	got, err := store.Get(root)
	require.NoError(t, err)
	assert.Equal(t, "b", got.RunID)
}

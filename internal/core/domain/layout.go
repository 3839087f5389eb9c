package domain

import (
	"path/filepath"
	"strconv"
)

const (
	// ManifestFileName is the name of the run manifest written at the experiment root.
	ManifestFileName = "experiment.json"

	// ExperimentFileName is the default name of the experiment configuration file.
	ExperimentFileName = "sift.yaml"

	// DefaultOutputDir is the base directory for experiment roots when none is configured.
	DefaultOutputDir = "experiments-output"

	// TimestampLayout formats run timestamps with second resolution and no path-hostile characters.
	TimestampLayout = "2006-01-02T15-04-05"

	// DefinitionFileName replaces the name of a copied experiment file that would clash with the manifest.
	DefinitionFileName = "definition.yaml"

	// PredictionsFileName is the artifact written by the prediction task.
	PredictionsFileName = "predictions.csv"

	// FoldsDirName holds per-fold evaluation exports.
	FoldsDirName = "folds"

	// TestDirName holds test-set evaluation exports.
	TestDirName = "test"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// FoldExportDir returns the directory, relative to a task directory, for exports of one fold partition.
// partition is either "validation" or "train".
func FoldExportDir(fold int, partition string) string {
	return filepath.Join(FoldsDirName, "fold-"+strconv.Itoa(fold), partition)
}

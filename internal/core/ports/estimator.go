// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/sift/internal/core/domain"

// Estimator is the probabilistic classification capability every model must offer.
//
//go:generate mockgen -source=estimator.go -destination=mocks/mock_estimator.go -package=mocks
type Estimator interface {
	// Fit trains the estimator on the given features and binary labels.
	Fit(x domain.Features, y []int) error

	// PredictProba returns one row per sample holding the probability of each class.
	// Column 1 is the probability of the positive class.
	PredictProba(x domain.Features) ([][]float64, error)

	// Clone returns an unfitted copy carrying the same hyper-parameters.
	Clone() Estimator
}

// Transformer is a preprocessing stage of a pipeline.
type Transformer interface {
	// Fit learns the transformation from training data.
	Fit(x domain.Features, y []int) error

	// Transform applies the learned transformation. Output columns may differ from input columns.
	Transform(x domain.Features) (domain.Features, error)

	// Clone returns an unfitted copy carrying the same hyper-parameters.
	Clone() Transformer
}

// Configurable is implemented by components that accept hyper-parameters.
type Configurable interface {
	// SetParams applies the given hyper-parameters. Unknown names are an error.
	SetParams(params domain.Params) error

	// Params returns the current hyper-parameters.
	Params() domain.Params
}

// ImportanceReporter is implemented by fitted estimators that can rank their input features.
// Larger absolute values mean more important features.
type ImportanceReporter interface {
	FeatureImportances() ([]float64, error)
}

// Describer is implemented by components that can describe themselves for run manifests.
type Describer interface {
	Describe() map[string]any
}

// Snapshotter is implemented by estimators that can copy themselves together with their fitted state.
type Snapshotter interface {
	// Snapshot returns an independent copy that predicts exactly like the original.
	Snapshot() Estimator
}

// TransformerSnapshotter is implemented by transformers that can copy their fitted state.
type TransformerSnapshotter interface {
	// Snapshot returns an independent copy that transforms exactly like the original.
	Snapshot() Transformer
}

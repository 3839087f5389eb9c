package domain

import "go.trai.ch/zerr"

var (
	// ErrConfiguration is the root of every error caused by an invalid task or experiment configuration.
	// Configuration errors are reported before any estimator is fitted.
	ErrConfiguration = zerr.New("invalid configuration")

	// ErrData is the root of every error caused by unreadable or inconsistent input data.
	ErrData = zerr.New("invalid data")

	// ErrEstimator is the root of errors raised by an estimator while it is being used.
	ErrEstimator = zerr.New("estimator failure")
)

// Configuration errors.
var (
	// ErrInvalidFoldCount is returned when the number of folds is below two or above the sample count.
	ErrInvalidFoldCount = zerr.Wrap(ErrConfiguration, "invalid number of folds")

	// ErrMalformedFolds is returned when a fold assignment does not partition the training samples.
	ErrMalformedFolds = zerr.Wrap(ErrConfiguration, "malformed fold assignment")

	// ErrFoldStrategyMissing is returned when a cross-validation task has no fold strategy.
	ErrFoldStrategyMissing = zerr.Wrap(ErrConfiguration, "fold strategy not configured")

	// ErrEmptySearchSpace is returned when a search space has no parameters or a parameter has no candidates.
	ErrEmptySearchSpace = zerr.Wrap(ErrConfiguration, "empty search space")

	// ErrTooManyIterations is returned when a random search asks for more combinations than exist.
	ErrTooManyIterations = zerr.Wrap(ErrConfiguration, "random search iterations exceed distinct combinations")

	// ErrInvalidThreshold is returned when a threshold or threshold grid lies outside [0, 1].
	ErrInvalidThreshold = zerr.Wrap(ErrConfiguration, "invalid threshold")

	// ErrUnknownMetric is returned when a scoring or selection metric name is not recognised.
	ErrUnknownMetric = zerr.Wrap(ErrConfiguration, "unknown metric")

	// ErrMissingColumn is returned when a required column is absent from a tabular file.
	ErrMissingColumn = zerr.Wrap(ErrConfiguration, "missing required column")

	// ErrMissingArgument is returned when a required task argument is not provided.
	ErrMissingArgument = zerr.Wrap(ErrConfiguration, "missing required argument")

	// ErrInvalidArgument is returned when a task argument violates its constraint.
	ErrInvalidArgument = zerr.Wrap(ErrConfiguration, "invalid argument")

	// ErrUnknownComponent is returned when an estimator or transformer name is not registered.
	ErrUnknownComponent = zerr.Wrap(ErrConfiguration, "unknown component")

	// ErrConfigNotFound is returned when the experiment file cannot be found.
	ErrConfigNotFound = zerr.Wrap(ErrConfiguration, "experiment file not found")

	// ErrConfigReadFailed is returned when the experiment file cannot be read.
	ErrConfigReadFailed = zerr.Wrap(ErrConfiguration, "failed to read experiment file")

	// ErrConfigParseFailed is returned when the experiment file cannot be parsed.
	ErrConfigParseFailed = zerr.Wrap(ErrConfiguration, "failed to parse experiment file")
)

// Data errors.
var (
	// ErrDatasetReadFailed is returned when a tabular file cannot be opened or parsed.
	ErrDatasetReadFailed = zerr.Wrap(ErrData, "failed to read data set")

	// ErrEmptyDataset is returned when a data set has no rows.
	ErrEmptyDataset = zerr.Wrap(ErrData, "empty data set")

	// ErrInvalidValue is returned when a cell cannot be parsed as a number.
	ErrInvalidValue = zerr.Wrap(ErrData, "invalid value")

	// ErrNonBinaryLabels is returned when labels are not restricted to 0 and 1.
	ErrNonBinaryLabels = zerr.Wrap(ErrData, "labels must be binary (0 or 1)")

	// ErrNonFiniteFeatures is returned when features contain NaN or Inf after preprocessing.
	ErrNonFiniteFeatures = zerr.Wrap(ErrData, "non-finite feature values")

	// ErrDuplicateID is returned when a data set contains the same sample id twice.
	ErrDuplicateID = zerr.Wrap(ErrData, "duplicate sample id")

	// ErrShapeMismatch is returned when features, labels or probabilities disagree in length.
	ErrShapeMismatch = zerr.Wrap(ErrData, "shape mismatch")
)

// Estimator errors.
var (
	// ErrNotFitted is returned when an estimator is used before being fitted.
	ErrNotFitted = zerr.Wrap(ErrEstimator, "estimator is not fitted")

	// ErrCapabilityMissing is the root of errors about an estimator lacking what a task needs.
	// Choosing such an estimator is a configuration mistake, so it is reported as one.
	ErrCapabilityMissing = zerr.Wrap(ErrConfiguration, "estimator lacks a required capability")

	// ErrNoProbabilities is returned when an estimator does not produce per-class probabilities.
	ErrNoProbabilities = zerr.Wrap(ErrCapabilityMissing, "estimator does not provide class probabilities")

	// ErrNotConfigurable is returned when hyper-parameters are supplied to an estimator that cannot take them.
	ErrNotConfigurable = zerr.Wrap(ErrCapabilityMissing, "estimator does not accept hyper-parameters")

	// ErrNoImportances is returned when feature selection needs importances the estimator cannot report.
	ErrNoImportances = zerr.Wrap(ErrCapabilityMissing, "estimator does not report feature importances")

	// ErrUnknownParameter is returned when an estimator rejects a hyper-parameter name.
	ErrUnknownParameter = zerr.Wrap(ErrCapabilityMissing, "unknown hyper-parameter")
)

// Runner errors.
var (
	// ErrRunDirExists is returned when the experiment root directory already exists.
	ErrRunDirExists = zerr.New("experiment directory already exists")

	// ErrRunDirCreateFailed is returned when an experiment or task directory cannot be created.
	ErrRunDirCreateFailed = zerr.New("failed to create experiment directory")

	// ErrDefinitionCopyFailed is returned when the experiment file cannot be copied into the run root.
	ErrDefinitionCopyFailed = zerr.New("failed to copy experiment definition")

	// ErrManifestWriteFailed is returned when the run manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write run manifest")

	// ErrManifestReadFailed is returned when the run manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read run manifest")

	// ErrArtifactWriteFailed is returned when a task artifact cannot be written.
	ErrArtifactWriteFailed = zerr.New("failed to write artifact")

	// ErrArtifactOutsideDir is returned when an artifact name escapes its task directory.
	ErrArtifactOutsideDir = zerr.New("artifact path is outside the task directory")

	// ErrFingerprintFailed is returned when an input file cannot be fingerprinted.
	ErrFingerprintFailed = zerr.New("failed to fingerprint input")

	// ErrExperimentFailed is returned by the application when a run aborts.
	ErrExperimentFailed = zerr.New("experiment failed")
)

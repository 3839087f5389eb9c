package domain

// StepKind identifies the task type of an experiment step.
type StepKind string

const (
	// StepFeatureSelection runs recursive feature elimination under cross-validation.
	StepFeatureSelection StepKind = "feature_selection"
	// StepSearch runs a hyper-parameter search under cross-validation.
	StepSearch StepKind = "search"
	// StepEvaluation runs cross-validated evaluation with threshold selection.
	StepEvaluation StepKind = "evaluation"
	// StepTrain fits the estimator on the full training set.
	StepTrain StepKind = "train"
	// StepPredict applies the trained estimator to new data.
	StepPredict StepKind = "predict"
)

// ComponentSpec names a registered estimator or transformer and its parameters.
type ComponentSpec struct {
	Name   string
	Params Params
}

// FoldPlan selects stratified or custom folds.
type FoldPlan struct {
	Total   int
	Shuffle bool
	// CustomPath switches to an externally supplied fold file when set.
	CustomPath string
	IDColumn   string
	FoldColumn string
}

// ScoringPlan configures how a cross-validated score is computed and compared.
type ScoringPlan struct {
	Metric string
	// Threshold binarizes probabilities for threshold metrics. Nil means 0.5.
	Threshold *float64
	// Direction is "maximize", "minimize" or empty for the metric's natural orientation.
	Direction string
}

// ExportFlags toggles the optional evaluation artifacts.
type ExportFlags struct {
	ClassificationReports bool `json:"classification_reports"`
	ConfusionMatrices     bool `json:"confusion_matrices"`
	PRCurves              bool `json:"pr_curves"`
	ROCCurves             bool `json:"roc_curves"`
	FalsePositives        bool `json:"false_positives"`
	FalseNegatives        bool `json:"false_negatives"`
	AlsoForTrainFolds     bool `json:"also_for_train_folds"`
}

// Any reports whether at least one per-partition export is enabled.
func (e ExportFlags) Any() bool {
	return e.ClassificationReports || e.ConfusionMatrices || e.PRCurves || e.ROCCurves ||
		e.FalsePositives || e.FalseNegatives
}

// FeatureSelectionStep configures a feature selection step.
type FeatureSelectionStep struct {
	MinFeatures int
	Scoring     ScoringPlan
}

// SearchStep configures a hyper-parameter search step.
type SearchStep struct {
	Space SearchSpace
	// Mode is "grid" or "random".
	Mode       string
	Iterations int
	Scoring    ScoringPlan
}

// EvaluationStep configures an evaluation step.
type EvaluationStep struct {
	SelectionBy    string
	FixedThreshold *float64
	ThresholdStep  float64
	Exports        ExportFlags
}

// TrainStep configures a training step.
type TrainStep struct {
	Threshold float64
}

// PredictStep configures a prediction step. A nil Threshold reuses the evaluated threshold.
type PredictStep struct {
	Threshold        *float64
	PredictionColumn string
}

// StepPlan is one step of an experiment; exactly one of the option pointers matches Kind.
type StepPlan struct {
	Kind             StepKind
	FeatureSelection *FeatureSelectionStep
	Search           *SearchStep
	Evaluation       *EvaluationStep
	Train            *TrainStep
	Predict          *PredictStep
}

// ExperimentPlan is a validated, declarative experiment definition.
type ExperimentPlan struct {
	// Source is the experiment file the plan was loaded from.
	Source       string
	Name         string
	Output       string
	Experimenter string
	Seed         int64
	Parallelism  int

	Train   DataSource
	Test    *DataSource
	Predict *DataSource

	Folds         FoldPlan
	Preprocessing []ComponentSpec
	Estimator     ComponentSpec
	Steps         []StepPlan
}

package config

// Experimentfile represents the structure of a sift experiment file.
type Experimentfile struct {
	Version       string         `yaml:"version"`
	Experiment    ExperimentDTO  `yaml:"experiment"`
	Seed          int64          `yaml:"seed"`
	Parallelism   int            `yaml:"parallelism"`
	Data          DataDTO        `yaml:"data"`
	Folds         FoldsDTO       `yaml:"folds"`
	Preprocessing []ComponentDTO `yaml:"preprocessing"`
	Estimator     ComponentDTO   `yaml:"estimator"`
	Steps         []StepDTO      `yaml:"steps"`
}

// ExperimentDTO names the run.
type ExperimentDTO struct {
	Name         string `yaml:"name"`
	Output       string `yaml:"output"`
	Experimenter string `yaml:"experimenter"`
}

// DataDTO locates the data sets. Paths are relative to the experiment file.
type DataDTO struct {
	Train       string   `yaml:"train"`
	Test        string   `yaml:"test"`
	Predict     string   `yaml:"predict"`
	Delimiter   string   `yaml:"delimiter"`
	IDColumn    string   `yaml:"id_column"`
	LabelColumn string   `yaml:"label_column"`
	Features    []string `yaml:"features"`
}

// FoldsDTO selects exactly one fold strategy.
type FoldsDTO struct {
	Stratified *StratifiedDTO  `yaml:"stratified"`
	Custom     *CustomFoldsDTO `yaml:"custom"`
}

// StratifiedDTO configures stratified k-fold assignment.
type StratifiedDTO struct {
	Total   int  `yaml:"total"`
	Shuffle bool `yaml:"shuffle"`
}

// CustomFoldsDTO points at an (id, fold) file.
type CustomFoldsDTO struct {
	Path       string `yaml:"path"`
	IDColumn   string `yaml:"id_column"`
	FoldColumn string `yaml:"fold_column"`
}

// ComponentDTO names a registered estimator or transformer.
type ComponentDTO struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

// StepDTO holds exactly one step definition.
type StepDTO struct {
	FeatureSelection *FeatureSelectionDTO `yaml:"feature_selection"`
	Search           *SearchDTO           `yaml:"search"`
	Evaluation       *EvaluationDTO       `yaml:"evaluation"`
	Train            *TrainDTO            `yaml:"train"`
	Predict          *PredictDTO          `yaml:"predict"`
}

// ScoringDTO configures a cross-validated score.
type ScoringDTO struct {
	Metric    string   `yaml:"metric"`
	Threshold *float64 `yaml:"threshold"`
	Direction string   `yaml:"direction"`
}

// FeatureSelectionDTO configures recursive feature elimination.
type FeatureSelectionDTO struct {
	MinFeatures int        `yaml:"min_features_to_select"`
	Scoring     ScoringDTO `yaml:"scoring"`
}

// SearchDTO configures a hyper-parameter search.
type SearchDTO struct {
	Space      map[string][]any `yaml:"space"`
	Mode       string           `yaml:"mode"`
	Iterations int              `yaml:"iterations"`
	Scoring    ScoringDTO       `yaml:"scoring"`
}

// EvaluationDTO configures cross-validated evaluation.
type EvaluationDTO struct {
	SelectionBy    string    `yaml:"threshold_selection_by"`
	FixedThreshold *float64  `yaml:"fixed_threshold"`
	ThresholdStep  float64   `yaml:"threshold_step"`
	Exports        ExportDTO `yaml:"exports"`
}

// ExportDTO toggles optional evaluation artifacts.
type ExportDTO struct {
	ClassificationReports bool `yaml:"classification_reports"`
	ConfusionMatrices     bool `yaml:"confusion_matrices"`
	PRCurves              bool `yaml:"pr_curves"`
	ROCCurves             bool `yaml:"roc_curves"`
	FalsePositives        bool `yaml:"false_positives"`
	FalseNegatives        bool `yaml:"false_negatives"`
	AlsoForTrainFolds     bool `yaml:"also_for_train_folds"`
}

// TrainDTO configures the training step.
type TrainDTO struct {
	Threshold *float64 `yaml:"threshold"`
}

// PredictDTO configures the prediction step.
type PredictDTO struct {
	Threshold        *float64 `yaml:"threshold"`
	PredictionColumn string   `yaml:"prediction_column"`
}

package domain

// FeatureCountScore is the cross-validated score of the subset holding Count features.
type FeatureCountScore struct {
	Count      int       `json:"count"`
	MeanScore  float64   `json:"mean_score"`
	StdScore   float64   `json:"std_score"`
	FoldScores []float64 `json:"fold_scores"`
}

// FeatureSelectionResult is the outcome of recursive feature elimination under cross-validation.
type FeatureSelectionResult struct {
	Selected []string            `json:"selected"`
	Scores   []FeatureCountScore `json:"scores"`
}

// SearchRow is one evaluated hyper-parameter combination.
type SearchRow struct {
	Index      int       `json:"index"`
	Params     Params    `json:"params"`
	MeanScore  float64   `json:"mean_score"`
	StdScore   float64   `json:"std_score"`
	Rank       int       `json:"rank"`
	FoldScores []float64 `json:"fold_scores"`
}

// EvaluationResult is the outcome of cross-validated evaluation.
type EvaluationResult struct {
	// Threshold is the decision threshold selected on validation folds only.
	Threshold   float64 `json:"threshold"`
	SelectionBy string  `json:"selection_by"`

	// CrossValidation holds metrics over the pooled out-of-fold predictions.
	CrossValidation ThresholdMetrics `json:"cv_threshold_metrics"`
	Folds           []FoldMetrics    `json:"cv_splits_threshold_metrics"`
	Summary         MetricsSummary   `json:"cv_splits_threshold_metrics_summary"`

	TrainFolds   []FoldMetrics   `json:"train_splits_threshold_metrics,omitempty"`
	TrainSummary *MetricsSummary `json:"train_splits_threshold_metrics_summary,omitempty"`

	Test *ThresholdMetrics `json:"test_threshold_metrics,omitempty"`
}

// Prediction is the binarized output for one sample.
type Prediction struct {
	ID          string  `json:"id"`
	Label       int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

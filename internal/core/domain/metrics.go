package domain

// Metric names understood by threshold selection and scoring.
const (
	MetricAccuracy         = "accuracy"
	MetricPrecision        = "precision"
	MetricRecall           = "recall"
	MetricF1               = "f1"
	MetricSpecificity      = "specificity"
	MetricBalancedAccuracy = "balanced_accuracy"
	MetricROCAUC           = "roc_auc"
	MetricAveragePrecision = "average_precision"
	MetricLogLoss          = "log_loss"
	MetricBrier            = "brier"
)

// ThresholdMetrics holds the classification metrics obtained by binarizing predicted
// probabilities at Threshold (a sample is positive when its probability is >= Threshold).
//
// Precision is reported as 0 with PrecisionUndefined set when nothing is predicted positive;
// recall likewise when there are no positive labels.
type ThresholdMetrics struct {
	Threshold float64 `json:"threshold"`

	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`

	Accuracy         float64 `json:"accuracy"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1               float64 `json:"f1"`
	Specificity      float64 `json:"specificity"`
	BalancedAccuracy float64 `json:"balanced_accuracy"`

	// ROCAUC and AveragePrecision do not depend on the threshold.
	ROCAUC           float64 `json:"roc_auc"`
	AveragePrecision float64 `json:"average_precision"`

	PrecisionUndefined bool `json:"precision_undefined"`
	RecallUndefined    bool `json:"recall_undefined"`
}

// SummaryMetricNames lists, in export order, the metrics aggregated across folds.
var SummaryMetricNames = []string{
	MetricAccuracy,
	MetricPrecision,
	MetricRecall,
	MetricF1,
	MetricSpecificity,
	MetricBalancedAccuracy,
	MetricROCAUC,
	MetricAveragePrecision,
}

// Value returns a named metric.
func (m ThresholdMetrics) Value(name string) (float64, bool) {
	switch name {
	case MetricAccuracy:
		return m.Accuracy, true
	case MetricPrecision:
		return m.Precision, true
	case MetricRecall:
		return m.Recall, true
	case MetricF1:
		return m.F1, true
	case MetricSpecificity:
		return m.Specificity, true
	case MetricBalancedAccuracy:
		return m.BalancedAccuracy, true
	case MetricROCAUC:
		return m.ROCAUC, true
	case MetricAveragePrecision:
		return m.AveragePrecision, true
	default:
		return 0, false
	}
}

// Stat is a mean and standard deviation across folds.
type Stat struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// MetricsSummary aggregates ThresholdMetrics across folds at one threshold.
type MetricsSummary struct {
	Threshold float64         `json:"threshold"`
	Metrics   map[string]Stat `json:"metrics"`
}

// FoldMetrics pairs a fold index with its metrics.
type FoldMetrics struct {
	Fold    int              `json:"fold"`
	Metrics ThresholdMetrics `json:"metrics"`
}

// ConfusionMatrix is the 2x2 matrix laid out as [[TN, FP], [FN, TP]].
func (m ThresholdMetrics) ConfusionMatrix() [2][2]int {
	return [2][2]int{{m.TN, m.FP}, {m.FN, m.TP}}
}

package cv

import (
	"fmt"
	"math"
	"slices"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

// Scoring directions.
const (
	Maximize = "maximize"
	Minimize = "minimize"
)

// DefaultScoringThreshold binarizes probabilities when a plan leaves the threshold unset.
const DefaultScoringThreshold = 0.5

// ScoringMetrics lists the metrics a cross-validated score may use.
var ScoringMetrics = []string{
	domain.MetricAccuracy,
	domain.MetricPrecision,
	domain.MetricRecall,
	domain.MetricF1,
	domain.MetricBalancedAccuracy,
	domain.MetricSpecificity,
	domain.MetricROCAUC,
	domain.MetricAveragePrecision,
	domain.MetricLogLoss,
	domain.MetricBrier,
}

// Scorer turns labels and positive-class probabilities into a single comparable score.
type Scorer struct {
	metric    string
	threshold float64
	maximize  bool
}

// NewScorer validates plan and returns a Scorer.
// A nil threshold means DefaultScoringThreshold.
// An empty direction uses the metric's orientation: losses are minimized, everything else maximized.
func NewScorer(plan domain.ScoringPlan) (Scorer, error) {
	metric := plan.Metric
	if metric == "" {
		metric = domain.MetricAccuracy
	}
	if !slices.Contains(ScoringMetrics, metric) {
		err := zerr.Wrap(domain.ErrUnknownMetric, fmt.Sprintf("scoring metric %q is not supported", metric))
		return Scorer{}, zerr.With(zerr.With(err, "parameter", "scoring"), "expected", ScoringMetrics)
	}
	threshold := DefaultScoringThreshold
	if plan.Threshold != nil {
		threshold = *plan.Threshold
	}
	if err := checkThreshold(threshold); err != nil {
		return Scorer{}, err
	}

	s := Scorer{metric: metric, threshold: threshold}
	switch plan.Direction {
	case "":
		s.maximize = metric != domain.MetricLogLoss && metric != domain.MetricBrier
	case Maximize:
		s.maximize = true
	case Minimize:
		s.maximize = false
	default:
		err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("scoring direction %q is not supported", plan.Direction))
		return Scorer{}, zerr.With(zerr.With(err, "parameter", "direction"), "expected", []string{Maximize, Minimize})
	}
	return s, nil
}

// Metric returns the metric name.
func (s Scorer) Metric() string {
	return s.metric
}

// Maximize reports whether higher scores are better.
func (s Scorer) Maximize() bool {
	return s.maximize
}

// Score computes the metric for one set of predictions.
func (s Scorer) Score(labels []int, proba []float64) (float64, error) {
	if err := checkScored(labels, proba); err != nil {
		return 0, err
	}
	switch s.metric {
	case domain.MetricLogLoss:
		return LogLoss(labels, proba), nil
	case domain.MetricBrier:
		return BrierScore(labels, proba), nil
	}
	m, err := ComputeThresholdMetrics(labels, proba, s.threshold)
	if err != nil {
		return 0, err
	}
	v, _ := m.Value(s.metric)
	return v, nil
}

// Better reports whether a is strictly better than b.
func (s Scorer) Better(a, b float64) bool {
	if s.maximize {
		return a > b
	}
	return a < b
}

// Describe returns a JSON-friendly view for run manifests.
func (s Scorer) Describe() map[string]any {
	direction := Minimize
	if s.maximize {
		direction = Maximize
	}
	return map[string]any{
		"metric":    s.metric,
		"threshold": s.threshold,
		"direction": direction,
	}
}

// LogLoss is the mean negative log-likelihood, with probabilities clipped away from 0 and 1.
func LogLoss(labels []int, proba []float64) float64 {
	const eps = 1e-15
	total := 0.0
	for i, y := range labels {
		p := math.Min(math.Max(proba[i], eps), 1-eps)
		if y == 1 {
			total -= math.Log(p)
		} else {
			total -= math.Log(1 - p)
		}
	}
	return total / float64(len(labels))
}

// BrierScore is the mean squared difference between probability and label.
func BrierScore(labels []int, proba []float64) float64 {
	total := 0.0
	for i, y := range labels {
		d := proba[i] - float64(y)
		total += d * d
	}
	return total / float64(len(labels))
}

package cv

import (
	"fmt"
	"math"
	"slices"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
	"gonum.org/v1/gonum/stat"
)

// DefaultThresholdStep is the spacing of the default threshold grid.
const DefaultThresholdStep = 0.01

// SelectionMetrics lists the metrics a threshold may be selected by.
var SelectionMetrics = []string{
	domain.MetricF1,
	domain.MetricAccuracy,
	domain.MetricPrecision,
	domain.MetricRecall,
	domain.MetricBalancedAccuracy,
	domain.MetricSpecificity,
}

// ThresholdGrid returns the thresholds 0, step, 2*step, ... up to and including 1.
func ThresholdGrid(step float64) ([]float64, error) {
	if math.IsNaN(step) || step <= 0 || step > 1 {
		err := zerr.Wrap(domain.ErrInvalidThreshold, fmt.Sprintf("threshold step %v is outside (0, 1]", step))
		return nil, zerr.With(zerr.With(err, "parameter", "threshold_step"), "expected", "0 < step <= 1")
	}
	count := int(math.Floor(1/step + 1e-9))
	grid := make([]float64, 0, count+2)
	for i := 0; i <= count; i++ {
		grid = append(grid, math.Round(float64(i)*step*1e9)/1e9)
	}
	if grid[len(grid)-1] < 1 {
		grid = append(grid, 1)
	}
	return grid, nil
}

// Summarize aggregates per-fold metrics at one threshold into mean and standard deviation.
// The standard deviation is the unbiased sample estimate, or 0 for a single fold.
func Summarize(threshold float64, folds []domain.ThresholdMetrics) domain.MetricsSummary {
	summary := domain.MetricsSummary{
		Threshold: threshold,
		Metrics:   make(map[string]domain.Stat, len(domain.SummaryMetricNames)),
	}
	values := make([]float64, len(folds))
	for _, name := range domain.SummaryMetricNames {
		for i, m := range folds {
			values[i], _ = m.Value(name)
		}
		summary.Metrics[name] = meanStd(values)
	}
	return summary
}

func meanStd(values []float64) domain.Stat {
	switch len(values) {
	case 0:
		return domain.Stat{}
	case 1:
		return domain.Stat{Mean: values[0]}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return domain.Stat{Mean: mean, Std: std}
}

// SweepSummaries aggregates a per-fold sweep (folds x grid) into one summary per threshold.
func SweepSummaries(grid []float64, perFold [][]domain.ThresholdMetrics) []domain.MetricsSummary {
	out := make([]domain.MetricsSummary, len(grid))
	at := make([]domain.ThresholdMetrics, len(perFold))
	for i, t := range grid {
		for k := range perFold {
			at[k] = perFold[k][i]
		}
		out[i] = Summarize(t, at)
	}
	return out
}

// SelectThreshold returns the index of the summary with the highest mean of metric.
// Ties keep the earliest summary, i.e. the lowest threshold of an ascending grid.
func SelectThreshold(summaries []domain.MetricsSummary, metric string) (int, error) {
	if !slices.Contains(SelectionMetrics, metric) {
		err := zerr.Wrap(domain.ErrUnknownMetric, fmt.Sprintf("threshold_selection_by %q is not supported", metric))
		return 0, zerr.With(zerr.With(err, "parameter", "threshold_selection_by"), "expected", SelectionMetrics)
	}
	if len(summaries) == 0 {
		return 0, zerr.Wrap(domain.ErrInvalidThreshold, "threshold grid is empty")
	}
	best := 0
	for i := 1; i < len(summaries); i++ {
		if summaries[i].Metrics[metric].Mean > summaries[best].Metrics[metric].Mean {
			best = i
		}
	}
	return best, nil
}

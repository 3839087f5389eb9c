package cv

import (
	"fmt"
	"math"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

// Binarize converts positive-class probabilities into labels: 1 when p >= threshold.
func Binarize(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}

// ComputeThresholdMetrics binarizes proba at threshold and compares the result with labels.
// The result depends on its arguments only.
func ComputeThresholdMetrics(labels []int, proba []float64, threshold float64) (domain.ThresholdMetrics, error) {
	if err := checkThreshold(threshold); err != nil {
		return domain.ThresholdMetrics{}, err
	}
	if err := checkScored(labels, proba); err != nil {
		return domain.ThresholdMetrics{}, err
	}
	auc, ap := rankMetrics(labels, proba)
	return metricsAt(labels, proba, threshold, auc, ap), nil
}

// Sweep computes ThresholdMetrics for every threshold of grid.
func Sweep(labels []int, proba []float64, grid []float64) ([]domain.ThresholdMetrics, error) {
	if err := checkScored(labels, proba); err != nil {
		return nil, err
	}
	for _, t := range grid {
		if err := checkThreshold(t); err != nil {
			return nil, err
		}
	}
	auc, ap := rankMetrics(labels, proba)
	out := make([]domain.ThresholdMetrics, len(grid))
	for i, t := range grid {
		out[i] = metricsAt(labels, proba, t, auc, ap)
	}
	return out, nil
}

func metricsAt(labels []int, proba []float64, threshold, auc, ap float64) domain.ThresholdMetrics {
	m := domain.ThresholdMetrics{Threshold: threshold, ROCAUC: auc, AveragePrecision: ap}
	for i, y := range labels {
		predicted := proba[i] >= threshold
		switch {
		case predicted && y == 1:
			m.TP++
		case predicted:
			m.FP++
		case y == 1:
			m.FN++
		default:
			m.TN++
		}
	}

	n := m.TP + m.FP + m.TN + m.FN
	m.Accuracy = ratio(m.TP+m.TN, n)

	if m.TP+m.FP == 0 {
		m.PrecisionUndefined = true
	} else {
		m.Precision = ratio(m.TP, m.TP+m.FP)
	}
	if m.TP+m.FN == 0 {
		m.RecallUndefined = true
	} else {
		m.Recall = ratio(m.TP, m.TP+m.FN)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.Specificity = ratio(m.TN, m.TN+m.FP)
	m.BalancedAccuracy = (m.Recall + m.Specificity) / 2
	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func checkThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		err := zerr.Wrap(domain.ErrInvalidThreshold, fmt.Sprintf("threshold %v is outside [0, 1]", t))
		return zerr.With(zerr.With(err, "parameter", "threshold"), "expected", "0 <= threshold <= 1")
	}
	return nil
}

func checkScored(labels []int, proba []float64) error {
	if len(labels) != len(proba) {
		err := zerr.Wrap(domain.ErrShapeMismatch, fmt.Sprintf("%d labels but %d probabilities", len(labels), len(proba)))
		return zerr.With(zerr.With(err, "labels", len(labels)), "probabilities", len(proba))
	}
	if len(labels) == 0 {
		return zerr.Wrap(domain.ErrEmptyDataset, "no samples to score")
	}
	for i, y := range labels {
		if y != 0 && y != 1 {
			return zerr.With(zerr.Wrap(domain.ErrNonBinaryLabels, fmt.Sprintf("label %d at position %d", y, i)), "label", y)
		}
		if p := proba[i]; math.IsNaN(p) || p < 0 || p > 1 {
			err := zerr.Wrap(domain.ErrInvalidValue, fmt.Sprintf("probability %v at position %d is outside [0, 1]", p, i))
			return zerr.With(err, "position", i)
		}
	}
	return nil
}

// PositiveClass extracts the positive-class column of a predict-proba result for n samples.
func PositiveClass(proba [][]float64, n int) ([]float64, error) {
	if len(proba) != n {
		err := zerr.Wrap(domain.ErrShapeMismatch, fmt.Sprintf("estimator returned %d probability rows for %d samples", len(proba), n))
		return nil, zerr.With(err, "expected", n)
	}
	out := make([]float64, n)
	for i, row := range proba {
		if len(row) < 2 {
			err := zerr.Wrap(domain.ErrNoProbabilities, fmt.Sprintf("probability row %d has %d columns, expected 2", i, len(row)))
			return nil, zerr.With(err, "expected", 2)
		}
		out[i] = row[1]
	}
	return out, nil
}

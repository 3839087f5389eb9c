package cv

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/integrate"
)

// Curve is a sequence of operating points ordered by decreasing threshold.
type Curve struct {
	X          []float64
	Y          []float64
	Thresholds []float64
}

// ROCCurve returns false positive rates (X) and true positive rates (Y).
// The first point is (0, 0) at an infinite threshold.
// Rates are 0 when the class they are normalised by is absent.
func ROCCurve(labels []int, proba []float64) Curve {
	tps, fps, thresholds := cumulativeCounts(labels, proba)
	positives, negatives := tps[len(tps)-1], fps[len(fps)-1]

	curve := Curve{
		X:          make([]float64, len(tps)),
		Y:          make([]float64, len(tps)),
		Thresholds: thresholds,
	}
	for i := range tps {
		curve.X[i] = ratio(fps[i], negatives)
		curve.Y[i] = ratio(tps[i], positives)
	}
	return curve
}

// PRCurve returns recalls (X) and precisions (Y).
// The first point is (0, 1) at an infinite threshold.
func PRCurve(labels []int, proba []float64) Curve {
	tps, fps, thresholds := cumulativeCounts(labels, proba)
	positives := tps[len(tps)-1]

	curve := Curve{
		X:          make([]float64, len(tps)),
		Y:          make([]float64, len(tps)),
		Thresholds: thresholds,
	}
	curve.Y[0] = 1
	for i := 1; i < len(tps); i++ {
		curve.X[i] = ratio(tps[i], positives)
		curve.Y[i] = ratio(tps[i], tps[i]+fps[i])
	}
	return curve
}

// ROCAUC integrates the ROC curve with the trapezoidal rule.
// Returns 0 when only one class is present.
func ROCAUC(labels []int, proba []float64) float64 {
	auc, _ := rankMetrics(labels, proba)
	return auc
}

// AveragePrecision summarises the PR curve as the recall-weighted mean of precisions.
// Returns 0 when there is no positive label.
func AveragePrecision(labels []int, proba []float64) float64 {
	_, ap := rankMetrics(labels, proba)
	return ap
}

func rankMetrics(labels []int, proba []float64) (auc, ap float64) {
	if len(labels) == 0 {
		return 0, 0
	}
	roc := ROCCurve(labels, proba)
	positives, negatives := 0, 0
	for _, y := range labels {
		if y == 1 {
			positives++
		} else {
			negatives++
		}
	}
	if positives > 0 && negatives > 0 {
		auc = integrate.Trapezoidal(roc.X, roc.Y)
	}
	if positives > 0 {
		pr := PRCurve(labels, proba)
		for i := 1; i < len(pr.X); i++ {
			ap += (pr.X[i] - pr.X[i-1]) * pr.Y[i]
		}
	}
	return auc, ap
}

// cumulativeCounts walks the samples by decreasing probability and records, at each distinct
// probability, the number of true and false positives obtained by predicting every sample at or
// above it as positive. Index 0 is the empty prediction at an infinite threshold.
func cumulativeCounts(labels []int, proba []float64) (tps, fps []int, thresholds []float64) {
	order := make([]int, len(proba))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case proba[a] > proba[b]:
			return -1
		case proba[a] < proba[b]:
			return 1
		default:
			return 0
		}
	})

	tps = []int{0}
	fps = []int{0}
	thresholds = []float64{math.Inf(1)}
	tp, fp := 0, 0
	for i, idx := range order {
		if labels[idx] == 1 {
			tp++
		} else {
			fp++
		}
		if i+1 < len(order) && proba[order[i+1]] == proba[idx] {
			continue
		}
		tps = append(tps, tp)
		fps = append(fps, fp)
		thresholds = append(thresholds, proba[idx])
	}
	return tps, fps, thresholds
}

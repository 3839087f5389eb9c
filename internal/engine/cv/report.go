package cv

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/sift/internal/core/domain"
)

// FormatFloat renders metric values with fixed precision so repeated runs produce identical files.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// MetricsHeader is the CSV header matching MetricsRow.
func MetricsHeader(prefix ...string) []string {
	header := append([]string{}, prefix...)
	header = append(header, "threshold", "tp", "fp", "tn", "fn")
	header = append(header, domain.SummaryMetricNames...)
	return append(header, "precision_undefined", "recall_undefined")
}

// MetricsRow renders m as a CSV row, preceded by prefix cells.
func MetricsRow(m domain.ThresholdMetrics, prefix ...string) []string {
	row := append([]string{}, prefix...)
	row = append(row,
		FormatFloat(m.Threshold),
		strconv.Itoa(m.TP), strconv.Itoa(m.FP), strconv.Itoa(m.TN), strconv.Itoa(m.FN),
	)
	for _, name := range domain.SummaryMetricNames {
		v, _ := m.Value(name)
		row = append(row, FormatFloat(v))
	}
	return append(row, strconv.FormatBool(m.PrecisionUndefined), strconv.FormatBool(m.RecallUndefined))
}

// SummaryHeader is the CSV header matching SummaryRow.
func SummaryHeader() []string {
	header := []string{"threshold"}
	for _, name := range domain.SummaryMetricNames {
		header = append(header, name+"_mean", name+"_std")
	}
	return header
}

// SummaryRow renders a summary as a CSV row.
func SummaryRow(s domain.MetricsSummary) []string {
	row := []string{FormatFloat(s.Threshold)}
	for _, name := range domain.SummaryMetricNames {
		st := s.Metrics[name]
		row = append(row, FormatFloat(st.Mean), FormatFloat(st.Std))
	}
	return row
}

// ConfusionMatrixCSV renders the confusion matrix with true labels as rows.
func ConfusionMatrixCSV(m domain.ThresholdMetrics) (header []string, rows [][]string) {
	cm := m.ConfusionMatrix()
	header = []string{"actual", "predicted_0", "predicted_1"}
	rows = [][]string{
		{"0", strconv.Itoa(cm[0][0]), strconv.Itoa(cm[0][1])},
		{"1", strconv.Itoa(cm[1][0]), strconv.Itoa(cm[1][1])},
	}
	return header, rows
}

// CurveCSV renders a curve with the given axis names.
func CurveCSV(c Curve, xName, yName string) (header []string, rows [][]string) {
	header = []string{"threshold", xName, yName}
	rows = make([][]string, len(c.X))
	for i := range c.X {
		rows[i] = []string{
			strconv.FormatFloat(c.Thresholds[i], 'f', -1, 64),
			FormatFloat(c.X[i]),
			FormatFloat(c.Y[i]),
		}
	}
	return header, rows
}

// ClassificationReport renders per-class precision, recall, f1 and support at m's threshold.
func ClassificationReport(m domain.ThresholdMetrics) string {
	type line struct {
		name                  string
		precision, recall, f1 float64
		support               int
	}

	negPrecision := ratio(m.TN, m.TN+m.FN)
	negRecall := m.Specificity
	neg := line{"0", negPrecision, negRecall, f1(negPrecision, negRecall), m.TN + m.FP}
	pos := line{"1", m.Precision, m.Recall, m.F1, m.TP + m.FN}
	total := neg.support + pos.support

	macro := line{
		"macro avg",
		(neg.precision + pos.precision) / 2,
		(neg.recall + pos.recall) / 2,
		(neg.f1 + pos.f1) / 2,
		total,
	}
	weighted := line{name: "weighted avg", support: total}
	if total > 0 {
		wn, wp := float64(neg.support)/float64(total), float64(pos.support)/float64(total)
		weighted.precision = wn*neg.precision + wp*pos.precision
		weighted.recall = wn*neg.recall + wp*pos.recall
		weighted.f1 = wn*neg.f1 + wp*pos.f1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "threshold: %s\n\n", FormatFloat(m.Threshold))
	fmt.Fprintf(&b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, l := range []line{neg, pos} {
		fmt.Fprintf(&b, "%12s %10.4f %10.4f %10.4f %10d\n", l.name, l.precision, l.recall, l.f1, l.support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s %10s %10s %10.4f %10d\n", "accuracy", "", "", m.Accuracy, total)
	for _, l := range []line{macro, weighted} {
		fmt.Fprintf(&b, "%12s %10.4f %10.4f %10.4f %10d\n", l.name, l.precision, l.recall, l.f1, l.support)
	}
	return b.String()
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

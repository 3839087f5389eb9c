package estimator

import (
	"fmt"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

func unknownParam(component, name string, known ...string) error {
	err := zerr.Wrap(domain.ErrUnknownParameter, fmt.Sprintf("%s: unknown hyper-parameter %q", component, name))
	return zerr.With(zerr.With(err, "parameter", name), "expected", known)
}

func invalidParam(component, name string, value any, expected string) error {
	err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("%s: %s=%v, expected %s", component, name, value, expected))
	return zerr.With(zerr.With(err, "parameter", name), "expected", expected)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func checkFitInput(component string, x domain.Features, y []int) error {
	if x.Len() != len(y) {
		err := zerr.Wrap(domain.ErrShapeMismatch, fmt.Sprintf("%s: %d feature rows but %d labels", component, x.Len(), len(y)))
		return zerr.With(err, "estimator", component)
	}
	if x.Len() == 0 {
		return zerr.With(zerr.Wrap(domain.ErrEmptyDataset, component+": cannot fit on zero samples"), "estimator", component)
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			err := zerr.Wrap(domain.ErrNonBinaryLabels, fmt.Sprintf("%s: label %d at position %d", component, label, i))
			return zerr.With(err, "estimator", component)
		}
	}
	return nil
}

func notFitted(component string) error {
	return zerr.With(zerr.Wrap(domain.ErrNotFitted, component+": call Fit before predicting"), "estimator", component)
}

func checkWidth(component string, x domain.Features, width int) error {
	if x.Width() != width {
		err := zerr.Wrap(domain.ErrShapeMismatch, fmt.Sprintf("%s: fitted on %d features, got %d", component, width, x.Width()))
		return zerr.With(err, "expected", width)
	}
	return nil
}

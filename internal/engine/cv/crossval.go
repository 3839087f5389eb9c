package cv

import (
	"context"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
)

// FoldPrediction holds the positive-class probabilities produced for one fold.
type FoldPrediction struct {
	Split      domain.Split
	Validation []float64
	// Train is nil unless training-fold predictions were requested.
	Train []float64
}

// Predict returns the positive-class probabilities of a fitted estimator on x.
func Predict(est ports.Estimator, x domain.Features) ([]float64, error) {
	proba, err := est.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return PositiveClass(proba, x.Len())
}

// CrossValPredict fits a fresh clone of est on every fold's training indices and predicts
// its validation indices, and optionally its training indices too.
func CrossValPredict(
	ctx context.Context,
	est ports.Estimator,
	data *domain.Dataset,
	splits []domain.Split,
	parallelism int,
	withTrain bool,
) ([]FoldPrediction, error) {
	return ForEachFold(ctx, splits, parallelism, func(_ context.Context, split domain.Split) (FoldPrediction, error) {
		train := data.Subset(split.Train)
		model := est.Clone()
		if err := model.Fit(train.Features, train.Labels); err != nil {
			return FoldPrediction{}, err
		}

		res := FoldPrediction{Split: split}
		var err error
		res.Validation, err = Predict(model, data.Subset(split.Validation).Features)
		if err != nil {
			return FoldPrediction{}, err
		}
		if withTrain {
			res.Train, err = Predict(model, train.Features)
			if err != nil {
				return FoldPrediction{}, err
			}
		}
		return res, nil
	})
}

// CrossValScores scores est on every fold's validation indices.
func CrossValScores(
	ctx context.Context,
	est ports.Estimator,
	data *domain.Dataset,
	splits []domain.Split,
	scorer Scorer,
	parallelism int,
) ([]float64, error) {
	preds, err := CrossValPredict(ctx, est, data, splits, parallelism, false)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(preds))
	for i, p := range preds {
		labels := data.Subset(p.Split.Validation).Labels
		if scores[i], err = scorer.Score(labels, p.Validation); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// MeanStd returns the mean and standard deviation of fold scores.
func MeanStd(scores []float64) (float64, float64) {
	s := meanStd(scores)
	return s.Mean, s.Std
}

package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/engine/cv"
	"go.trai.ch/sift/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// SearchTaskName names the hyper-parameter search task and its output directory.
const SearchTaskName = "hyperparameters_search_cross_validation_task"

// Search modes.
const (
	SearchGrid   = "grid"
	SearchRandom = "random"
)

// Search artifacts.
const (
	SearchResultsFile = "search_results.csv"
	BestParamsFile    = "best_params.json"
)

// SearchConfig configures a hyper-parameter search under cross-validation.
type SearchConfig struct {
	CrossValidation

	// Estimator must accept hyper-parameters.
	Estimator ports.Estimator
	Space     domain.SearchSpace
	// Mode is SearchGrid (default) or SearchRandom.
	Mode       string
	Iterations int
	Seed       int64
	Scoring    domain.ScoringPlan
}

// SearchResult is the outcome of a hyper-parameter search.
type SearchResult struct {
	BestParams domain.Params
	// BestIndex is the position of the best combination in Results.
	BestIndex int
	// BestEstimator is refitted on the full training set with BestParams.
	BestEstimator ports.Estimator
	BestScore     float64
	Results       []domain.SearchRow
}

// Search evaluates hyper-parameter combinations by their mean cross-validated score.
type Search struct {
	cfg        SearchConfig
	scorer     cv.Scorer
	candidates []cv.Candidate
}

// NewSearch validates cfg and expands the search space before any fitting happens.
func NewSearch(cfg SearchConfig) (*Search, error) {
	const task = SearchTaskName
	if err := cfg.validate(task); err != nil {
		return nil, err
	}
	if err := requireLabels(task, "train_data_set", cfg.Train); err != nil {
		return nil, err
	}
	if cfg.Estimator == nil {
		return nil, missingArgument(task, "estimator")
	}
	if _, ok := cfg.Estimator.(ports.Configurable); !ok {
		err := zerr.Wrap(domain.ErrNotConfigurable, task+": estimator must accept hyper-parameters")
		return nil, zerr.With(zerr.With(err, "task", task), "parameter", "estimator")
	}
	scorer, err := cv.NewScorer(cfg.Scoring)
	if err != nil {
		return nil, withTask(err, task)
	}

	if cfg.Mode == "" {
		cfg.Mode = SearchGrid
	}
	var candidates []cv.Candidate
	switch cfg.Mode {
	case SearchGrid:
		candidates, err = cv.GridCandidates(cfg.Space)
	case SearchRandom:
		candidates, err = cv.RandomCandidates(cfg.Space, cfg.Iterations, cfg.Seed)
	default:
		return nil, invalidArgument(task, "search_mode", cfg.Mode, "grid or random")
	}
	if err != nil {
		return nil, withTask(err, task)
	}

	frozen := cfg
	frozen.CrossValidation = cfg.clone()
	frozen.Estimator = cfg.Estimator.Clone()
	frozen.Space = cfg.Space.Clone()
	return &Search{cfg: frozen, scorer: scorer, candidates: candidates}, nil
}

// Name implements ports.Task.
func (t *Search) Name() string {
	return SearchTaskName
}

// Arguments implements ports.Task.
func (t *Search) Arguments() map[string]any {
	args := map[string]any{
		"estimator":     describeEstimator(t.cfg.Estimator),
		"search_params": t.cfg.Space.Clone(),
		"search_mode":   t.cfg.Mode,
		"scoring":       t.scorer.Describe(),
	}
	if t.cfg.Mode == SearchRandom {
		args["n_iters"] = t.cfg.Iterations
		args["random_seed"] = t.cfg.Seed
	}
	return t.cfg.describe(args)
}

// Inputs implements ports.InputDeclarer.
func (t *Search) Inputs() []string {
	return t.cfg.inputs()
}

// Run implements ports.Task.
func (t *Search) Run(ctx context.Context, outputDir string) (SearchResult, error) {
	data, err := loadLabelled(t.cfg.Loader, t.cfg.Train)
	if err != nil {
		return SearchResult{}, err
	}
	splits, err := cv.Splits(t.cfg.Folds, data)
	if err != nil {
		return SearchResult{}, err
	}

	rows := make([]domain.SearchRow, len(t.candidates))
	best := 0
	for i, c := range t.candidates {
		est, err := pipeline.Configure(t.cfg.Estimator, c.Params)
		if err != nil {
			return SearchResult{}, err
		}
		scores, err := cv.CrossValScores(ctx, est, data, splits, t.scorer, t.cfg.Parallelism)
		if err != nil {
			return SearchResult{}, err
		}
		mean, std := cv.MeanStd(scores)
		rows[i] = domain.SearchRow{Index: c.Index, Params: c.Params.Clone(), MeanScore: mean, StdScore: std, FoldScores: scores}
		if t.scorer.Better(mean, rows[best].MeanScore) {
			best = i
		}
	}
	for i := range rows {
		rows[i].Rank = 1
		for j := range rows {
			if t.scorer.Better(rows[j].MeanScore, rows[i].MeanScore) {
				rows[i].Rank++
			}
		}
	}

	refit, err := pipeline.Configure(t.cfg.Estimator, rows[best].Params)
	if err != nil {
		return SearchResult{}, err
	}
	if err := refit.Fit(data.Features, data.Labels); err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{
		BestParams:    rows[best].Params.Clone(),
		BestIndex:     best,
		BestEstimator: refit,
		BestScore:     rows[best].MeanScore,
		Results:       rows,
	}
	if err := t.export(outputDir, res, len(splits)); err != nil {
		return SearchResult{}, err
	}
	return res, nil
}

func (t *Search) export(dir string, res SearchResult, folds int) error {
	header := foldScoreHeader([]string{"index", "params", "mean_score", "std_score", "rank"}, folds)
	rows := make([][]string, len(res.Results))
	for i, r := range res.Results {
		params, err := json.Marshal(r.Params)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err)
		}
		row := []string{
			strconv.Itoa(r.Index),
			string(params),
			cv.FormatFloat(r.MeanScore),
			cv.FormatFloat(r.StdScore),
			strconv.Itoa(r.Rank),
		}
		rows[i] = append(row, foldScoreCells(r.FoldScores)...)
	}
	if err := t.cfg.Artifacts.WriteCSV(dir, SearchResultsFile, header, rows); err != nil {
		return err
	}
	return t.cfg.Artifacts.WriteJSON(dir, BestParamsFile, map[string]any{
		"best_params": res.BestParams,
		"best_index":  res.BestIndex,
		"best_score":  res.BestScore,
	})
}

// Package app implements the application layer for sift.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/sift/internal/adapters/estimator"
	"go.trai.ch/sift/internal/adapters/telemetry"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/engine/cv"
	"go.trai.ch/sift/internal/engine/experiment"
	"go.trai.ch/sift/internal/engine/pipeline"
	"go.trai.ch/sift/internal/engine/tasks"
	"go.trai.ch/zerr"
)

// EstimatorStepName is the pipeline step name of the final estimator.
// Search spaces address its parameters as "estimator__<param>".
const EstimatorStepName = "estimator"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	datasets     ports.DatasetLoader
	artifacts    ports.ArtifactWriter
	store        ports.ManifestStore
	hasher       ports.Hasher
	logger       ports.Logger
	clock        ports.Clock
	renderer     ports.Renderer
	registry     *estimator.Registry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	datasets ports.DatasetLoader,
	artifacts ports.ArtifactWriter,
	store ports.ManifestStore,
	hasher ports.Hasher,
	log ports.Logger,
	clock ports.Clock,
	renderer ports.Renderer,
	registry *estimator.Registry,
) *App {
	return &App{
		configLoader: loader,
		datasets:     datasets,
		artifacts:    artifacts,
		store:        store,
		hasher:       hasher,
		logger:       log,
		clock:        clock,
		renderer:     renderer,
		registry:     registry,
	}
}

// RunOptions overrides fields of the experiment file.
type RunOptions struct {
	Experimenter string
	Output       string
}

// Run loads the experiment file at path and executes its steps in order.
// Each step runs as a task of one experiment; results chain into later steps.
// On failure the error is logged and returned joined with domain.ErrExperimentFailed.
func (a *App) Run(ctx context.Context, path string, opts RunOptions) (domain.RunManifest, error) {
	plan, err := a.configLoader.Load(path)
	if err != nil {
		return domain.RunManifest{}, zerr.Wrap(err, "failed to load experiment")
	}
	if opts.Experimenter != "" {
		plan.Experimenter = opts.Experimenter
	}
	if opts.Output != "" {
		plan.Output = opts.Output
	}

	tp := telemetry.NewProvider(a.renderer)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracerFrom(tp, telemetry.InstrumentationName)

	runner := experiment.NewRunner(experiment.Options{
		BaseDir:      plan.Output,
		Label:        plan.Name,
		Experimenter: plan.Experimenter,
		Definition:   plan.Source,
	}, a.store, a.hasher, tracer, a.logger, a.clock)

	ctx, span := tracer.Start(ctx, plan.Name)
	defer span.End()

	if err := a.execute(ctx, runner, plan); err != nil {
		span.RecordError(err)
		a.logger.Error(err)
		return runner.Manifest(), errors.Join(domain.ErrExperimentFailed, err)
	}
	a.logger.Info(fmt.Sprintf("experiment %s completed in %s", plan.Name, runner.Root()))
	return runner.Manifest(), nil
}

// state carries results from earlier steps into later ones.
type state struct {
	model     *pipeline.Pipeline
	params    domain.Params
	threshold *float64
	trained   *tasks.TrainResult
	trainedAt float64
}

//nolint:cyclop // one branch per step kind
func (a *App) execute(ctx context.Context, runner *experiment.Runner, plan *domain.ExperimentPlan) error {
	folds, err := a.foldStrategy(plan)
	if err != nil {
		return err
	}
	model, err := a.buildModel(plan)
	if err != nil {
		return err
	}
	base := tasks.CrossValidation{
		Loader:      a.datasets,
		Artifacts:   a.artifacts,
		Train:       plan.Train,
		Folds:       folds,
		Parallelism: plan.Parallelism,
	}

	st := &state{model: model}
	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch step.Kind {
		case domain.StepFeatureSelection:
			err = a.selectFeatures(ctx, runner, base, st, step.FeatureSelection)
		case domain.StepSearch:
			err = a.search(ctx, runner, base, st, plan.Seed, step.Search)
		case domain.StepEvaluation:
			err = a.evaluate(ctx, runner, base, st, plan.Test, step.Evaluation)
		case domain.StepTrain:
			err = a.train(ctx, runner, st, plan.Train, step.Train)
		case domain.StepPredict:
			err = a.predict(ctx, runner, st, plan.Predict, step.Predict)
		default:
			err = zerr.With(zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("unknown step kind %q", step.Kind)), "parameter", "steps")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) foldStrategy(plan *domain.ExperimentPlan) (cv.FoldStrategy, error) {
	if plan.Folds.CustomPath != "" {
		return cv.NewCustomFolds(a.datasets, plan.Folds.CustomPath, plan.Train.Options.Delimiter,
			plan.Folds.IDColumn, plan.Folds.FoldColumn)
	}
	return cv.NewStratifiedFolds(plan.Folds.Total, plan.Folds.Shuffle, plan.Seed)
}

func (a *App) buildModel(plan *domain.ExperimentPlan) (*pipeline.Pipeline, error) {
	steps := make([]pipeline.Step, 0, len(plan.Preprocessing))
	for _, spec := range plan.Preprocessing {
		tr, err := a.registry.Transformer(spec)
		if err != nil {
			return nil, err
		}
		steps = append(steps, pipeline.Step{Name: spec.Name, Transformer: tr})
	}
	chain, err := pipeline.NewChain(steps...)
	if err != nil {
		return nil, err
	}
	est, err := a.registry.Estimator(plan.Estimator)
	if err != nil {
		return nil, err
	}
	return pipeline.New(chain, EstimatorStepName, est)
}

// selectFeatures restricts the model to the selected columns by appending a column selector.
func (a *App) selectFeatures(
	ctx context.Context,
	runner *experiment.Runner,
	base tasks.CrossValidation,
	st *state,
	step *domain.FeatureSelectionStep,
) error {
	configured, err := a.configured(st)
	if err != nil {
		return err
	}
	task, err := tasks.NewFeatureSelection(tasks.FeatureSelectionConfig{
		CrossValidation: base,
		Estimator:       configured.Estimator(),
		Preprocessor:    configured.Preprocessor(),
		MinFeatures:     step.MinFeatures,
		Scoring:         step.Scoring,
	})
	if err != nil {
		return err
	}
	res, err := experiment.Run(ctx, runner, task)
	if err != nil {
		return err
	}

	chain, err := st.model.Preprocessor().Append(pipeline.Step{
		Name:        stepName(st.model.Preprocessor(), estimator.ColumnSelectorName),
		Transformer: estimator.NewColumnSelector(res.Selected...),
	})
	if err != nil {
		return err
	}
	if st.model, err = st.model.WithPreprocessor(chain); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("selected %d feature(s): %v", len(res.Selected), res.Selected))
	return nil
}

// stepName returns base, or base suffixed with a counter when the chain already holds it.
func stepName(chain *pipeline.Chain, base string) string {
	taken := make(map[string]bool)
	for _, s := range chain.Steps() {
		taken[s.Name] = true
	}
	name := base
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

// configured returns an unfitted copy of the model with the parameters found so far.
func (a *App) configured(st *state) (*pipeline.Pipeline, error) {
	est, err := pipeline.Configure(st.model, st.params)
	if err != nil {
		return nil, err
	}
	return est.(*pipeline.Pipeline), nil
}

func (a *App) search(
	ctx context.Context,
	runner *experiment.Runner,
	base tasks.CrossValidation,
	st *state,
	seed int64,
	step *domain.SearchStep,
) error {
	est, err := a.configured(st)
	if err != nil {
		return err
	}
	task, err := tasks.NewSearch(tasks.SearchConfig{
		CrossValidation: base,
		Estimator:       est,
		Space:           step.Space,
		Mode:            step.Mode,
		Iterations:      step.Iterations,
		Seed:            seed,
		Scoring:         step.Scoring,
	})
	if err != nil {
		return err
	}
	res, err := experiment.Run(ctx, runner, task)
	if err != nil {
		return err
	}

	params := st.params.Clone()
	if params == nil {
		params = domain.Params{}
	}
	for k, v := range res.BestParams {
		params[k] = v
	}
	st.params = params
	a.logger.Info(fmt.Sprintf("best parameters %s scored %s", res.BestParams, cv.FormatFloat(res.BestScore)))
	return nil
}

func (a *App) evaluate(
	ctx context.Context,
	runner *experiment.Runner,
	base tasks.CrossValidation,
	st *state,
	test *domain.DataSource,
	step *domain.EvaluationStep,
) error {
	task, err := tasks.NewEvaluation(tasks.EvaluationConfig{
		CrossValidation: base,
		Test:            test,
		Estimator:       st.model,
		Params:          st.params,
		SelectionBy:     step.SelectionBy,
		FixedThreshold:  step.FixedThreshold,
		ThresholdStep:   step.ThresholdStep,
		Exports:         step.Exports,
	})
	if err != nil {
		return err
	}
	res, err := experiment.Run(ctx, runner, task)
	if err != nil {
		return err
	}

	threshold := res.Threshold
	st.threshold = &threshold
	a.logger.Info(fmt.Sprintf("selected threshold %s", cv.FormatFloat(threshold)))
	return nil
}

func (a *App) train(
	ctx context.Context,
	runner *experiment.Runner,
	st *state,
	train domain.DataSource,
	step *domain.TrainStep,
) error {
	threshold := step.Threshold
	task, err := tasks.NewTrain(tasks.TrainConfig{
		Loader:    a.datasets,
		Artifacts: a.artifacts,
		Train:     train,
		Estimator: st.model,
		Params:    st.params,
		Threshold: &threshold,
	})
	if err != nil {
		return err
	}
	res, err := experiment.Run(ctx, runner, task)
	if err != nil {
		return err
	}
	st.trained = &res
	st.trainedAt = threshold
	return nil
}

// predict uses the step threshold, else the evaluated threshold, else the training threshold.
func (a *App) predict(
	ctx context.Context,
	runner *experiment.Runner,
	st *state,
	data *domain.DataSource,
	step *domain.PredictStep,
) error {
	if st.trained == nil {
		err := zerr.Wrap(domain.ErrInvalidArgument, tasks.PredictionTaskName+": no trained estimator, add a train step first")
		return zerr.With(zerr.With(err, "task", tasks.PredictionTaskName), "parameter", "steps")
	}
	if data == nil {
		return zerr.With(zerr.Wrap(domain.ErrMissingArgument, "data.predict is required"), "parameter", "data.predict")
	}

	threshold := st.trainedAt
	switch {
	case step.Threshold != nil:
		threshold = *step.Threshold
	case st.threshold != nil:
		threshold = *st.threshold
	}
	task, err := tasks.NewPrediction(tasks.PredictionConfig{
		Loader:           a.datasets,
		Artifacts:        a.artifacts,
		Data:             *data,
		Estimator:        st.trained.Estimator,
		Columns:          st.trained.Columns,
		Threshold:        &threshold,
		PredictionColumn: step.PredictionColumn,
	})
	if err != nil {
		return err
	}
	preds, err := experiment.Run(ctx, runner, task)
	if err != nil {
		return err
	}

	positives := 0
	for _, p := range preds {
		positives += p.Label
	}
	a.logger.Info(fmt.Sprintf("predicted %d sample(s), %d positive, at threshold %s", len(preds), positives, cv.FormatFloat(threshold)))
	return nil
}

// FoldsOptions configures stratified fold file generation.
type FoldsOptions struct {
	Data        string
	Delimiter   rune
	IDColumn    string
	LabelColumn string
	FoldColumn  string
	Total       int
	Shuffle     bool
	Seed        int64
	Out         string
}

// Folds assigns the samples of a labelled file to stratified folds and writes an (id, fold)
// table usable as a custom fold file.
func (a *App) Folds(_ context.Context, opts FoldsOptions) error {
	strategy, err := cv.NewStratifiedFolds(opts.Total, opts.Shuffle, opts.Seed)
	if err != nil {
		return err
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	data, err := a.datasets.Load(opts.Data, domain.LoadOptions{
		Delimiter:   opts.Delimiter,
		IDColumn:    opts.IDColumn,
		LabelColumn: opts.LabelColumn,
	})
	if err != nil {
		return err
	}
	if err := data.CheckBinaryLabels(); err != nil {
		return err
	}
	assignment, err := strategy.Assign(data)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == "" {
		out = filepath.Join(filepath.Dir(opts.Data), "folds.csv")
	}
	if err := a.datasets.WriteFolds(out, opts.Delimiter, opts.IDColumn, opts.FoldColumn, data.IDs, assignment); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("wrote %d fold(s) for %d sample(s) to %s", strategy.Total(), data.Len(), out))
	return nil
}

// SetJSONLogs switches the logger to JSON lines when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

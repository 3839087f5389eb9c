// Package config provides the experiment file loader for sift.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Supported experiment file versions. An empty version means the latest.
const (
	CurrentVersion = "1"

	// DefaultFoldTotal is the number of stratified folds when none is configured.
	DefaultFoldTotal = 5

	// DefaultFoldColumn names the fold column of custom fold files.
	DefaultFoldColumn = "fold"

	// DefaultScoringThreshold binarizes probabilities for threshold scoring metrics.
	DefaultScoringThreshold = 0.5
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the experiment file at path. When path is a directory, the default
// experiment file inside it is used.
func (l *Loader) Load(path string) (*domain.ExperimentPlan, error) {
	configPath, err := findExperimentFile(path)
	if err != nil {
		return nil, err
	}

	var file Experimentfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "file", configPath)
	}

	plan, err := l.buildPlan(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "file", configPath)
	}
	return plan, nil
}

func findExperimentFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, path), "path", path)
		}
		return "", zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", path)
	}
	if !info.IsDir() {
		return path, nil
	}
	candidate := filepath.Join(path, domain.ExperimentFileName)
	if _, err := os.Stat(candidate); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, candidate), "path", candidate)
	}
	return candidate, nil
}

//nolint:cyclop // linear validation of the file sections
func (l *Loader) buildPlan(configPath string, file *Experimentfile) (*domain.ExperimentPlan, error) {
	if file.Version != "" && file.Version != CurrentVersion {
		return nil, invalid("version", file.Version, CurrentVersion)
	}
	root := filepath.Dir(configPath)

	plan := &domain.ExperimentPlan{
		Source:       configPath,
		Name:         file.Experiment.Name,
		Output:       resolvePath(root, file.Experiment.Output),
		Experimenter: file.Experiment.Experimenter,
		Seed:         file.Seed,
		Parallelism:  file.Parallelism,
	}
	if plan.Name == "" {
		plan.Name = strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	}
	if plan.Output == "" {
		plan.Output = filepath.Join(root, domain.DefaultOutputDir)
	}
	if plan.Parallelism == 0 {
		plan.Parallelism = 1
	}
	if plan.Parallelism < 0 {
		return nil, invalid("parallelism", plan.Parallelism, ">= 1")
	}

	delimiter, err := parseDelimiter(file.Data.Delimiter)
	if err != nil {
		return nil, err
	}
	if file.Data.Train == "" {
		return nil, missing("data.train")
	}
	if file.Data.IDColumn == "" {
		return nil, missing("data.id_column")
	}
	if file.Data.LabelColumn == "" {
		return nil, missing("data.label_column")
	}
	labelled := domain.LoadOptions{
		Delimiter:      delimiter,
		IDColumn:       file.Data.IDColumn,
		LabelColumn:    file.Data.LabelColumn,
		FeatureColumns: file.Data.Features,
	}
	plan.Train = domain.DataSource{Path: resolvePath(root, file.Data.Train), Options: labelled.Clone()}
	if file.Data.Test != "" {
		plan.Test = &domain.DataSource{Path: resolvePath(root, file.Data.Test), Options: labelled.Clone()}
	}
	if file.Data.Predict != "" {
		unlabelled := labelled.Clone()
		unlabelled.LabelColumn = ""
		plan.Predict = &domain.DataSource{Path: resolvePath(root, file.Data.Predict), Options: unlabelled}
	}

	if plan.Folds, err = buildFolds(root, file.Folds, file.Data.IDColumn); err != nil {
		return nil, err
	}

	if file.Estimator.Name == "" {
		return nil, missing("estimator.name")
	}
	plan.Estimator = domain.ComponentSpec{Name: file.Estimator.Name, Params: domain.Params(file.Estimator.Params)}
	for i, dto := range file.Preprocessing {
		if dto.Name == "" {
			return nil, missing(fmt.Sprintf("preprocessing[%d].name", i))
		}
		plan.Preprocessing = append(plan.Preprocessing, domain.ComponentSpec{Name: dto.Name, Params: domain.Params(dto.Params)})
	}

	if plan.Steps, err = buildSteps(file.Steps, plan); err != nil {
		return nil, err
	}
	l.warnUnused(plan)
	return plan, nil
}

func (l *Loader) warnUnused(plan *domain.ExperimentPlan) {
	if l.Logger == nil {
		return
	}
	kinds := make(map[domain.StepKind]bool, len(plan.Steps))
	for _, s := range plan.Steps {
		kinds[s.Kind] = true
	}
	if plan.Test != nil && !kinds[domain.StepEvaluation] {
		l.Logger.Warn("data.test has no effect without an evaluation step")
	}
	if plan.Predict != nil && !kinds[domain.StepPredict] {
		l.Logger.Warn("data.predict has no effect without a predict step")
	}
}

func buildFolds(root string, dto FoldsDTO, idColumn string) (domain.FoldPlan, error) {
	if dto.Stratified != nil && dto.Custom != nil {
		return domain.FoldPlan{}, invalid("folds", "stratified and custom", "exactly one fold strategy")
	}
	if dto.Custom != nil {
		if dto.Custom.Path == "" {
			return domain.FoldPlan{}, missing("folds.custom.path")
		}
		plan := domain.FoldPlan{
			CustomPath: resolvePath(root, dto.Custom.Path),
			IDColumn:   dto.Custom.IDColumn,
			FoldColumn: dto.Custom.FoldColumn,
		}
		if plan.IDColumn == "" {
			plan.IDColumn = idColumn
		}
		if plan.FoldColumn == "" {
			plan.FoldColumn = DefaultFoldColumn
		}
		return plan, nil
	}

	plan := domain.FoldPlan{Total: DefaultFoldTotal}
	if dto.Stratified != nil {
		if dto.Stratified.Total != 0 {
			plan.Total = dto.Stratified.Total
		}
		plan.Shuffle = dto.Stratified.Shuffle
	}
	return plan, nil
}

func buildSteps(dtos []StepDTO, plan *domain.ExperimentPlan) ([]domain.StepPlan, error) {
	if len(dtos) == 0 {
		return nil, missing("steps")
	}
	steps := make([]domain.StepPlan, 0, len(dtos))
	trained := false
	for i, dto := range dtos {
		step, err := buildStep(dto)
		if err != nil {
			return nil, zerr.With(err, "step", i)
		}
		switch step.Kind {
		case domain.StepTrain:
			trained = true
		case domain.StepPredict:
			if plan.Predict == nil {
				return nil, zerr.With(missing("data.predict"), "step", i)
			}
			if !trained {
				return nil, zerr.With(invalid("steps", "predict", "a train step before predict"), "step", i)
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}

//nolint:cyclop // one branch per step kind
func buildStep(dto StepDTO) (domain.StepPlan, error) {
	var step domain.StepPlan
	set := 0
	if dto.FeatureSelection != nil {
		set++
		step.Kind = domain.StepFeatureSelection
		step.FeatureSelection = &domain.FeatureSelectionStep{
			MinFeatures: dto.FeatureSelection.MinFeatures,
			Scoring:     scoring(dto.FeatureSelection.Scoring),
		}
		if step.FeatureSelection.MinFeatures == 0 {
			step.FeatureSelection.MinFeatures = 1
		}
	}
	if dto.Search != nil {
		set++
		step.Kind = domain.StepSearch
		step.Search = &domain.SearchStep{
			Space:      domain.SearchSpace(dto.Search.Space),
			Mode:       dto.Search.Mode,
			Iterations: dto.Search.Iterations,
			Scoring:    scoring(dto.Search.Scoring),
		}
	}
	if dto.Evaluation != nil {
		set++
		e := dto.Evaluation
		if e.SelectionBy != "" && e.FixedThreshold != nil {
			return step, invalid("threshold_selection_by", e.SelectionBy, "unset when fixed_threshold is given")
		}
		step.Kind = domain.StepEvaluation
		step.Evaluation = &domain.EvaluationStep{
			SelectionBy:    e.SelectionBy,
			FixedThreshold: e.FixedThreshold,
			ThresholdStep:  e.ThresholdStep,
			Exports:        domain.ExportFlags(e.Exports),
		}
	}
	if dto.Train != nil {
		set++
		step.Kind = domain.StepTrain
		step.Train = &domain.TrainStep{Threshold: DefaultScoringThreshold}
		if dto.Train.Threshold != nil {
			step.Train.Threshold = *dto.Train.Threshold
		}
	}
	if dto.Predict != nil {
		set++
		step.Kind = domain.StepPredict
		step.Predict = &domain.PredictStep{
			Threshold:        dto.Predict.Threshold,
			PredictionColumn: dto.Predict.PredictionColumn,
		}
	}
	if set != 1 {
		return step, invalid("steps", set, "exactly one of feature_selection, search, evaluation, train, predict")
	}
	return step, nil
}

func scoring(dto ScoringDTO) domain.ScoringPlan {
	threshold := DefaultScoringThreshold
	if dto.Threshold != nil {
		threshold = *dto.Threshold
	}
	return domain.ScoringPlan{
		Metric:    dto.Metric,
		Threshold: &threshold,
		Direction: dto.Direction,
	}
}

func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\n' || r == '\r' {
		return 0, invalid("data.delimiter", s, "a single character other than quote or newline")
	}
	return r, nil
}

func resolvePath(root, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(root, path))
}

func missing(parameter string) error {
	err := zerr.Wrap(domain.ErrMissingArgument, parameter+" is required")
	return zerr.With(err, "parameter", parameter)
}

func invalid(parameter string, value any, expected string) error {
	err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("%s %v is invalid", parameter, value))
	return zerr.With(zerr.With(zerr.With(err, "parameter", parameter), "value", value), "expected", expected)
}

// readAndUnmarshalYAML decodes configPath strictly; unknown keys are parse errors.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil {
		if errors.Is(parseErr, io.EOF) {
			return zerr.Wrap(domain.ErrConfigParseFailed, "experiment file is empty")
		}
		return fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, parseErr)
	}
	return nil
}

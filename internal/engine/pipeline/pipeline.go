// Package pipeline composes preprocessing transformers and a final estimator into one estimator.
package pipeline

import (
	"fmt"
	"maps"
	"strings"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/zerr"
)

// ParamSeparator separates a step name from a parameter name, as in "scaler__with_mean".
const ParamSeparator = "__"

// Step is a named preprocessing stage.
type Step struct {
	Name        string
	Transformer ports.Transformer
}

// Chain applies transformers in order. It is itself a transformer.
type Chain struct {
	steps []Step
}

// NewChain creates a chain from steps. Step names must be unique and non-empty.
func NewChain(steps ...Step) (*Chain, error) {
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		if s.Name == "" || strings.Contains(s.Name, ParamSeparator) {
			err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("pipeline step name %q is invalid", s.Name))
			return nil, zerr.With(err, "expected", "non-empty name without "+ParamSeparator)
		}
		if _, dup := seen[s.Name]; dup {
			err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("pipeline step name %q is used twice", s.Name))
			return nil, zerr.With(err, "step", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return &Chain{steps: append([]Step(nil), steps...)}, nil
}

// Steps returns the chain's stages.
func (c *Chain) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

// Append returns a new unfitted chain with step added at the end.
func (c *Chain) Append(step Step) (*Chain, error) {
	clone := c.Clone().(*Chain)
	return NewChain(append(clone.steps, step)...)
}

// Fit fits every stage on the output of the previous one.
func (c *Chain) Fit(x domain.Features, y []int) error {
	_, err := c.FitTransform(x, y)
	return err
}

// FitTransform fits every stage and returns the transformed training features.
func (c *Chain) FitTransform(x domain.Features, y []int) (domain.Features, error) {
	current := x
	for _, s := range c.steps {
		if err := s.Transformer.Fit(current, y); err != nil {
			return domain.Features{}, zerr.With(err, "step", s.Name)
		}
		next, err := s.Transformer.Transform(current)
		if err != nil {
			return domain.Features{}, zerr.With(err, "step", s.Name)
		}
		current = next
	}
	return current, nil
}

// Transform applies every fitted stage.
func (c *Chain) Transform(x domain.Features) (domain.Features, error) {
	current := x
	for _, s := range c.steps {
		next, err := s.Transformer.Transform(current)
		if err != nil {
			return domain.Features{}, zerr.With(err, "step", s.Name)
		}
		current = next
	}
	return current, nil
}

// Clone returns an unfitted copy of the chain.
func (c *Chain) Clone() ports.Transformer {
	steps := make([]Step, len(c.steps))
	for i, s := range c.steps {
		steps[i] = Step{Name: s.Name, Transformer: s.Transformer.Clone()}
	}
	return &Chain{steps: steps}
}

// SetParams routes "step__param" names to the matching stage.
func (c *Chain) SetParams(params domain.Params) error {
	grouped, err := c.group(params)
	if err != nil {
		return err
	}
	for _, s := range c.steps {
		stepParams, ok := grouped[s.Name]
		if !ok {
			continue
		}
		if err := setParams(s.Name, s.Transformer, stepParams); err != nil {
			return err
		}
	}
	return nil
}

// Params returns every stage's parameters in "step__param" form.
func (c *Chain) Params() domain.Params {
	out := domain.Params{}
	for _, s := range c.steps {
		collect(out, s.Name, s.Transformer)
	}
	return out
}

// Describe returns a JSON-friendly view for run manifests.
func (c *Chain) Describe() map[string]any {
	steps := make([]any, len(c.steps))
	for i, s := range c.steps {
		steps[i] = describeStep(s.Name, s.Transformer)
	}
	return map[string]any{"steps": steps}
}

func (c *Chain) group(params domain.Params) (map[string]domain.Params, error) {
	grouped := map[string]domain.Params{}
	for _, key := range params.Keys() {
		step, name, ok := strings.Cut(key, ParamSeparator)
		if !ok || !c.has(step) {
			err := zerr.Wrap(domain.ErrUnknownParameter, fmt.Sprintf("parameter %q does not name a pipeline step", key))
			return nil, zerr.With(zerr.With(err, "parameter", key), "expected", "<step>"+ParamSeparator+"<param>")
		}
		if grouped[step] == nil {
			grouped[step] = domain.Params{}
		}
		grouped[step][name] = params[key]
	}
	return grouped, nil
}

func (c *Chain) has(name string) bool {
	for _, s := range c.steps {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Pipeline chains preprocessing stages in front of a final estimator.
// Features reaching the estimator must be finite.
type Pipeline struct {
	preprocess *Chain
	name       string
	estimator  ports.Estimator
}

// New creates a pipeline. estimatorName is the step name used for parameter routing.
func New(preprocess *Chain, estimatorName string, est ports.Estimator) (*Pipeline, error) {
	if est == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingArgument, "pipeline requires an estimator"), "parameter", "estimator")
	}
	if preprocess == nil {
		preprocess = &Chain{}
	}
	if _, err := NewChain(append(preprocess.Steps(), Step{Name: estimatorName})...); err != nil {
		return nil, err
	}
	return &Pipeline{preprocess: preprocess, name: estimatorName, estimator: est}, nil
}

// Preprocessor returns the preprocessing chain.
func (p *Pipeline) Preprocessor() *Chain {
	return p.preprocess
}

// Estimator returns the final estimator.
func (p *Pipeline) Estimator() ports.Estimator {
	return p.estimator
}

// EstimatorName returns the step name of the final estimator.
func (p *Pipeline) EstimatorName() string {
	return p.name
}

// WithPreprocessor returns an unfitted pipeline sharing p's estimator configuration with another chain.
func (p *Pipeline) WithPreprocessor(preprocess *Chain) (*Pipeline, error) {
	return New(preprocess, p.name, p.estimator.Clone())
}

// Fit fits the preprocessing chain, then the estimator on its output.
func (p *Pipeline) Fit(x domain.Features, y []int) error {
	transformed, err := p.preprocess.FitTransform(x, y)
	if err != nil {
		return err
	}
	if err := transformed.CheckFinite(); err != nil {
		return zerr.With(err, "stage", "after preprocessing")
	}
	return p.estimator.Fit(transformed, y)
}

// PredictProba transforms x and returns the estimator's class probabilities.
func (p *Pipeline) PredictProba(x domain.Features) ([][]float64, error) {
	transformed, err := p.transform(x)
	if err != nil {
		return nil, err
	}
	return p.estimator.PredictProba(transformed)
}

// Transform applies the fitted preprocessing chain.
func (p *Pipeline) Transform(x domain.Features) (domain.Features, error) {
	return p.transform(x)
}

func (p *Pipeline) transform(x domain.Features) (domain.Features, error) {
	out, err := p.preprocess.Transform(x)
	if err != nil {
		return domain.Features{}, err
	}
	if err := out.CheckFinite(); err != nil {
		return domain.Features{}, zerr.With(err, "stage", "after preprocessing")
	}
	return out, nil
}

// Clone returns an unfitted copy.
func (p *Pipeline) Clone() ports.Estimator {
	return &Pipeline{
		preprocess: p.preprocess.Clone().(*Chain),
		name:       p.name,
		estimator:  p.estimator.Clone(),
	}
}

// Snapshot copies est together with its fitted state. It reports false when est, or any stage of a
// pipeline, cannot be copied that way.
func Snapshot(est ports.Estimator) (ports.Estimator, bool) {
	if p, ok := est.(*Pipeline); ok {
		steps := make([]Step, len(p.preprocess.steps))
		for i, s := range p.preprocess.steps {
			t, ok := s.Transformer.(ports.TransformerSnapshotter)
			if !ok {
				return nil, false
			}
			steps[i] = Step{Name: s.Name, Transformer: t.Snapshot()}
		}
		inner, ok := Snapshot(p.estimator)
		if !ok {
			return nil, false
		}
		return &Pipeline{preprocess: &Chain{steps: steps}, name: p.name, estimator: inner}, true
	}
	s, ok := est.(ports.Snapshotter)
	if !ok {
		return nil, false
	}
	return s.Snapshot(), true
}

// SetParams routes "step__param" names to the preprocessing stages or the estimator.
func (p *Pipeline) SetParams(params domain.Params) error {
	own := domain.Params{}
	rest := domain.Params{}
	prefix := p.name + ParamSeparator
	for k, v := range params {
		if name, ok := strings.CutPrefix(k, prefix); ok {
			own[name] = v
		} else {
			rest[k] = v
		}
	}
	if err := p.preprocess.SetParams(rest); err != nil {
		return err
	}
	if len(own) == 0 {
		return nil
	}
	return setParams(p.name, p.estimator, own)
}

// Params returns every stage's parameters in "step__param" form.
func (p *Pipeline) Params() domain.Params {
	out := p.preprocess.Params()
	collect(out, p.name, p.estimator)
	return out
}

// FeatureImportances delegates to the final estimator.
func (p *Pipeline) FeatureImportances() ([]float64, error) {
	reporter, ok := p.estimator.(ports.ImportanceReporter)
	if !ok {
		err := zerr.Wrap(domain.ErrNoImportances, fmt.Sprintf("estimator %q does not report feature importances", p.name))
		return nil, zerr.With(err, "estimator", p.name)
	}
	return reporter.FeatureImportances()
}

// Describe returns a JSON-friendly view for run manifests.
func (p *Pipeline) Describe() map[string]any {
	out := p.preprocess.Describe()
	out["estimator"] = describeStep(p.name, p.estimator)
	return out
}

// Configure returns an unfitted clone of est with params applied.
// Empty params return a plain clone; non-empty params require a Configurable estimator.
func Configure(est ports.Estimator, params domain.Params) (ports.Estimator, error) {
	clone := est.Clone()
	if len(params) == 0 {
		return clone, nil
	}
	if err := setParams(componentName(est), clone, params); err != nil {
		return nil, err
	}
	return clone, nil
}

// Describe returns a JSON-friendly view of any component.
func Describe(component any) map[string]any {
	if d, ok := component.(ports.Describer); ok {
		out := maps.Clone(d.Describe())
		if _, ok := out["name"]; !ok {
			out["name"] = fmt.Sprintf("%T", component)
		}
		return out
	}
	out := map[string]any{"name": fmt.Sprintf("%T", component)}
	if c, ok := component.(ports.Configurable); ok {
		out["params"] = c.Params()
	}
	return out
}

func setParams(step string, component any, params domain.Params) error {
	c, ok := component.(ports.Configurable)
	if !ok {
		err := zerr.Wrap(domain.ErrNotConfigurable, fmt.Sprintf("step %q does not accept hyper-parameters", step))
		return zerr.With(zerr.With(err, "step", step), "parameters", params.Keys())
	}
	if err := c.SetParams(params); err != nil {
		return zerr.With(err, "step", step)
	}
	return nil
}

func collect(out domain.Params, step string, component any) {
	c, ok := component.(ports.Configurable)
	if !ok {
		return
	}
	for k, v := range c.Params() {
		out[step+ParamSeparator+k] = v
	}
}

func componentName(component any) string {
	if name, ok := Describe(component)["name"].(string); ok {
		return name
	}
	return fmt.Sprintf("%T", component)
}

func describeStep(name string, component any) map[string]any {
	out := Describe(component)
	out["step"] = name
	return out
}

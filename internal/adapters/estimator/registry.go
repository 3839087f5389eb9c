// Package estimator provides reference estimators and transformers and a registry that builds
// them by name for config-driven experiments.
package estimator

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/zerr"
)

// EstimatorFactory creates an unfitted estimator with default hyper-parameters.
type EstimatorFactory func() ports.Estimator

// TransformerFactory creates an unfitted transformer with default hyper-parameters.
type TransformerFactory func() ports.Transformer

// Registry maps component names to factories.
type Registry struct {
	mu           sync.RWMutex
	estimators   map[string]EstimatorFactory
	transformers map[string]TransformerFactory
}

// NewRegistry returns a registry holding the built-in components.
func NewRegistry() *Registry {
	r := &Registry{
		estimators:   map[string]EstimatorFactory{},
		transformers: map[string]TransformerFactory{},
	}
	r.RegisterEstimator(ConstantName, func() ports.Estimator { return NewConstant(0.5) })
	r.RegisterEstimator(PriorName, func() ports.Estimator { return NewPrior() })
	r.RegisterEstimator(GaussianNBName, func() ports.Estimator { return NewGaussianNB() })
	r.RegisterTransformer(ImputerName, func() ports.Transformer { return NewImputer() })
	r.RegisterTransformer(StandardScalerName, func() ports.Transformer { return NewStandardScaler() })
	r.RegisterTransformer(ColumnSelectorName, func() ports.Transformer { return NewColumnSelector() })
	return r
}

// RegisterEstimator adds or replaces an estimator factory.
func (r *Registry) RegisterEstimator(name string, factory EstimatorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.estimators[name] = factory
}

// RegisterTransformer adds or replaces a transformer factory.
func (r *Registry) RegisterTransformer(name string, factory TransformerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transformers[name] = factory
}

// Estimator builds the estimator named by spec and applies its parameters.
func (r *Registry) Estimator(spec domain.ComponentSpec) (ports.Estimator, error) {
	r.mu.RLock()
	factory, ok := r.estimators[spec.Name]
	known := slices.Sorted(maps.Keys(r.estimators))
	r.mu.RUnlock()
	if !ok {
		return nil, unknownComponent("estimator", spec.Name, known)
	}
	est := factory()
	if err := configure(spec, est); err != nil {
		return nil, err
	}
	return est, nil
}

// Transformer builds the transformer named by spec and applies its parameters.
func (r *Registry) Transformer(spec domain.ComponentSpec) (ports.Transformer, error) {
	r.mu.RLock()
	factory, ok := r.transformers[spec.Name]
	known := slices.Sorted(maps.Keys(r.transformers))
	r.mu.RUnlock()
	if !ok {
		return nil, unknownComponent("transformer", spec.Name, known)
	}
	t := factory()
	if err := configure(spec, t); err != nil {
		return nil, err
	}
	return t, nil
}

func configure(spec domain.ComponentSpec, component any) error {
	if len(spec.Params) == 0 {
		return nil
	}
	c, ok := component.(ports.Configurable)
	if !ok {
		err := zerr.Wrap(domain.ErrNotConfigurable, fmt.Sprintf("%s does not accept hyper-parameters", spec.Name))
		return zerr.With(err, "component", spec.Name)
	}
	return c.SetParams(spec.Params)
}

func unknownComponent(kind, name string, known []string) error {
	err := zerr.Wrap(domain.ErrUnknownComponent, fmt.Sprintf("%s %q is not registered", kind, name))
	return zerr.With(zerr.With(err, "component", name), "expected", known)
}

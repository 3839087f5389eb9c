package estimator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sift/internal/adapters/estimator"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
)

func TestRegistry(t *testing.T) {
	r := estimator.NewRegistry()

	est, err := r.Estimator(domain.ComponentSpec{Name: "constant", Params: domain.Params{"probability": 0.9}})
	require.NoError(t, err)
	assert.Equal(t, domain.Params{"probability": 0.9}, est.(ports.Configurable).Params())

	tr, err := r.Transformer(domain.ComponentSpec{Name: "imputer", Params: domain.Params{"strategy": "median"}})
	require.NoError(t, err)
	assert.Equal(t, "median", tr.(ports.Configurable).Params()["strategy"])

	_, err = r.Estimator(domain.ComponentSpec{Name: "forest"})
	require.ErrorIs(t, err, domain.ErrUnknownComponent)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "forest")

	_, err = r.Estimator(domain.ComponentSpec{Name: "prior", Params: domain.Params{"x": 1}})
	require.ErrorIs(t, err, domain.ErrNotConfigurable)

	r.RegisterEstimator("always_positive", func() ports.Estimator { return estimator.NewConstant(1) })
	_, err = r.Estimator(domain.ComponentSpec{Name: "always_positive"})
	require.NoError(t, err)
}

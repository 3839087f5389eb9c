package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sift/internal/adapters/estimator"
	"go.trai.ch/sift/internal/app"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newTestApp(ctrl *gomock.Controller, loader *mocks.MockConfigLoader, log *mocks.MockLogger) *app.App {
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return app.New(
		loader,
		mocks.NewMockDatasetLoader(ctrl),
		mocks.NewMockArtifactWriter(ctrl),
		mocks.NewMockManifestStore(ctrl),
		mocks.NewMockHasher(ctrl),
		log,
		mocks.NewMockClock(ctrl),
		renderer,
		estimator.NewRegistry(),
	)
}

func provide(a *app.App, log *mocks.MockLogger) ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: a, Logger: log}, func() {}, nil
	}
}

func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	application := newTestApp(ctrl, mocks.NewMockConfigLoader(ctrl), log)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, io.Discard, provide(application, log))
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "sift version")
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ConfigurationErrorIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	application := newTestApp(ctrl, loader, log)

	path := filepath.Join(t.TempDir(), "exp.yaml")
	loader.EXPECT().Load(path).Return(nil, domain.ErrConfigNotFound)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	}).Times(1)

	exitCode := run(context.Background(), []string{"run", path}, io.Discard, io.Discard, provide(application, log))
	assert.Equal(t, 1, exitCode)
}

func TestRun_ExperimentFailureIsNotLoggedTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	application := newTestApp(ctrl, loader, log)

	loader.EXPECT().Load(".").Return(&domain.ExperimentPlan{
		Name:      "broken",
		Output:    t.TempDir(),
		Folds:     domain.FoldPlan{Total: 1},
		Estimator: domain.ComponentSpec{Name: estimator.PriorName},
	}, nil)
	log.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"run"}, io.Discard, io.Discard, provide(application, log))
	assert.Equal(t, 1, exitCode)
}

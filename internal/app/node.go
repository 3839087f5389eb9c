package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sift/internal/adapters/artifacts" //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/clock"     //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/dataset"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/estimator" //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sift/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			dataset.NodeID,
			artifacts.NodeID,
			manifest.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
			clock.NodeID,
			linear.NodeID,
			estimator.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	datasets, err := graft.Dep[ports.DatasetLoader](ctx)
	if err != nil {
		return nil, err
	}
	writer, err := graft.Dep[ports.ArtifactWriter](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.ManifestStore](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	clk, err := graft.Dep[ports.Clock](ctx)
	if err != nil {
		return nil, err
	}
	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}
	registry, err := graft.Dep[*estimator.Registry](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, datasets, writer, store, hasher, log, clk, renderer, registry), nil
}

// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sift/internal/adapters/artifacts"
	_ "go.trai.ch/sift/internal/adapters/clock"
	_ "go.trai.ch/sift/internal/adapters/config"
	_ "go.trai.ch/sift/internal/adapters/dataset"
	_ "go.trai.ch/sift/internal/adapters/estimator"
	_ "go.trai.ch/sift/internal/adapters/fs"
	_ "go.trai.ch/sift/internal/adapters/linear"
	_ "go.trai.ch/sift/internal/adapters/logger"
	_ "go.trai.ch/sift/internal/adapters/manifest"
	// Register app nodes.
	_ "go.trai.ch/sift/internal/app"
)

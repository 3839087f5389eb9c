package ports

import "go.trai.ch/sift/internal/core/domain"

// ConfigLoader defines the interface for loading experiment definitions.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the experiment file at path and returns the validated plan.
	Load(path string) (*domain.ExperimentPlan, error)
}

package ports

import "go.trai.ch/sift/internal/core/domain"

// ManifestStore persists the ordered task log of a run.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ManifestStore interface {
	// Get reads the manifest stored under root.
	// Returns nil, nil if not found.
	Get(root string) (*domain.RunManifest, error)

	// Put stores the manifest under root, replacing any previous version.
	Put(root string, manifest domain.RunManifest) error
}

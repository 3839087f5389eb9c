package ports

// Hasher computes fingerprints used to make runs reproducible and auditable.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the fingerprint of a file's content.
	HashFile(path string) (string, error)

	// HashArguments returns a fingerprint of task arguments together with input fingerprints.
	HashArguments(args map[string]any, inputs map[string]string) (string, error)
}

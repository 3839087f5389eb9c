// Package fs fingerprints input files and task arguments.
package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

// Hasher implements ports.Hasher using xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile returns the xxhash of a file's content as 16 hex digits.
func (h *Hasher) HashFile(path string) (string, error) {
	//nolint:gosec // Path comes from the experiment configuration
	f, err := os.Open(path)
	if err != nil {
		return "", zerr.With(fmt.Errorf("%w: %w", domain.ErrFingerprintFailed, err), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()

	d := xxhash.New()
	if _, err := io.Copy(d, f); err != nil {
		return "", zerr.With(fmt.Errorf("%w: %w", domain.ErrFingerprintFailed, err), "path", path)
	}
	return fmt.Sprintf("%016x", d.Sum64()), nil
}

// HashArguments hashes the JSON encoding of args followed by the input fingerprints in path order.
// Map keys are encoded sorted, so equal arguments always hash equally.
func (h *Hasher) HashArguments(args map[string]any, inputs map[string]string) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFingerprintFailed, err)
	}

	d := xxhash.New()
	_, _ = d.Write(data)
	for _, path := range slices.Sorted(maps.Keys(inputs)) {
		_, _ = d.WriteString("\x00" + path + "\x00" + inputs[path])
	}
	return fmt.Sprintf("%016x", d.Sum64()), nil
}

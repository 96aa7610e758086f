package store

import (
	"bytes"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v2"

	apperrors "morsel-dashboard/internal/errors"
)

// Manifest records what an artifact was built from. An artifact whose
// manifest differs from the current one is stale regardless of timestamps.
type Manifest struct {
	Product string   `yaml:"product"`
	Inputs  []string `yaml:"inputs"`
}

// NewManifest normalizes product to lower case, matching how rows are
// selected. Input order is kept since it decides record order.
func NewManifest(product string, inputs []string) Manifest {
	return Manifest{
		Product: strings.ToLower(product),
		Inputs:  slices.Clone(inputs),
	}
}

func (m Manifest) Equal(other Manifest) bool {
	return m.Product == other.Product && slices.Equal(m.Inputs, other.Inputs)
}

// ManifestPath is where the manifest for the artifact at path lives.
func ManifestPath(path string) string {
	return path + ".meta"
}

func writeManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return &apperrors.ArtifactWriteError{Path: ManifestPath(path), Err: err}
	}
	err = writeAtomic(ManifestPath(path), func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
	if err != nil {
		return &apperrors.ArtifactWriteError{Path: ManifestPath(path), Err: err}
	}
	return nil
}

func readManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(ManifestPath(path))
	if err != nil {
		return m, err
	}
	err = yaml.Unmarshal(data, &m)
	return m, err
}

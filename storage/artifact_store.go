// Package storage persists generation bundles under a configured output
// root, one directory per job id.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"asset-forge/core/models"
	"asset-forge/mesh"
)

// MetadataFile is the bundle metadata document name inside a job directory
const MetadataFile = "metadata.json"

// ArtifactStore manages the on-disk bundle layout
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates a store rooted at the given output directory
func NewArtifactStore(root string) (*ArtifactStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	return &ArtifactStore{root: root}, nil
}

// Root returns the output root directory
func (s *ArtifactStore) Root() string {
	return s.root
}

// JobDir returns the artifact directory for a job, creating it when needed
func (s *ArtifactStore) JobDir(jobID string) (string, error) {
	dir := filepath.Join(s.root, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create job directory: %w", err)
	}
	return dir, nil
}

// ArtifactPath returns the path of a named artifact inside a job directory
func (s *ArtifactStore) ArtifactPath(jobID, name string) string {
	return filepath.Join(s.root, jobID, name)
}

// WriteMesh encodes the mesh in the given format and writes it as a named
// artifact of the job.
func (s *ArtifactStore) WriteMesh(jobID, name string, m *mesh.Mesh, format string) error {
	data, err := mesh.Encode(m, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.WriteFile(jobID, name, data)
}

// WriteFile writes raw bytes as a named artifact of the job
func (s *ArtifactStore) WriteFile(jobID, name string, data []byte) error {
	dir, err := s.JobDir(jobID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// WriteMetadata persists the bundle as the job's metadata.json
func (s *ArtifactStore) WriteMetadata(jobID string, bundle *models.Bundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return s.WriteFile(jobID, MetadataFile, data)
}

// ReadMetadata loads a previously persisted bundle
func (s *ArtifactStore) ReadMetadata(jobID string) (*models.Bundle, error) {
	data, err := os.ReadFile(s.ArtifactPath(jobID, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var bundle models.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &bundle, nil
}

// Package metrics computes quality metrics for generated meshes and checks
// them against the acceptance rules.
package metrics

import (
	"os"

	"github.com/montanaflynn/stats"

	"asset-forge/core/models"
	"asset-forge/mesh"
)

// Engine computes MetricsRecords and derived reports. The zero value is
// ready to use.
type Engine struct{}

// NewEngine creates a new metrics engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compute builds the full metrics snapshot for a mesh. filePath is optional;
// when set and the file exists, its size feeds the file-size fields.
// The result is deterministic for identical mesh data.
func (e *Engine) Compute(m *mesh.Mesh, filePath string) models.MetricsRecord {
	bmin, bmax := m.Bounds()
	rec := models.MetricsRecord{
		VertexCount: m.VertexCount(),
		FaceCount:   m.FaceCount(),
		EdgeCount:   m.EdgeCount(),
		Volume:      m.Volume(),
		SurfaceArea: m.SurfaceArea(),
		BoundingBox: models.BoundingBox{
			Min: bmin,
			Max: bmax,
			Size: [3]float64{
				bmax[0] - bmin[0],
				bmax[1] - bmin[1],
				bmax[2] - bmin[2],
			},
		},
		IsWatertight:        m.IsWatertight(),
		IsWindingConsistent: m.IsWindingConsistent(),
		IsEmpty:             m.IsEmpty(),
		HasUVCoordinates:    m.HasUV(),
		HasVertexNormals:    m.HasNormals(),
		Loadable:            e.Loadable(m),
	}

	if filePath != "" {
		if info, err := os.Stat(filePath); err == nil {
			rec.FileSizeBytes = info.Size()
			rec.FileSizeMB = float64(info.Size()) / (1024 * 1024)
		}
	}

	if m.FaceCount() > 0 {
		rec.TriangleQuality = triangleQuality(m)
		rec.AspectRatio = aspectRatio(m)
	}
	return rec
}

// Loadable reports whether the mesh is non-empty and survives an encode/
// decode round trip in at least one supported format.
func (e *Engine) Loadable(m *mesh.Mesh) bool {
	if m.IsEmpty() || m.VertexCount() == 0 || m.FaceCount() == 0 {
		return false
	}
	for _, format := range mesh.Formats() {
		data, err := mesh.Encode(m, format)
		if err != nil {
			continue
		}
		if _, err := mesh.Decode(data, format); err == nil {
			return true
		}
	}
	return false
}

func triangleQuality(m *mesh.Mesh) *models.TriangleQuality {
	areas := stats.Float64Data(m.FaceAreas())
	min, _ := stats.Min(areas)
	max, _ := stats.Max(areas)
	mean, _ := stats.Mean(areas)
	std, _ := stats.StandardDeviation(areas)
	return &models.TriangleQuality{
		MinArea:  min,
		MaxArea:  max,
		MeanArea: mean,
		StdArea:  std,
	}
}

func aspectRatio(m *mesh.Mesh) *models.AspectRatio {
	ratios := make(stats.Float64Data, 0, m.FaceCount())
	for _, r := range m.FaceAspectRatios() {
		if r > 0 {
			ratios = append(ratios, r)
		}
	}
	if len(ratios) == 0 {
		return nil
	}
	min, _ := stats.Min(ratios)
	max, _ := stats.Max(ratios)
	mean, _ := stats.Mean(ratios)
	return &models.AspectRatio{Min: min, Max: max, Mean: mean}
}

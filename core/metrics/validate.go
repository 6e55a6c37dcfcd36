package metrics

import (
	"fmt"

	"asset-forge/core/models"
)

// Validate checks a metrics snapshot against the acceptance rules. Errors
// are fatal and force Passed to false; warnings flag quality concerns
// without failing the asset.
func (e *Engine) Validate(rec models.MetricsRecord, rules Rules) models.ValidationReport {
	report := models.ValidationReport{
		Passed:   true,
		Warnings: []string{},
		Errors:   []string{},
	}
	fail := func(msg string) {
		report.Errors = append(report.Errors, msg)
		report.Passed = false
	}
	warn := func(msg string) {
		report.Warnings = append(report.Warnings, msg)
	}

	if rec.VertexCount == 0 {
		fail("Mesh has no vertices")
	}
	if rec.FaceCount == 0 {
		fail("Mesh has no faces")
	}
	if rec.IsEmpty {
		fail("Mesh is empty")
	}
	if !rec.Loadable {
		fail("Mesh failed loadability test")
	}
	if rec.FileSizeMB > rules.MaxFileSizeMB {
		fail(fmt.Sprintf("File size %.2f MB exceeds limit of %.0f MB", rec.FileSizeMB, rules.MaxFileSizeMB))
	}

	if rec.VertexCount > rules.MaxVertexCount {
		warn("High vertex count may impact performance")
	}
	if rec.FaceCount > rules.MaxFaceCount {
		warn("High face count may impact performance")
	}
	if !rec.IsWatertight {
		warn("Mesh is not watertight")
	}
	if !rec.HasUVCoordinates {
		warn("Mesh lacks UV coordinates")
	}
	if !rec.HasVertexNormals {
		warn("Mesh lacks vertex normals")
	}
	return report
}

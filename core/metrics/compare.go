package metrics

import "asset-forge/core/models"

// Compare derives a ComparisonRecord from two metrics snapshots, with b
// measured relative to a. Ratios against a zero reference value are 0 so
// the comparison is total.
func (e *Engine) Compare(a, b models.MetricsRecord) models.ComparisonRecord {
	return models.ComparisonRecord{
		VertexCountDiff:  b.VertexCount - a.VertexCount,
		FaceCountDiff:    b.FaceCount - a.FaceCount,
		VolumeRatio:      safeRatio(b.Volume, a.Volume),
		SurfaceAreaRatio: safeRatio(b.SurfaceArea, a.SurfaceArea),
		FileSizeRatio:    safeRatio(float64(b.FileSizeBytes), float64(a.FileSizeBytes)),
	}
}

func safeRatio(num, denom float64) float64 {
	if denom <= 0 {
		return 0
	}
	return num / denom
}

package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-forge/core/metrics"
	"asset-forge/core/models"
	"asset-forge/mesh"
)

func TestComputeOnBox(t *testing.T) {
	engine := metrics.NewEngine()
	m := mesh.Box([3]float64{1, 1, 1})

	rec := engine.Compute(m, "")

	assert.Equal(t, 8, rec.VertexCount)
	assert.Equal(t, 12, rec.FaceCount)
	assert.Equal(t, 18, rec.EdgeCount)
	assert.InDelta(t, 1.0, rec.Volume, 1e-9)
	assert.InDelta(t, 6.0, rec.SurfaceArea, 1e-9)
	assert.Equal(t, [3]float64{1, 1, 1}, rec.BoundingBox.Size)
	assert.True(t, rec.IsWatertight)
	assert.True(t, rec.IsWindingConsistent)
	assert.False(t, rec.IsEmpty)
	assert.True(t, rec.HasVertexNormals)
	assert.False(t, rec.HasUVCoordinates)
	assert.True(t, rec.Loadable)

	// no file path: size fields stay zero
	assert.Equal(t, int64(0), rec.FileSizeBytes)
	assert.Equal(t, 0.0, rec.FileSizeMB)

	require.NotNil(t, rec.TriangleQuality)
	assert.InDelta(t, 0.5, rec.TriangleQuality.MinArea, 1e-9)
	assert.InDelta(t, 0.5, rec.TriangleQuality.MaxArea, 1e-9)
	assert.InDelta(t, 0.5, rec.TriangleQuality.MeanArea, 1e-9)
	assert.InDelta(t, 0.0, rec.TriangleQuality.StdArea, 1e-9)

	require.NotNil(t, rec.AspectRatio)
	assert.InDelta(t, 1.41421356, rec.AspectRatio.Mean, 1e-6)
}

func TestComputeIsDeterministic(t *testing.T) {
	engine := metrics.NewEngine()
	m := mesh.Icosphere(2)

	a := engine.Compute(m, "")
	b := engine.Compute(m, "")
	assert.Equal(t, a, b)
}

func TestComputeFileSize(t *testing.T) {
	engine := metrics.NewEngine()
	m := mesh.Box([3]float64{1, 1, 1})

	path := filepath.Join(t.TempDir(), "main.glb")
	data, err := mesh.Encode(m, "glb")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rec := engine.Compute(m, path)
	assert.Equal(t, int64(len(data)), rec.FileSizeBytes)
	assert.InDelta(t, float64(len(data))/(1024*1024), rec.FileSizeMB, 1e-12)
}

func TestComputeNoFacesOmitsQualityBlocks(t *testing.T) {
	engine := metrics.NewEngine()
	m := &mesh.Mesh{Vertices: [][3]float64{{0, 0, 0}, {1, 0, 0}}}

	rec := engine.Compute(m, "")
	assert.Equal(t, 2, rec.VertexCount)
	assert.Equal(t, 0, rec.FaceCount)
	assert.True(t, rec.IsEmpty)
	assert.False(t, rec.Loadable)
	assert.Nil(t, rec.TriangleQuality)
	assert.Nil(t, rec.AspectRatio)
}

func TestLoadable(t *testing.T) {
	engine := metrics.NewEngine()
	assert.True(t, engine.Loadable(mesh.Box([3]float64{1, 1, 1})))
	assert.False(t, engine.Loadable(&mesh.Mesh{}))
	assert.False(t, engine.Loadable(&mesh.Mesh{Vertices: [][3]float64{{0, 0, 0}}}))
}

func TestCompare(t *testing.T) {
	engine := metrics.NewEngine()
	a := models.MetricsRecord{
		VertexCount:   100,
		FaceCount:     200,
		Volume:        2.0,
		SurfaceArea:   8.0,
		FileSizeBytes: 1000,
	}
	b := models.MetricsRecord{
		VertexCount:   50,
		FaceCount:     90,
		Volume:        1.0,
		SurfaceArea:   4.0,
		FileSizeBytes: 600,
	}

	cmp := engine.Compare(a, b)
	assert.Equal(t, -50, cmp.VertexCountDiff)
	assert.Equal(t, -110, cmp.FaceCountDiff)
	assert.InDelta(t, 0.5, cmp.VolumeRatio, 1e-9)
	assert.InDelta(t, 0.5, cmp.SurfaceAreaRatio, 1e-9)
	assert.InDelta(t, 0.6, cmp.FileSizeRatio, 1e-9)
}

func TestCompareZeroReferenceYieldsZeroRatios(t *testing.T) {
	engine := metrics.NewEngine()
	cmp := engine.Compare(models.MetricsRecord{}, models.MetricsRecord{
		Volume:        3.0,
		SurfaceArea:   2.0,
		FileSizeBytes: 100,
	})
	assert.Equal(t, 0.0, cmp.VolumeRatio)
	assert.Equal(t, 0.0, cmp.SurfaceAreaRatio)
	assert.Equal(t, 0.0, cmp.FileSizeRatio)
}

func TestValidatePasses(t *testing.T) {
	engine := metrics.NewEngine()
	rec := engine.Compute(mesh.Box([3]float64{1, 1, 1}), "")

	report := engine.Validate(rec, metrics.DefaultRules())
	assert.True(t, report.Passed)
	assert.Empty(t, report.Errors)
	// no UVs on a bare box
	assert.Contains(t, report.Warnings, "Mesh lacks UV coordinates")
}

func TestValidateFailsOnEmptyMesh(t *testing.T) {
	engine := metrics.NewEngine()
	rec := engine.Compute(&mesh.Mesh{}, "")

	report := engine.Validate(rec, metrics.DefaultRules())
	assert.False(t, report.Passed)
	assert.Contains(t, report.Errors, "Mesh has no faces")
	assert.Contains(t, report.Errors, "Mesh has no vertices")
	assert.Contains(t, report.Errors, "Mesh is empty")
}

func TestValidateWarningsDoNotFail(t *testing.T) {
	engine := metrics.NewEngine()
	rec := engine.Compute(mesh.Box([3]float64{1, 1, 1}), "")
	rules := metrics.DefaultRules()
	rules.MaxFaceCount = 1 // force a warning

	report := engine.Validate(rec, rules)
	assert.True(t, report.Passed)
	assert.Contains(t, report.Warnings, "High face count may impact performance")
}

func TestValidateFileSizeBound(t *testing.T) {
	engine := metrics.NewEngine()
	rec := engine.Compute(mesh.Box([3]float64{1, 1, 1}), "")
	rec.FileSizeMB = 60

	report := engine.Validate(rec, metrics.DefaultRules())
	assert.False(t, report.Passed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "exceeds limit")
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_face_count: 1234\n"), 0o644))

	rules, err := metrics.LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, rules.MaxFaceCount)
	// unset fields keep defaults
	assert.Equal(t, metrics.DefaultRules().MaxVertexCount, rules.MaxVertexCount)
	assert.Equal(t, metrics.DefaultRules().MaxFileSizeMB, rules.MaxFileSizeMB)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := metrics.LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

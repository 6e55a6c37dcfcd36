// Package postprocess reduces and re-encodes generated meshes.
package postprocess

import (
	"math/rand"

	"go.uber.org/zap"

	"asset-forge/mesh"
)

// PostProcessor produces reduced-detail mesh variants and format
// conversions.
type PostProcessor struct {
	logger *zap.Logger
	rng    *rand.Rand
}

// NewPostProcessor creates a new post processor
func NewPostProcessor(logger *zap.Logger) *PostProcessor {
	return &PostProcessor{
		logger: logger,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// Decimate reduces the mesh to at most targetFaces faces. Meshes already at
// or below the target are returned unchanged. When edge-collapse
// simplification fails, a uniform random face subset is kept instead; the
// fallback guarantees the face bound but not geometric quality, and a
// decimation failure never propagates to the caller.
func (p *PostProcessor) Decimate(m *mesh.Mesh, targetFaces int) *mesh.Mesh {
	if targetFaces < 1 {
		targetFaces = 1
	}
	if m.FaceCount() <= targetFaces {
		return m
	}

	simplified, err := mesh.Simplify(m, targetFaces)
	if err == nil {
		return simplified
	}
	p.logger.Warn("simplification failed, falling back to random face sampling",
		zap.Int("faces", m.FaceCount()),
		zap.Int("target_faces", targetFaces),
		zap.Error(err))
	return p.sampleFaces(m, targetFaces)
}

// sampleFaces keeps targetFaces faces chosen uniformly at random without
// replacement. All original vertices are kept, including ones no longer
// referenced.
func (p *PostProcessor) sampleFaces(m *mesh.Mesh, targetFaces int) *mesh.Mesh {
	if m.FaceCount() <= targetFaces {
		return m
	}
	out := &mesh.Mesh{
		Vertices: make([][3]float64, len(m.Vertices)),
		Faces:    make([][3]int, 0, targetFaces),
	}
	copy(out.Vertices, m.Vertices)
	for _, i := range p.rng.Perm(m.FaceCount())[:targetFaces] {
		out.Faces = append(out.Faces, m.Faces[i])
	}
	return out
}

// GenerateLOD returns a level-of-detail variant: level 0 is full detail and
// every level halves the face budget, floored at 10 faces.
func (p *PostProcessor) GenerateLOD(m *mesh.Mesh, level int) *mesh.Mesh {
	target := m.FaceCount() >> uint(level)
	if target < 10 {
		target = 10
	}
	return p.Decimate(m, target)
}

// ConvertFormat encodes the mesh in one of the supported file formats.
// Unsupported formats yield an error wrapping mesh.ErrUnsupportedFormat.
func (p *PostProcessor) ConvertFormat(m *mesh.Mesh, format string) ([]byte, error) {
	return mesh.Encode(m, format)
}

// Optimize removes duplicate vertices, unreferenced vertices and degenerate
// faces. Normals are recomputed; UVs survive through the kept vertices.
func (p *PostProcessor) Optimize(m *mesh.Mesh) *mesh.Mesh {
	// merge exactly coincident vertices
	seen := make(map[[3]float64]int)
	remap := make([]int, len(m.Vertices))
	merged := &mesh.Mesh{}
	hadUV := m.HasUV()
	for i, v := range m.Vertices {
		if j, ok := seen[v]; ok {
			remap[i] = j
			continue
		}
		idx := len(merged.Vertices)
		seen[v] = idx
		remap[i] = idx
		merged.Vertices = append(merged.Vertices, v)
		if hadUV {
			merged.UV = append(merged.UV, m.UV[i])
		}
	}
	for _, f := range m.Faces {
		nf := [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
		if nf[0] == nf[1] || nf[1] == nf[2] || nf[2] == nf[0] {
			continue
		}
		merged.Faces = append(merged.Faces, nf)
	}

	// drop vertices no face references
	used := make([]bool, len(merged.Vertices))
	for _, f := range merged.Faces {
		used[f[0]], used[f[1]], used[f[2]] = true, true, true
	}
	out := &mesh.Mesh{}
	final := make([]int, len(merged.Vertices))
	for i, v := range merged.Vertices {
		if !used[i] {
			final[i] = -1
			continue
		}
		final[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, v)
		if hadUV {
			out.UV = append(out.UV, merged.UV[i])
		}
	}
	out.Faces = make([][3]int, len(merged.Faces))
	for i, f := range merged.Faces {
		out.Faces[i] = [3]int{final[f[0]], final[f[1]], final[f[2]]}
	}
	if !out.IsEmpty() {
		out.ComputeNormals()
	}
	return out
}

// AddUV fills missing texture coordinates with a planar XY projection
// normalized to the bounding box. Meshes that already have UVs are returned
// unchanged.
func (p *PostProcessor) AddUV(m *mesh.Mesh) *mesh.Mesh {
	if m.HasUV() || m.VertexCount() == 0 {
		return m
	}
	bmin, bmax := m.Bounds()
	du := bmax[0] - bmin[0]
	dv := bmax[1] - bmin[1]
	out := m.Copy()
	out.UV = make([][2]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		var uv [2]float64
		if du > 0 {
			uv[0] = (v[0] - bmin[0]) / du
		}
		if dv > 0 {
			uv[1] = (v[1] - bmin[1]) / dv
		}
		out.UV[i] = uv
	}
	return out
}

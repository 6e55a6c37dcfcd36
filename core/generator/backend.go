// Package generator drives one generation job end to end: backend mesh
// synthesis, LOD production, screenshot, metrics and bundle persistence.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"asset-forge/mesh"
)

// Backend turns a text description and parameters into a raw mesh. It is
// deterministic for fixed inputs.
type Backend interface {
	GenerateMesh(prompt string, steps int, guidanceScale float64, seed int) (*mesh.Mesh, error)
}

// ProceduralBackend synthesizes meshes from keyword-driven primitive
// selection plus parameter-based deformation. It stands in for a learned
// model while keeping the same contract.
type ProceduralBackend struct{}

// NewProceduralBackend creates a new procedural backend
func NewProceduralBackend() *ProceduralBackend {
	return &ProceduralBackend{}
}

// GenerateMesh builds a mesh for the prompt. The base primitive comes from
// prompt keywords, steps scales the result, guidance_scale above 5 adds
// vertex noise, and style keywords deform the shape further.
func (b *ProceduralBackend) GenerateMesh(prompt string, steps int, guidanceScale float64, seed int) (*mesh.Mesh, error) {
	if steps < 1 {
		return nil, fmt.Errorf("steps must be >= 1, got %d", steps)
	}
	if guidanceScale < 0 {
		return nil, fmt.Errorf("guidance scale must be >= 0, got %g", guidanceScale)
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	lower := strings.ToLower(prompt)

	var m *mesh.Mesh
	switch {
	case containsAny(lower, "cube", "box", "square"):
		m = mesh.Box([3]float64{1, 1, 1})
	case containsAny(lower, "sphere", "ball", "round"):
		m = mesh.Icosphere(2)
	case containsAny(lower, "cylinder", "tube", "pipe"):
		m = mesh.Cylinder(0.5, 1.0, 32)
	case containsAny(lower, "cone", "pyramid"):
		m = mesh.Cone(0.5, 1.0, 32)
	default:
		m = mesh.Icosphere(2)
	}

	applyScale(m, 1.0+float64(steps-10)*0.1)

	if guidanceScale > 5.0 {
		applyNoise(m, (guidanceScale-5.0)*0.1, rng)
	}

	switch {
	case containsAny(lower, "spiky", "sharp"):
		m = addSpikes(m, rng)
	case containsAny(lower, "smooth", "soft"):
		smooth(m)
	case containsAny(lower, "twisted", "spiral"):
		twist(m)
	}

	m.ComputeNormals()
	return m, nil
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func applyScale(m *mesh.Mesh, factor float64) {
	for i := range m.Vertices {
		for j := 0; j < 3; j++ {
			m.Vertices[i][j] *= factor
		}
	}
}

func applyNoise(m *mesh.Mesh, sigma float64, rng *rand.Rand) {
	for i := range m.Vertices {
		for j := 0; j < 3; j++ {
			m.Vertices[i][j] += rng.NormFloat64() * sigma
		}
	}
}

// addSpikes attaches small triangles near randomly chosen vertices
func addSpikes(m *mesh.Mesh, rng *rand.Rand) *mesh.Mesh {
	out := m.Copy()
	count := len(out.Vertices) / 4
	if count > 10 {
		count = 10
	}
	for _, idx := range rng.Perm(len(out.Vertices))[:count] {
		base := out.Vertices[idx]
		start := len(out.Vertices)
		for k := 0; k < 3; k++ {
			out.Vertices = append(out.Vertices, [3]float64{
				base[0] + rng.NormFloat64()*0.1,
				base[1] + rng.NormFloat64()*0.1,
				base[2] + rng.NormFloat64()*0.1,
			})
		}
		out.Faces = append(out.Faces, [3]int{start, start + 1, start + 2})
	}
	out.Normals = nil
	out.UV = nil
	return out
}

// smooth applies one Laplacian smoothing pass, moving each vertex halfway
// toward the mean of its edge neighbors.
func smooth(m *mesh.Mesh) {
	neighbors := make(map[int]map[int]struct{})
	link := func(a, b int) {
		if neighbors[a] == nil {
			neighbors[a] = make(map[int]struct{})
		}
		neighbors[a][b] = struct{}{}
	}
	for _, f := range m.Faces {
		link(f[0], f[1])
		link(f[1], f[0])
		link(f[1], f[2])
		link(f[2], f[1])
		link(f[2], f[0])
		link(f[0], f[2])
	}
	smoothed := make([][3]float64, len(m.Vertices))
	copy(smoothed, m.Vertices)
	for i := range m.Vertices {
		ns := neighbors[i]
		if len(ns) == 0 {
			continue
		}
		var mean [3]float64
		for n := range ns {
			for j := 0; j < 3; j++ {
				mean[j] += m.Vertices[n][j]
			}
		}
		for j := 0; j < 3; j++ {
			mean[j] /= float64(len(ns))
			smoothed[i][j] = 0.5*m.Vertices[i][j] + 0.5*mean[j]
		}
	}
	m.Vertices = smoothed
}

// twist rotates vertices around the Z axis proportionally to their height,
// up to half a turn across the full height range.
func twist(m *mesh.Mesh) {
	center := m.Centroid()
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, v := range m.Vertices {
		z := v[2] - center[2]
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
	}
	zRange := maxZ - minZ
	if zRange <= 0 {
		return
	}
	for i, v := range m.Vertices {
		x := v[0] - center[0]
		y := v[1] - center[1]
		z := v[2] - center[2]
		angle := (z - minZ) / zRange * math.Pi
		sin, cos := math.Sin(angle), math.Cos(angle)
		m.Vertices[i][0] = center[0] + x*cos - y*sin
		m.Vertices[i][1] = center[1] + x*sin + y*cos
	}
}

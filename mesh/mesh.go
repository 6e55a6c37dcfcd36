// Package mesh provides triangle mesh construction, queries, simplification
// and file-format encoding for the asset pipeline.
package mesh

import "math"

// Mesh is an indexed triangle mesh. Normals and UV are optional per-vertex
// attributes; when present their length matches len(Vertices).
type Mesh struct {
	Vertices [][3]float64
	Faces    [][3]int
	Normals  [][3]float64
	UV       [][2]float64
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangle faces
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no usable geometry
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// HasNormals reports whether per-vertex normals are present
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) == len(m.Vertices) && len(m.Normals) > 0
}

// HasUV reports whether per-vertex texture coordinates are present
func (m *Mesh) HasUV() bool {
	return len(m.UV) == len(m.Vertices) && len(m.UV) > 0
}

// Copy returns a deep copy of the mesh
func (m *Mesh) Copy() *Mesh {
	c := &Mesh{
		Vertices: make([][3]float64, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	if m.Normals != nil {
		c.Normals = make([][3]float64, len(m.Normals))
		copy(c.Normals, m.Normals)
	}
	if m.UV != nil {
		c.UV = make([][2]float64, len(m.UV))
		copy(c.UV, m.UV)
	}
	return c
}

// EdgeCount returns the number of unique undirected edges
func (m *Mesh) EdgeCount() int {
	edges := make(map[[2]int]struct{})
	for _, f := range m.Faces {
		edges[edgeKey(f[0], f[1])] = struct{}{}
		edges[edgeKey(f[1], f[2])] = struct{}{}
		edges[edgeKey(f[2], f[0])] = struct{}{}
	}
	return len(edges)
}

// Bounds returns the axis-aligned bounding box as (min, max).
// An empty mesh yields zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if len(m.Vertices) == 0 {
		return
	}
	min = m.Vertices[0]
	max = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return
}

// Volume returns the enclosed volume computed from signed tetrahedra.
// The result is only meaningful for closed meshes; the absolute value is
// returned so winding direction does not flip the sign.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		v += dot(a, cross(b, c)) / 6.0
	}
	return math.Abs(v)
}

// SurfaceArea returns the total area of all faces
func (m *Mesh) SurfaceArea() float64 {
	var total float64
	for _, a := range m.FaceAreas() {
		total += a
	}
	return total
}

// FaceAreas returns the area of every face
func (m *Mesh) FaceAreas() []float64 {
	areas := make([]float64, len(m.Faces))
	for i, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		areas[i] = 0.5 * norm(cross(sub(b, a), sub(c, a)))
	}
	return areas
}

// FaceAspectRatios returns, per face, the ratio of its longest edge to its
// shortest edge. Faces with a zero-length edge report 0.
func (m *Mesh) FaceAspectRatios() []float64 {
	ratios := make([]float64, len(m.Faces))
	for i, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		e0, e1, e2 := dist(a, b), dist(b, c), dist(c, a)
		min := math.Min(e0, math.Min(e1, e2))
		max := math.Max(e0, math.Max(e1, e2))
		if min > 0 {
			ratios[i] = max / min
		}
	}
	return ratios
}

// IsWatertight reports whether every edge is shared by exactly two faces
func (m *Mesh) IsWatertight() bool {
	if m.IsEmpty() {
		return false
	}
	counts := make(map[[2]int]int)
	for _, f := range m.Faces {
		counts[edgeKey(f[0], f[1])]++
		counts[edgeKey(f[1], f[2])]++
		counts[edgeKey(f[2], f[0])]++
	}
	for _, n := range counts {
		if n != 2 {
			return false
		}
	}
	return true
}

// IsWindingConsistent reports whether adjacent faces agree on orientation:
// no directed edge is traversed twice in the same direction.
func (m *Mesh) IsWindingConsistent() bool {
	if m.IsEmpty() {
		return false
	}
	directed := make(map[[2]int]int)
	for _, f := range m.Faces {
		directed[[2]int{f[0], f[1]}]++
		directed[[2]int{f[1], f[2]}]++
		directed[[2]int{f[2], f[0]}]++
	}
	for _, n := range directed {
		if n > 1 {
			return false
		}
	}
	return true
}

// ComputeNormals fills per-vertex normals as the normalized sum of
// area-weighted face normals.
func (m *Mesh) ComputeNormals() {
	normals := make([][3]float64, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := cross(sub(b, a), sub(c, a))
		for _, vi := range f {
			normals[vi] = add(normals[vi], n)
		}
	}
	for i, n := range normals {
		l := norm(n)
		if l > 0 {
			normals[i] = scale(n, 1/l)
		}
	}
	m.Normals = normals
}

// Centroid returns the mean vertex position
func (m *Mesh) Centroid() [3]float64 {
	var c [3]float64
	if len(m.Vertices) == 0 {
		return c
	}
	for _, v := range m.Vertices {
		c = add(c, v)
	}
	return scale(c, 1/float64(len(m.Vertices)))
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func add(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func scale(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}

func dist(a, b [3]float64) float64 {
	return norm(sub(a, b))
}

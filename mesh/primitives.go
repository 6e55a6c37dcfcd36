package mesh

import "math"

// Box creates an axis-aligned box centered at the origin with the given
// extents (full side lengths).
func Box(extents [3]float64) *Mesh {
	x := extents[0] / 2
	y := extents[1] / 2
	z := extents[2] / 2
	m := &Mesh{
		Vertices: [][3]float64{
			{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
			{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
		},
		Faces: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{4, 5, 6}, {4, 6, 7}, // top
			{0, 1, 5}, {0, 5, 4}, // front
			{2, 3, 7}, {2, 7, 6}, // back
			{0, 4, 7}, {0, 7, 3}, // left
			{1, 2, 6}, {1, 6, 5}, // right
		},
	}
	m.ComputeNormals()
	return m
}

// Icosphere creates a unit sphere by subdividing an icosahedron. Each
// subdivision level quadruples the face count (level 0 has 20 faces).
func Icosphere(subdivisions int) *Mesh {
	t := (1.0 + math.Sqrt(5.0)) / 2.0

	vertices := [][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i, v := range vertices {
		vertices[i] = scale(v, 1/norm(v))
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	midpoints := make(map[[2]int]int)
	midpoint := func(a, b int) int {
		key := edgeKey(a, b)
		if idx, ok := midpoints[key]; ok {
			return idx
		}
		mid := scale(add(vertices[a], vertices[b]), 0.5)
		mid = scale(mid, 1/norm(mid))
		vertices = append(vertices, mid)
		idx := len(vertices) - 1
		midpoints[key] = idx
		return idx
	}

	for s := 0; s < subdivisions; s++ {
		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], a, c},
				[3]int{f[1], b, a},
				[3]int{f[2], c, b},
				[3]int{a, b, c},
			)
		}
		faces = next
	}

	m := &Mesh{Vertices: vertices, Faces: faces}
	m.ComputeNormals()
	return m
}

// Cylinder creates a closed cylinder centered at the origin with its axis
// along Z.
func Cylinder(radius, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	h := height / 2
	m := &Mesh{}

	// bottom ring [0,segments), top ring [segments,2*segments)
	for _, z := range []float64{-h, h} {
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			m.Vertices = append(m.Vertices, [3]float64{radius * math.Cos(a), radius * math.Sin(a), z})
		}
	}
	bottomCenter := len(m.Vertices)
	m.Vertices = append(m.Vertices, [3]float64{0, 0, -h})
	topCenter := len(m.Vertices)
	m.Vertices = append(m.Vertices, [3]float64{0, 0, h})

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		bi, bj := i, j
		ti, tj := segments+i, segments+j
		// side
		m.Faces = append(m.Faces, [3]int{bi, bj, tj}, [3]int{bi, tj, ti})
		// caps
		m.Faces = append(m.Faces, [3]int{bottomCenter, bj, bi}, [3]int{topCenter, ti, tj})
	}
	m.ComputeNormals()
	return m
}

// Cone creates a closed cone centered at the origin with its apex at +Z.
func Cone(radius, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	h := height / 2
	m := &Mesh{}

	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		m.Vertices = append(m.Vertices, [3]float64{radius * math.Cos(a), radius * math.Sin(a), -h})
	}
	apex := len(m.Vertices)
	m.Vertices = append(m.Vertices, [3]float64{0, 0, h})
	baseCenter := len(m.Vertices)
	m.Vertices = append(m.Vertices, [3]float64{0, 0, -h})

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		m.Faces = append(m.Faces, [3]int{i, j, apex}, [3]int{baseCenter, j, i})
	}
	m.ComputeNormals()
	return m
}

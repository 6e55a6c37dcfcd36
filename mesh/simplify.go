package mesh

import "fmt"

// Simplify reduces the face count to at most targetFaces by repeatedly
// collapsing the shortest edge to its midpoint. The result has unreferenced
// vertices removed and freshly computed normals; UV coordinates are not
// carried over. An error is returned when the target cannot be reached,
// which callers are expected to handle with their own fallback.
func Simplify(m *Mesh, targetFaces int) (*Mesh, error) {
	if targetFaces < 1 {
		return nil, fmt.Errorf("target face count must be >= 1, got %d", targetFaces)
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("cannot simplify empty mesh")
	}
	if len(m.Faces) <= targetFaces {
		return m.Copy(), nil
	}

	vertices := make([][3]float64, len(m.Vertices))
	copy(vertices, m.Vertices)
	faces := make([][3]int, len(m.Faces))
	copy(faces, m.Faces)

	for len(faces) > targetFaces {
		u, v, ok := shortestEdge(vertices, faces)
		if !ok {
			return nil, fmt.Errorf("no collapsible edge left at %d faces (target %d)", len(faces), targetFaces)
		}

		// collapse v into u at the edge midpoint
		vertices[u] = scale(add(vertices[u], vertices[v]), 0.5)
		kept := faces[:0]
		for _, f := range faces {
			for i := range f {
				if f[i] == v {
					f[i] = u
				}
			}
			if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
				continue // degenerated by the collapse
			}
			kept = append(kept, f)
		}
		if len(kept) == len(faces) {
			return nil, fmt.Errorf("simplification stalled at %d faces (target %d)", len(faces), targetFaces)
		}
		faces = kept
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("simplification collapsed all faces (target %d)", targetFaces)
	}

	out := compact(vertices, faces)
	out.ComputeNormals()
	return out, nil
}

// shortestEdge returns the endpoints of the shortest edge referenced by any
// face. Ties break on the smaller vertex pair so results are deterministic.
func shortestEdge(vertices [][3]float64, faces [][3]int) (int, int, bool) {
	best := [2]int{-1, -1}
	bestLen := 0.0
	found := false
	seen := make(map[[2]int]struct{})
	for _, f := range faces {
		for _, e := range [][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}} {
			key := edgeKey(e[0], e[1])
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			l := dist(vertices[key[0]], vertices[key[1]])
			if !found || l < bestLen || (l == bestLen && lessPair(key, best)) {
				best = key
				bestLen = l
				found = true
			}
		}
	}
	return best[0], best[1], found
}

func lessPair(a, b [2]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// compact rebuilds the mesh keeping only vertices referenced by faces
func compact(vertices [][3]float64, faces [][3]int) *Mesh {
	remap := make(map[int]int)
	out := &Mesh{Faces: make([][3]int, len(faces))}
	for i, f := range faces {
		var nf [3]int
		for j, vi := range f {
			ni, ok := remap[vi]
			if !ok {
				ni = len(out.Vertices)
				out.Vertices = append(out.Vertices, vertices[vi])
				remap[vi] = ni
			}
			nf[j] = ni
		}
		out.Faces[i] = nf
	}
	return out
}

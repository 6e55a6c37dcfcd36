package mesh

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is returned for formats outside Formats()
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Formats lists the supported file formats
func Formats() []string {
	return []string{"glb", "obj", "ply"}
}

// Encode serializes the mesh in the given format
func Encode(m *Mesh, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "glb":
		return encodeGLB(m)
	case "obj":
		return encodeOBJ(m)
	case "ply":
		return encodePLY(m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Decode parses mesh data in the given format
func Decode(data []byte, format string) (*Mesh, error) {
	switch strings.ToLower(format) {
	case "glb":
		return decodeGLB(data)
	case "obj":
		return decodeOBJ(data)
	case "ply":
		return decodePLY(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func encodeOBJ(m *Mesh) ([]byte, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("cannot encode empty mesh")
	}
	var b strings.Builder
	for _, v := range m.Vertices {
		fmt.Fprintf(&b, "v %g %g %g\n", v[0], v[1], v[2])
	}
	hasUV := m.HasUV()
	hasNormals := m.HasNormals()
	if hasUV {
		for _, uv := range m.UV {
			fmt.Fprintf(&b, "vt %g %g\n", uv[0], uv[1])
		}
	}
	if hasNormals {
		for _, n := range m.Normals {
			fmt.Fprintf(&b, "vn %g %g %g\n", n[0], n[1], n[2])
		}
	}
	for _, f := range m.Faces {
		b.WriteString("f")
		for _, vi := range f {
			i := vi + 1
			switch {
			case hasUV && hasNormals:
				fmt.Fprintf(&b, " %d/%d/%d", i, i, i)
			case hasNormals:
				fmt.Fprintf(&b, " %d//%d", i, i)
			case hasUV:
				fmt.Fprintf(&b, " %d/%d", i, i)
			default:
				fmt.Fprintf(&b, " %d", i)
			}
		}
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func decodeOBJ(data []byte) (*Mesh, error) {
	m := &Mesh{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed vertex line: %q", scanner.Text())
			}
			var v [3]float64
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("parse vertex: %w", err)
				}
				v[i] = f
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed face line: %q", scanner.Text())
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				// vertex references look like i, i/j, i//k or i/j/k
				part := strings.SplitN(ref, "/", 2)[0]
				i, err := strconv.Atoi(part)
				if err != nil {
					return nil, fmt.Errorf("parse face index: %w", err)
				}
				if i < 0 {
					i = len(m.Vertices) + i + 1
				}
				if i < 1 || i > len(m.Vertices) {
					return nil, fmt.Errorf("face index %d out of range", i)
				}
				idx = append(idx, i-1)
			}
			// triangulate polygons as a fan
			for i := 1; i+1 < len(idx); i++ {
				m.Faces = append(m.Faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("obj contains no geometry")
	}
	return m, nil
}

func encodePLY(m *Mesh) ([]byte, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("cannot encode empty mesh")
	}
	var b strings.Builder
	b.WriteString("ply\nformat ascii 1.0\n")
	fmt.Fprintf(&b, "element vertex %d\n", len(m.Vertices))
	b.WriteString("property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(&b, "element face %d\n", len(m.Faces))
	b.WriteString("property list uchar int vertex_indices\n")
	b.WriteString("end_header\n")
	for _, v := range m.Vertices {
		fmt.Fprintf(&b, "%g %g %g\n", v[0], v[1], v[2])
	}
	for _, f := range m.Faces {
		fmt.Fprintf(&b, "3 %d %d %d\n", f[0], f[1], f[2])
	}
	return []byte(b.String()), nil
}

func decodePLY(data []byte) (*Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, fmt.Errorf("not a ply file")
	}

	vertexCount, faceCount := -1, -1
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "ascii" {
				return nil, fmt.Errorf("only ascii ply is supported")
			}
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed element line: %q", scanner.Text())
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("parse element count: %w", err)
			}
			switch fields[1] {
			case "vertex":
				vertexCount = n
			case "face":
				faceCount = n
			}
		case "end_header":
			goto body
		}
	}
	return nil, fmt.Errorf("ply header has no end_header")

body:
	if vertexCount < 0 || faceCount < 0 {
		return nil, fmt.Errorf("ply header missing vertex or face element")
	}
	m := &Mesh{
		Vertices: make([][3]float64, 0, vertexCount),
		Faces:    make([][3]int, 0, faceCount),
	}
	for i := 0; i < vertexCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("ply truncated at vertex %d", i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed ply vertex line: %q", scanner.Text())
		}
		var v [3]float64
		for j := 0; j < 3; j++ {
			f, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("parse ply vertex: %w", err)
			}
			v[j] = f
		}
		m.Vertices = append(m.Vertices, v)
	}
	for i := 0; i < faceCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("ply truncated at face %d", i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] != "3" {
			return nil, fmt.Errorf("only triangle ply faces are supported: %q", scanner.Text())
		}
		var f [3]int
		for j := 0; j < 3; j++ {
			n, err := strconv.Atoi(fields[j+1])
			if err != nil {
				return nil, fmt.Errorf("parse ply face: %w", err)
			}
			if n < 0 || n >= len(m.Vertices) {
				return nil, fmt.Errorf("ply face index %d out of range", n)
			}
			f[j] = n
		}
		m.Faces = append(m.Faces, f)
	}
	return m, nil
}

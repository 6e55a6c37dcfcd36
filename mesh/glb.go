package mesh

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Binary glTF 2.0 container constants
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A
	glbChunkBIN  = 0x004E4942

	componentFloat  = 5126
	componentUint16 = 5123
	componentUint32 = 5125
)

type glbDocument struct {
	Asset       glbAsset        `json:"asset"`
	Scene       int             `json:"scene"`
	Scenes      []glbScene      `json:"scenes"`
	Nodes       []glbNode       `json:"nodes"`
	Meshes      []glbMesh       `json:"meshes"`
	Accessors   []glbAccessor   `json:"accessors"`
	BufferViews []glbBufferView `json:"bufferViews"`
	Buffers     []glbBuffer     `json:"buffers"`
}

type glbAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type glbScene struct {
	Nodes []int `json:"nodes"`
}

type glbNode struct {
	Mesh *int `json:"mesh,omitempty"`
}

type glbMesh struct {
	Primitives []glbPrimitive `json:"primitives"`
}

type glbPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

type glbAccessor struct {
	BufferView    int       `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float64 `json:"min,omitempty"`
	Max           []float64 `json:"max,omitempty"`
}

type glbBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
}

type glbBuffer struct {
	ByteLength int `json:"byteLength"`
}

// encodeGLB serializes the mesh as a single-primitive binary glTF asset
func encodeGLB(m *Mesh) ([]byte, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("cannot encode empty mesh")
	}

	var bin bytes.Buffer
	doc := glbDocument{
		Asset:  glbAsset{Version: "2.0", Generator: "asset-forge"},
		Scene:  0,
		Scenes: []glbScene{{Nodes: []int{0}}},
	}

	addView := func(data []byte) int {
		doc.BufferViews = append(doc.BufferViews, glbBufferView{
			Buffer:     0,
			ByteOffset: bin.Len(),
			ByteLength: len(data),
		})
		bin.Write(data)
		return len(doc.BufferViews) - 1
	}
	addAccessor := func(view, componentType, count int, typ string, min, max []float64) int {
		doc.Accessors = append(doc.Accessors, glbAccessor{
			BufferView:    view,
			ComponentType: componentType,
			Count:         count,
			Type:          typ,
			Min:           min,
			Max:           max,
		})
		return len(doc.Accessors) - 1
	}

	attrs := map[string]int{}

	bmin, bmax := m.Bounds()
	posView := addView(packVec3(m.Vertices))
	attrs["POSITION"] = addAccessor(posView, componentFloat, len(m.Vertices), "VEC3",
		[]float64{bmin[0], bmin[1], bmin[2]}, []float64{bmax[0], bmax[1], bmax[2]})

	if m.HasNormals() {
		view := addView(packVec3(m.Normals))
		attrs["NORMAL"] = addAccessor(view, componentFloat, len(m.Normals), "VEC3", nil, nil)
	}
	if m.HasUV() {
		view := addView(packVec2(m.UV))
		attrs["TEXCOORD_0"] = addAccessor(view, componentFloat, len(m.UV), "VEC2", nil, nil)
	}

	idxView := addView(packIndices(m.Faces))
	idxAccessor := addAccessor(idxView, componentUint32, len(m.Faces)*3, "SCALAR", nil, nil)

	meshIdx := 0
	doc.Meshes = []glbMesh{{Primitives: []glbPrimitive{{Attributes: attrs, Indices: &idxAccessor}}}}
	doc.Nodes = []glbNode{{Mesh: &meshIdx}}
	doc.Buffers = []glbBuffer{{ByteLength: bin.Len()}}

	jsonChunk, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal glTF document: %w", err)
	}
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := bin.Bytes()
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)
	out := bytes.NewBuffer(make([]byte, 0, total))
	writeU32 := func(v uint32) { binary.Write(out, binary.LittleEndian, v) }
	writeU32(glbMagic)
	writeU32(glbVersion)
	writeU32(uint32(total))
	writeU32(uint32(len(jsonChunk)))
	writeU32(glbChunkJSON)
	out.Write(jsonChunk)
	writeU32(uint32(len(binChunk)))
	writeU32(glbChunkBIN)
	out.Write(binChunk)
	return out.Bytes(), nil
}

// decodeGLB parses a binary glTF asset produced by encodeGLB or any
// exporter that stores an indexed triangle primitive in a single buffer.
func decodeGLB(data []byte) (*Mesh, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("glb data too short")
	}
	if binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, fmt.Errorf("bad glb magic")
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != glbVersion {
		return nil, fmt.Errorf("unsupported glb version %d", v)
	}

	var jsonChunk, binChunk []byte
	offset := 12
	for offset+8 <= len(data) {
		length := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8
		if offset+length > len(data) {
			return nil, fmt.Errorf("truncated glb chunk")
		}
		switch chunkType {
		case glbChunkJSON:
			jsonChunk = data[offset : offset+length]
		case glbChunkBIN:
			binChunk = data[offset : offset+length]
		}
		offset += length
	}
	if jsonChunk == nil {
		return nil, fmt.Errorf("glb has no JSON chunk")
	}

	var doc glbDocument
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, fmt.Errorf("parse glTF document: %w", err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, fmt.Errorf("glb has no mesh primitive")
	}
	prim := doc.Meshes[0].Primitives[0]

	accessorData := func(idx int) (glbAccessor, []byte, error) {
		if idx < 0 || idx >= len(doc.Accessors) {
			return glbAccessor{}, nil, fmt.Errorf("accessor %d out of range", idx)
		}
		acc := doc.Accessors[idx]
		if acc.ByteOffset < 0 || acc.Count < 0 {
			return glbAccessor{}, nil, fmt.Errorf("accessor %d has negative offset or count", idx)
		}
		if acc.BufferView < 0 || acc.BufferView >= len(doc.BufferViews) {
			return glbAccessor{}, nil, fmt.Errorf("buffer view %d out of range", acc.BufferView)
		}
		view := doc.BufferViews[acc.BufferView]
		if view.ByteOffset < 0 || view.ByteLength < 0 {
			return glbAccessor{}, nil, fmt.Errorf("buffer view %d has negative offset or length", acc.BufferView)
		}
		start := view.ByteOffset + acc.ByteOffset
		end := view.ByteOffset + view.ByteLength
		if start < 0 || end < 0 || start > end || end > len(binChunk) {
			return glbAccessor{}, nil, fmt.Errorf("buffer view %d out of bounds", acc.BufferView)
		}
		return acc, binChunk[start:end], nil
	}

	m := &Mesh{}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	acc, raw, err := accessorData(posIdx)
	if err != nil {
		return nil, err
	}
	m.Vertices, err = unpackVec3(raw, acc.Count)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	if normIdx, ok := prim.Attributes["NORMAL"]; ok {
		acc, raw, err := accessorData(normIdx)
		if err != nil {
			return nil, err
		}
		m.Normals, err = unpackVec3(raw, acc.Count)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}
	if uvIdx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		acc, raw, err := accessorData(uvIdx)
		if err != nil {
			return nil, err
		}
		m.UV, err = unpackVec2(raw, acc.Count)
		if err != nil {
			return nil, fmt.Errorf("read texture coordinates: %w", err)
		}
	}

	if prim.Indices == nil {
		return nil, fmt.Errorf("primitive has no indices")
	}
	acc, raw, err = accessorData(*prim.Indices)
	if err != nil {
		return nil, err
	}
	indices, err := unpackIndices(raw, acc.Count, acc.ComponentType)
	if err != nil {
		return nil, fmt.Errorf("read indices: %w", err)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for i := 0; i+2 < len(indices); i += 3 {
		f := [3]int{indices[i], indices[i+1], indices[i+2]}
		for _, vi := range f {
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, fmt.Errorf("index %d out of range", vi)
			}
		}
		m.Faces = append(m.Faces, f)
	}
	return m, nil
}

func packVec3(data [][3]float64) []byte {
	out := make([]byte, 0, len(data)*12)
	var buf [4]byte
	for _, v := range data {
		for i := 0; i < 3; i++ {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(v[i])))
			out = append(out, buf[:]...)
		}
	}
	return out
}

func packVec2(data [][2]float64) []byte {
	out := make([]byte, 0, len(data)*8)
	var buf [4]byte
	for _, v := range data {
		for i := 0; i < 2; i++ {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(v[i])))
			out = append(out, buf[:]...)
		}
	}
	return out
}

func packIndices(faces [][3]int) []byte {
	out := make([]byte, 0, len(faces)*12)
	var buf [4]byte
	for _, f := range faces {
		for _, vi := range f {
			binary.LittleEndian.PutUint32(buf[:], uint32(vi))
			out = append(out, buf[:]...)
		}
	}
	return out
}

func unpackVec3(raw []byte, count int) ([][3]float64, error) {
	// bound the count by the data length before allocating
	if count < 0 || count > len(raw)/12 {
		return nil, fmt.Errorf("vec3 count %d does not fit %d bytes", count, len(raw))
	}
	out := make([][3]float64, count)
	for i := 0; i < count; i++ {
		for j := 0; j < 3; j++ {
			bits := binary.LittleEndian.Uint32(raw[i*12+j*4:])
			out[i][j] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}

func unpackVec2(raw []byte, count int) ([][2]float64, error) {
	if count < 0 || count > len(raw)/8 {
		return nil, fmt.Errorf("vec2 count %d does not fit %d bytes", count, len(raw))
	}
	out := make([][2]float64, count)
	for i := 0; i < count; i++ {
		for j := 0; j < 2; j++ {
			bits := binary.LittleEndian.Uint32(raw[i*8+j*4:])
			out[i][j] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}

func unpackIndices(raw []byte, count, componentType int) ([]int, error) {
	var width int
	switch componentType {
	case componentUint32:
		width = 4
	case componentUint16:
		width = 2
	default:
		return nil, fmt.Errorf("unsupported index component type %d", componentType)
	}
	if count < 0 || count > len(raw)/width {
		return nil, fmt.Errorf("index count %d does not fit %d bytes", count, len(raw))
	}
	out := make([]int, count)
	for i := 0; i < count; i++ {
		if width == 4 {
			out[i] = int(binary.LittleEndian.Uint32(raw[i*4:]))
		} else {
			out[i] = int(binary.LittleEndian.Uint16(raw[i*2:]))
		}
	}
	return out, nil
}

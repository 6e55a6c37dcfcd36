package models

// MetricsRecord is an immutable snapshot of one mesh's geometry and quality
// metrics. TriangleQuality and AspectRatio are omitted entirely for meshes
// with no faces.
type MetricsRecord struct {
	VertexCount         int              `json:"vertex_count"`
	FaceCount           int              `json:"face_count"`
	EdgeCount           int              `json:"edge_count"`
	Volume              float64          `json:"volume"`
	SurfaceArea         float64          `json:"surface_area"`
	BoundingBox         BoundingBox      `json:"bounding_box"`
	IsWatertight        bool             `json:"is_watertight"`
	IsWindingConsistent bool             `json:"is_winding_consistent"`
	IsEmpty             bool             `json:"is_empty"`
	HasUVCoordinates    bool             `json:"has_uv_coordinates"`
	HasVertexNormals    bool             `json:"has_vertex_normals"`
	FileSizeBytes       int64            `json:"file_size_bytes"`
	FileSizeMB          float64          `json:"file_size_mb"`
	Loadable            bool             `json:"loadable"`
	TriangleQuality     *TriangleQuality `json:"triangle_quality,omitempty"`
	AspectRatio         *AspectRatio     `json:"aspect_ratio,omitempty"`
}

// BoundingBox is the axis-aligned bounding box of a mesh
type BoundingBox struct {
	Min  [3]float64 `json:"min"`
	Max  [3]float64 `json:"max"`
	Size [3]float64 `json:"size"`
}

// TriangleQuality holds per-triangle area statistics
type TriangleQuality struct {
	MinArea  float64 `json:"min_area"`
	MaxArea  float64 `json:"max_area"`
	MeanArea float64 `json:"mean_area"`
	StdArea  float64 `json:"std_area"`
}

// AspectRatio holds per-triangle edge aspect ratio statistics, where the
// ratio of a triangle is its longest edge over its shortest edge.
type AspectRatio struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// ComparisonRecord reports deltas and ratios between two MetricsRecords.
// Ratio fields are 0 whenever the reference-side value is 0, so comparison
// never fails.
type ComparisonRecord struct {
	VertexCountDiff  int     `json:"vertex_count_diff"`
	FaceCountDiff    int     `json:"face_count_diff"`
	VolumeRatio      float64 `json:"volume_ratio"`
	SurfaceAreaRatio float64 `json:"surface_area_ratio"`
	FileSizeRatio    float64 `json:"file_size_ratio"`
}

// ValidationReport is the outcome of checking a MetricsRecord against the
// acceptance rules. Errors force Passed to false; warnings never do.
type ValidationReport struct {
	Passed   bool     `json:"passed"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

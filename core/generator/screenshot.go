package generator

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"asset-forge/mesh"
)

const screenshotSize = 512

// writeScreenshot renders a simple orthographic wireframe preview of the
// mesh. It is best-effort output for quick inspection, not a real render.
func (g *Generator) writeScreenshot(jobID string, m *mesh.Mesh) error {
	img := image.NewRGBA(image.Rect(0, 0, screenshotSize, screenshotSize))
	background := color.RGBA{R: 173, G: 216, B: 230, A: 255} // light blue
	for y := 0; y < screenshotSize; y++ {
		for x := 0; x < screenshotSize; x++ {
			img.Set(x, y, background)
		}
	}

	if !m.IsEmpty() {
		drawWireframe(img, m)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return g.store.WriteFile(jobID, screenshotFile, buf.Bytes())
}

// drawWireframe projects the mesh onto the XY plane, fits it to the image
// with a 10% margin and draws every edge.
func drawWireframe(img *image.RGBA, m *mesh.Mesh) {
	bmin, bmax := m.Bounds()
	spanX := bmax[0] - bmin[0]
	spanY := bmax[1] - bmin[1]
	span := spanX
	if spanY > span {
		span = spanY
	}
	if span <= 0 {
		return
	}

	margin := float64(screenshotSize) * 0.1
	scale := (float64(screenshotSize) - 2*margin) / span
	project := func(v [3]float64) (int, int) {
		x := margin + (v[0]-bmin[0])*scale
		// image Y grows downward
		y := float64(screenshotSize) - margin - (v[1]-bmin[1])*scale
		return int(x), int(y)
	}

	line := color.RGBA{R: 40, G: 60, B: 90, A: 255}
	for _, f := range m.Faces {
		for _, e := range [][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}} {
			x0, y0 := project(m.Vertices[e[0]])
			x1, y1 := project(m.Vertices[e[1]])
			drawLine(img, x0, y0, x1, y1, line)
		}
	}
}

// drawLine draws a line with the integer Bresenham algorithm
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Rect) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

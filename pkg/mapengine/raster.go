package mapengine

import (
	"image"
	"image/color"
	"math"
	"sort"
)

type point struct{ x, y float64 }

// raster draws projected polygons straight into an RGBA buffer.
type raster struct {
	img  *image.RGBA
	proj Projection
}

func newRaster(proj Projection) *raster {
	return &raster{img: image.NewRGBA(image.Rect(0, 0, proj.Width, proj.Height)), proj: proj}
}

func (r *raster) clear(c color.RGBA) {
	pix := r.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

func (r *raster) set(x, y int, c color.RGBA) {
	if x < 0 || x >= r.proj.Width || y < 0 || y >= r.proj.Height {
		return
	}
	off := y*r.img.Stride + x*4
	r.img.Pix[off], r.img.Pix[off+1], r.img.Pix[off+2], r.img.Pix[off+3] = c.R, c.G, c.B, 255
}

func (r *raster) projectRings(rings [][][]float64) ([][]point, float64, float64) {
	projected := make([][]point, len(rings))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, ring := range rings {
		projected[i] = make([]point, len(ring))
		for j, p := range ring {
			if len(p) < 2 {
				continue
			}
			x, y := r.proj.Project(p[0], p[1])
			projected[i][j] = point{x, y}
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}
	return projected, minY, maxY
}

// fillPolygon scanline-fills a polygon given as rings of [lng, lat] points.
// Holes are handled by the even-odd rule.
func (r *raster) fillPolygon(rings [][][]float64, c color.RGBA) {
	if len(rings) == 0 {
		return
	}
	projected, minY, maxY := r.projectRings(rings)
	if math.IsInf(minY, 0) {
		return
	}
	h := r.proj.Height
	y0, y1 := int(math.Max(0, math.Floor(minY))), int(math.Min(float64(h-1), math.Ceil(maxY)))
	var nodes []int
	for y := y0; y <= y1; y++ {
		nodes = nodes[:0]
		fy := float64(y) + 0.5
		for _, ring := range projected {
			for i := 0; i < len(ring); i++ {
				j := (i + 1) % len(ring)
				if (ring[i].y < fy && ring[j].y >= fy) || (ring[j].y < fy && ring[i].y >= fy) {
					nodeX := ring[i].x + (fy-ring[i].y)/(ring[j].y-ring[i].y)*(ring[j].x-ring[i].x)
					nodes = append(nodes, int(math.Round(nodeX)))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i+1 < len(nodes); i += 2 {
			xs, xe := nodes[i], nodes[i+1]
			if xs < 0 {
				xs = 0
			}
			if xe > r.proj.Width {
				xe = r.proj.Width
			}
			for x := xs; x < xe; x++ {
				off := y*r.img.Stride + x*4
				r.img.Pix[off], r.img.Pix[off+1], r.img.Pix[off+2], r.img.Pix[off+3] = c.R, c.G, c.B, 255
			}
		}
	}
}

func (r *raster) strokeShape(s shape, c color.RGBA) {
	for _, poly := range s.Polygons {
		for _, ring := range poly {
			r.strokeRing(ring, c)
		}
	}
}

func (r *raster) strokeRing(ring [][]float64, c color.RGBA) {
	for i := 0; i+1 < len(ring); i++ {
		x1, y1 := r.proj.Project(ring[i][0], ring[i][1])
		x2, y2 := r.proj.Project(ring[i+1][0], ring[i+1][1])
		r.line(int(x1), int(y1), int(x2), int(y2), c)
	}
}

func (r *raster) line(x1, y1, x2, y2 int, c color.RGBA) {
	// Zoomed in, most segments are entirely off the buffer.
	w, h := r.proj.Width, r.proj.Height
	if (x1 < 0 && x2 < 0) || (y1 < 0 && y2 < 0) || (x1 >= w && x2 >= w) || (y1 >= h && y2 >= h) {
		return
	}
	dx, dy := math.Abs(float64(x2-x1)), math.Abs(float64(y2-y1))
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

package mapengine

import "math"

const (
	// baseScale is the Mercator scale for a 1000px wide map.
	baseScale = 150.0
	baseWidth = 1000.0

	MinZoom = 1.0
	MaxZoom = 8.0

	maxLat = 85.05112878
)

// View is the zoom/pan transform applied on top of the projection.
type View struct {
	Zoom, X, Y float64
}

// Identity is the recentered view.
var Identity = View{Zoom: 1}

// Projection is a spherical Mercator projection centered horizontally with
// the equator at two thirds of the height.
type Projection struct {
	Width, Height int
	Scale         float64
	View          View
}

func NewProjection(width, height int) Projection {
	return Projection{
		Width:  width,
		Height: height,
		Scale:  baseScale * float64(width) / baseWidth,
		View:   Identity,
	}
}

func (p Projection) origin() (float64, float64) {
	return float64(p.Width) / 2, float64(p.Height) / 1.5
}

// Project returns the screen position of lng/lat under the current view.
func (p Projection) Project(lng, lat float64) (x, y float64) {
	if lat > maxLat {
		lat = maxLat
	}
	if lat < -maxLat {
		lat = -maxLat
	}
	ox, oy := p.origin()
	lngRad, latRad := lng*math.Pi/180, lat*math.Pi/180
	x = ox + p.Scale*lngRad
	y = oy - p.Scale*math.Log(math.Tan(math.Pi/4+latRad/2))
	return x*p.View.Zoom + p.View.X, y*p.View.Zoom + p.View.Y
}

// Unproject is the inverse of Project.
func (p Projection) Unproject(x, y float64) (lng, lat float64) {
	ox, oy := p.origin()
	x = (x - p.View.X) / p.View.Zoom
	y = (y - p.View.Y) / p.View.Zoom
	lng = (x - ox) / p.Scale * 180 / math.Pi
	lat = (2*math.Atan(math.Exp((oy-y)/p.Scale)) - math.Pi/2) * 180 / math.Pi
	return lng, lat
}

// ZoomAt multiplies the zoom by factor keeping the point (x, y) fixed. The
// zoom is clamped to [MinZoom, MaxZoom].
func (v View) ZoomAt(factor, x, y float64) View {
	z := math.Max(MinZoom, math.Min(MaxZoom, v.Zoom*factor))
	k := z / v.Zoom
	return View{Zoom: z, X: x - (x-v.X)*k, Y: y - (y-v.Y)*k}
}

func (v View) Pan(dx, dy float64) View {
	v.X += dx
	v.Y += dy
	return v
}

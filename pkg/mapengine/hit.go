package mapengine

import (
	"math"

	"github.com/sudorandom/co2-atlas/pkg/sources"
)

// shape is a map feature with its bounding box in lng/lat.
type shape struct {
	sources.Feature
	minLng, minLat, maxLng, maxLat float64
}

func newShapes(features []sources.Feature) []shape {
	shapes := make([]shape, 0, len(features))
	for _, f := range features {
		s := shape{Feature: f, minLng: math.Inf(1), minLat: math.Inf(1), maxLng: math.Inf(-1), maxLat: math.Inf(-1)}
		for _, poly := range f.Polygons {
			for _, ring := range poly {
				for _, p := range ring {
					if len(p) < 2 {
						continue
					}
					s.minLng, s.maxLng = math.Min(s.minLng, p[0]), math.Max(s.maxLng, p[0])
					s.minLat, s.maxLat = math.Min(s.minLat, p[1]), math.Max(s.maxLat, p[1])
				}
			}
		}
		shapes = append(shapes, s)
	}
	return shapes
}

func (s shape) contains(lng, lat float64) bool {
	if lng < s.minLng || lng > s.maxLng || lat < s.minLat || lat > s.maxLat {
		return false
	}
	for _, poly := range s.Polygons {
		if polygonContains(poly, lng, lat) {
			return true
		}
	}
	return false
}

// polygonContains applies the even-odd rule over all rings, so points inside
// a hole are outside the polygon.
func polygonContains(rings [][][]float64, x, y float64) bool {
	inside := false
	for _, ring := range rings {
		n := len(ring)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			if len(ring[i]) < 2 || len(ring[j]) < 2 {
				continue
			}
			xi, yi := ring[i][0], ring[i][1]
			xj, yj := ring[j][0], ring[j][1]
			if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
				inside = !inside
			}
		}
	}
	return inside
}

// hitTest returns the index of the last shape containing lng/lat; later
// shapes are drawn on top.
func hitTest(shapes []shape, lng, lat float64) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if shapes[i].contains(lng, lat) {
			return i
		}
	}
	return -1
}

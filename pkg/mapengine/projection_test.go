package mapengine

import (
	"math"
	"testing"
)

func TestProject(t *testing.T) {
	p := NewProjection(1000, 700)

	tests := []struct {
		lng, lat     float64
		wantX, wantY float64
	}{
		{0, 0, 500, 466.67},
		{180, 0, 971.24, 466.67},
		{-180, 0, 28.76, 466.67},
		{0, 45, 500, 334.48},
		{0, 90, 500, -4.57}, // clamped to the Mercator limit
	}
	for _, tt := range tests {
		x, y := p.Project(tt.lng, tt.lat)
		if math.Abs(x-tt.wantX) > 0.5 || math.Abs(y-tt.wantY) > 0.5 {
			t.Errorf("Project(%v, %v) = (%.2f, %.2f); want (%.2f, %.2f)", tt.lng, tt.lat, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestUnprojectRoundTrip(t *testing.T) {
	p := NewProjection(1000, 700)
	p.View = View{Zoom: 3, X: -700, Y: -250}
	for _, ll := range [][2]float64{{0, 0}, {2.35, 48.85}, {-74, 40.7}, {151.2, -33.8}} {
		x, y := p.Project(ll[0], ll[1])
		lng, lat := p.Unproject(x, y)
		if math.Abs(lng-ll[0]) > 1e-9 || math.Abs(lat-ll[1]) > 1e-9 {
			t.Errorf("Unproject(Project(%v)) = (%v, %v)", ll, lng, lat)
		}
	}
}

func TestZoomAt(t *testing.T) {
	p := NewProjection(1000, 700)
	lng, lat := p.Unproject(300, 200)

	p.View = Identity.ZoomAt(100, 300, 200)
	if p.View.Zoom != MaxZoom {
		t.Errorf("Zoom = %v; want %v", p.View.Zoom, MaxZoom)
	}
	x, y := p.Project(lng, lat)
	if math.Abs(x-300) > 1e-6 || math.Abs(y-200) > 1e-6 {
		t.Errorf("point under cursor moved to (%v, %v)", x, y)
	}

	if v := Identity.ZoomAt(0.01, 300, 200); v != Identity {
		t.Errorf("zooming out past the minimum = %+v; want %+v", v, Identity)
	}
}

func TestPan(t *testing.T) {
	v := Identity.Pan(10, -5).Pan(1, 1)
	if v.X != 11 || v.Y != -4 || v.Zoom != 1 {
		t.Errorf("Pan = %+v", v)
	}
}

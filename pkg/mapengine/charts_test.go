package mapengine

import (
	"image/color"
	"math"
	"testing"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

func TestBarLayout(t *testing.T) {
	cs := emissions.CountrySeries{
		Country: emissions.Country{Code: "FRA", Name: "France"},
		Points: []emissions.BarPoint{
			{Year: 2000, Value: emissions.Some(10)},
			{Year: 2001, Value: emissions.None},
			{Year: 2002, Value: emissions.Some(5)},
			{Year: 2003, Value: emissions.Some(0)},
		},
	}
	bars := barLayout(cs, 0, 100, 400, 200)
	if len(bars) != 3 {
		t.Fatalf("len(bars) = %d; want 3 (absent values get no bar)", len(bars))
	}
	if bars[0].H != 200 || bars[0].Y != 100 {
		t.Errorf("max bar = %+v; want full height", bars[0])
	}
	if bars[1].Year != 2002 || bars[1].H != 100 || bars[1].Y != 200 {
		t.Errorf("half bar = %+v", bars[1])
	}
	if math.Abs(bars[1].X-205) > 1e-9 || math.Abs(bars[1].W-90) > 1e-9 {
		t.Errorf("half bar position = (%v, %v); want (205, 90)", bars[1].X, bars[1].W)
	}
	if bars[2].H != 0 {
		t.Errorf("zero bar height = %v", bars[2].H)
	}

	if got := barLayout(emissions.CountrySeries{}, 0, 0, 100, 100); got != nil {
		t.Errorf("empty series = %v; want nil", got)
	}
}

func TestBarLayoutAllZero(t *testing.T) {
	cs := emissions.CountrySeries{Points: []emissions.BarPoint{{Year: 2000, Value: emissions.Some(0)}}}
	bars := barLayout(cs, 0, 0, 100, 100)
	if len(bars) != 1 || bars[0].H != 0 {
		t.Errorf("bars = %+v", bars)
	}
}

func TestPieImage(t *testing.T) {
	pair := emissions.PiePair{Slices: [2]emissions.Slice{
		{Label: "A", Share: 75, Color: "#1f77b4"},
		{Label: "B", Share: 25, Color: "#ff7f0e"},
	}}
	img := pieImage(100, pair)
	c0, c1 := parseHex("#1f77b4"), parseHex("#ff7f0e")

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{75, 25, c0}, // 1:30, first slice
		{75, 75, c0}, // 4:30
		{25, 75, c0}, // 7:30, 62.5% of the way round
		{25, 25, c1}, // 10:30, 87.5%
		{0, 0, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d, %d) = %v; want %v", tt.x, tt.y, got, tt.want)
		}
	}

	empty := pieImage(10, emissions.PiePair{})
	if got := empty.RGBAAt(5, 5); got != emissions.NoDataColor {
		t.Errorf("empty pie = %v; want no data color", got)
	}
}

func TestPieLabels(t *testing.T) {
	s := emissions.Slice{Label: "France", Share: 33.333}
	if got, want := pieLabel(s), "France (33.33%)"; got != want {
		t.Errorf("pieLabel = %q; want %q", got, want)
	}
	p := emissions.PiePair{Year: 1990, Slices: [2]emissions.Slice{{Label: "France"}, {Label: "World"}}}
	if got, want := pieTitle(p), "France vs World, 1990"; got != want {
		t.Errorf("pieTitle = %q; want %q", got, want)
	}
}

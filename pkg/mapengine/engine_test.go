package mapengine

import (
	"image/color"
	"testing"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

func testState(tb testing.TB, sel ...string) emissions.State {
	tb.Helper()
	d := emissions.NewData([]emissions.Record{
		{CountryCode: "AAA", CountryName: "Alpha", Year: 2000, Value: emissions.Some(5)},
		{CountryCode: "BBB", CountryName: "Beta", Year: 2000, Value: emissions.Some(10)},
	}, []string{"AAA", "BBB", "CCC"})
	st := emissions.NewState(d, 2000)
	for _, code := range sel {
		st = emissions.Apply(d, st, emissions.SelectCountry{Code: code})
	}
	return st
}

func TestFillColor(t *testing.T) {
	st := testState(t)
	green := emissions.InterpolateRdYlGn(1)
	red := emissions.InterpolateRdYlGn(0)

	if got := fillColor(st, "AAA"); got != green {
		t.Errorf("fillColor(AAA) = %v; want %v (lowest emitter is green)", got, green)
	}
	if got := fillColor(st, "BBB"); got != red {
		t.Errorf("fillColor(BBB) = %v; want %v (highest emitter is red)", got, red)
	}
	if got := fillColor(st, "CCC"); got != emissions.NoDataColor {
		t.Errorf("fillColor(CCC) = %v; want no data color", got)
	}
}

func TestPaintMap(t *testing.T) {
	proj := NewProjection(1000, 700)
	st := testState(t)
	img := paintMap(proj, newShapes(testFeatures()), st)

	at := func(lng, lat float64) color.RGBA {
		x, y := proj.Project(lng, lat)
		return img.RGBAAt(int(x), int(y))
	}
	if got, want := at(6, 6), fillColor(st, "AAA"); got != want {
		t.Errorf("AAA pixel = %v; want %v", got, want)
	}
	if got := at(0, 0); got != ColorSea {
		t.Errorf("hole pixel = %v; want sea", got)
	}
	if got, want := at(30, 0), fillColor(st, "BBB"); got != want {
		t.Errorf("BBB pixel = %v; want %v", got, want)
	}
	if got := at(-50, 0); got != emissions.NoDataColor {
		t.Errorf("CCC pixel = %v; want no data color", got)
	}
	if got := img.RGBAAt(5, 5); got != ColorSea {
		t.Errorf("corner pixel = %v; want sea", got)
	}
}

func TestPaintMapOutlinesSelection(t *testing.T) {
	proj := NewProjection(1000, 700)
	img := paintMap(proj, newShapes(testFeatures()), testState(t, "BBB"))

	// Left edge of BBB's first polygon.
	x, y := proj.Project(20, 0)
	if got, want := img.RGBAAt(int(x), int(y)), paletteColor(0); got != want {
		t.Errorf("selected outline = %v; want %v", got, want)
	}
	x, y = proj.Project(-60, 0)
	if got := img.RGBAAt(int(x), int(y)); got != ColorOutline {
		t.Errorf("unselected outline = %v; want %v", got, ColorOutline)
	}
}

func TestParseHex(t *testing.T) {
	if got, want := parseHex("#1f77b4"), (color.RGBA{0x1f, 0x77, 0xb4, 0xff}); got != want {
		t.Errorf("parseHex = %v; want %v", got, want)
	}
	if got := parseHex("blue"); got != emissions.NoDataColor {
		t.Errorf("parseHex(blue) = %v; want no data color", got)
	}
}

package emissions

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ColorDomain is the [Min, Max] range of the values visible on the map.
// Valid is false when no map country has data, in which case every country
// is drawn as "no data".
type ColorDomain struct {
	Min, Max float64
	Valid    bool
}

func (d ColorDomain) String() string {
	if !d.Valid {
		return "no data"
	}
	return fmt.Sprintf("[%s, %s]", FormatCompact(d.Min), FormatCompact(d.Max))
}

// ComputeDomain returns the range of the snapshot values whose code is known
// to the map.
func ComputeDomain(s Snapshot, mapCodes CodeSet) ColorDomain {
	vals := make([]float64, 0, len(s.values))
	for code, v := range s.values {
		if mapCodes.Has(code) && !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return ColorDomain{}
	}
	return ColorDomain{Min: floats.Min(vals), Max: floats.Max(vals), Valid: true}
}

// NoDataColor fills countries without a value.
var NoDataColor = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}

// rdYlGn is the 11-class red-yellow-green scheme, red first.
var rdYlGn = []color.RGBA{
	{0xa5, 0x00, 0x26, 0xff},
	{0xd7, 0x30, 0x27, 0xff},
	{0xf4, 0x6d, 0x43, 0xff},
	{0xfd, 0xae, 0x61, 0xff},
	{0xfe, 0xe0, 0x8b, 0xff},
	{0xff, 0xff, 0xbf, 0xff},
	{0xd9, 0xef, 0x8b, 0xff},
	{0xa6, 0xd9, 0x6a, 0xff},
	{0x66, 0xbd, 0x63, 0xff},
	{0x1a, 0x98, 0x50, 0xff},
	{0x00, 0x68, 0x37, 0xff},
}

// InterpolateRdYlGn maps t in [0, 1] onto the scheme: 0 is red, 1 is green.
// Colors follow a uniform cubic B-spline through the scheme stops, so only
// the two ends are exact stop colors.
func InterpolateRdYlGn(t float64) color.RGBA {
	if math.IsNaN(t) {
		return NoDataColor
	}
	n := len(rdYlGn)
	var i int
	switch {
	case t <= 0:
		t = 0
	case t >= 1:
		t, i = 1, n-2
	default:
		i = int(math.Floor(t * float64(n-1)))
	}
	v1, v2 := rdYlGn[i], rdYlGn[i+1]
	t1 := (t - float64(i)/float64(n-1)) * float64(n-1)
	channel := func(get func(color.RGBA) uint8) uint8 {
		c1, c2 := float64(get(v1)), float64(get(v2))
		c0, c3 := 2*c1-c2, 2*c2-c1
		if i > 0 {
			c0 = float64(get(rdYlGn[i-1]))
		}
		if i < n-2 {
			c3 = float64(get(rdYlGn[i+2]))
		}
		v := math.Round(basis(t1, c0, c1, c2, c3))
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return color.RGBA{
		channel(func(c color.RGBA) uint8 { return c.R }),
		channel(func(c color.RGBA) uint8 { return c.G }),
		channel(func(c color.RGBA) uint8 { return c.B }),
		0xff,
	}
}

// basis evaluates one segment of a uniform cubic B-spline at t1 in [0, 1].
func basis(t1, v0, v1, v2, v3 float64) float64 {
	t2 := t1 * t1
	t3 := t2 * t1
	return ((1-3*t1+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t1+3*t2-3*t3)*v2 +
		t3*v3) / 6
}

// ColorScale is a sequential scale over the inverted domain [Max, Min]: the
// largest emitter is red and the smallest is green.
type ColorScale struct {
	From, To float64
	Valid    bool
}

// DefaultScale is used before any year has been resolved.
var DefaultScale = ColorScale{From: 2890696.10, To: 11, Valid: true}

// NewColorScale pins the domain direction: Max maps to t=0, Min to t=1.
func NewColorScale(d ColorDomain) ColorScale {
	if !d.Valid {
		return ColorScale{}
	}
	return ColorScale{From: d.Max, To: d.Min, Valid: true}
}

// T returns the interpolation parameter for v.
func (s ColorScale) T(v float64) float64 {
	if s.From == s.To {
		return 0.5
	}
	return (v - s.From) / (s.To - s.From)
}

// Color returns the fill for an optional value.
func (s ColorScale) Color(v Value) color.RGBA {
	if !v.Valid || !s.Valid || math.IsNaN(v.V) {
		return NoDataColor
	}
	return InterpolateRdYlGn(s.T(v.V))
}

// Low and High are the smallest and largest value of the scale.
func (s ColorScale) Low() float64  { return math.Min(s.From, s.To) }
func (s ColorScale) High() float64 { return math.Max(s.From, s.To) }

// GradientStop is one stop of a legend gradient, Offset in [0, 1] running
// from the low end to the high end.
type GradientStop struct {
	Offset float64
	Color  color.RGBA
}

// Gradient samples n+1 evenly spaced stops from the low to the high value.
func (s ColorScale) Gradient(n int) []GradientStop {
	if !s.Valid || n < 1 {
		return []GradientStop{{0, NoDataColor}, {1, NoDataColor}}
	}
	stops := make([]GradientStop, 0, n+1)
	lo, hi := s.Low(), s.High()
	for i := 0; i <= n; i++ {
		off := float64(i) / float64(n)
		stops = append(stops, GradientStop{Offset: off, Color: s.Color(Some(lo + (hi-lo)*off))})
	}
	return stops
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

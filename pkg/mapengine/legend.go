package mapengine

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

const (
	legendWidth  = 200
	legendHeight = 20
	legendTicks  = 10
)

// legendColors samples the scale gradient into width columns, low values on
// the left.
func legendColors(scale emissions.ColorScale, width int) []color.RGBA {
	stops := scale.Gradient(legendTicks)
	cols := make([]color.RGBA, width)
	for i := range cols {
		off := (float64(i) + 0.5) / float64(width)
		cols[i] = gradientAt(stops, off)
	}
	return cols
}

func gradientAt(stops []emissions.GradientStop, off float64) color.RGBA {
	if off <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if off > stops[i].Offset {
			continue
		}
		a, b := stops[i-1], stops[i]
		f := (off - a.Offset) / (b.Offset - a.Offset)
		lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
		return color.RGBA{lerp(a.Color.R, b.Color.R), lerp(a.Color.G, b.Color.G), lerp(a.Color.B, b.Color.B), 255}
	}
	return stops[len(stops)-1].Color
}

// legendLabels are the texts under the low and high ends of the gradient.
func legendLabels(scale emissions.ColorScale) (string, string) {
	if !scale.Valid {
		return "no data", "no data"
	}
	return emissions.FormatCompact(scale.Low()), emissions.FormatCompact(scale.High())
}

func (e *Engine) drawLegend(screen *ebiten.Image) {
	lx := float64(e.Width) * 0.44
	ly := 120 * float64(e.MapHeight) / 700

	vector.DrawFilledRect(screen, float32(lx-8), float32(ly-8), legendWidth+16, legendHeight+36, ColorPanel, false)
	for i, c := range legendColors(e.state.Scale, legendWidth) {
		vector.DrawFilledRect(screen, float32(lx)+float32(i), float32(ly), 1, legendHeight, c, false)
	}
	vector.StrokeRect(screen, float32(lx), float32(ly), legendWidth, legendHeight, 1, ColorOutline, false)

	if e.fontSource == nil {
		return
	}
	lo, hi := legendLabels(e.state.Scale)
	face := &text.GoTextFace{Source: e.fontSource, Size: 12}
	op := &text.DrawOptions{}
	op.GeoM.Translate(lx, ly+legendHeight+4)
	op.ColorScale.Scale(1, 1, 1, 0.8)
	text.Draw(screen, lo, face, op)

	tw, _ := text.Measure(hi, face, 0)
	op = &text.DrawOptions{}
	op.GeoM.Translate(lx+legendWidth-tw, ly+legendHeight+4)
	op.ColorScale.Scale(1, 1, 1, 0.8)
	text.Draw(screen, hi, face, op)
}

func (e *Engine) drawHeader(screen *ebiten.Image) {
	if e.fontSource == nil {
		return
	}
	margin := 20.0
	clock := &text.GoTextFace{Source: e.fontSource, Size: 36}
	op := &text.DrawOptions{}
	op.GeoM.Translate(margin, margin)
	text.Draw(screen, fmt.Sprintf("%d", e.state.Year), clock, op)

	status := "PAUSED"
	if e.state.Playing {
		status = "PLAYING"
	}
	small := &text.GoTextFace{Source: e.monoSource, Size: 12}
	op = &text.DrawOptions{}
	op.GeoM.Translate(margin, margin+44)
	op.ColorScale.Scale(1, 1, 1, 0.6)
	text.Draw(screen, status, small, op)

	hint := "click: compare   left/right: year   space: play/pause   r: recenter   p: capture   wheel/drag: zoom/pan"
	op = &text.DrawOptions{}
	op.GeoM.Translate(margin, float64(e.MapHeight)-margin-12)
	op.ColorScale.Scale(1, 1, 1, 0.4)
	text.Draw(screen, hint, small, op)
}

func (e *Engine) drawTooltip(screen *ebiten.Image) {
	if e.tip == nil || e.fontSource == nil {
		return
	}
	face := &text.GoTextFace{Source: e.fontSource, Size: 14}
	lineSpacing := 18.0
	tw, th := text.Measure(e.tip.text, face, lineSpacing)
	pad := 10.0
	vector.DrawFilledRect(screen, float32(e.tip.x), float32(e.tip.y), float32(tw+2*pad), float32(th+2*pad), color.RGBA{0, 0, 0, 178}, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(e.tip.x+pad, e.tip.y+pad)
	op.LineSpacing = lineSpacing
	text.Draw(screen, e.tip.text, face, op)
}

func (e *Engine) drawCentered(screen *ebiten.Image, msg string) {
	if e.fontSource == nil {
		return
	}
	face := &text.GoTextFace{Source: e.fontSource, Size: 24}
	tw, th := text.Measure(msg, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate((float64(e.Width)-tw)/2, (float64(e.MapHeight+e.PanelHeight)-th)/2)
	text.Draw(screen, msg, face, op)
}

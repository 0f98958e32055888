package mapengine

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

type bar struct {
	Year       int
	X, Y, W, H float64
}

// barLayout places one bar per present value inside the rectangle. The y
// axis runs from 0 to the series maximum; absent values get no bar.
func barLayout(cs emissions.CountrySeries, x, y, w, h float64) []bar {
	n := len(cs.Points)
	if n == 0 {
		return nil
	}
	band := w / float64(n)
	hi := cs.Max()
	bars := make([]bar, 0, n)
	for i, p := range cs.Points {
		if !p.Value.Valid {
			continue
		}
		bh := 0.0
		if hi > 0 {
			bh = math.Max(0, p.Value.V) / hi * h
		}
		bars = append(bars, bar{
			Year: p.Year,
			X:    x + float64(i)*band + band*0.05,
			Y:    y + h - bh,
			W:    band * 0.9,
			H:    bh,
		})
	}
	return bars
}

// pieImage rasterizes a two-slice pie. Slices run clockwise from twelve
// o'clock, the first slice first.
func pieImage(size int, pair emissions.PiePair) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c0, c1 := parseHex(pair.Slices[0].Color), parseHex(pair.Slices[1].Color)
	empty := pair.Slices[0].Share == 0 && pair.Slices[1].Share == 0
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy > r*r {
				continue
			}
			c := c1
			if empty {
				c = emissions.NoDataColor
			} else {
				a := math.Atan2(dx, -dy)
				if a < 0 {
					a += 2 * math.Pi
				}
				if a/(2*math.Pi)*100 < pair.Slices[0].Share {
					c = c0
				}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func pieLabel(s emissions.Slice) string {
	return fmt.Sprintf("%s (%.2f%%)", s.Label, s.Share)
}

func pieTitle(p emissions.PiePair) string {
	return fmt.Sprintf("%s vs %s, %d", p.Slices[0].Label, p.Slices[1].Label, p.Year)
}

func (e *Engine) refreshPies(size int) {
	if e.pies != nil && e.piesRev == e.state.Revision {
		return
	}
	for _, img := range e.pies {
		img.Deallocate()
	}
	e.pies = e.pies[:0]
	for _, p := range e.state.Comparison.Pairs {
		e.pies = append(e.pies, ebiten.NewImageFromImage(pieImage(size, p)))
	}
	e.piesRev = e.state.Revision
}

func (e *Engine) drawCharts(screen *ebiten.Image) {
	if e.PanelHeight <= 0 || e.fontSource == nil {
		return
	}
	top := float64(e.MapHeight)
	margin, fontSize := 20.0, 12.0
	face := &text.GoTextFace{Source: e.fontSource, Size: fontSize}

	vector.DrawFilledRect(screen, 0, float32(top), float32(e.Width), float32(e.PanelHeight), ColorPanel, false)
	vector.StrokeLine(screen, 0, float32(top), float32(e.Width), float32(top), 1, ColorOutline, false)

	series := e.state.Comparison.Series
	if len(series) == 0 {
		op := &text.DrawOptions{}
		op.GeoM.Translate(margin, top+margin)
		op.ColorScale.Scale(1, 1, 1, 0.5)
		text.Draw(screen, "Click a country to compare", face, op)
		return
	}

	// Left half: one bar chart per selected country, stacked.
	chartW := float64(e.Width)/2 - 2*margin
	slotH := (float64(e.PanelHeight) - margin) / float64(len(series))
	for i, cs := range series {
		y := top + margin/2 + float64(i)*slotH
		e.drawBarChart(screen, cs, margin, y, chartW, slotH-margin/2, face)
	}

	// Right half: the pie pairs side by side.
	pairs := e.state.Comparison.Pairs
	if len(pairs) == 0 {
		return
	}
	areaX := float64(e.Width) / 2
	cellW := (float64(e.Width)/2 - margin) / 3
	size := int(math.Min(cellW-margin, float64(e.PanelHeight)-5*fontSize-3*margin))
	if size <= 0 {
		return
	}
	e.refreshPies(size)
	for i, p := range pairs {
		cx := areaX + float64(i)*cellW
		cy := top + margin

		op := &text.DrawOptions{}
		op.GeoM.Translate(cx, cy)
		op.ColorScale.Scale(1, 1, 1, 0.6)
		text.Draw(screen, pieTitle(p), face, op)

		iop := &ebiten.DrawImageOptions{}
		iop.GeoM.Translate(cx, cy+fontSize+margin/2)
		screen.DrawImage(e.pies[i], iop)

		ly := cy + fontSize + margin + float64(size)
		for j, s := range p.Slices {
			vector.DrawFilledRect(screen, float32(cx), float32(ly+float64(j)*(fontSize+6)), 10, 10, parseHex(s.Color), false)
			lop := &text.DrawOptions{}
			lop.GeoM.Translate(cx+15, ly+float64(j)*(fontSize+6)-2)
			lop.ColorScale.Scale(1, 1, 1, 0.8)
			text.Draw(screen, pieLabel(s), face, lop)
		}
	}
}

func (e *Engine) drawBarChart(screen *ebiten.Image, cs emissions.CountrySeries, x, y, w, h float64, face *text.GoTextFace) {
	fontSize := face.Size
	title := cs.Country.Name
	if title == "" {
		title = cs.Country.Code
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(1, 1, 1, 0.6)
	text.Draw(screen, fmt.Sprintf("%s (max %s)", title, emissions.FormatCompact(cs.Max())), face, op)

	plotY := y + fontSize + 4
	plotH := h - 2*fontSize - 8
	if plotH <= 0 {
		return
	}
	c := parseHex(cs.Color)
	for _, b := range barLayout(cs, x, plotY, w, plotH) {
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(math.Max(1, b.W)), float32(b.H), c, false)
	}
	axisY := float32(plotY + plotH)
	vector.StrokeLine(screen, float32(x), axisY, float32(x+w), axisY, 1, color.RGBA{255, 255, 255, 60}, false)

	band := w / float64(len(cs.Points))
	index := make(map[int]int, len(cs.Points))
	for i, p := range cs.Points {
		index[p.Year] = i
	}
	for _, year := range cs.TickYears() {
		label := strconv.Itoa(year)
		tw, _ := text.Measure(label, face, 0)
		tx := x + (float64(index[year])+0.5)*band - tw/2
		top := &text.DrawOptions{}
		top.GeoM.Translate(tx, plotY+plotH+2)
		top.ColorScale.Scale(1, 1, 1, 0.5)
		text.Draw(screen, label, face, top)
	}
}

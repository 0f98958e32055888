// Package mapengine renders the emissions map, its legend and the comparison
// charts with ebiten, and turns mouse and keyboard input into state events.
package mapengine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
	"github.com/sudorandom/co2-atlas/pkg/sources"
)

var (
	ColorBackground = color.RGBA{8, 10, 15, 255}
	ColorSea        = color.RGBA{16, 20, 28, 255}
	ColorOutline    = color.RGBA{36, 42, 53, 255}
	ColorPanel      = color.RGBA{0, 0, 0, 100}
)

// Session is the state source the engine renders and sends input to.
type Session interface {
	State() (emissions.State, error)
	Dispatch(emissions.Event) (emissions.State, error)
}

type Engine struct {
	Width, MapHeight, PanelHeight int
	FrameCaptureDir               string

	session Session
	logger  *zap.Logger
	shapes  []shape
	proj    Projection

	state     emissions.State
	loaded    bool
	viewEpoch uint64

	mapImage  *ebiten.Image
	mapPixels *image.RGBA
	drawnRev  uint64
	drawnView View

	pies    []*ebiten.Image
	piesRev uint64

	hover       int
	tip         *tooltip
	drag        dragState
	captureNext bool

	fontSource *text.GoTextFaceSource
	monoSource *text.GoTextFaceSource
}

type tooltip struct {
	shape int
	text  string
	x, y  float64
}

func NewEngine(width, mapHeight, panelHeight int, features []sources.Feature, session Session, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, _ := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	m, _ := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	return &Engine{
		Width:       width,
		MapHeight:   mapHeight,
		PanelHeight: panelHeight,
		session:     session,
		logger:      logger,
		shapes:      newShapes(features),
		proj:        NewProjection(width, mapHeight),
		hover:       -1,
		fontSource:  s,
		monoSource:  m,
	}
}

func (e *Engine) Layout(w, h int) (int, int) { return e.Width, e.MapHeight + e.PanelHeight }

func (e *Engine) Update() error {
	st, err := e.session.State()
	if err != nil {
		return nil
	}
	e.state, e.loaded = st, true
	if st.ViewEpoch != e.viewEpoch {
		e.viewEpoch = st.ViewEpoch
		e.proj.View = Identity
	}
	e.handleKeys()
	e.handleMouse()
	return nil
}

func (e *Engine) dispatch(ev emissions.Event) {
	st, err := e.session.Dispatch(ev)
	if err != nil {
		e.logger.Warn("dispatch failed", zap.String("event", emissions.EventName(ev)), zap.Error(err))
		return
	}
	e.state = st
}

func (e *Engine) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)
	if !e.loaded {
		e.drawCentered(screen, "Loading...")
		return
	}
	e.refreshMap()
	screen.DrawImage(e.mapImage, nil)

	e.drawHeader(screen)
	e.drawLegend(screen)
	e.drawTooltip(screen)
	e.drawCharts(screen)

	if e.captureNext {
		e.captureNext = false
		e.captureFrame(screen, e.state.Year)
	}
}

// refreshMap repaints the map when the state or the view has changed since
// the last paint.
func (e *Engine) refreshMap() {
	if e.mapImage != nil && e.drawnRev == e.state.Revision && e.drawnView == e.proj.View {
		return
	}
	if e.mapImage == nil {
		e.mapImage = ebiten.NewImage(e.Width, e.MapHeight)
	}
	e.mapPixels = paintMap(e.proj, e.shapes, e.state)
	e.mapImage.WritePixels(e.mapPixels.Pix)
	e.drawnRev, e.drawnView = e.state.Revision, e.proj.View
}

// fillColor is the choropleth color of code in st.
func fillColor(st emissions.State, code string) color.RGBA {
	return st.Scale.Color(st.Snapshot.Value(code))
}

// paintMap rasterizes every shape with its fill color and outlines the
// selected countries in their chart color.
func paintMap(proj Projection, shapes []shape, st emissions.State) *image.RGBA {
	r := newRaster(proj)
	r.clear(ColorSea)
	for _, s := range shapes {
		c := fillColor(st, s.ID)
		for _, poly := range s.Polygons {
			r.fillPolygon(poly, c)
		}
	}
	var selected []int
	for i, s := range shapes {
		if st.Selection.Contains(s.ID) {
			selected = append(selected, i)
			continue
		}
		r.strokeShape(s, ColorOutline)
	}
	for _, i := range selected {
		r.strokeShape(shapes[i], paletteColor(st.Selection.Index(shapes[i].ID)))
	}
	return r.img
}

func paletteColor(i int) color.RGBA {
	return parseHex(emissions.Category10[i%len(emissions.Category10)])
}

func parseHex(s string) color.RGBA {
	c := color.RGBA{A: 255}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return emissions.NoDataColor
	}
	return c
}

package mapengine

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

const (
	wheelZoomStep = 1.2
	// Presses that move less than this many pixels are clicks.
	clickSlop = 3.0
)

type dragState struct {
	active         bool
	moved          bool
	startX, startY int
	lastX, lastY   int
}

func (e *Engine) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		e.dispatch(emissions.SetYear{Year: e.state.Year - 1})
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		e.dispatch(emissions.SetYear{Year: e.state.Year + 1})
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		e.dispatch(emissions.TogglePlay{})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		e.dispatch(emissions.Recenter{})
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		e.captureNext = true
	}
}

func (e *Engine) inMap(x, y int) bool {
	return x >= 0 && x < e.Width && y >= 0 && y < e.MapHeight
}

func (e *Engine) handleMouse() {
	x, y := ebiten.CursorPosition()

	e.hover = -1
	if e.inMap(x, y) {
		e.hover = e.shapeAt(float64(x), float64(y))
	}
	if e.tip != nil && e.tip.shape != e.hover {
		e.tip = nil
	}

	if _, wy := ebiten.Wheel(); wy != 0 && e.inMap(x, y) {
		e.proj.View = e.proj.View.ZoomAt(math.Pow(wheelZoomStep, wy), float64(x), float64(y))
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && e.inMap(x, y) {
		e.drag = dragState{active: true, startX: x, startY: y, lastX: x, lastY: y}
	}
	if e.drag.active && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if math.Hypot(float64(x-e.drag.startX), float64(y-e.drag.startY)) > clickSlop {
			e.drag.moved = true
		}
		if e.drag.moved {
			e.proj.View = e.proj.View.Pan(float64(x-e.drag.lastX), float64(y-e.drag.lastY))
		}
		e.drag.lastX, e.drag.lastY = x, y
	}
	if e.drag.active && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if !e.drag.moved {
			e.click(x, y)
		}
		e.drag = dragState{}
	}
}

func (e *Engine) shapeAt(x, y float64) int {
	lng, lat := e.proj.Unproject(x, y)
	return hitTest(e.shapes, lng, lat)
}

// click selects the country under the cursor and shows its tooltip.
func (e *Engine) click(x, y int) {
	i := e.shapeAt(float64(x), float64(y))
	if i < 0 {
		return
	}
	s := e.shapes[i]
	e.dispatch(emissions.SelectCountry{Code: s.ID, Name: s.Name})
	e.tip = &tooltip{
		shape: i,
		text:  emissions.TooltipText(s.Name, e.state.Snapshot.Value(s.ID)),
		x:     float64(x) + 5,
		y:     float64(y) - 28,
	}
}

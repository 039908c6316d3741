// Package render draws engine snapshots onto a tcell screen
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// hudRows is the space reserved at the bottom of the screen
const hudRows = 3

// Overlay carries host state that is not part of the simulation
type Overlay struct {
	Paused    bool
	Muted     bool
	Autopilot bool
	// Message is a transient line shown in the HUD
	Message string
}

// Renderer handles all terminal rendering
type Renderer struct {
	screen tcell.Screen
	halfW  float64
	halfH  float64
	view   Viewport
}

// NewRenderer creates a renderer showing the world region [-halfW, halfW] x [-halfH, halfH]
func NewRenderer(screen tcell.Screen, halfW, halfH float64) *Renderer {
	r := &Renderer{screen: screen, halfW: halfW, halfH: halfH}
	r.Resize()
	return r
}

// Resize recomputes the viewport from the current screen size
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	viewH := h - hudRows
	if viewH < 1 {
		viewH = 1
	}
	r.view = NewViewport(0, 0, w, viewH, r.halfW, r.halfH)
}

// Viewport returns the current world-to-screen mapping
func (r *Renderer) Viewport() Viewport { return r.view }

// RenderFrame renders the entire frame and shows it
func (r *Renderer) RenderFrame(snap engine.Snapshot, ov Overlay) {
	bg := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', bg)

	r.drawOrbit(snap, bg)
	r.drawObstacles(snap, bg)
	r.drawPlayer(snap, bg)
	r.drawHUD(snap, ov, bg)

	r.screen.Show()
}

// drawOrbit samples the ring densely enough that adjacent samples share or touch cells
func (r *Renderer) drawOrbit(snap engine.Snapshot, bg tcell.Style) {
	if snap.OrbitRadius <= 0 {
		return
	}
	step := vmath.RadToDeg(r.view.UnitsPerCell() / 2 / snap.OrbitRadius)
	if step <= 0 || step > 5 {
		step = 5
	}

	var blocked []engine.ObstacleView
	for _, o := range snap.Obstacles {
		if o.Blocking {
			blocked = append(blocked, o)
		}
	}

	for a := 0.0; a < 360; a += step {
		p := vmath.PointOnCircle(a, snap.OrbitRadius)
		sx, sy, ok := r.view.WorldToScreen(p)
		if !ok {
			continue
		}
		color := RgbOrbit
		for _, o := range blocked {
			if vmath.Distance(p, o.Position) <= o.Radius+o.Length/2 {
				color = RgbOrbitBand
				break
			}
		}
		r.screen.SetContent(sx, sy, '·', nil, bg.Foreground(color))
	}
}

func (r *Renderer) drawObstacles(snap engine.Snapshot, bg tcell.Style) {
	for _, o := range snap.Obstacles {
		ch, color := familyStyle(o.Family, o.Forced)
		style := bg.Foreground(color)

		switch o.Family {
		case "barrier":
			half := vmath.FromAngle(o.Rotation).Scale(o.Length / 2)
			r.drawSegment(o.Position.Sub(half), o.Position.Add(half), ch, style)
		case "gate":
			half := vmath.FromAngle(o.Rotation).Scale(o.Length / 2)
			r.drawDisc(o.Position.Add(half), o.Radius, ch, style)
			r.drawDisc(o.Position.Sub(half), o.Radius, ch, style)
		default:
			r.drawDisc(o.Position, o.Radius, ch, style)
		}
	}
}

func (r *Renderer) drawPlayer(snap engine.Snapshot, bg tcell.Style) {
	color := RgbPlayer
	switch {
	case snap.Over:
		color = RgbPlayerDead
	case snap.Player.Invulnerable:
		color = RgbPlayerGrace
	}
	sx, sy, ok := r.view.WorldToScreen(snap.Player.Position)
	if !ok {
		return
	}
	ch := '@'
	if snap.Over {
		ch = 'X'
	}
	r.screen.SetContent(sx, sy, ch, nil, bg.Foreground(color).Bold(true))
}

// drawDisc fills every cell whose center lies inside the circle; small circles get one glyph
func (r *Renderer) drawDisc(center vmath.Vec2, radius float64, ch rune, style tcell.Style) {
	cx, cy, _ := r.view.WorldToScreen(center)
	cols := int(math.Floor(radius * r.view.ColsPerUnit))
	rows := int(math.Floor(radius * r.view.ColsPerUnit / cellAspect))
	if cols < 1 && rows < 1 {
		r.set(cx, cy, ch, style)
		return
	}
	for dy := -rows; dy <= rows; dy++ {
		for dx := -cols; dx <= cols; dx++ {
			nx := float64(dx) / math.Max(float64(cols), 1)
			ny := float64(dy) / math.Max(float64(rows), 1)
			if nx*nx+ny*ny <= 1 {
				r.set(cx+dx, cy+dy, ch, style)
			}
		}
	}
}

func (r *Renderer) drawSegment(a, b vmath.Vec2, ch rune, style tcell.Style) {
	length := vmath.Distance(a, b)
	n := int(math.Ceil(length/(r.view.UnitsPerCell()/2))) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		p := vmath.Vec2{X: vmath.Lerp(a.X, b.X, t), Y: vmath.Lerp(a.Y, b.Y, t)}
		sx, sy, _ := r.view.WorldToScreen(p)
		r.set(sx, sy, ch, style)
	}
}

// set writes one cell if it lies inside the viewport
func (r *Renderer) set(sx, sy int, ch rune, style tcell.Style) {
	v := r.view
	if sx < v.X || sx >= v.X+v.Width || sy < v.Y || sy >= v.Y+v.Height {
		return
	}
	r.screen.SetContent(sx, sy, ch, nil, style)
}
